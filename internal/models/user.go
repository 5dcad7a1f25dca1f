package models

import "time"

// UserRole represents the two roles the reporting workflow knows.
type UserRole string

const (
	RoleStaff UserRole = "staff"
	RoleAdmin UserRole = "admin"
)

// User represents a field-staff or admin account stored in the users table.
// Role is immutable after registration; no endpoint mutates it.
type User struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	EmployeeID   string    `db:"employee_id" json:"employeeId"`
	Email        string    `db:"email" json:"email"`
	Phone        string    `db:"phone" json:"phone"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         UserRole  `db:"role" json:"role"`
	Highway      string    `db:"highway" json:"highway"`
	Active       bool      `db:"is_active" json:"isActive"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// Profile is the public projection of a user, safe to return to clients.
type Profile struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	EmployeeID string   `json:"employeeId"`
	Email      string   `json:"email"`
	Role       UserRole `json:"role"`
	Highway    string   `json:"highway"`
	Phone      string   `json:"phone"`
}

// PublicProfile projects a user onto its public fields.
func (u *User) PublicProfile() Profile {
	return Profile{
		ID:         u.ID,
		Name:       u.Name,
		EmployeeID: u.EmployeeID,
		Email:      u.Email,
		Role:       u.Role,
		Highway:    u.Highway,
		Phone:      u.Phone,
	}
}
