package models

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/roadwatch/highway-incident-api/pkg/validation"
)

// RegisterRequest holds the registration payload. Every rule is evaluated
// independently so violations are reported together, field by field.
type RegisterRequest struct {
	Name            string `json:"name" validate:"required,min=3,max=50,alphaspace"`
	EmployeeID      string `json:"employeeId" validate:"required,employeeid"`
	Email           string `json:"email" validate:"required,email,max=100"`
	Password        string `json:"password" validate:"required,min=8,strongpwd"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Role            string `json:"role" validate:"required,oneof=staff admin"`
	Highway         string `json:"highway" validate:"required,highway"`
	Phone           string `json:"phone" validate:"required,inphone"`
}

// RegisterMessages maps register validation failures to user-facing text,
// keyed "field.tag" with a "field" fallback.
var RegisterMessages = map[string]string{
	"name.required":            "Full name is required",
	"name.min":                 "Name must be at least 3 characters",
	"name.max":                 "Name must not exceed 50 characters",
	"name.alphaspace":          "Name must contain only alphabets and spaces",
	"employeeId.required":      "Employee ID is required",
	"employeeId.employeeid":    "Invalid Employee ID. Format: 2-5 uppercase letters + 3-6 digits. Example: NHAI001",
	"email.required":           "Email address is required",
	"email.email":              "Please enter a valid email address (e.g. shivam@nhai.gov.in)",
	"email.max":                "Email must not exceed 100 characters",
	"password.required":        "Password is required",
	"password.min":             "Password must be at least 8 characters long",
	"password.strongpwd":       "Password must have: 1 uppercase letter, 1 lowercase letter, 1 number & 1 special character (@$!%*?&)",
	"confirmPassword.required": "Please confirm your password",
	"confirmPassword.eqfield":  "Passwords do not match. Please re-enter.",
	"role.required":            "Role is required",
	"role.oneof":               "Role must be either: staff or admin",
	"highway.required":         "Highway assignment is required",
	"highway.highway":          "Invalid highway. Valid options: " + strings.Join(validation.ValidHighways, ", "),
	"phone.required":           "Phone number is required",
	"phone.inphone":            "Enter a valid 10-digit Indian mobile number starting with 6, 7, 8, or 9",
}

// LoginRequest authenticates a user by employee ID and password.
type LoginRequest struct {
	EmployeeID string `json:"employeeId" validate:"required,employeeid"`
	Password   string `json:"password" validate:"required"`
}

// LoginMessages maps login validation failures to user-facing text.
var LoginMessages = map[string]string{
	"employeeId.required":   "Employee ID is required",
	"employeeId.employeeid": "Invalid Employee ID format. Example: NHAI001",
	"password.required":     "Password is required",
}

// AuthResponse returns the public profile plus the issued token.
type AuthResponse struct {
	Profile
	Token string `json:"token"`
}

// JWTClaims is the access token payload. Only the user ID travels in the
// token; role and active state are resolved fresh on every request.
type JWTClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}
