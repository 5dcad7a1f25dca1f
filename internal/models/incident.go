package models

import "time"

// IncidentType categorises the reported hazard.
type IncidentType string

const (
	IncidentAccident    IncidentType = "Accident"
	IncidentPothole     IncidentType = "Pothole"
	IncidentBreakdown   IncidentType = "Breakdown"
	IncidentObstruction IncidentType = "Obstruction"
	IncidentFire        IncidentType = "Fire"
	IncidentFlood       IncidentType = "Flood"
	IncidentOther       IncidentType = "Other"
)

// IncidentSeverity is a fixed category independent of status.
type IncidentSeverity string

const (
	SeverityLow      IncidentSeverity = "Low"
	SeverityMedium   IncidentSeverity = "Medium"
	SeverityHigh     IncidentSeverity = "High"
	SeverityCritical IncidentSeverity = "Critical"
)

// IncidentStatus is the workflow stage: Pending → Assigned → In Progress → Resolved.
type IncidentStatus string

const (
	StatusPending    IncidentStatus = "Pending"
	StatusAssigned   IncidentStatus = "Assigned"
	StatusInProgress IncidentStatus = "In Progress"
	StatusResolved   IncidentStatus = "Resolved"
)

// Location pins an incident on a highway.
type Location struct {
	Lat      float64 `db:"lat" json:"lat"`
	Lng      float64 `db:"lng" json:"lng"`
	Highway  string  `db:"highway" json:"highway"`
	Km       float64 `db:"km" json:"km"`
	Landmark string  `db:"landmark" json:"landmark"`
}

// Incident is a reported highway hazard with a resolution lifecycle.
// ReportedBy never changes after creation; ResolvedAt is stamped exactly
// once, the first time status reaches Resolved.
type Incident struct {
	ID           string           `db:"id" json:"id"`
	ReportedBy   string           `db:"reported_by" json:"reportedBy"`
	Type         IncidentType     `db:"type" json:"type"`
	Severity     IncidentSeverity `db:"severity" json:"severity"`
	Description  string           `db:"description" json:"description"`
	Location     Location         `db:"location" json:"location"`
	Photo        string           `db:"photo" json:"photo"`
	Status       IncidentStatus   `db:"status" json:"status"`
	AssignedTeam string           `db:"assigned_team" json:"assignedTeam"`
	AdminNotes   string           `db:"admin_notes" json:"adminNotes"`
	ResolvedAt   *time.Time       `db:"resolved_at" json:"resolvedAt"`
	CreatedAt    time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time        `db:"updated_at" json:"updatedAt"`
}

// Reporter is the projection of the reporting user joined into incident reads.
type Reporter struct {
	ID         string `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	EmployeeID string `db:"employee_id" json:"employeeId"`
	Phone      string `db:"phone" json:"phone"`
	Highway    string `db:"highway" json:"highway"`
}

// IncidentDetail is an incident with its reporter profile joined in.
type IncidentDetail struct {
	Incident
	Reporter Reporter `db:"reporter" json:"reporter"`
}

// ReportIncidentRequest is the multipart form payload for creating an
// incident. Coordinates and km are kept as the raw form strings so a
// non-numeric value comes back as a field error rather than a bind failure.
type ReportIncidentRequest struct {
	Type        string `form:"type" json:"type" validate:"required,oneof=Accident Pothole Breakdown Obstruction Fire Flood Other"`
	Severity    string `form:"severity" json:"severity" validate:"required,oneof=Low Medium High Critical"`
	Description string `form:"description" json:"description" validate:"required,min=10,max=500"`
	Lat         string `form:"lat" json:"lat" validate:"required,latitude"`
	Lng         string `form:"lng" json:"lng" validate:"required,longitude"`
	Highway     string `form:"highway" json:"highway" validate:"required"`
	Km          string `form:"km" json:"km" validate:"required,kmmark"`
	Landmark    string `form:"landmark" json:"landmark"`
}

// ReportMessages maps incident creation validation failures to user-facing text.
var ReportMessages = map[string]string{
	"type.required":        "Incident type is required",
	"type.oneof":           "Invalid type. Must be one of: Accident, Pothole, Breakdown, Obstruction, Fire, Flood, Other",
	"severity.required":    "Severity level is required",
	"severity.oneof":       "Invalid severity. Must be one of: Low, Medium, High, Critical",
	"description.required": "Incident description is required",
	"description.min":      "Description must be at least 10 characters",
	"description.max":      "Description must not exceed 500 characters",
	"lat.required":         "Latitude is required. Use Auto GPS or enter manually.",
	"lat.latitude":         "Invalid latitude value",
	"lng.required":         "Longitude is required. Use Auto GPS or enter manually.",
	"lng.longitude":        "Invalid longitude value",
	"highway.required":     "Highway name is required",
	"km.required":          "KM mark is required",
	"km.kmmark":            "Enter a valid KM mark (e.g. 342)",
}

// UpdateIncidentRequest carries the admin's partial update. Nil fields are
// left untouched; an explicit empty string clears assignedTeam/adminNotes.
type UpdateIncidentRequest struct {
	Status       *IncidentStatus `json:"status" validate:"omitempty,oneof=Pending Assigned 'In Progress' Resolved"`
	AssignedTeam *string         `json:"assignedTeam"`
	AdminNotes   *string         `json:"adminNotes"`
}

// IncidentFilter captures the query grammar of the list endpoint.
// ReporterID is forced onto staff callers by the service.
type IncidentFilter struct {
	Status     string
	Type       string
	Severity   string
	Highway    string
	StartDate  *time.Time
	EndDate    *time.Time
	ReporterID string
}
