package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/roadwatch/highway-incident-api/internal/models"
)

const incidentDetailColumns = `i.id, i.reported_by, i.type, i.severity, i.description,
	i.lat AS "location.lat", i.lng AS "location.lng", i.highway AS "location.highway",
	i.km AS "location.km", i.landmark AS "location.landmark",
	i.photo, i.status, i.assigned_team, i.admin_notes, i.resolved_at, i.created_at, i.updated_at,
	u.id AS "reporter.id", u.name AS "reporter.name", u.employee_id AS "reporter.employee_id",
	u.phone AS "reporter.phone", u.highway AS "reporter.highway"`

// IncidentRepository provides database access for incident records.
type IncidentRepository struct {
	db *sqlx.DB
}

// NewIncidentRepository creates a new instance of IncidentRepository.
func NewIncidentRepository(db *sqlx.DB) *IncidentRepository {
	return &IncidentRepository{db: db}
}

// Create inserts a new incident.
func (r *IncidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	if incident.ID == "" {
		incident.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if incident.CreatedAt.IsZero() {
		incident.CreatedAt = now
	}
	incident.UpdatedAt = now

	const query = `INSERT INTO incidents (id, reported_by, type, severity, description, lat, lng, highway, km, landmark, photo, status, assigned_team, admin_notes, resolved_at, created_at, updated_at)
		VALUES (:id, :reported_by, :type, :severity, :description, :location.lat, :location.lng, :location.highway, :location.km, :location.landmark, :photo, :status, :assigned_team, :admin_notes, :resolved_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, incident); err != nil {
		return fmt.Errorf("create incident: %w", err)
	}
	return nil
}

// FindByID returns an incident joined with its reporter profile.
func (r *IncidentRepository) FindByID(ctx context.Context, id string) (*models.IncidentDetail, error) {
	const query = `SELECT ` + incidentDetailColumns + `
		FROM incidents i JOIN users u ON u.id = i.reported_by
		WHERE i.id = $1 LIMIT 1`
	var detail models.IncidentDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find incident by id: %w", err)
	}
	return &detail, nil
}

// List returns filtered incidents with reporter profiles, newest first.
// Date bounds apply to created_at inclusively.
func (r *IncidentRepository) List(ctx context.Context, filter models.IncidentFilter) ([]models.IncidentDetail, error) {
	baseQuery := `SELECT ` + incidentDetailColumns + `
		FROM incidents i JOIN users u ON u.id = i.reported_by
		WHERE 1=1`

	var conditions []string
	var args []interface{}

	if filter.ReporterID != "" {
		conditions = append(conditions, fmt.Sprintf("i.reported_by = $%d", len(args)+1))
		args = append(args, filter.ReporterID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("i.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Type != "" {
		conditions = append(conditions, fmt.Sprintf("i.type = $%d", len(args)+1))
		args = append(args, filter.Type)
	}
	if filter.Severity != "" {
		conditions = append(conditions, fmt.Sprintf("i.severity = $%d", len(args)+1))
		args = append(args, filter.Severity)
	}
	if filter.Highway != "" {
		conditions = append(conditions, fmt.Sprintf("i.highway = $%d", len(args)+1))
		args = append(args, filter.Highway)
	}
	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("i.created_at >= $%d", len(args)+1))
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("i.created_at <= $%d", len(args)+1))
		args = append(args, *filter.EndDate)
	}

	query := baseQuery
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY i.created_at DESC"

	var incidents []models.IncidentDetail
	if err := r.db.SelectContext(ctx, &incidents, query, args...); err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}
	return incidents, nil
}

// Update persists the mutable admin fields of an incident.
func (r *IncidentRepository) Update(ctx context.Context, incident *models.Incident) error {
	incident.UpdatedAt = time.Now().UTC()
	const query = `UPDATE incidents SET status = :status, assigned_team = :assigned_team, admin_notes = :admin_notes, resolved_at = :resolved_at, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, incident); err != nil {
		return fmt.Errorf("update incident: %w", err)
	}
	return nil
}

// Delete removes an incident. sql.ErrNoRows is returned when nothing matched.
func (r *IncidentRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM incidents WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete incident: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete incident rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type statusCounts struct {
	Total    int `db:"total"`
	Pending  int `db:"pending"`
	Resolved int `db:"resolved"`
	Critical int `db:"critical"`
}

// Stats aggregates the full unscoped incident set. The trailing-days window
// starts at the provided cutoff.
func (r *IncidentRepository) Stats(ctx context.Context, last7Cutoff time.Time) (*models.IncidentStats, error) {
	const countsQuery = `SELECT COUNT(*) AS total,
		COUNT(*) FILTER (WHERE status = 'Pending') AS pending,
		COUNT(*) FILTER (WHERE status = 'Resolved') AS resolved,
		COUNT(*) FILTER (WHERE severity = 'Critical') AS critical
		FROM incidents`
	var counts statusCounts
	if err := r.db.GetContext(ctx, &counts, countsQuery); err != nil {
		return nil, fmt.Errorf("incident status counts: %w", err)
	}

	const byTypeQuery = `SELECT type, COUNT(*) AS count FROM incidents GROUP BY type`
	var byType []models.TypeCount
	if err := r.db.SelectContext(ctx, &byType, byTypeQuery); err != nil {
		return nil, fmt.Errorf("incident counts by type: %w", err)
	}

	const byHighwayQuery = `SELECT highway, COUNT(*) AS count FROM incidents GROUP BY highway ORDER BY count DESC`
	var byHighway []models.HighwayCount
	if err := r.db.SelectContext(ctx, &byHighway, byHighwayQuery); err != nil {
		return nil, fmt.Errorf("incident counts by highway: %w", err)
	}

	const last7Query = `SELECT to_char(created_at, 'YYYY-MM-DD') AS day, COUNT(*) AS count
		FROM incidents WHERE created_at >= $1 GROUP BY day ORDER BY day ASC`
	var last7 []models.DayCount
	if err := r.db.SelectContext(ctx, &last7, last7Query, last7Cutoff); err != nil {
		return nil, fmt.Errorf("incident counts by day: %w", err)
	}

	return &models.IncidentStats{
		TotalIncidents:    counts.Total,
		PendingIncidents:  counts.Pending,
		ResolvedIncidents: counts.Resolved,
		CriticalIncidents: counts.Critical,
		ByType:            byType,
		ByHighway:         byHighway,
		Last7Days:         last7,
	}, nil
}
