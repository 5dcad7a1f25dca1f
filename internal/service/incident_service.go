package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/roadwatch/highway-incident-api/internal/models"
	appErrors "github.com/roadwatch/highway-incident-api/pkg/errors"
	"github.com/roadwatch/highway-incident-api/pkg/validation"
)

type incidentRepository interface {
	Create(ctx context.Context, incident *models.Incident) error
	FindByID(ctx context.Context, id string) (*models.IncidentDetail, error)
	List(ctx context.Context, filter models.IncidentFilter) ([]models.IncidentDetail, error)
	Update(ctx context.Context, incident *models.Incident) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, last7Cutoff time.Time) (*models.IncidentStats, error)
}

type photoStore interface {
	Save(filename, contentType string, r io.Reader) (string, error)
	Delete(url string) error
}

// PhotoUpload carries an optional incident photo into the create flow.
type PhotoUpload struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

// IncidentService implements the incident lifecycle: create, admin
// transitions, scoped queries and dashboard statistics.
type IncidentService struct {
	repo      incidentRepository
	photos    photoStore
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewIncidentService constructs an IncidentService instance.
func NewIncidentService(repo incidentRepository, photos photoStore, validate *validator.Validate, logger *zap.Logger) *IncidentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New()
	}
	return &IncidentService{repo: repo, photos: photos, validator: validate, logger: logger, now: time.Now}
}

// Report validates and persists a new incident for the calling user.
// The photo, when present, is stored before the record is written; an
// upload failure aborts the whole operation.
func (s *IncidentService) Report(ctx context.Context, reporter *models.User, req models.ReportIncidentRequest, photo *PhotoUpload) (*models.IncidentDetail, error) {
	req.Type = strings.TrimSpace(req.Type)
	req.Severity = strings.TrimSpace(req.Severity)
	req.Description = strings.TrimSpace(req.Description)
	req.Lat = strings.TrimSpace(req.Lat)
	req.Lng = strings.TrimSpace(req.Lng)
	req.Highway = strings.TrimSpace(req.Highway)
	req.Km = strings.TrimSpace(req.Km)
	req.Landmark = strings.TrimSpace(req.Landmark)

	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(validation.Fields(err, models.ReportMessages))
	}

	// Parses cannot fail after the latitude/longitude/kmmark rules passed.
	lat, _ := strconv.ParseFloat(req.Lat, 64)
	lng, _ := strconv.ParseFloat(req.Lng, 64)
	km, _ := strconv.ParseFloat(req.Km, 64)

	photoURL := ""
	if photo != nil {
		url, err := s.photos.Save(photo.Filename, photo.ContentType, photo.Reader)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store incident photo")
		}
		photoURL = url
	}

	incident := &models.Incident{
		ReportedBy:  reporter.ID,
		Type:        models.IncidentType(req.Type),
		Severity:    models.IncidentSeverity(req.Severity),
		Description: req.Description,
		Location: models.Location{
			Lat:      lat,
			Lng:      lng,
			Highway:  req.Highway,
			Km:       km,
			Landmark: req.Landmark,
		},
		Photo:  photoURL,
		Status: models.StatusPending,
	}

	if err := s.repo.Create(ctx, incident); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create incident")
	}

	detail, err := s.repo.FindByID(ctx, incident.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load created incident")
	}
	return detail, nil
}

// List returns incidents matching the filter. Staff callers are always
// restricted to their own reports, whatever filter they supply.
func (s *IncidentService) List(ctx context.Context, caller *models.User, filter models.IncidentFilter) ([]models.IncidentDetail, error) {
	if caller.Role == models.RoleStaff {
		filter.ReporterID = caller.ID
	}

	incidents, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list incidents")
	}
	if incidents == nil {
		incidents = []models.IncidentDetail{}
	}
	return incidents, nil
}

// Get returns a single incident with its reporter profile.
func (s *IncidentService) Get(ctx context.Context, id string) (*models.IncidentDetail, error) {
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Incident not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load incident")
	}
	return detail, nil
}

// Update applies an admin's partial update. Nil fields stay untouched; an
// explicit empty string clears assignedTeam/adminNotes. The first
// transition into Resolved stamps resolvedAt; later updates never clear or
// overwrite it.
func (s *IncidentService) Update(ctx context.Context, id string, req models.UpdateIncidentRequest) (*models.IncidentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(validation.Fields(err, map[string]string{
			"status.oneof": "Invalid status. Must be one of: Pending, Assigned, In Progress, Resolved",
		}))
	}

	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Incident not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load incident")
	}

	incident := detail.Incident
	if req.Status != nil {
		incident.Status = *req.Status
	}
	if req.AssignedTeam != nil {
		incident.AssignedTeam = *req.AssignedTeam
	}
	if req.AdminNotes != nil {
		incident.AdminNotes = *req.AdminNotes
	}
	if incident.Status == models.StatusResolved && incident.ResolvedAt == nil {
		ts := s.now().UTC()
		incident.ResolvedAt = &ts
	}

	if err := s.repo.Update(ctx, &incident); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update incident")
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load updated incident")
	}
	return updated, nil
}

// Delete removes an incident and its stored photo. A failed photo removal
// is logged but never fails the delete.
func (s *IncidentService) Delete(ctx context.Context, id string) error {
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Incident not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load incident")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Incident not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete incident")
	}

	if detail.Photo != "" {
		if err := s.photos.Delete(detail.Photo); err != nil {
			s.logger.Warn("failed to remove incident photo", zap.String("incident_id", id), zap.Error(err))
		}
	}
	return nil
}

// Stats computes the dashboard aggregate fresh on every call.
func (s *IncidentService) Stats(ctx context.Context) (*models.IncidentStats, error) {
	cutoff := s.now().UTC().Add(-7 * 24 * time.Hour)
	stats, err := s.repo.Stats(ctx, cutoff)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute incident stats")
	}
	if stats.ByType == nil {
		stats.ByType = []models.TypeCount{}
	}
	if stats.ByHighway == nil {
		stats.ByHighway = []models.HighwayCount{}
	}
	if stats.Last7Days == nil {
		stats.Last7Days = []models.DayCount{}
	}
	return stats, nil
}
