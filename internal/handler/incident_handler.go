package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/roadwatch/highway-incident-api/internal/models"
	"github.com/roadwatch/highway-incident-api/internal/service"
	appErrors "github.com/roadwatch/highway-incident-api/pkg/errors"
	"github.com/roadwatch/highway-incident-api/pkg/response"
)

type incidentService interface {
	Report(ctx context.Context, reporter *models.User, req models.ReportIncidentRequest, photo *service.PhotoUpload) (*models.IncidentDetail, error)
	List(ctx context.Context, caller *models.User, filter models.IncidentFilter) ([]models.IncidentDetail, error)
	Get(ctx context.Context, id string) (*models.IncidentDetail, error)
	Stats(ctx context.Context) (*models.IncidentStats, error)
}

// IncidentHandler handles incident reporting and query endpoints.
type IncidentHandler struct {
	service       incidentService
	maxPhotoBytes int64
}

// NewIncidentHandler creates a new incident handler.
func NewIncidentHandler(svc incidentService, maxPhotoBytes int64) *IncidentHandler {
	return &IncidentHandler{service: svc, maxPhotoBytes: maxPhotoBytes}
}

// Report godoc
// @Summary Report a new incident
// @Tags Incidents
// @Accept multipart/form-data
// @Produce json
// @Param type formData string true "Incident type"
// @Param severity formData string true "Severity"
// @Param description formData string true "Description"
// @Param lat formData number true "Latitude"
// @Param lng formData number true "Longitude"
// @Param highway formData string true "Highway code"
// @Param km formData number true "KM mark"
// @Param landmark formData string false "Landmark"
// @Param photo formData file false "Photo"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /incidents [post]
func (h *IncidentHandler) Report(c *gin.Context) {
	user := userFromContext(c)
	if user == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.ReportIncidentRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid incident payload"))
		return
	}

	var photo *service.PhotoUpload
	if header, err := c.FormFile("photo"); err == nil && header != nil {
		if h.maxPhotoBytes > 0 && header.Size > h.maxPhotoBytes {
			response.Error(c, appErrors.Validation(map[string]string{"photo": "Photo exceeds the maximum allowed size"}))
			return
		}
		file, err := header.Open()
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read uploaded photo"))
			return
		}
		defer file.Close() //nolint:errcheck
		photo = &service.PhotoUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Reader:      file,
		}
	}

	detail, err := h.service.Report(c.Request.Context(), user, req, photo)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Incident reported successfully! Admin has been notified.", detail)
}

// List godoc
// @Summary List incidents, filtered and scoped by role
// @Tags Incidents
// @Produce json
// @Param status query string false "Status filter"
// @Param type query string false "Type filter"
// @Param severity query string false "Severity filter"
// @Param highway query string false "Highway filter"
// @Param startDate query string false "Created-at lower bound"
// @Param endDate query string false "Created-at upper bound"
// @Success 200 {object} response.Envelope
// @Router /incidents [get]
func (h *IncidentHandler) List(c *gin.Context) {
	user := userFromContext(c)
	if user == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	filter, err := filterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	incidents, err := h.service.List(c.Request.Context(), user, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.List(c, len(incidents), incidents)
}

// Get godoc
// @Summary Get a single incident
// @Tags Incidents
// @Produce json
// @Param id path string true "Incident ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /incidents/{id} [get]
func (h *IncidentHandler) Get(c *gin.Context) {
	detail, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "", detail)
}

// Stats godoc
// @Summary Dashboard statistics over all incidents
// @Tags Incidents
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /incidents/stats [get]
func (h *IncidentHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "", stats)
}

// filterFromQuery parses the shared list/export filter grammar.
func filterFromQuery(c *gin.Context) (models.IncidentFilter, error) {
	filter := models.IncidentFilter{
		Status:   c.Query("status"),
		Type:     c.Query("type"),
		Severity: c.Query("severity"),
		Highway:  c.Query("highway"),
	}

	start, err := parseDateParam(c.Query("startDate"))
	if err != nil {
		return filter, appErrors.Validation(map[string]string{"startDate": "Invalid start date"})
	}
	filter.StartDate = start

	end, err := parseDateParam(c.Query("endDate"))
	if err != nil {
		return filter, appErrors.Validation(map[string]string{"endDate": "Invalid end date"})
	}
	filter.EndDate = end

	return filter, nil
}

func parseDateParam(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return &ts, nil
	}
	ts, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}
