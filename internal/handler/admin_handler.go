package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roadwatch/highway-incident-api/internal/models"
	"github.com/roadwatch/highway-incident-api/internal/service"
	appErrors "github.com/roadwatch/highway-incident-api/pkg/errors"
	"github.com/roadwatch/highway-incident-api/pkg/response"
)

type incidentAdminService interface {
	Update(ctx context.Context, id string, req models.UpdateIncidentRequest) (*models.IncidentDetail, error)
	Delete(ctx context.Context, id string) error
}

type userAdminService interface {
	List(ctx context.Context) ([]models.User, error)
	ToggleActive(ctx context.Context, id string) (bool, error)
}

type exportService interface {
	BuildReport(ctx context.Context, filter models.IncidentFilter, format string) (*service.ExportFile, error)
}

// AdminHandler handles the admin-only incident and user endpoints.
type AdminHandler struct {
	incidents incidentAdminService
	users     userAdminService
	exports   exportService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(incidents incidentAdminService, users userAdminService, exports exportService) *AdminHandler {
	return &AdminHandler{incidents: incidents, users: users, exports: exports}
}

// UpdateIncident godoc
// @Summary Update incident status, team or notes
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Incident ID"
// @Param payload body models.UpdateIncidentRequest true "Partial update"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/incidents/{id} [put]
func (h *AdminHandler) UpdateIncident(c *gin.Context) {
	var req models.UpdateIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid update payload"))
		return
	}

	detail, err := h.incidents.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Incident updated successfully", detail)
}

// DeleteIncident godoc
// @Summary Delete an incident
// @Tags Admin
// @Produce json
// @Param id path string true "Incident ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/incidents/{id} [delete]
func (h *AdminHandler) DeleteIncident(c *gin.Context) {
	if err := h.incidents.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Incident deleted successfully", nil)
}

// ExportIncidents godoc
// @Summary Download the filtered incident list as CSV or PDF
// @Tags Admin
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf"
// @Success 200 {file} binary
// @Router /admin/incidents/export [get]
func (h *AdminHandler) ExportIncidents(c *gin.Context) {
	filter, err := filterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	file, err := h.exports.BuildReport(c.Request.Context(), filter, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// ListUsers godoc
// @Summary List all user accounts
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.List(c, len(users), users)
}

// ToggleUser godoc
// @Summary Activate or deactivate a user
// @Tags Admin
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/users/{id} [put]
func (h *AdminHandler) ToggleUser(c *gin.Context) {
	active, err := h.users.ToggleActive(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	state := "deactivated"
	if active {
		state = "activated"
	}
	response.OK(c, fmt.Sprintf("User %s successfully", state), gin.H{"isActive": active})
}
