package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadwatch/highway-incident-api/internal/models"
	"github.com/roadwatch/highway-incident-api/internal/service"
	appErrors "github.com/roadwatch/highway-incident-api/pkg/errors"
)

type incidentAdminMock struct {
	updateResp *models.IncidentDetail
	updateErr  error
	deleteErr  error
	lastUpdate models.UpdateIncidentRequest
	lastID     string
}

func (m *incidentAdminMock) Update(ctx context.Context, id string, req models.UpdateIncidentRequest) (*models.IncidentDetail, error) {
	m.lastID = id
	m.lastUpdate = req
	return m.updateResp, m.updateErr
}

func (m *incidentAdminMock) Delete(ctx context.Context, id string) error {
	m.lastID = id
	return m.deleteErr
}

type userAdminMock struct {
	listResp   []models.User
	listErr    error
	toggleResp bool
	toggleErr  error
	lastID     string
}

func (m *userAdminMock) List(ctx context.Context) ([]models.User, error) {
	return m.listResp, m.listErr
}

func (m *userAdminMock) ToggleActive(ctx context.Context, id string) (bool, error) {
	m.lastID = id
	return m.toggleResp, m.toggleErr
}

type exportMock struct {
	resp       *service.ExportFile
	err        error
	lastFormat string
	lastFilter models.IncidentFilter
}

func (m *exportMock) BuildReport(ctx context.Context, filter models.IncidentFilter, format string) (*service.ExportFile, error) {
	m.lastFilter = filter
	m.lastFormat = format
	return m.resp, m.err
}

func newAdminContext(t *testing.T, method, target string, body []byte) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader(body)
	}
	req, _ := http.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return w, c
}

func TestAdminHandlerUpdateIncident(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &incidentAdminMock{updateResp: sampleDetail()}
	handler := NewAdminHandler(mockSvc, &userAdminMock{}, &exportMock{})

	w, c := newAdminContext(t, http.MethodPut, "/admin/incidents/i1", []byte(`{"status":"Resolved","assignedTeam":"Team A"}`))
	c.Params = gin.Params{{Key: "id", Value: "i1"}}

	handler.UpdateIncident(c)

	require.Equal(t, http.StatusOK, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.Equal(t, "Incident updated successfully", envelope["message"])
	assert.Equal(t, "i1", mockSvc.lastID)
	require.NotNil(t, mockSvc.lastUpdate.Status)
	assert.Equal(t, models.StatusResolved, *mockSvc.lastUpdate.Status)
	require.NotNil(t, mockSvc.lastUpdate.AssignedTeam)
	assert.Equal(t, "Team A", *mockSvc.lastUpdate.AssignedTeam)
	assert.Nil(t, mockSvc.lastUpdate.AdminNotes)
}

func TestAdminHandlerUpdateIncidentNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &incidentAdminMock{updateErr: appErrors.Clone(appErrors.ErrNotFound, "Incident not found")}
	handler := NewAdminHandler(mockSvc, &userAdminMock{}, &exportMock{})

	w, c := newAdminContext(t, http.MethodPut, "/admin/incidents/missing", []byte(`{}`))
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.UpdateIncident(c)

	require.Equal(t, http.StatusNotFound, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.Equal(t, "Incident not found", envelope["message"])
}

func TestAdminHandlerDeleteIncident(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &incidentAdminMock{}
	handler := NewAdminHandler(mockSvc, &userAdminMock{}, &exportMock{})

	w, c := newAdminContext(t, http.MethodDelete, "/admin/incidents/i1", nil)
	c.Params = gin.Params{{Key: "id", Value: "i1"}}

	handler.DeleteIncident(c)

	require.Equal(t, http.StatusOK, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.Equal(t, "Incident deleted successfully", envelope["message"])
	assert.Equal(t, "i1", mockSvc.lastID)
}

func TestAdminHandlerExportIncidents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockExport := &exportMock{resp: &service.ExportFile{
		Filename:    "incidents-20260901-080000.csv",
		ContentType: "text/csv",
		Data:        []byte("Reported,Type\n"),
	}}
	handler := NewAdminHandler(&incidentAdminMock{}, &userAdminMock{}, mockExport)

	w, c := newAdminContext(t, http.MethodGet, "/admin/incidents/export?format=csv&status=Resolved", nil)

	handler.ExportIncidents(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "incidents-20260901-080000.csv")
	assert.Equal(t, "csv", mockExport.lastFormat)
	assert.Equal(t, "Resolved", mockExport.lastFilter.Status)
}

func TestAdminHandlerListUsers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockUsers := &userAdminMock{listResp: []models.User{
		{ID: "u1", Name: "Ravi Kumar", PasswordHash: "secret"},
		{ID: "u2", Name: "Priya Singh"},
	}}
	handler := NewAdminHandler(&incidentAdminMock{}, mockUsers, &exportMock{})

	w, c := newAdminContext(t, http.MethodGet, "/admin/users", nil)

	handler.ListUsers(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "secret")
	envelope := decodeEnvelope(t, w)
	assert.Equal(t, float64(2), envelope["count"])
}

func TestAdminHandlerToggleUserDeactivated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockUsers := &userAdminMock{toggleResp: false}
	handler := NewAdminHandler(&incidentAdminMock{}, mockUsers, &exportMock{})

	w, c := newAdminContext(t, http.MethodPut, "/admin/users/u1", nil)
	c.Params = gin.Params{{Key: "id", Value: "u1"}}

	handler.ToggleUser(c)

	require.Equal(t, http.StatusOK, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.Equal(t, "User deactivated successfully", envelope["message"])
	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, false, data["isActive"])
}

func TestAdminHandlerToggleUserActivated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockUsers := &userAdminMock{toggleResp: true}
	handler := NewAdminHandler(&incidentAdminMock{}, mockUsers, &exportMock{})

	w, c := newAdminContext(t, http.MethodPut, "/admin/users/u1", nil)
	c.Params = gin.Params{{Key: "id", Value: "u1"}}

	handler.ToggleUser(c)

	require.Equal(t, http.StatusOK, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.Equal(t, "User activated successfully", envelope["message"])
}
