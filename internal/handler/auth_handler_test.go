package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadwatch/highway-incident-api/internal/middleware"
	"github.com/roadwatch/highway-incident-api/internal/models"
	appErrors "github.com/roadwatch/highway-incident-api/pkg/errors"
)

type authServiceMock struct {
	registerResp *models.AuthResponse
	registerErr  error
	loginResp    *models.AuthResponse
	loginErr     error
	lastRegister models.RegisterRequest
	lastLogin    models.LoginRequest
}

func (m *authServiceMock) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	m.lastRegister = req
	return m.registerResp, m.registerErr
}

func (m *authServiceMock) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	m.lastLogin = req
	return m.loginResp, m.loginErr
}

func authResponse(role models.UserRole) *models.AuthResponse {
	return &models.AuthResponse{
		Profile: models.Profile{ID: "u1", Name: "Ravi Kumar", EmployeeID: "NHAI001", Role: role, Highway: "NH-44"},
		Token:   "token",
	}
}

func postJSON(t *testing.T, body interface{}) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return w, c
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func TestAuthHandlerRegisterStaff(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &authServiceMock{registerResp: authResponse(models.RoleStaff)}
	handler := NewAuthHandler(mockSvc)

	w, c := postJSON(t, gin.H{"name": "Ravi Kumar", "employeeId": "NHAI001"})
	handler.Register(c)

	require.Equal(t, http.StatusCreated, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.Equal(t, true, envelope["success"])
	assert.Equal(t, "Staff registered successfully! Welcome, Ravi Kumar.", envelope["message"])
	assert.Equal(t, "NHAI001", mockSvc.lastRegister.EmployeeID)
}

func TestAuthHandlerRegisterAdminMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &authServiceMock{registerResp: authResponse(models.RoleAdmin)}
	handler := NewAuthHandler(mockSvc)

	w, c := postJSON(t, gin.H{"name": "Ravi Kumar"})
	handler.Register(c)

	require.Equal(t, http.StatusCreated, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.Equal(t, "Admin registered successfully! Welcome, Ravi Kumar.", envelope["message"])
}

func TestAuthHandlerRegisterValidationErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &authServiceMock{registerErr: appErrors.Validation(map[string]string{"email": "Email address is required"})}
	handler := NewAuthHandler(mockSvc)

	w, c := postJSON(t, gin.H{"name": "Ravi Kumar"})
	handler.Register(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.Equal(t, false, envelope["success"])
	errs := envelope["errors"].(map[string]interface{})
	assert.Equal(t, "Email address is required", errs["email"])
}

func TestAuthHandlerLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &authServiceMock{loginResp: authResponse(models.RoleStaff)}
	handler := NewAuthHandler(mockSvc)

	w, c := postJSON(t, gin.H{"employeeId": "NHAI001", "password": "Str0ng@Pass"})
	handler.Login(c)

	require.Equal(t, http.StatusOK, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.Equal(t, "Welcome back, Ravi Kumar!", envelope["message"])
	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, "token", data["token"])
}

func TestAuthHandlerLoginInvalidCredentials(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &authServiceMock{loginErr: appErrors.ErrInvalidCredentials}
	handler := NewAuthHandler(mockSvc)

	w, c := postJSON(t, gin.H{"employeeId": "NHAI001", "password": "wrong"})
	handler.Login(c)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.Equal(t, "Invalid Employee ID or password", envelope["message"])
}

func TestAuthHandlerMe(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAuthHandler(&authServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/auth/me", nil)
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.User{ID: "u1", Name: "Ravi Kumar", EmployeeID: "NHAI001", PasswordHash: "secret"})

	handler.Me(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "secret")
	envelope := decodeEnvelope(t, w)
	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, "NHAI001", data["employeeId"])
}

func TestAuthHandlerMeWithoutUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAuthHandler(&authServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/auth/me", nil)
	c.Request = req

	handler.Me(c)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}
