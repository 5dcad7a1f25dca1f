package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/roadwatch/highway-incident-api/internal/models"
	appErrors "github.com/roadwatch/highway-incident-api/pkg/errors"
)

type mockUserRepo struct {
	byID         map[string]*models.User
	byEmployeeID map[string]*models.User
	byEmail      map[string]*models.User
	byPhone      map[string]*models.User
	created      []*models.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		byID:         map[string]*models.User{},
		byEmployeeID: map[string]*models.User{},
		byEmail:      map[string]*models.User{},
		byPhone:      map[string]*models.User{},
	}
}

func (m *mockUserRepo) add(user *models.User) {
	m.byID[user.ID] = user
	m.byEmployeeID[user.EmployeeID] = user
	m.byEmail[user.Email] = user
	m.byPhone[user.Phone] = user
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := m.byID[id]; ok {
		cp := *user
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByEmployeeID(ctx context.Context, employeeID string) (*models.User, error) {
	if user, ok := m.byEmployeeID[employeeID]; ok {
		cp := *user
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := m.byEmail[email]; ok {
		cp := *user
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByPhone(ctx context.Context, phone string) (*models.User, error) {
	if user, ok := m.byPhone[phone]; ok {
		cp := *user
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = "generated"
	}
	user.CreatedAt = time.Now()
	cp := *user
	m.created = append(m.created, &cp)
	m.add(&cp)
	return nil
}

func newAuthService(repo *mockUserRepo) *AuthService {
	return NewAuthService(repo, nil, nil, AuthConfig{Secret: "test-secret", Expiration: time.Hour})
}

func validRegisterRequest() models.RegisterRequest {
	return models.RegisterRequest{
		Name:            "Ravi Kumar",
		EmployeeID:      "NHAI001",
		Email:           "ravi@nhai.gov.in",
		Phone:           "9876543210",
		Password:        "Str0ng@Pass",
		ConfirmPassword: "Str0ng@Pass",
		Role:            "staff",
		Highway:         "NH-44",
	}
}

func TestRegisterSuccess(t *testing.T) {
	repo := newMockUserRepo()
	svc := newAuthService(repo)

	resp, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)
	assert.Equal(t, "NHAI001", resp.EmployeeID)
	assert.NotEmpty(t, resp.Token)
	require.Len(t, repo.created, 1)
	assert.True(t, repo.created[0].Active)
	assert.NotEqual(t, "Str0ng@Pass", repo.created[0].PasswordHash)
}

func TestRegisterNormalizesInput(t *testing.T) {
	repo := newMockUserRepo()
	svc := newAuthService(repo)

	req := validRegisterRequest()
	req.EmployeeID = "  nhai001  "
	req.Email = "  RAVI@NHAI.GOV.IN  "

	resp, err := svc.Register(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "NHAI001", resp.EmployeeID)
	assert.Equal(t, "ravi@nhai.gov.in", resp.Email)
}

func TestRegisterCollectsAllViolations(t *testing.T) {
	svc := newAuthService(newMockUserRepo())

	req := models.RegisterRequest{
		Name:            "R4vi",
		EmployeeID:      "invalid",
		Email:           "not-an-email",
		Phone:           "12345",
		Password:        "weak",
		ConfirmPassword: "different",
		Role:            "boss",
		Highway:         "NH-44",
	}

	_, err := svc.Register(context.Background(), req)
	require.Error(t, err)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "Name must contain only alphabets and spaces", appErr.Fields["name"])
	assert.Equal(t, "Invalid Employee ID. Format: 2-5 uppercase letters + 3-6 digits. Example: NHAI001", appErr.Fields["employeeId"])
	assert.Equal(t, "Please enter a valid email address (e.g. shivam@nhai.gov.in)", appErr.Fields["email"])
	assert.Equal(t, "Enter a valid 10-digit Indian mobile number starting with 6, 7, 8, or 9", appErr.Fields["phone"])
	assert.Equal(t, "Password must be at least 8 characters long", appErr.Fields["password"])
	assert.Equal(t, "Passwords do not match. Please re-enter.", appErr.Fields["confirmPassword"])
	assert.Equal(t, "Role must be either: staff or admin", appErr.Fields["role"])
}

func TestRegisterDuplicateEmployeeID(t *testing.T) {
	repo := newMockUserRepo()
	repo.add(&models.User{ID: "u1", EmployeeID: "NHAI001", Email: "other@nhai.gov.in", Phone: "9000000000"})
	svc := newAuthService(repo)

	_, err := svc.Register(context.Background(), validRegisterRequest())
	require.Error(t, err)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "This Employee ID is already registered", appErr.Fields["employeeId"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newMockUserRepo()
	repo.add(&models.User{ID: "u1", EmployeeID: "NHAI999", Email: "ravi@nhai.gov.in", Phone: "9000000000"})
	svc := newAuthService(repo)

	_, err := svc.Register(context.Background(), validRegisterRequest())
	require.Error(t, err)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "This email address is already registered", appErr.Fields["email"])
}

func TestRegisterDuplicatePhone(t *testing.T) {
	repo := newMockUserRepo()
	repo.add(&models.User{ID: "u1", EmployeeID: "NHAI999", Email: "other@nhai.gov.in", Phone: "9876543210"})
	svc := newAuthService(repo)

	_, err := svc.Register(context.Background(), validRegisterRequest())
	require.Error(t, err)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "This phone number is already registered", appErr.Fields["phone"])
}

func activeUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{
		ID:           "u1",
		Name:         "Ravi Kumar",
		EmployeeID:   "NHAI001",
		Email:        "ravi@nhai.gov.in",
		Phone:        "9876543210",
		PasswordHash: string(hash),
		Role:         models.RoleStaff,
		Highway:      "NH-44",
		Active:       true,
	}
}

func TestLoginSuccess(t *testing.T) {
	repo := newMockUserRepo()
	repo.add(activeUser(t, "Str0ng@Pass"))
	svc := newAuthService(repo)

	resp, err := svc.Login(context.Background(), models.LoginRequest{EmployeeID: "nhai001", Password: "Str0ng@Pass"})
	require.NoError(t, err)
	assert.Equal(t, "NHAI001", resp.EmployeeID)
	assert.NotEmpty(t, resp.Token)
}

func TestLoginUnknownEmployeeID(t *testing.T) {
	svc := newAuthService(newMockUserRepo())

	_, err := svc.Login(context.Background(), models.LoginRequest{EmployeeID: "NHAI001", Password: "whatever1"})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Invalid Employee ID or password", appErr.Message)
	assert.Equal(t, 401, appErr.Status)
}

func TestLoginWrongPasswordSameMessage(t *testing.T) {
	repo := newMockUserRepo()
	repo.add(activeUser(t, "Str0ng@Pass"))
	svc := newAuthService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{EmployeeID: "NHAI001", Password: "WrongPass1@"})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Invalid Employee ID or password", appErr.Message)
}

func TestLoginDeactivatedAccount(t *testing.T) {
	repo := newMockUserRepo()
	user := activeUser(t, "Str0ng@Pass")
	user.Active = false
	repo.add(user)
	svc := newAuthService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{EmployeeID: "NHAI001", Password: "Str0ng@Pass"})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Your account has been deactivated. Please contact your admin.", appErr.Message)
	assert.Equal(t, 401, appErr.Status)
}

func TestResolveBearerRoundTrip(t *testing.T) {
	repo := newMockUserRepo()
	repo.add(activeUser(t, "Str0ng@Pass"))
	svc := newAuthService(repo)

	resp, err := svc.Login(context.Background(), models.LoginRequest{EmployeeID: "NHAI001", Password: "Str0ng@Pass"})
	require.NoError(t, err)

	user, err := svc.ResolveBearer(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
}

func TestResolveBearerInvalidToken(t *testing.T) {
	svc := newAuthService(newMockUserRepo())

	_, err := svc.ResolveBearer(context.Background(), "not-a-token")
	require.Error(t, err)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Token invalid or expired", appErr.Message)
}

func TestResolveBearerDeactivatedUser(t *testing.T) {
	repo := newMockUserRepo()
	user := activeUser(t, "Str0ng@Pass")
	repo.add(user)
	svc := newAuthService(repo)

	resp, err := svc.Login(context.Background(), models.LoginRequest{EmployeeID: "NHAI001", Password: "Str0ng@Pass"})
	require.NoError(t, err)

	repo.byID["u1"].Active = false

	_, err = svc.ResolveBearer(context.Background(), resp.Token)
	require.Error(t, err)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "User not found or deactivated", appErr.Message)
}
