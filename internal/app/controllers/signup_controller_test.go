package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekurt/campusgate/internal/app/controllers"
	"github.com/ekurt/campusgate/internal/app/models/dto"
	"github.com/ekurt/campusgate/internal/app/routes"
	"github.com/ekurt/campusgate/internal/app/services"
	"github.com/ekurt/campusgate/internal/pkg/identity"
	"github.com/ekurt/campusgate/internal/pkg/profilestore"
)

func newTestRouter(provider identity.Provider, store profilestore.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := services.NewSignupService(provider, store, zerolog.Nop())
	controller := controllers.NewSignupController(svc, zerolog.Nop())

	router := gin.New()
	routes.SetupRouter(router, controller)
	return router
}

func postSignup(t *testing.T, router *gin.Engine, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/signup", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func validStudentBody() map[string]any {
	return map[string]any{
		"role":           "student",
		"username":       "student123",
		"email":          "student@example.edu",
		"password":       "Str0ng!Pass",
		"firstName":      "Ada",
		"lastName":       "Lovelace",
		"department":     "Computer Science",
		"studentId":      "STU123456",
		"enrollmentYear": 2024,
		"major":          "Computer Science",
		"academicLevel":  "junior",
	}
}

func TestSignupEndpointCreated(t *testing.T) {
	router := newTestRouter(identity.NewInMemoryProvider(), profilestore.NewInMemoryStore())

	rec := postSignup(t, router, validStudentBody())
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Timestamp)
	require.NotNil(t, resp.Data)
	assert.NotEmpty(t, resp.Data.UserID)
	assert.Equal(t, "student@example.edu", resp.Data.Email)
	assert.Equal(t, "student", resp.Data.Role)
	assert.True(t, resp.Data.RequiresConfirmation)
	assert.True(t, resp.Data.ProfileCreated)
	assert.True(t, resp.Data.GroupAssigned)
}

func TestSignupEndpointValidationError(t *testing.T) {
	router := newTestRouter(identity.NewInMemoryProvider(), profilestore.NewInMemoryStore())

	body := validStudentBody()
	delete(body, "username")
	body["email"] = "not-an-email"

	rec := postSignup(t, router, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
		Details struct {
			Errors []struct {
				Field   string `json:"field"`
				Message string `json:"message"`
			} `json:"errors"`
		} `json:"details"`
		Timestamp string `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.False(t, resp.Success)
	assert.Equal(t, "Validation failed", resp.Error)
	assert.NotEmpty(t, resp.Timestamp)
	assert.GreaterOrEqual(t, len(resp.Details.Errors), 2)
}

func TestSignupEndpointDuplicateEmail(t *testing.T) {
	provider := identity.NewInMemoryProvider()
	_, err := provider.CreateAccount(context.Background(), identity.CreateAccountInput{
		Username:   "existing",
		Attributes: map[string]string{"email": "student@example.edu"},
	})
	require.NoError(t, err)

	router := newTestRouter(provider, profilestore.NewInMemoryStore())

	rec := postSignup(t, router, validStudentBody())
	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
		Details struct {
			Field string `json:"field"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.False(t, resp.Success)
	assert.Equal(t, "User already exists", resp.Error)
	assert.Equal(t, "email", resp.Details.Field)
}

func TestSignupEndpointBusinessRuleViolation(t *testing.T) {
	router := newTestRouter(identity.NewInMemoryProvider(), profilestore.NewInMemoryStore())

	body := validStudentBody()
	body["advisorId"] = "INS9001"

	rec := postSignup(t, router, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error   string `json:"error"`
		Details struct {
			Rule string `json:"rule"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "Business rule validation failed", resp.Error)
	assert.Equal(t, "advisorId", resp.Details.Rule)
}

// blindProvider misses every lookup so account creation hits the provider's
// own uniqueness check, as a concurrent signup would.
type blindProvider struct {
	identity.Provider
}

func (p *blindProvider) FindByEmail(context.Context, string) (*identity.Account, error) {
	return nil, nil
}

func (p *blindProvider) FindByUsername(context.Context, string) (*identity.Account, error) {
	return nil, nil
}

func TestSignupEndpointProvisioningFault(t *testing.T) {
	inner := identity.NewInMemoryProvider()
	_, err := inner.CreateAccount(context.Background(), identity.CreateAccountInput{
		Username:   "student123",
		Attributes: map[string]string{"email": "other@example.edu"},
	})
	require.NoError(t, err)

	router := newTestRouter(&blindProvider{Provider: inner}, profilestore.NewInMemoryStore())

	rec := postSignup(t, router, validStudentBody())
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
		Details struct {
			Error string `json:"error"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.False(t, resp.Success)
	assert.Equal(t, "Failed to create user account", resp.Error)
	assert.Equal(t, "Username already exists", resp.Details.Error)
}

func TestSignupEndpointProfileFaultStillCreated(t *testing.T) {
	router := newTestRouter(identity.NewInMemoryProvider(), failingStore{})

	rec := postSignup(t, router, validStudentBody())
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Data)
	assert.False(t, resp.Data.ProfileCreated)
	assert.True(t, resp.Data.GroupAssigned)
}

type failingStore struct{}

func (failingStore) PutProfile(context.Context, *profilestore.Record) error {
	return errors.New("write throttled")
}
