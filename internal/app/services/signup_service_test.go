package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekurt/campusgate/internal/pkg/apperrors"
	"github.com/ekurt/campusgate/internal/pkg/identity"
	"github.com/ekurt/campusgate/internal/pkg/logger"
	"github.com/ekurt/campusgate/internal/pkg/profilestore"
)

func studentPayload(t *testing.T, overrides map[string]any) []byte {
	t.Helper()
	base := map[string]any{
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
		"gpa":            3.8,
	}
	for k, v := range overrides {
		if v == nil {
			delete(base, k)
			continue
		}
		base[k] = v
	}
	payload, err := json.Marshal(base)
	require.NoError(t, err)
	return payload
}

func instructorPayload(t *testing.T, overrides map[string]any) []byte {
	t.Helper()
	base := map[string]any{
		"role":           "instructor",
		"username":       "prof.jones",
		"email":          "jones@example.edu",
		"password":       "Str0ng!Pass",
		"firstName":      "Mary",
		"lastName":       "Jones",
		"department":     "Mathematics",
		"instructorId":   "INS9001",
		"title":          "professor",
		"hireDate":       "2019-09-01",
		"qualifications": []string{"PhD in Mathematics"},
	}
	for k, v := range overrides {
		if v == nil {
			delete(base, k)
			continue
		}
		base[k] = v
	}
	payload, err := json.Marshal(base)
	require.NoError(t, err)
	return payload
}

func newTestService() (*SignupService, *identity.InMemoryProvider, *profilestore.InMemoryStore) {
	provider := identity.NewInMemoryProvider()
	store := profilestore.NewInMemoryStore()
	return NewSignupService(provider, store, zerolog.Nop()), provider, store
}

func seedAccount(t *testing.T, provider *identity.InMemoryProvider, username string, attrs map[string]string) {
	t.Helper()
	_, err := provider.CreateAccount(context.Background(), identity.CreateAccountInput{
		Username:   username,
		Attributes: attrs,
	})
	require.NoError(t, err)
}

// failingStore rejects every profile write.
type failingStore struct{}

func (failingStore) PutProfile(context.Context, *profilestore.Record) error {
	return errors.New("write throttled")
}

// faultyProvider wraps a real provider to inject specific failures.
type faultyProvider struct {
	identity.Provider
	hideLookups bool
	lookupErr   error
	groupErr    error
}

func (p *faultyProvider) FindByEmail(ctx context.Context, email string) (*identity.Account, error) {
	if p.lookupErr != nil {
		return nil, p.lookupErr
	}
	if p.hideLookups {
		return nil, nil
	}
	return p.Provider.FindByEmail(ctx, email)
}

func (p *faultyProvider) FindByUsername(ctx context.Context, username string) (*identity.Account, error) {
	if p.lookupErr != nil {
		return nil, p.lookupErr
	}
	if p.hideLookups {
		return nil, nil
	}
	return p.Provider.FindByUsername(ctx, username)
}

func (p *faultyProvider) AddToGroup(ctx context.Context, username, group string) error {
	if p.groupErr != nil {
		return p.groupErr
	}
	return p.Provider.AddToGroup(ctx, username, group)
}

func TestSignupStudentSuccess(t *testing.T) {
	svc, provider, store := newTestService()

	result, err := svc.Signup(context.Background(), studentPayload(t, nil))
	require.NoError(t, err)
	require.NotNil(t, result)

	account := result.Account
	assert.NotEmpty(t, account.AccountID)
	assert.Equal(t, "student@example.edu", account.Email)
	assert.True(t, account.ProfileCreated)
	assert.True(t, account.GroupAssigned)
	assert.Equal(t, "Student account created successfully. Please check your email to confirm your account.", result.Message)

	attrs := provider.Attributes("student123")
	require.NotNil(t, attrs)
	assert.Equal(t, "student@example.edu", attrs["email"])
	assert.Equal(t, "STU123456", attrs["custom:student_id"])
	assert.Equal(t, "student", attrs["custom:role"])
	assert.Contains(t, attrs["custom:preferences"], `"assignmentReminders":true`)

	assert.Equal(t, []string{"students"}, provider.Groups("student123"))
	assert.True(t, provider.HasTemporaryPassword("student123"))

	rec := store.Get(account.AccountID)
	require.NotNil(t, rec)
	assert.Equal(t, profilestore.StatusPending, rec.Status)
	assert.False(t, rec.Enabled)
	assert.Equal(t, "STU123456", rec.StudentID)
}

func TestSignupInstructorSuccess(t *testing.T) {
	svc, provider, store := newTestService()

	result, err := svc.Signup(context.Background(), instructorPayload(t, map[string]any{
		"officeHours": []map[string]any{
			{"day": "monday", "startTime": "10:00", "endTime": "12:00"},
		},
		"maxStudents": 40,
	}))
	require.NoError(t, err)

	account := result.Account
	assert.True(t, account.ProfileCreated)
	assert.True(t, account.GroupAssigned)
	assert.Equal(t, "Instructor account created successfully. Please check your email to confirm your account.", result.Message)

	attrs := provider.Attributes("prof.jones")
	require.NotNil(t, attrs)
	assert.Equal(t, "INS9001", attrs["custom:instructor_id"])
	assert.Equal(t, "professor", attrs["custom:title"])
	assert.Equal(t, "40", attrs["custom:max_students"])

	assert.Equal(t, []string{"instructors"}, provider.Groups("prof.jones"))

	rec := store.Get(account.AccountID)
	require.NotNil(t, rec)
	assert.Equal(t, "instructor", rec.Role)
	require.Len(t, rec.OfficeHours, 1)
}

func TestSignupSchemaViolation(t *testing.T) {
	svc, provider, _ := newTestService()

	result, err := svc.Signup(context.Background(), studentPayload(t, map[string]any{"username": nil}))
	assert.Nil(t, result)

	var validationErr *apperrors.ValidationFailedError
	require.ErrorAs(t, err, &validationErr)
	require.NotEmpty(t, validationErr.Errors)
	assert.Equal(t, "username", validationErr.Errors[0].Field)

	// Nothing was provisioned.
	account, _ := provider.FindByUsername(context.Background(), "student123")
	assert.Nil(t, account)
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, provider, _ := newTestService()
	seedAccount(t, provider, "existing", map[string]string{"email": "student@example.edu"})

	_, err := svc.Signup(context.Background(), studentPayload(t, nil))

	var conflictErr *apperrors.ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, "email", conflictErr.Field)
}

func TestSignupDuplicateUsername(t *testing.T) {
	svc, provider, _ := newTestService()
	seedAccount(t, provider, "student123", map[string]string{"email": "other@example.edu"})

	_, err := svc.Signup(context.Background(), studentPayload(t, nil))

	var conflictErr *apperrors.ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, "username", conflictErr.Field)
}

func TestSignupDuplicateEmailWinsOverBusinessRules(t *testing.T) {
	svc, provider, _ := newTestService()
	// Same email AND same student id: the duplicate check runs first.
	seedAccount(t, provider, "existing", map[string]string{
		"email":             "student@example.edu",
		"custom:student_id": "STU123456",
	})

	_, err := svc.Signup(context.Background(), studentPayload(t, nil))

	var conflictErr *apperrors.ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, "email", conflictErr.Field)
}

func TestSignupStudentIDConflict(t *testing.T) {
	svc, provider, _ := newTestService()
	seedAccount(t, provider, "existing", map[string]string{
		"email":             "other@example.edu",
		"custom:student_id": "STU123456",
	})

	_, err := svc.Signup(context.Background(), studentPayload(t, nil))

	var ruleErr *apperrors.BusinessRuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, "studentId", ruleErr.Rule)
	assert.True(t, ruleErr.Conflict)
}

func TestSignupInstructorIDConflict(t *testing.T) {
	svc, provider, _ := newTestService()
	seedAccount(t, provider, "existing", map[string]string{
		"email":                "other@example.edu",
		"custom:instructor_id": "INS9001",
	})

	_, err := svc.Signup(context.Background(), instructorPayload(t, nil))

	var ruleErr *apperrors.BusinessRuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, "instructorId", ruleErr.Rule)
	assert.True(t, ruleErr.Conflict)
}

func TestSignupAdvisorMustExist(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Signup(context.Background(), studentPayload(t, map[string]any{"advisorId": "INS9001"}))

	var ruleErr *apperrors.BusinessRuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, "advisorId", ruleErr.Rule)
	assert.False(t, ruleErr.Conflict)
}

func TestSignupAdvisorFound(t *testing.T) {
	svc, provider, _ := newTestService()
	seedAccount(t, provider, "advisor", map[string]string{
		"email":                "advisor@example.edu",
		"custom:instructor_id": "INS9001",
	})

	result, err := svc.Signup(context.Background(), studentPayload(t, map[string]any{"advisorId": "INS9001"}))
	require.NoError(t, err)
	assert.NotEmpty(t, result.Account.AccountID)
}

func TestSignupHireDateInFuture(t *testing.T) {
	svc, _, _ := newTestService()
	future := time.Now().AddDate(0, 0, 2).Format("2006-01-02")

	_, err := svc.Signup(context.Background(), instructorPayload(t, map[string]any{"hireDate": future}))

	var ruleErr *apperrors.BusinessRuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, "hireDate", ruleErr.Rule)
}

func TestSignupHireDateTodayAcceptedEastOfUTC(t *testing.T) {
	svc, _, _ := newTestService()
	// 01:00 local on the 28th east of UTC is still the 27th in UTC; a hire
	// date of the local today must pass.
	zone := time.FixedZone("UTC+5", 5*3600)
	svc.rules.now = func() time.Time { return time.Date(2026, 8, 28, 1, 0, 0, 0, zone) }

	result, err := svc.Signup(context.Background(), instructorPayload(t, map[string]any{"hireDate": "2026-08-28"}))
	require.NoError(t, err)
	assert.NotEmpty(t, result.Account.AccountID)
}

func TestSignupHireDateTomorrowRejectedWestOfUTC(t *testing.T) {
	svc, _, _ := newTestService()
	// 21:00 local on the 27th west of UTC is already the 28th in UTC; a hire
	// date of the local tomorrow must still fail.
	zone := time.FixedZone("UTC-4", -4*3600)
	svc.rules.now = func() time.Time { return time.Date(2026, 8, 27, 21, 0, 0, 0, zone) }

	_, err := svc.Signup(context.Background(), instructorPayload(t, map[string]any{"hireDate": "2026-08-28"}))

	var ruleErr *apperrors.BusinessRuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, "hireDate", ruleErr.Rule)
}

func TestSignupUsernameRaceClassified(t *testing.T) {
	inner := identity.NewInMemoryProvider()
	seedAccount(t, inner, "student123", map[string]string{"email": "other@example.edu"})

	// Lookups miss but the provider's own uniqueness check fires on create,
	// simulating a concurrent signup winning the race.
	provider := &faultyProvider{Provider: inner, hideLookups: true}
	svc := NewSignupService(provider, profilestore.NewInMemoryStore(), zerolog.Nop())

	_, err := svc.Signup(context.Background(), studentPayload(t, nil))

	var provisioningErr *apperrors.ProvisioningError
	require.ErrorAs(t, err, &provisioningErr)
	assert.Equal(t, apperrors.ReasonUsernameExists, provisioningErr.Reason)
	assert.ErrorIs(t, err, identity.ErrUsernameExists)
}

func TestSignupLookupFaultIsNotAConflict(t *testing.T) {
	provider := &faultyProvider{
		Provider:  identity.NewInMemoryProvider(),
		lookupErr: errors.New("provider unavailable"),
	}
	svc := NewSignupService(provider, profilestore.NewInMemoryStore(), zerolog.Nop())

	_, err := svc.Signup(context.Background(), studentPayload(t, nil))
	require.Error(t, err)

	var conflictErr *apperrors.ConflictError
	assert.False(t, errors.As(err, &conflictErr))
}

func TestSignupProfileWriteFailureIsNonFatal(t *testing.T) {
	provider := identity.NewInMemoryProvider()
	svc := NewSignupService(provider, failingStore{}, zerolog.Nop())

	result, err := svc.Signup(context.Background(), studentPayload(t, nil))
	require.NoError(t, err)

	assert.False(t, result.Account.ProfileCreated)
	assert.True(t, result.Account.GroupAssigned)
	assert.True(t, provider.HasTemporaryPassword("student123"))
}

func TestSignupLogsCarryRequestID(t *testing.T) {
	var buf bytes.Buffer
	svc := NewSignupService(identity.NewInMemoryProvider(), failingStore{}, zerolog.New(&buf))

	ctx := logger.WithRequestID(context.Background(), "req-7")
	_, err := svc.Signup(ctx, studentPayload(t, nil))
	require.NoError(t, err)

	// The profile-write failure line is tagged with the request id.
	assert.Contains(t, buf.String(), `"requestId":"req-7"`)
	assert.Contains(t, buf.String(), "Failed to create user profile")
}

func TestSignupGroupFailureDoesNotStopConfirmation(t *testing.T) {
	inner := identity.NewInMemoryProvider()
	provider := &faultyProvider{Provider: inner, groupErr: errors.New("group quota exceeded")}
	store := profilestore.NewInMemoryStore()
	svc := NewSignupService(provider, store, zerolog.Nop())

	result, err := svc.Signup(context.Background(), studentPayload(t, nil))
	require.NoError(t, err)

	assert.True(t, result.Account.ProfileCreated)
	assert.False(t, result.Account.GroupAssigned)
	assert.True(t, inner.HasTemporaryPassword("student123"))
	assert.Equal(t, 1, store.Len())
}
