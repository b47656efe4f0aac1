// Package services implements the role-based account provisioning workflow:
// schema validation, duplicate detection, business rules, identity
// provisioning and the fault-isolated auxiliary steps.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ekurt/campusgate/internal/app/models"
	"github.com/ekurt/campusgate/internal/pkg/apperrors"
	"github.com/ekurt/campusgate/internal/pkg/identity"
	"github.com/ekurt/campusgate/internal/pkg/logger"
	"github.com/ekurt/campusgate/internal/pkg/profilestore"
	"github.com/ekurt/campusgate/internal/pkg/validation"
)

// SignupService orchestrates the provisioning sequence. Each request is an
// independent, stateless run of the steps; both collaborators enforce their
// own concurrency control.
//
// Known limitation: uniqueness is a read-then-write check. A concurrent
// signup can win the race between the duplicate/uniqueness reads and
// CreateAccount; the provider's own username uniqueness is the backstop, and
// no idempotency-key or leasing mechanism closes the window.
type SignupService struct {
	provider identity.Provider
	profiles profilestore.Store
	schema   *validation.SchemaValidator
	rules    *BusinessRuleValidator
	logger   zerolog.Logger
}

// NewSignupService creates the workflow with its two external collaborators.
func NewSignupService(provider identity.Provider, profiles profilestore.Store, logger zerolog.Logger) *SignupService {
	return &SignupService{
		provider: provider,
		profiles: profiles,
		schema:   validation.NewSchemaValidator(),
		rules:    NewBusinessRuleValidator(provider),
		logger:   logger,
	}
}

// SignupResult is the successful outcome of the workflow.
type SignupResult struct {
	Account models.ProvisionedAccount
	Message string
}

// Signup runs the full provisioning sequence on a raw JSON payload:
// schema validation, duplicate check, business rules, identity creation,
// then the three non-fatal auxiliary steps.
func (s *SignupService) Signup(ctx context.Context, payload []byte) (*SignupResult, error) {
	req, fieldErrs := s.schema.Parse(payload)
	if len(fieldErrs) > 0 {
		return nil, &apperrors.ValidationFailedError{Errors: fieldErrs}
	}

	if err := s.checkDuplicates(ctx, req.Common()); err != nil {
		return nil, err
	}

	if ruleErr := s.rules.Validate(ctx, req); ruleErr != nil {
		return nil, ruleErr
	}

	accountID, err := s.provisionIdentity(ctx, req)
	if err != nil {
		return nil, err
	}

	common := req.Common()
	role := req.Role()
	reqLog := logger.ForRequest(ctx, s.logger)
	reqLog.Info().
		Str("accountId", accountID).
		Str("username", common.Username).
		Str("role", string(role)).
		Msg("Identity account created")

	account := models.ProvisionedAccount{
		AccountID: accountID,
		Email:     common.Email,
		Role:      role,
	}

	// Every step from here on is fault-isolated: a failure is logged and
	// recorded, and never stops a later step or the overall success.
	account.ProfileCreated = s.persistProfile(ctx, req, accountID)
	account.GroupAssigned = s.assignGroup(ctx, common.Username, role)
	s.dispatchConfirmation(ctx, common.Username, common.Password)

	return &SignupResult{
		Account: account,
		Message: fmt.Sprintf("%s account created successfully. Please check your email to confirm your account.", role.Title()),
	}, nil
}

// checkDuplicates performs the two independent existence lookups. It is a
// pure read and short-circuits provisioning entirely on the first match.
func (s *SignupService) checkDuplicates(ctx context.Context, common *models.SignupCommon) error {
	account, err := s.provider.FindByEmail(ctx, common.Email)
	if err != nil {
		return fmt.Errorf("checking for existing email: %w", err)
	}
	if account != nil {
		return &apperrors.ConflictError{Field: "email"}
	}

	account, err = s.provider.FindByUsername(ctx, common.Username)
	if err != nil {
		return fmt.Errorf("checking for existing username: %w", err)
	}
	if account != nil {
		return &apperrors.ConflictError{Field: "username"}
	}

	return nil
}

// provisionIdentity creates the account and classifies provider failures.
// This is the only step whose failure is fatal to the whole request.
func (s *SignupService) provisionIdentity(ctx context.Context, req models.SignupRequest) (string, error) {
	attrs, err := buildIdentityAttributes(req)
	if err != nil {
		return "", &apperrors.ProvisioningError{Reason: apperrors.ReasonInvalidAttributes, Err: err}
	}

	accountID, err := s.provider.CreateAccount(ctx, identity.CreateAccountInput{
		Username:   req.Common().Username,
		Attributes: attrs,
	})
	if err != nil {
		return "", classifyProvisioningError(err)
	}
	return accountID, nil
}

func classifyProvisioningError(err error) *apperrors.ProvisioningError {
	reason := apperrors.ReasonUnknown
	switch {
	case errors.Is(err, identity.ErrUsernameExists):
		reason = apperrors.ReasonUsernameExists
	case errors.Is(err, identity.ErrWeakPassword):
		reason = apperrors.ReasonWeakCredential
	case errors.Is(err, identity.ErrInvalidAttributes):
		reason = apperrors.ReasonInvalidAttributes
	}
	return &apperrors.ProvisioningError{Reason: reason, Err: err}
}

// persistProfile writes the extended role-shaped record. Non-fatal: a missing
// profile is reconciled by a downstream process, not by this workflow.
func (s *SignupService) persistProfile(ctx context.Context, req models.SignupRequest, accountID string) bool {
	rec := buildProfileRecord(req, accountID, time.Now().UTC())
	if err := s.profiles.PutProfile(ctx, rec); err != nil {
		reqLog := logger.ForRequest(ctx, s.logger)
		reqLog.Error().Err(err).
			Str("accountId", accountID).
			Msg("Failed to create user profile")
		return false
	}
	return true
}

// assignGroup attaches the account to its role-scoped group. Non-fatal.
func (s *SignupService) assignGroup(ctx context.Context, username string, role models.Role) bool {
	if err := s.provider.AddToGroup(ctx, username, role.GroupName()); err != nil {
		reqLog := logger.ForRequest(ctx, s.logger)
		reqLog.Error().Err(err).
			Str("username", username).
			Str("group", role.GroupName()).
			Msg("Failed to assign account to role group")
		return false
	}
	return true
}

// dispatchConfirmation sets a temporary credential and marks the email
// unverified so the provider sends its verification notification. Non-fatal
// and invisible in the response payload; a temporary-password failure does
// not stop the verification-flag update.
func (s *SignupService) dispatchConfirmation(ctx context.Context, username, password string) {
	lgr := logger.ForRequest(ctx, s.logger)
	if err := s.provider.SetTemporaryPassword(ctx, username, password); err != nil {
		lgr.Error().Err(err).
			Str("username", username).
			Msg("Failed to set temporary password")
	}
	if err := s.provider.MarkEmailUnverified(ctx, username); err != nil {
		lgr.Error().Err(err).
			Str("username", username).
			Msg("Failed to mark email unverified")
	}
}
