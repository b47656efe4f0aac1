package apperrors

import (
	"fmt"

	"github.com/ekurt/campusgate/internal/pkg/validation"
)

// Provisioning failure reasons. The classified reason, never the raw provider
// error, is what propagates outward.
const (
	ReasonUsernameExists    = "Username already exists"
	ReasonWeakCredential    = "Password does not meet requirements"
	ReasonInvalidAttributes = "Invalid user attributes"
	ReasonUnknown           = "Unknown error"
)

// ValidationFailedError carries the full ordered list of structural schema
// violations. Schema validation never short-circuits, so Errors may hold one
// entry per violated constraint.
type ValidationFailedError struct {
	Errors []validation.FieldError
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s)", len(e.Errors))
}

// BusinessRuleError describes the first semantic rule violated. Rule checking
// short-circuits, so there is always exactly one. Conflict marks rules whose
// violation means a pre-existing role identifier (409 rather than 400).
type BusinessRuleError struct {
	Rule     string
	Details  string
	Conflict bool
}

func (e *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule %q violated: %s", e.Rule, e.Details)
}

// ConflictError reports a pre-existing account in the identity provider,
// naming the field that collided.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("an account with this %s already exists", e.Field)
}

// ProvisioningError is the only fatal post-validation failure: the identity
// provider rejected account creation. Reason is one of the Reason constants.
type ProvisioningError struct {
	Reason string
	Err    error
}

func (e *ProvisioningError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("account provisioning failed (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("account provisioning failed (%s)", e.Reason)
}

func (e *ProvisioningError) Unwrap() error {
	return e.Err
}
