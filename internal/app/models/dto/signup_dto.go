package dto

import "github.com/ekurt/campusgate/internal/pkg/validation"

// ValidationDetails carries the full list of structural violations on a 400.
type ValidationDetails struct {
	Errors []validation.FieldError `json:"errors"`
}

// RuleDetails carries the single violated business rule on a 400 or 409.
type RuleDetails struct {
	Rule    string `json:"rule"`
	Details string `json:"details"`
}

// ConflictDetails names the field that collided with an existing account.
type ConflictDetails struct {
	Field string `json:"field"`
}

// FaultDetails carries the classified provisioning reason, or the raw fault
// message on an unexpected 500.
type FaultDetails struct {
	Error string `json:"error"`
}
