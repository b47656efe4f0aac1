package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ekurt/campusgate/internal/app/models"
	"github.com/ekurt/campusgate/internal/pkg/apperrors"
	"github.com/ekurt/campusgate/internal/pkg/identity"
)

// BusinessRuleValidator applies the role-specific semantic rules that need
// network lookups or moving temporal bounds. Unlike schema validation it
// short-circuits on the first violated rule: later checks may depend on
// network state that is moot once one rule has failed.
type BusinessRuleValidator struct {
	provider identity.Provider
	now      func() time.Time
}

// NewBusinessRuleValidator creates a validator against an identity provider.
func NewBusinessRuleValidator(provider identity.Provider) *BusinessRuleValidator {
	return &BusinessRuleValidator{
		provider: provider,
		now:      time.Now,
	}
}

// Validate dispatches on the role tag. It returns nil on pass, or the first
// rule violated. A lookup fault is reported as a failure of the rule being
// evaluated, never silently passed.
func (v *BusinessRuleValidator) Validate(ctx context.Context, req models.SignupRequest) *apperrors.BusinessRuleError {
	switch r := req.(type) {
	case *models.StudentSignupRequest:
		return v.validateStudent(ctx, r)
	case *models.InstructorSignupRequest:
		return v.validateInstructor(ctx, r)
	default:
		return &apperrors.BusinessRuleError{
			Rule:    "role",
			Details: fmt.Sprintf("unsupported signup variant %T", req),
		}
	}
}

func (v *BusinessRuleValidator) validateStudent(ctx context.Context, req *models.StudentSignupRequest) *apperrors.BusinessRuleError {
	account, err := v.provider.FindByAttribute(ctx, attrStudentID, req.StudentID)
	if err != nil {
		return &apperrors.BusinessRuleError{
			Rule:    "studentId",
			Details: fmt.Sprintf("could not verify student ID uniqueness: %v", err),
		}
	}
	if account != nil {
		return &apperrors.BusinessRuleError{
			Rule:     "studentId",
			Details:  "Student ID is already registered",
			Conflict: true,
		}
	}

	// Re-asserted here because it is a moving bound, not a fixed schema constant.
	if req.EnrollmentYear > v.now().Year()+1 {
		return &apperrors.BusinessRuleError{
			Rule:    "enrollmentYear",
			Details: fmt.Sprintf("enrollment year cannot be later than %d", v.now().Year()+1),
		}
	}

	if req.AdvisorID != "" {
		advisor, err := v.provider.FindByAttribute(ctx, attrInstructorID, req.AdvisorID)
		if err != nil {
			return &apperrors.BusinessRuleError{
				Rule:    "advisorId",
				Details: fmt.Sprintf("could not verify advisor: %v", err),
			}
		}
		if advisor == nil {
			return &apperrors.BusinessRuleError{
				Rule:    "advisorId",
				Details: fmt.Sprintf("no instructor found with identifier %s", req.AdvisorID),
			}
		}
	}

	return nil
}

func (v *BusinessRuleValidator) validateInstructor(ctx context.Context, req *models.InstructorSignupRequest) *apperrors.BusinessRuleError {
	account, err := v.provider.FindByAttribute(ctx, attrInstructorID, req.InstructorID)
	if err != nil {
		return &apperrors.BusinessRuleError{
			Rule:    "instructorId",
			Details: fmt.Sprintf("could not verify instructor ID uniqueness: %v", err),
		}
	}
	if account != nil {
		return &apperrors.BusinessRuleError{
			Rule:     "instructorId",
			Details:  "Instructor ID is already registered",
			Conflict: true,
		}
	}

	if _, err := time.Parse("2006-01-02", req.HireDate); err != nil {
		// Format violations are schema territory; reaching this means the
		// schema step was bypassed.
		return &apperrors.BusinessRuleError{
			Rule:    "hireDate",
			Details: "hire date must be a valid YYYY-MM-DD date",
		}
	}
	// Calendar-date comparison in the clock's own zone. ISO dates order
	// lexicographically, so a string compare is exact here.
	if req.HireDate > v.now().Format("2006-01-02") {
		return &apperrors.BusinessRuleError{
			Rule:    "hireDate",
			Details: "hire date cannot be in the future",
		}
	}

	// Defense in depth beyond the structural minimum-length check.
	if len(req.Qualifications) == 0 {
		return &apperrors.BusinessRuleError{
			Rule:    "qualifications",
			Details: "at least one qualification is required",
		}
	}

	for i, entry := range req.OfficeHours {
		start, errStart := time.Parse("15:04", entry.StartTime)
		end, errEnd := time.Parse("15:04", entry.EndTime)
		if errStart != nil || errEnd != nil || !start.Before(end) {
			return &apperrors.BusinessRuleError{
				Rule:    "officeHours",
				Details: fmt.Sprintf("office hours entry %d must start before it ends", i),
			}
		}
	}

	return nil
}
