package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ekurt/campusgate/internal/app/models/dto"
	"github.com/ekurt/campusgate/internal/pkg/apperrors"
)

// HandleAPIError maps workflow errors onto the response envelope. Everything
// not in the taxonomy falls through to a generic 500 carrying the raw fault
// message; that path is the last line of defense, not a designed outcome.
func HandleAPIError(c *gin.Context, err error) {
	var validationErr *apperrors.ValidationFailedError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			"Validation failed",
			dto.ValidationDetails{Errors: validationErr.Errors},
		))
		return
	}

	var ruleErr *apperrors.BusinessRuleError
	if errors.As(err, &ruleErr) {
		status := http.StatusBadRequest
		message := "Business rule validation failed"
		if ruleErr.Conflict {
			status = http.StatusConflict
			message = "User already exists"
		}
		c.JSON(status, dto.NewErrorResponse(
			message,
			dto.RuleDetails{Rule: ruleErr.Rule, Details: ruleErr.Details},
		))
		return
	}

	var conflictErr *apperrors.ConflictError
	if errors.As(err, &conflictErr) {
		c.JSON(http.StatusConflict, dto.NewErrorResponse(
			"User already exists",
			dto.ConflictDetails{Field: conflictErr.Field},
		))
		return
	}

	var provisioningErr *apperrors.ProvisioningError
	if errors.As(err, &provisioningErr) {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
			"Failed to create user account",
			dto.FaultDetails{Error: provisioningErr.Reason},
		))
		return
	}

	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
		"Internal server error",
		dto.FaultDetails{Error: err.Error()},
	))
}
