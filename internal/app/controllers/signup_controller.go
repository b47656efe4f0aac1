// Package controllers handles HTTP request handling
package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ekurt/campusgate/internal/app/models/dto"
	"github.com/ekurt/campusgate/internal/app/services"
	"github.com/ekurt/campusgate/internal/middleware"
	"github.com/ekurt/campusgate/internal/pkg/logger"
)

// SignupController exposes the provisioning workflow over HTTP.
type SignupController struct {
	signupService *services.SignupService
	logger        zerolog.Logger
}

// NewSignupController creates a new SignupController.
func NewSignupController(signupService *services.SignupService, logger zerolog.Logger) *SignupController {
	return &SignupController{
		signupService: signupService,
		logger:        logger,
	}
}

// Signup handles role-tagged account signup
// @Summary Provision a new account
// @Description Validates a role-tagged signup payload and provisions the account across the identity provider and profile store.
// @Tags signup
// @Accept json
// @Produce json
// @Success 201 {object} dto.Response "Account provisioned; confirmation email pending"
// @Failure 400 {object} dto.Response "Schema or business rule violation"
// @Failure 409 {object} dto.Response "Email, username or role identifier already in use"
// @Failure 500 {object} dto.Response "Identity provisioning failure"
// @Router /signup [post]
func (c *SignupController) Signup(ctx *gin.Context) {
	lgr := logger.ForRequest(ctx.Request.Context(), c.logger)
	lgr.Debug().Msg("Signup endpoint called")

	payload, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		lgr.Warn().Err(err).Msg("Failed to read signup request body")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid request body", nil))
		return
	}

	result, err := c.signupService.Signup(ctx.Request.Context(), payload)
	if err != nil {
		lgr.Warn().Err(err).Msg("Signup request rejected")
		middleware.HandleAPIError(ctx, err)
		return
	}

	account := result.Account
	lgr.Info().
		Str("accountId", account.AccountID).
		Str("email", account.Email).
		Str("role", string(account.Role)).
		Bool("profileCreated", account.ProfileCreated).
		Bool("groupAssigned", account.GroupAssigned).
		Msg("Account provisioned")

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(&dto.SignupData{
		Message:              result.Message,
		UserID:               account.AccountID,
		Email:                account.Email,
		Role:                 string(account.Role),
		RequiresConfirmation: true,
		ProfileCreated:       account.ProfileCreated,
		GroupAssigned:        account.GroupAssigned,
	}))
}
