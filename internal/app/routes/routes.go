package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ekurt/campusgate/internal/app/controllers"
)

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, signupController *controllers.SignupController) {
	// API version group
	v1 := router.Group("/api/v1")

	v1.POST("/signup", signupController.Signup)
}
