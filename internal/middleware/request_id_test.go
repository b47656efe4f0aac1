package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekurt/campusgate/internal/pkg/logger"
)

func requestIDRouter(captured *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/echo", func(c *gin.Context) {
		if id, ok := logger.RequestID(c.Request.Context()); ok {
			*captured = id
		}
		c.Status(http.StatusOK)
	})
	return router
}

func TestRequestIDGenerated(t *testing.T) {
	var fromContext string
	router := requestIDRouter(&fromContext)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/echo", nil))

	header := rec.Header().Get("X-Request-ID")
	require.NotEmpty(t, header)
	assert.Equal(t, header, fromContext)
}

func TestRequestIDHonorsCallerSuppliedID(t *testing.T) {
	var fromContext string
	router := requestIDRouter(&fromContext)

	req := httptest.NewRequest(http.MethodGet, "/echo", nil)
	req.Header.Set("X-Request-ID", "caller-id-42")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "caller-id-42", rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "caller-id-42", fromContext)
}
