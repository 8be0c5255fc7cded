package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shankar7055/sewa-volunteer-app/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestExtractUserID_PropagatesIntoRequestContext(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	var gotUserID, gotRequestID string
	r := gin.New()
	r.Use(ContextLogger(zap.NewNop()))
	r.GET("/protected", AuthMiddleware(), ExtractUserID(), func(c *gin.Context) {
		// The service layer reads attribution from the standard context,
		// not from Gin keys.
		gotUserID = contextutil.GetUserID(c.Request.Context())
		gotRequestID = contextutil.GetRequestID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	token := signToken(t, "test-secret", "U1", "user", time.Hour)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Request-ID", "R1")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "U1", gotUserID)
	assert.Equal(t, "R1", gotRequestID)
}

func TestExtractUserID_RejectsUnauthenticatedRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/protected", ExtractUserID(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
