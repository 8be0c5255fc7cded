package dashboard

import (
	"github.com/shankar7055/sewa-volunteer-app/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	board := r.Group("/dashboard")
	board.Use(middleware.AuthMiddleware(), middleware.ExtractUserID())
	{
		board.GET("/stats", h.GetStats)
		board.GET("/activity", h.GetRecentActivity)
	}
}
