package volunteer

import (
	"github.com/shankar7055/sewa-volunteer-app/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	volunteers := r.Group("/volunteers")
	volunteers.Use(middleware.AuthMiddleware(), middleware.ExtractUserID())
	{
		volunteers.GET("", h.GetAll)
		volunteers.GET("/:id", h.GetByID)
		volunteers.GET("/:id/qr", h.GenerateQR)

		// Mutations require an elevated role, reads do not.
		volunteers.POST("", middleware.RequireManagerOrAdmin(), h.Create)
		volunteers.PUT("/:id", middleware.RequireManagerOrAdmin(), h.Update)
		volunteers.DELETE("/:id", middleware.RequireManagerOrAdmin(), h.Delete)
	}
}
