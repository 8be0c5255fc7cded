package attendance

import (
	"github.com/shankar7055/sewa-volunteer-app/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rdb *redis.Client) {
	records := r.Group("/attendance")
	records.Use(middleware.AuthMiddleware(), middleware.ExtractUserID())
	{
		records.GET("", h.GetAll)
		if rdb != nil {
			records.POST("", middleware.Idempotency(rdb), h.RecordScan)
		} else {
			records.POST("", h.RecordScan)
		}
	}
}
