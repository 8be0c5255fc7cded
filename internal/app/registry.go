package app

import (
	"database/sql"

	"github.com/shankar7055/sewa-volunteer-app/internal/activity"
	"github.com/shankar7055/sewa-volunteer-app/internal/attendance"
	"github.com/shankar7055/sewa-volunteer-app/internal/auth"
	"github.com/shankar7055/sewa-volunteer-app/internal/dashboard"
	"github.com/shankar7055/sewa-volunteer-app/internal/messaging/kafka"
	"github.com/shankar7055/sewa-volunteer-app/internal/shared/counter"
	"github.com/shankar7055/sewa-volunteer-app/internal/volunteer"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	volunteerRepo := volunteer.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	activityRepo := activity.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	authService := auth.NewService(authRepo)
	volunteerService := volunteer.NewServiceWithOutbox(db, volunteerRepo, counterRepo, outboxRepo, rdb)
	attendanceService := attendance.NewServiceWithOutbox(db, attendanceRepo, activityRepo, outboxRepo)
	dashboardService := dashboard.NewService(volunteerRepo, attendanceRepo, activityRepo, rdb)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	volunteerHandler := volunteer.NewHandler(volunteerService)
	attendanceHandler := attendance.NewHandlerWithRedis(attendanceService, rdb)
	dashboardHandler := dashboard.NewHandler(dashboardService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		volunteer.RegisterRoutes(api, volunteerHandler)
		attendance.RegisterRoutes(api, attendanceHandler, rdb)
		dashboard.RegisterRoutes(api, dashboardHandler)
	}

	return nil
}
