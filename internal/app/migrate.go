package app

import (
	"github.com/shankar7055/sewa-volunteer-app/internal/activity"
	"github.com/shankar7055/sewa-volunteer-app/internal/attendance"
	"github.com/shankar7055/sewa-volunteer-app/internal/auth"
	"github.com/shankar7055/sewa-volunteer-app/internal/volunteer"

	"gorm.io/gorm"
)

// migrateSchema creates the tables on startup. The raw statements cover what
// gorm tags cannot express: the counters and outbox tables (written with raw
// SQL only) and the partial unique index that allows at most one open
// attendance record per volunteer.
func migrateSchema(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&auth.User{},
		&volunteer.Volunteer{},
		&attendance.AttendanceRecord{},
		&activity.ActivityLog{},
	); err != nil {
		return err
	}

	statements := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_attendance_open
			ON attendance_records (volunteer_id)
			WHERE check_out_time IS NULL`,
		`CREATE TABLE IF NOT EXISTS counters (
			counter_type VARCHAR(50) PRIMARY KEY,
			last_value   BIGINT NOT NULL DEFAULT 0,
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS outbox_events (
			id             UUID PRIMARY KEY,
			request_id     VARCHAR(64),
			aggregate_type VARCHAR(50) NOT NULL,
			aggregate_id   UUID NOT NULL,
			event_type     VARCHAR(100) NOT NULL,
			topic          VARCHAR(200) NOT NULL,
			payload        JSONB NOT NULL,
			status         VARCHAR(20) NOT NULL DEFAULT 'pending',
			retry_count    INT NOT NULL DEFAULT 0,
			error_message  VARCHAR(500),
			next_retry_at  TIMESTAMPTZ,
			processed_at   TIMESTAMPTZ,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outbox_status_created
			ON outbox_events (status, created_at)`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	return nil
}
