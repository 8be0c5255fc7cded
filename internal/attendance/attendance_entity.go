package attendance

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusCheckedIn  = "checked-in"
	StatusCheckedOut = "checked-out"
)

// AttendanceRecord is one continuous presence interval for one volunteer.
// CheckOutTime nil means the interval is still open. Closed records are
// never modified again.
//
// The partial unique index uq_attendance_open on
// (volunteer_id) WHERE check_out_time IS NULL enforces at most one open
// interval per volunteer at the database level.
type AttendanceRecord struct {
	ID              uuid.UUID     `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	VolunteerID     uuid.UUID     `gorm:"column:volunteer_id;type:uuid;not null;index"`
	CheckInTime     time.Time     `gorm:"column:check_in_time;type:timestamptz;not null;index"`
	CheckOutTime    *time.Time    `gorm:"column:check_out_time;type:timestamptz"`
	DurationMinutes *int          `gorm:"column:duration_minutes"`
	Status          string        `gorm:"column:status;type:varchar(20);not null;default:checked-in"`
	RecordedByID    *uuid.UUID    `gorm:"column:recorded_by_id;type:uuid"`
	CreatedAt       time.Time     `gorm:"column:created_at"`
	UpdatedAt       time.Time     `gorm:"column:updated_at"`
	Volunteer       *VolunteerRef `gorm:"foreignKey:VolunteerID;references:ID"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

type VolunteerRef struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"column:name"`
}

func (VolunteerRef) TableName() string {
	return "volunteers"
}
