package volunteer

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusPending  = "pending"
)

type Volunteer struct {
	ID              uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	VolunteerNumber string     `gorm:"column:volunteer_number;type:varchar(20);uniqueIndex;not null"`
	Name            string     `gorm:"column:name;type:varchar(255);not null"`
	Email           string     `gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
	Phone           *string    `gorm:"column:phone;type:varchar(50)"`
	Address         *string    `gorm:"column:address;type:text"`
	Skills          *string    `gorm:"column:skills;type:text"`
	Availability    *string    `gorm:"column:availability;type:text"`
	Status          string     `gorm:"column:status;type:varchar(20);not null;default:pending"`
	QRCode          *string    `gorm:"column:qr_code;type:text"`
	QRCodeData      *string    `gorm:"column:qr_code_data;type:text"`
	CreatedByID     *uuid.UUID `gorm:"column:created_by_id;type:uuid"`
	UpdatedByID     *uuid.UUID `gorm:"column:updated_by_id;type:uuid"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Volunteer) TableName() string {
	return "volunteers"
}

func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusInactive, StatusPending:
		return true
	default:
		return false
	}
}

// AttendanceRef is a read-only view of attendance rows for the volunteer
// detail endpoint. The attendance package owns all writes to this table.
type AttendanceRef struct {
	ID              uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	VolunteerID     uuid.UUID  `gorm:"column:volunteer_id;type:uuid"`
	CheckInTime     time.Time  `gorm:"column:check_in_time"`
	CheckOutTime    *time.Time `gorm:"column:check_out_time"`
	DurationMinutes *int       `gorm:"column:duration_minutes"`
	Status          string     `gorm:"column:status"`
}

func (AttendanceRef) TableName() string {
	return "attendance_records"
}
