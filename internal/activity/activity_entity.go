package activity

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeCheckIn  = "check-in"
	TypeCheckOut = "check-out"
)

// ActivityLog is the append-only audit trail of attendance transitions.
// Rows are only ever inserted, never updated or deleted.
type ActivityLog struct {
	ID           uuid.UUID     `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Type         string        `gorm:"column:type;type:varchar(20);not null"`
	VolunteerID  uuid.UUID     `gorm:"column:volunteer_id;type:uuid;not null;index"`
	Timestamp    time.Time     `gorm:"column:timestamp;type:timestamptz;not null;index"`
	Details      string        `gorm:"column:details;type:text;not null"`
	RecordedByID *uuid.UUID    `gorm:"column:recorded_by_id;type:uuid"`
	Volunteer    *VolunteerRef `gorm:"foreignKey:VolunteerID;references:ID"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}

type VolunteerRef struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"column:name"`
}

func (VolunteerRef) TableName() string {
	return "volunteers"
}
