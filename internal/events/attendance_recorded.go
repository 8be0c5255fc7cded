package events

import "time"

const AttendanceRecordedTopic = "volunteerhub.attendance.v1"

const (
	TransitionCheckIn  = "check-in"
	TransitionCheckOut = "check-out"
)

type AttendanceRecordedEvent struct {
	EventType       string    `json:"event_type"`
	Transition      string    `json:"transition"`
	AttendanceID    string    `json:"attendance_id"`
	VolunteerID     string    `json:"volunteer_id"`
	RecordedByID    string    `json:"recorded_by_id"`
	DurationMinutes *int      `json:"duration_minutes,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}
