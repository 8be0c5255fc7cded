package events

import "time"

const VolunteerCreatedTopic = "volunteerhub.volunteer.lifecycle.v1"

type VolunteerCreatedEvent struct {
	EventType   string    `json:"event_type"`
	VolunteerID string    `json:"volunteer_id"`
	Name        string    `json:"name"`
	Status      string    `json:"status"`
	OccurredAt  time.Time `json:"occurred_at"`
}
