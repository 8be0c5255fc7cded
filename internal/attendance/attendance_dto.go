package attendance

import "time"

type ScanRequest struct {
	QRData string `json:"qrData"`
}

// qrPayload is the decoded badge content. Only the id matters here; name
// and timestamp are display metadata added by the QR generator.
type qrPayload struct {
	ID string `json:"id"`
}

type ScanResult struct {
	Transition    string             `json:"transition"`
	Message       string             `json:"message"`
	Attendance    AttendanceResponse `json:"attendance"`
	VolunteerName string             `json:"volunteerName"`
}

type ListFilter struct {
	VolunteerID string
	StartDate   *time.Time
	EndDate     *time.Time
}

type AttendanceResponse struct {
	ID              string  `json:"id"`
	VolunteerID     string  `json:"volunteerId"`
	VolunteerName   string  `json:"volunteerName,omitempty"`
	CheckInTime     string  `json:"checkInTime"`
	CheckOutTime    *string `json:"checkOutTime,omitempty"`
	DurationMinutes *int    `json:"duration,omitempty"`
	Status          string  `json:"status"`
}
