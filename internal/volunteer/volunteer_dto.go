package volunteer

type CreateVolunteerRequest struct {
	Name         string  `json:"name" binding:"required"`
	Email        string  `json:"email" binding:"required,email"`
	Phone        *string `json:"phone"`
	Address      *string `json:"address"`
	Skills       *string `json:"skills"`
	Availability *string `json:"availability"`
	Status       string  `json:"status"`
}

type UpdateVolunteerRequest struct {
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Phone        *string `json:"phone"`
	Address      *string `json:"address"`
	Skills       *string `json:"skills"`
	Availability *string `json:"availability"`
	Status       string  `json:"status"`
}

type VolunteerResponse struct {
	ID              string  `json:"id"`
	VolunteerNumber string  `json:"volunteerNumber"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Phone           *string `json:"phone,omitempty"`
	Address         *string `json:"address,omitempty"`
	Skills          *string `json:"skills,omitempty"`
	Availability    *string `json:"availability,omitempty"`
	Status          string  `json:"status"`
	QRCode          *string `json:"qrCode,omitempty"`
	CreatedAt       string  `json:"createdAt"`
}

type AttendanceHistoryEntry struct {
	ID              string  `json:"id"`
	CheckInTime     string  `json:"checkInTime"`
	CheckOutTime    *string `json:"checkOutTime,omitempty"`
	DurationMinutes *int    `json:"duration,omitempty"`
	Status          string  `json:"status"`
}

type VolunteerDetailResponse struct {
	VolunteerResponse
	Attendances []AttendanceHistoryEntry `json:"attendances"`
}

type QRCodeResponse struct {
	VolunteerID string `json:"volunteerId"`
	QRCode      string `json:"qrCode"`
	QRCodeData  string `json:"qrCodeData"`
}
