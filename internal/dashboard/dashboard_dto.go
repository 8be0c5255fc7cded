package dashboard

type DashboardStats struct {
	TotalVolunteers     int64 `json:"totalVolunteers"`
	ActiveVolunteers    int64 `json:"activeVolunteers"`
	TotalHoursThisMonth int64 `json:"totalHoursThisMonth"`
	AttendanceRate      int64 `json:"attendanceRate"`
}

type ActivityView struct {
	ID            string  `json:"id"`
	Type          string  `json:"type"`
	VolunteerID   string  `json:"volunteerId"`
	VolunteerName *string `json:"volunteerName"`
	Timestamp     string  `json:"timestamp"`
	Details       string  `json:"details"`
}
