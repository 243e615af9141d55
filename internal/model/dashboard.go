package model

// NextClient is the soonest upcoming scheduled appointment, rendered with
// display fields for the dashboard.
type NextClient struct {
	AppointmentID int64   `json:"id"`
	PatientID     int64   `json:"patient_id"`
	Name          string  `json:"name"`
	Service       string  `json:"service"`
	Time          string  `json:"time"`
	SkinType      *string `json:"skin_type,omitempty"`
	Sensitivities *string `json:"sensitivities,omitempty"`
}

// DashboardSnapshot is a computed projection over the appointment store;
// it is recomputed per request and never persisted.
type DashboardSnapshot struct {
	AppointmentsToday    int         `json:"appointments_today"`
	UpcomingAppointments int         `json:"upcoming_appointments"`
	EstimatedRevenue     float64     `json:"estimated_revenue"`
	NextClient           *NextClient `json:"next_client"`
}
