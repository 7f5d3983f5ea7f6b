package schedule_appointment

import (
	"time"

	scheduleAppointment "github.com/m04kA/Salon-BookingService/internal/usecase/schedule_appointment"
)

// ScheduleAppointmentRequest HTTP request model
// Email клиента приходит из заголовка X-Client-Email, не из тела
type ScheduleAppointmentRequest struct {
	ClientName  string  `json:"clientName"`
	ClientPhone *string `json:"clientPhone,omitempty"`
	ServiceName string  `json:"serviceName"`
	StylistID   *string `json:"stylistId,omitempty"` // nil - любой свободный мастер
	StartTime   string  `json:"startTime"`           // ISO 8601
	Notes       *string `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              int64   `json:"id"`
	ClientName      string  `json:"clientName"`
	ClientEmail     string  `json:"clientEmail"`
	ClientPhone     *string `json:"clientPhone,omitempty"`
	StylistID       string  `json:"stylistId"`
	ServiceName     string  `json:"serviceName"`
	ServicePrice    float64 `json:"servicePrice"`
	DurationMinutes int     `json:"durationMinutes"`
	StartTime       string  `json:"startTime"` // ISO 8601
	EndTime         string  `json:"endTime"`   // ISO 8601
	Status          string  `json:"status"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ScheduleAppointmentRequest) ToUseCaseRequest(clientEmail string) (*scheduleAppointment.Request, error) {
	startTime, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, err
	}

	return &scheduleAppointment.Request{
		ClientName:  r.ClientName,
		ClientEmail: clientEmail,
		ClientPhone: r.ClientPhone,
		ServiceName: r.ServiceName,
		StylistID:   r.StylistID,
		StartTime:   startTime,
		Notes:       r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *scheduleAppointment.Response) *AppointmentResponse {
	appt := resp.Appointment
	return &AppointmentResponse{
		ID:              appt.ID,
		ClientName:      appt.ClientName,
		ClientEmail:     appt.ClientEmail,
		ClientPhone:     appt.ClientPhone,
		StylistID:       appt.StylistID,
		ServiceName:     appt.ServiceName,
		ServicePrice:    appt.ServicePrice,
		DurationMinutes: appt.DurationMinutes,
		StartTime:       appt.StartTime.Format(time.RFC3339),
		EndTime:         appt.EndTime.Format(time.RFC3339),
		Status:          string(appt.Status),
		Notes:           appt.Notes,
		CreatedAt:       appt.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       appt.UpdatedAt.Format(time.RFC3339),
	}
}
