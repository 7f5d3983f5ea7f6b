package mailer

import "time"

// AppointmentMessage данные записи для писем подтверждения и напоминания
// Шаблоны писем живут на стороне почтового сервиса
type AppointmentMessage struct {
	AppointmentID int64     `json:"appointment_id"`
	ClientName    string    `json:"client_name"`
	ClientEmail   string    `json:"client_email"`
	ServiceName   string    `json:"service_name"`
	ServicePrice  float64   `json:"service_price"`
	StylistName   string    `json:"stylist_name"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
}

// AlternativesMessage альтернативные слоты для клиента,
// чье время оказалось занято
type AlternativesMessage struct {
	ClientName    string      `json:"client_name"`
	ClientEmail   string      `json:"client_email"`
	ServiceName   string      `json:"service_name"`
	RequestedTime time.Time   `json:"requested_time"`
	Alternatives  []time.Time `json:"alternatives"`
}

// ErrorResponse модель ошибки от почтового сервиса
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
