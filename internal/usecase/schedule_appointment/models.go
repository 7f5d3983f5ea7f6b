package schedule_appointment

import (
	"time"

	"github.com/m04kA/Salon-BookingService/internal/domain"
)

// Request модель запроса на создание записи
type Request struct {
	ClientName  string    // Имя клиента (обязательно)
	ClientEmail string    // Email клиента (обязательно)
	ClientPhone *string   // Телефон клиента (опционально)
	ServiceName string    // Имя услуги (обязательно)
	StylistID   *string   // Мастер; nil - любой свободный с нужной специализацией
	StartTime   time.Time // Желаемое время начала
	Notes       *string   // Пожелания клиента (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	Appointment *domain.Appointment
}
