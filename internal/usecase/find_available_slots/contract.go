package find_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/Salon-BookingService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// GetByStylistWithFilter получает записи мастера за период (только активные)
	GetByStylistWithFilter(ctx context.Context, filter domain.StylistAppointmentsFilter) ([]*domain.Appointment, error)
}

// Catalog интерфейс каталога салона (услуги, мастера, праздники, правила)
type Catalog interface {
	ServiceByName(name string) (domain.Service, error)
	StylistByID(id string) (domain.Stylist, error)
	StylistsFor(serviceName string) []domain.Stylist
	WorkWindow(stylist domain.Stylist, date time.Time) *domain.WorkWindow
	IsHoliday(date time.Time) bool
	Rules() domain.BookingRules
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
