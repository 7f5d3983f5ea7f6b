package appointments

import (
	"context"

	"github.com/m04kA/Salon-BookingService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByClientEmail(ctx context.Context, email string, status *domain.AppointmentStatus) ([]*domain.Appointment, error)
	GetByStylistWithFilter(ctx context.Context, filter domain.StylistAppointmentsFilter) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error
	Cancel(ctx context.Context, id int64, reason string) error
}

// Catalog интерфейс каталога салона
type Catalog interface {
	StylistByID(id string) (domain.Stylist, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
