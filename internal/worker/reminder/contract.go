package reminder

import (
	"context"
	"time"

	"github.com/m04kA/Salon-BookingService/internal/domain"
	"github.com/m04kA/Salon-BookingService/internal/infra/storage/maillog"
	"github.com/m04kA/Salon-BookingService/internal/integrations/mailer"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// GetUpcomingForReminder возвращает подтвержденные записи в [from, to)
	// без отправленного напоминания
	GetUpcomingForReminder(ctx context.Context, from, to time.Time) ([]*domain.Appointment, error)
	// MarkReminderSent отмечает запись как обработанную
	MarkReminderSent(ctx context.Context, id int64, sentAt time.Time) error
}

// Catalog интерфейс каталога салона
type Catalog interface {
	StylistByID(id string) (domain.Stylist, error)
}

// MailSender интерфейс клиента почтового сервиса
type MailSender interface {
	SendReminder(ctx context.Context, msg *mailer.AppointmentMessage) error
}

// MailLogRepository интерфейс журнала исходящих писем
type MailLogRepository interface {
	Create(ctx context.Context, entry *maillog.Entry) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
