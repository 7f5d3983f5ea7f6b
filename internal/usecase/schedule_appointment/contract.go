package schedule_appointment

import (
	"context"
	"time"

	"github.com/m04kA/Salon-BookingService/internal/domain"
	"github.com/m04kA/Salon-BookingService/internal/infra/storage/maillog"
	"github.com/m04kA/Salon-BookingService/internal/integrations/mailer"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// Create создает новую запись
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	// GetByStylistWithFilter получает записи мастера за период
	// Внутри транзакции блокирует строки дня (FOR UPDATE)
	GetByStylistWithFilter(ctx context.Context, filter domain.StylistAppointmentsFilter) ([]*domain.Appointment, error)
	// CountActiveByStylistAndDate считает активные записи мастера за день
	CountActiveByStylistAndDate(ctx context.Context, stylistID string, dayStart, dayEnd time.Time) (int, error)
}

// Catalog интерфейс каталога салона
type Catalog interface {
	ServiceByName(name string) (domain.Service, error)
	StylistByID(id string) (domain.Stylist, error)
	StylistsFor(serviceName string) []domain.Stylist
	WorkWindow(stylist domain.Stylist, date time.Time) *domain.WorkWindow
	IsHoliday(date time.Time) bool
	Rules() domain.BookingRules
}

// TxManager интерфейс менеджера транзакций
// Бронирование выполняется в сериализуемой транзакции: параллельные попытки
// занять пересекающиеся слоты одного мастера упорядочиваются СУБД
type TxManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// MailSender интерфейс клиента почтового сервиса
type MailSender interface {
	SendAcknowledgment(ctx context.Context, msg *mailer.AppointmentMessage) error
	SendConfirmation(ctx context.Context, msg *mailer.AppointmentMessage) error
	SendAlternatives(ctx context.Context, msg *mailer.AlternativesMessage) error
}

// MailLogRepository интерфейс журнала исходящих писем
type MailLogRepository interface {
	Create(ctx context.Context, entry *maillog.Entry) error
}

// SlotFinder интерфейс поиска свободных слотов
// Используется для подбора альтернатив при конфликте слота
type SlotFinder interface {
	FindAlternatives(ctx context.Context, serviceName string, date time.Time, limit int) ([]time.Time, error)
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
