package maillog

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/Salon-BookingService/pkg/dbmetrics"
	"github.com/m04kA/Salon-BookingService/pkg/psqlbuilder"
)

// Статусы отправки письма
const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

// Entry журнальная запись об отправленном (или неотправленном) письме
type Entry struct {
	ID            int64
	AppointmentID int64
	MailType      string // acknowledgment, confirmation, reminder, alternatives
	Recipient     string
	Status        string
	SentAt        time.Time
}

// Repository репозиторий журнала исходящих писем
// Журнал ведется только для аудита: неуспешная запись в журнал
// не влияет на результат бизнес-операции
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория журнала писем
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create добавляет запись в журнал
func (r *Repository) Create(ctx context.Context, entry *Entry) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("mail_logs").
		Columns("appointment_id", "mail_type", "recipient", "status").
		Values(entry.AppointmentID, entry.MailType, entry.Recipient, entry.Status).
		Suffix("RETURNING id, sent_at").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &entry.SentAt); err != nil {
		return fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetByAppointmentID возвращает журнал писем по записи
func (r *Repository) GetByAppointmentID(ctx context.Context, appointmentID int64) ([]*Entry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "appointment_id", "mail_type", "recipient", "status", "sent_at").
		From("mail_logs").
		Where(squirrel.Eq{"appointment_id": appointmentID}).
		OrderBy("sent_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByAppointmentID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByAppointmentID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]*Entry, 0)
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(&entry.ID, &entry.AppointmentID, &entry.MailType, &entry.Recipient, &entry.Status, &entry.SentAt); err != nil {
			return nil, fmt.Errorf("%w: GetByAppointmentID - scan row: %v", ErrScanRow, err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByAppointmentID - rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}
