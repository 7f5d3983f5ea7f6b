package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/m04kA/Salon-BookingService/internal/domain"
	"github.com/m04kA/Salon-BookingService/internal/infra/storage/maillog"
	"github.com/m04kA/Salon-BookingService/internal/integrations/mailer"
)

// Таймаут одного прохода воркера
const runTimeout = time.Minute

// Worker фоновый воркер напоминаний
// По расписанию находит подтвержденные записи, начинающиеся в ближайшие
// hoursBefore часов, и отправляет клиентам напоминания.
// Повторная отправка исключается отметкой reminder_sent_at
type Worker struct {
	cron            *cron.Cron
	appointmentRepo AppointmentRepository
	catalog         Catalog
	mailSender      MailSender
	mailLogRepo     MailLogRepository
	hoursBefore     int
	schedule        string
	logs            Logger
}

// New создает воркер напоминаний
func New(
	appointmentRepo AppointmentRepository,
	cat Catalog,
	mailSender MailSender,
	mailLogRepo MailLogRepository,
	hoursBefore int,
	schedule string,
	logs Logger,
) *Worker {
	return &Worker{
		cron:            cron.New(),
		appointmentRepo: appointmentRepo,
		catalog:         cat,
		mailSender:      mailSender,
		mailLogRepo:     mailLogRepo,
		hoursBefore:     hoursBefore,
		schedule:        schedule,
		logs:            logs,
	}
}

// Start запускает воркер по cron-расписанию
func (w *Worker) Start() error {
	if _, err := w.cron.AddFunc(w.schedule, w.run); err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", w.schedule, err)
	}

	w.cron.Start()
	w.logs.Info("Reminder worker started: schedule=%q, hours_before=%d", w.schedule, w.hoursBefore)
	return nil
}

// Stop останавливает воркер и дожидается завершения текущего прохода
func (w *Worker) Stop() {
	<-w.cron.Stop().Done()
	w.logs.Info("Reminder worker stopped")
}

func (w *Worker) run() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	now := time.Now()
	to := now.Add(time.Duration(w.hoursBefore) * time.Hour)

	appointments, err := w.appointmentRepo.GetUpcomingForReminder(ctx, now, to)
	if err != nil {
		w.logs.Error("Reminder worker: failed to load upcoming appointments: %v", err)
		return
	}

	if len(appointments) == 0 {
		return
	}

	w.logs.Info("Reminder worker: processing %d appointments", len(appointments))

	for _, appt := range appointments {
		w.remind(ctx, appt)
	}
}

// remind отправляет напоминание по одной записи
// Запись отмечается обработанной только после успешной отправки,
// неудачная попытка повторится на следующем проходе
func (w *Worker) remind(ctx context.Context, appt *domain.Appointment) {
	stylistName := appt.StylistID
	if stylist, err := w.catalog.StylistByID(appt.StylistID); err == nil {
		stylistName = stylist.Name
	}

	msg := &mailer.AppointmentMessage{
		AppointmentID: appt.ID,
		ClientName:    appt.ClientName,
		ClientEmail:   appt.ClientEmail,
		ServiceName:   appt.ServiceName,
		ServicePrice:  appt.ServicePrice,
		StylistName:   stylistName,
		StartTime:     appt.StartTime,
		EndTime:       appt.EndTime,
	}

	status := maillog.StatusSent
	if err := w.mailSender.SendReminder(ctx, msg); err != nil {
		status = maillog.StatusFailed
		w.logs.Warn("Reminder worker: failed to send reminder for appointment %d: %v", appt.ID, err)
	} else {
		if err := w.appointmentRepo.MarkReminderSent(ctx, appt.ID, time.Now()); err != nil {
			w.logs.Error("Reminder worker: failed to mark reminder sent for appointment %d: %v", appt.ID, err)
		}
	}

	entry := &maillog.Entry{
		AppointmentID: appt.ID,
		MailType:      "reminder",
		Recipient:     appt.ClientEmail,
		Status:        status,
	}
	if err := w.mailLogRepo.Create(ctx, entry); err != nil {
		w.logs.Error("Reminder worker: failed to log reminder for appointment %d: %v", appt.ID, err)
	}
}
