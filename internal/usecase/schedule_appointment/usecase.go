package schedule_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/Salon-BookingService/internal/catalog"
	"github.com/m04kA/Salon-BookingService/internal/domain"
	"github.com/m04kA/Salon-BookingService/internal/infra/storage/appointment"
	"github.com/m04kA/Salon-BookingService/internal/infra/storage/maillog"
	"github.com/m04kA/Salon-BookingService/internal/integrations/mailer"
)

// Количество альтернативных слотов в письме при конфликте
const alternativesLimit = 3

// UseCase бизнес-логика создания записи
//
// Проверка пересечений и вставка выполняются в одной сериализуемой
// транзакции с блокировкой записей дня; exclusion constraint БД служит
// второй линией защиты от двойного бронирования
type UseCase struct {
	appointmentRepo AppointmentRepository
	catalog         Catalog
	txManager       TxManager
	mailSender      MailSender
	mailLogRepo     MailLogRepository
	slotFinder      SlotFinder
	timeProvider    TimeProvider
	logs            Logger
}

// NewUseCase создает новый экземпляр UseCase
func NewUseCase(
	appointmentRepo AppointmentRepository,
	cat Catalog,
	txManager TxManager,
	mailSender MailSender,
	mailLogRepo MailLogRepository,
	slotFinder SlotFinder,
	timeProvider TimeProvider,
	logs Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		catalog:         cat,
		txManager:       txManager,
		mailSender:      mailSender,
		mailLogRepo:     mailLogRepo,
		slotFinder:      slotFinder,
		timeProvider:    timeProvider,
		logs:            logs,
	}
}

// Execute создает запись на услугу
// При занятом слоте возвращает ErrSlotConflict и отправляет клиенту
// письмо с альтернативными слотами (best-effort)
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logs.Warn("ScheduleAppointment: validation failed: %v", err)
		return nil, err
	}

	service, err := uc.catalog.ServiceByName(req.ServiceName)
	if err != nil {
		uc.logs.Warn("ScheduleAppointment: unknown service %q", req.ServiceName)
		return nil, fmt.Errorf("%w: %s", ErrUnknownService, req.ServiceName)
	}

	rules := uc.catalog.Rules()
	now := uc.timeProvider.Now()
	start := req.StartTime
	end := start.Add(service.Duration())

	if err := validateAdvance(start, now, rules); err != nil {
		return nil, err
	}

	// Праздничная дата - ошибка запроса, доступность мастеров не проверяется
	if uc.catalog.IsHoliday(start) {
		return nil, fmt.Errorf("%w: salon is closed on %s", ErrInvalidInput, start.Format(domain.DateFormat))
	}

	candidates, err := uc.resolveCandidates(req.StylistID, service, start, end)
	if err != nil {
		return nil, err
	}

	var created *domain.Appointment
	txErr := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var bookErr error
		created, bookErr = uc.book(txCtx, req, service, rules, candidates, start, end)
		return bookErr
	})

	if txErr != nil {
		if errors.Is(txErr, ErrSlotConflict) {
			uc.notifyConflict(ctx, req, service, start)
		}
		return nil, txErr
	}

	uc.logs.Info("ScheduleAppointment: created appointment %d for %s with %s at %s",
		created.ID, created.ClientEmail, created.StylistID, created.StartTime.Format(time.RFC3339))

	uc.notifyBooked(ctx, created, service)

	return &Response{Appointment: created}, nil
}

// resolveCandidates определяет мастеров, в рабочее окно которых помещается слот
// Для явно запрошенного мастера нарушение любого ограничения - ошибка;
// при свободном выборе непригодные мастера просто отбрасываются
func (uc *UseCase) resolveCandidates(stylistID *string, service domain.Service, start, end time.Time) ([]domain.Stylist, error) {
	if stylistID != nil {
		stylist, err := uc.catalog.StylistByID(*stylistID)
		if err != nil {
			if errors.Is(err, catalog.ErrUnknownStylist) {
				return nil, fmt.Errorf("%w: %s", ErrUnknownStylist, *stylistID)
			}
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}

		if !stylist.HasSpecialty(service.Name) {
			return nil, fmt.Errorf("%w: stylist %s does not perform %s", ErrStylistNotQualified, stylist.ID, service.Name)
		}

		if !uc.withinWorkWindow(stylist, start, end) {
			return nil, fmt.Errorf("%w: %s is outside stylist %s working hours", ErrStylistUnavailable, start.Format(time.RFC3339), stylist.ID)
		}

		return []domain.Stylist{stylist}, nil
	}

	qualified := uc.catalog.StylistsFor(service.Name)
	candidates := make([]domain.Stylist, 0, len(qualified))
	for _, stylist := range qualified {
		if uc.withinWorkWindow(stylist, start, end) {
			candidates = append(candidates, stylist)
		}
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no stylist works at %s", ErrStylistUnavailable, start.Format(time.RFC3339))
	}

	return candidates, nil
}

// withinWorkWindow проверяет, что слот целиком лежит в рабочем окне мастера
// Окончание ровно в конец окна допустимо
func (uc *UseCase) withinWorkWindow(stylist domain.Stylist, start, end time.Time) bool {
	window := uc.catalog.WorkWindow(stylist, start)
	if window == nil {
		return false
	}

	windowStart, err := window.Start.At(start)
	if err != nil {
		return false
	}
	windowEnd, err := window.End.At(start)
	if err != nil {
		return false
	}

	return !start.Before(windowStart) && !end.After(windowEnd)
}

// book выполняет проверку пересечений и вставку внутри транзакции
// Мастера перебираются в детерминированном порядке; бронируется первый
// без конфликта и с запасом по дневному лимиту
func (uc *UseCase) book(
	ctx context.Context,
	req *Request,
	service domain.Service,
	rules domain.BookingRules,
	candidates []domain.Stylist,
	start, end time.Time,
) (*domain.Appointment, error) {
	explicit := req.StylistID != nil
	sawConflict := false

	dayStart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	for _, stylist := range candidates {
		count, err := uc.appointmentRepo.CountActiveByStylistAndDate(ctx, stylist.ID, dayStart, dayEnd)
		if err != nil {
			return nil, fmt.Errorf("%w: count daily appointments: %v", ErrInternal, err)
		}
		if count >= rules.MaxDailyAppointments {
			if explicit {
				return nil, fmt.Errorf("%w: stylist %s has reached the daily limit", ErrStylistUnavailable, stylist.ID)
			}
			continue
		}

		// FOR UPDATE: строки дня блокируются до конца транзакции
		existing, err := uc.appointmentRepo.GetByStylistWithFilter(ctx, domain.StylistAppointmentsFilter{
			StylistID: stylist.ID,
			StartDate: &dayStart,
			EndDate:   &dayEnd,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: load day appointments: %v", ErrInternal, err)
		}

		if conflicts(existing, start, end, rules.Buffer()) {
			if explicit {
				return nil, ErrSlotConflict
			}
			sawConflict = true
			continue
		}

		appt := &domain.Appointment{
			ClientName:      req.ClientName,
			ClientEmail:     req.ClientEmail,
			ClientPhone:     req.ClientPhone,
			StylistID:       stylist.ID,
			ServiceName:     service.Name,
			ServicePrice:    service.Price,
			DurationMinutes: service.DurationMinutes,
			StartTime:       start,
			EndTime:         end,
			Status:          rules.InitialStatus(),
			Notes:           req.Notes,
		}

		created, err := uc.appointmentRepo.Create(ctx, appt)
		if err != nil {
			if errors.Is(err, appointment.ErrSlotTaken) {
				if explicit {
					return nil, ErrSlotConflict
				}
				sawConflict = true
				continue
			}
			return nil, fmt.Errorf("%w: create appointment: %v", ErrInternal, err)
		}

		return created, nil
	}

	if sawConflict {
		return nil, ErrSlotConflict
	}
	return nil, fmt.Errorf("%w: no stylist can take this slot", ErrStylistUnavailable)
}

// conflicts проверяет пересечение слота с активными записями с учетом буфера
func conflicts(appointments []*domain.Appointment, start, end time.Time, buffer time.Duration) bool {
	for _, a := range appointments {
		if !a.IsActive() {
			continue
		}
		if a.ConflictsWith(start, end, buffer) {
			return true
		}
	}
	return false
}

// notifyBooked отправляет письмо о созданной записи и пишет журнал
// Недоступность почтового сервиса не влияет на результат бронирования
func (uc *UseCase) notifyBooked(ctx context.Context, appt *domain.Appointment, service domain.Service) {
	stylistName := appt.StylistID
	if stylist, err := uc.catalog.StylistByID(appt.StylistID); err == nil {
		stylistName = stylist.Name
	}

	msg := &mailer.AppointmentMessage{
		AppointmentID: appt.ID,
		ClientName:    appt.ClientName,
		ClientEmail:   appt.ClientEmail,
		ServiceName:   service.Name,
		ServicePrice:  service.Price,
		StylistName:   stylistName,
		StartTime:     appt.StartTime,
		EndTime:       appt.EndTime,
	}

	mailType := "confirmation"
	var err error
	if appt.Status == domain.StatusConfirmed {
		err = uc.mailSender.SendConfirmation(ctx, msg)
	} else {
		mailType = "acknowledgment"
		err = uc.mailSender.SendAcknowledgment(ctx, msg)
	}

	status := maillog.StatusSent
	if err != nil {
		status = maillog.StatusFailed
		uc.logs.Warn("ScheduleAppointment: failed to send %s mail for appointment %d: %v", mailType, appt.ID, err)
	}

	logEntry := &maillog.Entry{
		AppointmentID: appt.ID,
		MailType:      mailType,
		Recipient:     appt.ClientEmail,
		Status:        status,
	}
	if logErr := uc.mailLogRepo.Create(ctx, logEntry); logErr != nil {
		uc.logs.Error("ScheduleAppointment: failed to log %s mail for appointment %d: %v", mailType, appt.ID, logErr)
	}
}

// notifyConflict подбирает альтернативные слоты на ту же дату и отправляет
// их клиенту (best-effort, без журнала - записи еще не существует)
func (uc *UseCase) notifyConflict(ctx context.Context, req *Request, service domain.Service, start time.Time) {
	if uc.slotFinder == nil {
		return
	}

	alternatives, err := uc.slotFinder.FindAlternatives(ctx, service.Name, start, alternativesLimit)
	if err != nil {
		uc.logs.Warn("ScheduleAppointment: failed to find alternatives: %v", err)
		return
	}
	if len(alternatives) == 0 {
		return
	}

	msg := &mailer.AlternativesMessage{
		ClientName:    req.ClientName,
		ClientEmail:   req.ClientEmail,
		ServiceName:   service.Name,
		RequestedTime: start,
		Alternatives:  alternatives,
	}

	if err := uc.mailSender.SendAlternatives(ctx, msg); err != nil {
		uc.logs.Warn("ScheduleAppointment: failed to send alternatives mail: %v", err)
	}
}
