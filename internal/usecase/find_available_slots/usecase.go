package find_available_slots

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/Salon-BookingService/internal/catalog"
	"github.com/m04kA/Salon-BookingService/internal/domain"
)

// UseCase бизнес-логика поиска доступных слотов
type UseCase struct {
	appointmentRepo AppointmentRepository
	catalog         Catalog
	timeProvider    TimeProvider
	logs            Logger
}

// NewUseCase создает новый экземпляр UseCase
func NewUseCase(appointmentRepo AppointmentRepository, cat Catalog, timeProvider TimeProvider, logs Logger) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		catalog:         cat,
		timeProvider:    timeProvider,
		logs:            logs,
	}
}

// Execute находит доступные слоты для услуги на заданную дату.
// Слоты разных мастеров с одинаковым временем начала объединяются,
// результат отсортирован по возрастанию времени начала.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logs.Warn("FindAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	service, err := uc.catalog.ServiceByName(req.ServiceName)
	if err != nil {
		uc.logs.Warn("FindAvailableSlots: unknown service %q", req.ServiceName)
		return nil, fmt.Errorf("%w: %s", ErrUnknownService, req.ServiceName)
	}

	rules := uc.catalog.Rules()
	now := uc.timeProvider.Now()

	if err := validateDate(req.Date, now, rules); err != nil {
		return nil, err
	}

	resp := &Response{
		ServiceName:     service.Name,
		Date:            req.Date,
		DurationMinutes: service.DurationMinutes,
		Slots:           []Slot{},
	}

	// Праздничный день: рабочих окон нет, слотов нет
	if uc.catalog.IsHoliday(req.Date) {
		return resp, nil
	}

	stylists, err := uc.resolveStylists(req.StylistID, service)
	if err != nil {
		return nil, err
	}

	byStart := make(map[time.Time][]string)

	for _, stylist := range stylists {
		window := uc.catalog.WorkWindow(stylist, req.Date)
		if window == nil {
			continue
		}

		candidates, err := candidateStarts(*window, req.Date, service.Duration(), now, rules, req.PreferredTime)
		if err != nil {
			uc.logs.Error("FindAvailableSlots: failed to build candidates for stylist %s: %v", stylist.ID, err)
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		if len(candidates) == 0 {
			continue
		}

		appointments, err := uc.loadDayAppointments(ctx, stylist.ID, req.Date)
		if err != nil {
			uc.logs.Error("FindAvailableSlots: failed to load appointments for stylist %s: %v", stylist.ID, err)
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}

		// Дневной лимит записей мастера исчерпан
		if countActive(appointments) >= rules.MaxDailyAppointments {
			continue
		}

		for _, start := range candidates {
			end := start.Add(service.Duration())
			if hasConflict(appointments, start, end, rules.Buffer()) {
				continue
			}
			byStart[start] = append(byStart[start], stylist.ID)
		}
	}

	resp.Slots = mergeSlots(byStart)

	uc.logs.Info("FindAvailableSlots: service=%s date=%s slots=%d", service.Name, req.Date.Format(domain.DateFormat), len(resp.Slots))

	return resp, nil
}

// FindAlternatives возвращает до limit свободных стартов на дату запрошенного
// времени, ближайших к нему. Используется движком бронирования для письма
// с альтернативами при занятом слоте
func (uc *UseCase) FindAlternatives(ctx context.Context, serviceName string, requested time.Time, limit int) ([]time.Time, error) {
	date := time.Date(requested.Year(), requested.Month(), requested.Day(), 0, 0, 0, 0, requested.Location())

	resp, err := uc.Execute(ctx, &Request{
		ServiceName: serviceName,
		Date:        date,
	})
	if err != nil {
		return nil, err
	}

	starts := make([]time.Time, 0, len(resp.Slots))
	for _, slot := range resp.Slots {
		starts = append(starts, slot.StartTime)
	}

	// Ближайшие к запрошенному времени в начало
	sort.Slice(starts, func(i, j int) bool {
		di := absDuration(starts[i].Sub(requested))
		dj := absDuration(starts[j].Sub(requested))
		return di < dj
	})

	if len(starts) > limit {
		starts = starts[:limit]
	}

	// Альтернативы в письме идут по возрастанию времени
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })

	return starts, nil
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// resolveStylists определяет список мастеров для поиска: либо один запрошенный
// (с проверкой специализации), либо все мастера с нужной специализацией
func (uc *UseCase) resolveStylists(stylistID *string, service domain.Service) ([]domain.Stylist, error) {
	if stylistID == nil {
		return uc.catalog.StylistsFor(service.Name), nil
	}

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

	return []domain.Stylist{stylist}, nil
}

// loadDayAppointments загружает активные записи мастера за календарный день
func (uc *UseCase) loadDayAppointments(ctx context.Context, stylistID string, date time.Time) ([]*domain.Appointment, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	return uc.appointmentRepo.GetByStylistWithFilter(ctx, domain.StylistAppointmentsFilter{
		StylistID: stylistID,
		StartDate: &dayStart,
		EndDate:   &dayEnd,
	})
}

func countActive(appointments []*domain.Appointment) int {
	count := 0
	for _, a := range appointments {
		if a.IsActive() {
			count++
		}
	}
	return count
}
