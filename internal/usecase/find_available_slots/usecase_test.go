package find_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/Salon-BookingService/internal/catalog"
	"github.com/m04kA/Salon-BookingService/internal/config"
	"github.com/m04kA/Salon-BookingService/internal/domain"
	"github.com/m04kA/Salon-BookingService/pkg/ptr"
	"github.com/m04kA/Salon-BookingService/pkg/types"
)

// fakeAppointmentRepo репозиторий записей в памяти
type fakeAppointmentRepo struct {
	byStylist map[string][]*domain.Appointment
}

func (r *fakeAppointmentRepo) GetByStylistWithFilter(_ context.Context, filter domain.StylistAppointmentsFilter) ([]*domain.Appointment, error) {
	var result []*domain.Appointment
	for _, a := range r.byStylist[filter.StylistID] {
		if filter.StartDate != nil && a.StartTime.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && !a.StartTime.Before(*filter.EndDate) {
			continue
		}
		if !filter.IncludeInactive && !a.IsActive() {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time { return p.now }

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	salon := config.SalonConfig{
		Timezone: "UTC",
		BusinessHours: map[string]config.HoursConfig{
			"monday":    {Start: "09:00", End: "18:00"},
			"tuesday":   {Start: "09:00", End: "18:00"},
			"wednesday": {Start: "09:00", End: "18:00"},
			"saturday":  {Start: "09:00", End: "16:00"},
		},
		Services: map[string]config.ServiceConfig{
			"haircut": {DurationMinutes: 45, Price: 50},
			"color":   {DurationMinutes: 120, Price: 120},
		},
		Stylists: map[string]config.StylistConfig{
			"alice": {
				Name:        "Alice Johnson",
				Email:       "alice@salon.example",
				Specialties: []string{"haircut", "color"},
			},
			"bob": {
				Name:        "Bob Smith",
				Email:       "bob@salon.example",
				Specialties: []string{"color"},
				Schedule: map[string]config.HoursConfig{
					"monday": {Start: "10:00", End: "18:00"},
				},
			},
		},
		Holidays: []string{"2026-12-25"},
	}

	booking := config.BookingConfig{
		MinAdvanceHours:      24,
		MaxAdvanceDays:       30,
		SlotIntervalMinutes:  15,
		BufferMinutes:        15,
		MaxDailyAppointments: 20,
		AutoConfirm:          true,
	}

	c, err := catalog.New(salon, booking)
	require.NoError(t, err)
	return c
}

func newTestUseCase(t *testing.T, repo *fakeAppointmentRepo, now time.Time) *UseCase {
	t.Helper()
	if repo == nil {
		repo = &fakeAppointmentRepo{byStylist: map[string][]*domain.Appointment{}}
	}
	return NewUseCase(repo, testCatalog(t), &fixedTimeProvider{now: now}, nopLogger{})
}

func activeAppointment(stylistID string, start time.Time, minutes int) *domain.Appointment {
	return &domain.Appointment{
		ID:              1,
		ClientName:      "Test Client",
		ClientEmail:     "client@example.com",
		StylistID:       stylistID,
		ServiceName:     "haircut",
		DurationMinutes: minutes,
		StartTime:       start,
		EndTime:         start.Add(time.Duration(minutes) * time.Minute),
		Status:          domain.StatusConfirmed,
	}
}

func slotStarts(slots []Slot) []time.Time {
	starts := make([]time.Time, 0, len(slots))
	for _, s := range slots {
		starts = append(starts, s.StartTime)
	}
	return starts
}

func TestUseCase_Execute_FreeDay(t *testing.T) {
	// Понедельник 2026-09-07, запрос за неделю
	now := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(t, nil, now)

	resp, err := uc.Execute(context.Background(), &Request{
		ServiceName: "haircut",
		Date:        date,
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, "haircut", resp.ServiceName)
	assert.Equal(t, 45, resp.DurationMinutes)

	// Окно 09:00-18:00, шаг 15 минут, последний старт 17:15 (окончание ровно в 18:00)
	require.NotEmpty(t, resp.Slots)
	first := resp.Slots[0]
	last := resp.Slots[len(resp.Slots)-1]
	assert.Equal(t, time.Date(2026, time.September, 7, 9, 0, 0, 0, time.UTC), first.StartTime)
	assert.Equal(t, time.Date(2026, time.September, 7, 17, 15, 0, 0, time.UTC), last.StartTime)
	assert.Len(t, resp.Slots, 34)

	// Только Алиса стрижет
	for _, slot := range resp.Slots {
		assert.Equal(t, []string{"alice"}, slot.StylistIDs)
	}
}

func TestUseCase_Execute_MergesStylists(t *testing.T) {
	now := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(t, nil, now)

	resp, err := uc.Execute(context.Background(), &Request{
		ServiceName: "color",
		Date:        date,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Slots)

	// Алиса с 09:00, Боб по понедельникам с 10:00
	assert.Equal(t, time.Date(2026, time.September, 7, 9, 0, 0, 0, time.UTC), resp.Slots[0].StartTime)
	assert.Equal(t, []string{"alice"}, resp.Slots[0].StylistIDs)

	var at10 *Slot
	for i := range resp.Slots {
		if resp.Slots[i].StartTime.Equal(time.Date(2026, time.September, 7, 10, 0, 0, 0, time.UTC)) {
			at10 = &resp.Slots[i]
			break
		}
	}
	require.NotNil(t, at10)
	assert.Equal(t, []string{"alice", "bob"}, at10.StylistIDs)

	// Длительность 120 минут: последний старт 16:00
	last := resp.Slots[len(resp.Slots)-1]
	assert.Equal(t, time.Date(2026, time.September, 7, 16, 0, 0, 0, time.UTC), last.StartTime)
}

func TestUseCase_Execute_BufferAroundAppointment(t *testing.T) {
	now := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC)

	// Запись Алисы 10:00-10:45, буфер 15 минут с обеих сторон
	repo := &fakeAppointmentRepo{byStylist: map[string][]*domain.Appointment{
		"alice": {activeAppointment("alice", time.Date(2026, time.September, 7, 10, 0, 0, 0, time.UTC), 45)},
	}}

	uc := newTestUseCase(t, repo, now)

	resp, err := uc.Execute(context.Background(), &Request{
		ServiceName: "haircut",
		Date:        date,
	})
	require.NoError(t, err)

	starts := slotStarts(resp.Slots)

	// Слот 09:00-09:45 заканчивается ровно на границе буфера - не конфликт
	assert.Contains(t, starts, time.Date(2026, time.September, 7, 9, 0, 0, 0, time.UTC))
	// Слот 11:00 начинается ровно на границе буфера - не конфликт
	assert.Contains(t, starts, time.Date(2026, time.September, 7, 11, 0, 0, 0, time.UTC))

	// Все старты от 09:15 до 10:45 включительно пересекают буферизованное окно
	for m := 9*60 + 15; m <= 10*60+45; m += 15 {
		blocked := time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC).Add(time.Duration(m) * time.Minute)
		assert.NotContains(t, starts, blocked, "start %s must be blocked", blocked.Format("15:04"))
	}
}

func TestUseCase_Execute_CancelledAppointmentDoesNotBlock(t *testing.T) {
	now := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC)

	cancelled := activeAppointment("alice", time.Date(2026, time.September, 7, 10, 0, 0, 0, time.UTC), 45)
	cancelled.Status = domain.StatusCancelled

	repo := &fakeAppointmentRepo{byStylist: map[string][]*domain.Appointment{
		"alice": {cancelled},
	}}

	uc := newTestUseCase(t, repo, now)

	resp, err := uc.Execute(context.Background(), &Request{
		ServiceName: "haircut",
		Date:        date,
	})
	require.NoError(t, err)

	assert.Contains(t, slotStarts(resp.Slots), time.Date(2026, time.September, 7, 10, 0, 0, 0, time.UTC))
}

func TestUseCase_Execute_MinAdvanceBoundaryInclusive(t *testing.T) {
	// Сейчас понедельник 10:00; минимальное уведомление 24 часа
	now := time.Date(2026, time.September, 7, 10, 0, 0, 0, time.UTC)
	date := time.Date(2026, time.September, 8, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(t, nil, now)

	resp, err := uc.Execute(context.Background(), &Request{
		ServiceName: "haircut",
		Date:        date,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Slots)

	// Старт ровно через 24 часа разрешен, более ранние отрезаны
	assert.Equal(t, time.Date(2026, time.September, 8, 10, 0, 0, 0, time.UTC), resp.Slots[0].StartTime)
}

func TestUseCase_Execute_PreferredTimeRoundsUp(t *testing.T) {
	now := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(t, nil, now)

	preferred := types.TimeString("10:07")
	resp, err := uc.Execute(context.Background(), &Request{
		ServiceName:   "haircut",
		Date:          date,
		PreferredTime: &preferred,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Slots)

	// 10:07 округляется вверх до узла сетки 10:15
	assert.Equal(t, time.Date(2026, time.September, 7, 10, 15, 0, 0, time.UTC), resp.Slots[0].StartTime)
}

func TestUseCase_Execute_HolidayAndClosedDay(t *testing.T) {
	now := time.Date(2026, time.December, 1, 12, 0, 0, 0, time.UTC)

	uc := newTestUseCase(t, nil, now)

	// Праздник
	resp, err := uc.Execute(context.Background(), &Request{
		ServiceName: "haircut",
		Date:        time.Date(2026, time.December, 25, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)

	// Воскресенье: салон закрыт
	resp, err = uc.Execute(context.Background(), &Request{
		ServiceName: "haircut",
		Date:        time.Date(2026, time.December, 6, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestUseCase_Execute_SpecificStylist(t *testing.T) {
	now := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(t, nil, now)

	resp, err := uc.Execute(context.Background(), &Request{
		ServiceName: "color",
		Date:        date,
		StylistID:   ptr.Ptr("bob"),
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Slots)
	assert.Equal(t, time.Date(2026, time.September, 7, 10, 0, 0, 0, time.UTC), resp.Slots[0].StartTime)
	for _, slot := range resp.Slots {
		assert.Equal(t, []string{"bob"}, slot.StylistIDs)
	}

	// Боб не стрижет
	_, err = uc.Execute(context.Background(), &Request{
		ServiceName: "haircut",
		Date:        date,
		StylistID:   ptr.Ptr("bob"),
	})
	assert.ErrorIs(t, err, ErrStylistNotQualified)

	_, err = uc.Execute(context.Background(), &Request{
		ServiceName: "haircut",
		Date:        date,
		StylistID:   ptr.Ptr("ghost"),
	})
	assert.ErrorIs(t, err, ErrUnknownStylist)
}

func TestUseCase_Execute_DateValidation(t *testing.T) {
	now := time.Date(2026, time.September, 7, 12, 0, 0, 0, time.UTC)

	uc := newTestUseCase(t, nil, now)

	_, err := uc.Execute(context.Background(), &Request{
		ServiceName: "haircut",
		Date:        time.Date(2026, time.September, 6, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = uc.Execute(context.Background(), &Request{
		ServiceName: "haircut",
		Date:        time.Date(2026, time.October, 8, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)

	_, err = uc.Execute(context.Background(), &Request{
		ServiceName: "massage",
		Date:        time.Date(2026, time.September, 9, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrUnknownService)

	_, err = uc.Execute(context.Background(), &Request{
		ServiceName: "",
		Date:        time.Date(2026, time.September, 9, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUseCase_Execute_TodayInDateZoneNotPast(t *testing.T) {
	// По часам сервера (UTC) уже вторник 02:00, но в зоне запрошенной
	// даты еще понедельник - дата не должна считаться прошедшей
	loc := time.FixedZone("UTC-4", -4*3600)
	now := time.Date(2026, time.September, 8, 2, 0, 0, 0, time.UTC)
	date := time.Date(2026, time.September, 7, 0, 0, 0, 0, loc)

	uc := newTestUseCase(t, nil, now)

	resp, err := uc.Execute(context.Background(), &Request{
		ServiceName: "haircut",
		Date:        date,
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	// Минимальное уведомление 24 часа отрезает все слоты дня, но это
	// пустой результат, а не отказ по дате
	assert.Empty(t, resp.Slots)
}

func TestUseCase_Execute_DailyCapReached(t *testing.T) {
	now := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC)

	// Забиваем день Алисы до дневного лимита
	repo := &fakeAppointmentRepo{byStylist: map[string][]*domain.Appointment{}}
	for i := 0; i < 20; i++ {
		start := time.Date(2026, time.September, 7, 9, 0, 0, 0, time.UTC).Add(time.Duration(i) * 15 * time.Minute)
		repo.byStylist["alice"] = append(repo.byStylist["alice"], activeAppointment("alice", start, 15))
	}

	uc := newTestUseCase(t, repo, now)

	resp, err := uc.Execute(context.Background(), &Request{
		ServiceName: "haircut",
		Date:        date,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}
