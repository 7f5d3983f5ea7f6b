package schedule_appointment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/Salon-BookingService/internal/catalog"
	"github.com/m04kA/Salon-BookingService/internal/config"
	"github.com/m04kA/Salon-BookingService/internal/domain"
	"github.com/m04kA/Salon-BookingService/internal/infra/storage/appointment"
	"github.com/m04kA/Salon-BookingService/internal/infra/storage/maillog"
	"github.com/m04kA/Salon-BookingService/internal/integrations/mailer"
	"github.com/m04kA/Salon-BookingService/pkg/ptr"
)

// fakeRepo репозиторий записей в памяти
// Потокобезопасность обеспечивает fakeTxManager: check-then-insert
// выполняется под его мьютексом, как в сериализуемой транзакции
type fakeRepo struct {
	nextID       int64
	appointments []*domain.Appointment
	createErr    error
}

func (r *fakeRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	if r.createErr != nil {
		err := r.createErr
		r.createErr = nil
		return nil, err
	}
	r.nextID++
	appt.ID = r.nextID
	appt.CreatedAt = time.Now()
	appt.UpdatedAt = appt.CreatedAt
	r.appointments = append(r.appointments, appt)
	return appt, nil
}

func (r *fakeRepo) GetByStylistWithFilter(_ context.Context, filter domain.StylistAppointmentsFilter) ([]*domain.Appointment, error) {
	var result []*domain.Appointment
	for _, a := range r.appointments {
		if a.StylistID != filter.StylistID {
			continue
		}
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

func (r *fakeRepo) CountActiveByStylistAndDate(_ context.Context, stylistID string, dayStart, dayEnd time.Time) (int, error) {
	count := 0
	for _, a := range r.appointments {
		if a.StylistID == stylistID && a.IsActive() &&
			!a.StartTime.Before(dayStart) && a.StartTime.Before(dayEnd) {
			count++
		}
	}
	return count, nil
}

// fakeTxManager сериализует транзакции мьютексом
type fakeTxManager struct {
	mu sync.Mutex
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

// fakeMailSender записывает отправленные письма
type fakeMailSender struct {
	mu              sync.Mutex
	acknowledgments []*mailer.AppointmentMessage
	confirmations   []*mailer.AppointmentMessage
	alternatives    []*mailer.AlternativesMessage
	sendErr         error
}

func (s *fakeMailSender) SendAcknowledgment(_ context.Context, msg *mailer.AppointmentMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sendErr != nil {
		return s.sendErr
	}
	s.acknowledgments = append(s.acknowledgments, msg)
	return nil
}

func (s *fakeMailSender) SendConfirmation(_ context.Context, msg *mailer.AppointmentMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sendErr != nil {
		return s.sendErr
	}
	s.confirmations = append(s.confirmations, msg)
	return nil
}

func (s *fakeMailSender) SendAlternatives(_ context.Context, msg *mailer.AlternativesMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sendErr != nil {
		return s.sendErr
	}
	s.alternatives = append(s.alternatives, msg)
	return nil
}

// fakeMailLog журнал писем в памяти
type fakeMailLog struct {
	mu      sync.Mutex
	entries []*maillog.Entry
}

func (l *fakeMailLog) Create(_ context.Context, entry *maillog.Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry.ID = int64(len(l.entries) + 1)
	entry.SentAt = time.Now()
	l.entries = append(l.entries, entry)
	return nil
}

// fakeSlotFinder возвращает заранее заданные альтернативы
type fakeSlotFinder struct {
	alternatives []time.Time
}

func (f *fakeSlotFinder) FindAlternatives(_ context.Context, _ string, _ time.Time, limit int) ([]time.Time, error) {
	if len(f.alternatives) > limit {
		return f.alternatives[:limit], nil
	}
	return f.alternatives, nil
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time { return p.now }

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func testCatalog(t *testing.T, autoConfirm bool) *catalog.Catalog {
	t.Helper()

	salon := config.SalonConfig{
		Timezone: "UTC",
		BusinessHours: map[string]config.HoursConfig{
			"monday":    {Start: "09:00", End: "18:00"},
			"tuesday":   {Start: "09:00", End: "18:00"},
			"wednesday": {Start: "09:00", End: "18:00"},
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
		AutoConfirm:          autoConfirm,
	}

	c, err := catalog.New(salon, booking)
	require.NoError(t, err)
	return c
}

type testEnv struct {
	uc      *UseCase
	repo    *fakeRepo
	sender  *fakeMailSender
	mailLog *fakeMailLog
	finder  *fakeSlotFinder
}

func newTestEnv(t *testing.T, now time.Time, autoConfirm bool) *testEnv {
	t.Helper()

	env := &testEnv{
		repo:    &fakeRepo{},
		sender:  &fakeMailSender{},
		mailLog: &fakeMailLog{},
		finder:  &fakeSlotFinder{},
	}
	env.uc = NewUseCase(
		env.repo,
		testCatalog(t, autoConfirm),
		&fakeTxManager{},
		env.sender,
		env.mailLog,
		env.finder,
		&fixedTimeProvider{now: now},
		nopLogger{},
	)
	return env
}

func validRequest(start time.Time) *Request {
	return &Request{
		ClientName:  "Test Client",
		ClientEmail: "client@example.com",
		ServiceName: "haircut",
		StylistID:   ptr.Ptr("alice"),
		StartTime:   start,
	}
}

var (
	testNow   = time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)
	testStart = time.Date(2026, time.September, 7, 10, 0, 0, 0, time.UTC) // Понедельник
)

func TestUseCase_Execute_Success(t *testing.T) {
	env := newTestEnv(t, testNow, true)

	resp, err := env.uc.Execute(context.Background(), validRequest(testStart))
	require.NoError(t, err)
	require.NotNil(t, resp.Appointment)

	appt := resp.Appointment
	assert.Equal(t, int64(1), appt.ID)
	assert.Equal(t, "alice", appt.StylistID)
	assert.Equal(t, domain.StatusConfirmed, appt.Status)
	assert.Equal(t, testStart, appt.StartTime)
	assert.Equal(t, testStart.Add(45*time.Minute), appt.EndTime)
	assert.Equal(t, 50.0, appt.ServicePrice)

	// Подтверждение отправлено и занесено в журнал
	require.Len(t, env.sender.confirmations, 1)
	assert.Equal(t, "Alice Johnson", env.sender.confirmations[0].StylistName)
	require.Len(t, env.mailLog.entries, 1)
	assert.Equal(t, "confirmation", env.mailLog.entries[0].MailType)
	assert.Equal(t, maillog.StatusSent, env.mailLog.entries[0].Status)
}

func TestUseCase_Execute_PendingWithoutAutoConfirm(t *testing.T) {
	env := newTestEnv(t, testNow, false)

	resp, err := env.uc.Execute(context.Background(), validRequest(testStart))
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, resp.Appointment.Status)
	assert.Empty(t, env.sender.confirmations)
	require.Len(t, env.sender.acknowledgments, 1)
	require.Len(t, env.mailLog.entries, 1)
	assert.Equal(t, "acknowledgment", env.mailLog.entries[0].MailType)
}

func TestUseCase_Execute_SlotConflictSendsAlternatives(t *testing.T) {
	env := newTestEnv(t, testNow, true)
	env.finder.alternatives = []time.Time{
		testStart.Add(2 * time.Hour),
		testStart.Add(3 * time.Hour),
	}

	_, err := env.uc.Execute(context.Background(), validRequest(testStart))
	require.NoError(t, err)

	// Повторное бронирование того же слота у того же мастера
	_, err = env.uc.Execute(context.Background(), validRequest(testStart))
	assert.ErrorIs(t, err, ErrSlotConflict)

	require.Len(t, env.sender.alternatives, 1)
	assert.Equal(t, testStart, env.sender.alternatives[0].RequestedTime)
	assert.Len(t, env.sender.alternatives[0].Alternatives, 2)
}

func TestUseCase_Execute_BufferBoundaries(t *testing.T) {
	env := newTestEnv(t, testNow, true)

	// Запись 10:00-10:45, буфер 15 минут: занято окно (09:45, 11:00)
	_, err := env.uc.Execute(context.Background(), validRequest(testStart))
	require.NoError(t, err)

	// Слот 09:00-09:45 заканчивается ровно на границе буфера
	resp, err := env.uc.Execute(context.Background(), validRequest(testStart.Add(-time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, resp.Appointment.Status)

	// Старт 10:45 попадает в буферизованное окно
	_, err = env.uc.Execute(context.Background(), validRequest(testStart.Add(45*time.Minute)))
	assert.ErrorIs(t, err, ErrSlotConflict)

	// Старт 11:00 ровно на границе буфера
	_, err = env.uc.Execute(context.Background(), validRequest(testStart.Add(time.Hour)))
	assert.NoError(t, err)
}

func TestUseCase_Execute_CancelledAppointmentFreesSlot(t *testing.T) {
	env := newTestEnv(t, testNow, true)

	resp, err := env.uc.Execute(context.Background(), validRequest(testStart))
	require.NoError(t, err)

	// Отмена освобождает слот немедленно
	resp.Appointment.Status = domain.StatusCancelled

	resp2, err := env.uc.Execute(context.Background(), validRequest(testStart))
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp2.Appointment.ID)
}

func TestUseCase_Execute_AnyStylistFallsBack(t *testing.T) {
	env := newTestEnv(t, testNow, true)

	// Занимаем слот Алисы
	occupied := validRequest(testStart)
	occupied.ServiceName = "color"
	occupied.StylistID = ptr.Ptr("alice")
	_, err := env.uc.Execute(context.Background(), occupied)
	require.NoError(t, err)

	// Без явного мастера запись уходит свободному Бобу
	req := validRequest(testStart)
	req.ServiceName = "color"
	req.StylistID = nil
	resp, err := env.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "bob", resp.Appointment.StylistID)
}

func TestUseCase_Execute_MinAdvanceBoundary(t *testing.T) {
	env := newTestEnv(t, testNow, true)

	// Ровно через 24 часа - разрешено (среда 2026-09-02 12:00)
	req := validRequest(testNow.Add(24 * time.Hour))
	_, err := env.uc.Execute(context.Background(), req)
	assert.NoError(t, err)

	// На минуту раньше границы - отказ
	req2 := validRequest(testNow.Add(24*time.Hour - time.Minute))
	_, err = env.uc.Execute(context.Background(), req2)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUseCase_Execute_ValidationAndCatalogErrors(t *testing.T) {
	env := newTestEnv(t, testNow, true)

	tests := []struct {
		name    string
		mutate  func(req *Request)
		wantErr error
	}{
		{
			name:    "empty client name",
			mutate:  func(req *Request) { req.ClientName = "  " },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "bad email",
			mutate:  func(req *Request) { req.ClientEmail = "not-an-email" },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown service",
			mutate:  func(req *Request) { req.ServiceName = "massage" },
			wantErr: ErrUnknownService,
		},
		{
			name:    "unknown stylist",
			mutate:  func(req *Request) { req.StylistID = ptr.Ptr("ghost") },
			wantErr: ErrUnknownStylist,
		},
		{
			name: "stylist not qualified",
			mutate: func(req *Request) {
				req.ServiceName = "haircut"
				req.StylistID = ptr.Ptr("bob")
			},
			wantErr: ErrStylistNotQualified,
		},
		{
			name: "outside working hours",
			mutate: func(req *Request) {
				req.StartTime = time.Date(2026, time.September, 7, 17, 30, 0, 0, time.UTC)
			},
			wantErr: ErrStylistUnavailable,
		},
		{
			name: "closed day",
			mutate: func(req *Request) {
				// Воскресенье
				req.StartTime = time.Date(2026, time.September, 6, 10, 0, 0, 0, time.UTC)
			},
			wantErr: ErrStylistUnavailable,
		},
		{
			name: "beyond max advance",
			mutate: func(req *Request) {
				req.StartTime = testNow.AddDate(0, 0, 31)
			},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest(testStart)
			tt.mutate(req)
			_, err := env.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUseCase_Execute_HolidayRejected(t *testing.T) {
	// Четверг 2026-12-25 объявлен праздником
	now := time.Date(2026, time.December, 20, 12, 0, 0, 0, time.UTC)
	env := newTestEnv(t, now, true)

	// Праздник отклоняется как некорректный запрос, а не как занятость мастера
	req := validRequest(time.Date(2026, time.December, 25, 10, 0, 0, 0, time.UTC))
	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.NotErrorIs(t, err, ErrStylistUnavailable)
}

func TestUseCase_Execute_ExclusionConstraintMapsToConflict(t *testing.T) {
	env := newTestEnv(t, testNow, true)

	// Констрейнт БД отклоняет вставку, даже если проверка в приложении прошла
	env.repo.createErr = appointment.ErrSlotTaken

	_, err := env.uc.Execute(context.Background(), validRequest(testStart))
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestUseCase_Execute_MailerFailureDoesNotFailBooking(t *testing.T) {
	env := newTestEnv(t, testNow, true)
	env.sender.sendErr = errors.New("mailer down")

	resp, err := env.uc.Execute(context.Background(), validRequest(testStart))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, resp.Appointment.Status)

	require.Len(t, env.mailLog.entries, 1)
	assert.Equal(t, maillog.StatusFailed, env.mailLog.entries[0].Status)
}

func TestUseCase_Execute_ConcurrentBookingSingleWinner(t *testing.T) {
	env := newTestEnv(t, testNow, true)

	const attempts = 8
	errs := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.uc.Execute(context.Background(), validRequest(testStart))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var won, conflicted int
	for err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, ErrSlotConflict):
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, won)
	assert.Equal(t, attempts-1, conflicted)

	// В хранилище ровно одна активная запись на этот слот
	count, err := env.repo.CountActiveByStylistAndDate(
		context.Background(), "alice",
		time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.September, 8, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
