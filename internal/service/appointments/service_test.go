package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/Salon-BookingService/internal/domain"
	appointmentRepo "github.com/m04kA/Salon-BookingService/internal/infra/storage/appointment"
	"github.com/m04kA/Salon-BookingService/internal/service/appointments/models"
	"github.com/m04kA/Salon-BookingService/pkg/ptr"
)

// fakeRepo репозиторий записей в памяти
// beforeWrite выполняется перед мутацией и позволяет вклинить
// конкурирующую смену статуса между чтением сервиса и записью
type fakeRepo struct {
	byID        map[int64]*domain.Appointment
	beforeWrite func()
}

func (r *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	appt, ok := r.byID[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return appt, nil
}

func (r *fakeRepo) GetByClientEmail(_ context.Context, email string, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	var result []*domain.Appointment
	for _, a := range r.byID {
		if a.ClientEmail != email {
			continue
		}
		if status != nil && a.Status != *status {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

func (r *fakeRepo) GetByStylistWithFilter(_ context.Context, filter domain.StylistAppointmentsFilter) ([]*domain.Appointment, error) {
	var result []*domain.Appointment
	for _, a := range r.byID {
		if a.StylistID != filter.StylistID {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		if filter.Status == nil && !filter.IncludeInactive && !a.IsActive() {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, id int64, status domain.AppointmentStatus) error {
	if r.beforeWrite != nil {
		r.beforeWrite()
	}
	appt, ok := r.byID[id]
	if !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	// Как и в SQL: терминальные строки фильтр по статусу не пропускает
	if appt.IsTerminal() {
		return appointmentRepo.ErrInvalidStatusTransition
	}
	appt.Status = status
	return nil
}

func (r *fakeRepo) Cancel(_ context.Context, id int64, reason string) error {
	if r.beforeWrite != nil {
		r.beforeWrite()
	}
	appt, ok := r.byID[id]
	if !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	if appt.IsTerminal() {
		return appointmentRepo.ErrInvalidStatusTransition
	}
	now := time.Now()
	appt.Status = domain.StatusCancelled
	appt.CancellationReason = &reason
	appt.CancelledAt = &now
	return nil
}

// fakeCatalog каталог с фиксированным набором мастеров
type fakeCatalog struct {
	stylists map[string]domain.Stylist
}

func (c *fakeCatalog) StylistByID(id string) (domain.Stylist, error) {
	st, ok := c.stylists[id]
	if !ok {
		return domain.Stylist{}, ErrStylistNotFound
	}
	return st, nil
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func testAppointment(id int64, status domain.AppointmentStatus) *domain.Appointment {
	start := time.Date(2026, time.September, 7, 10, 0, 0, 0, time.UTC)
	return &domain.Appointment{
		ID:              id,
		ClientName:      "Test Client",
		ClientEmail:     "client@example.com",
		StylistID:       "alice",
		ServiceName:     "haircut",
		ServicePrice:    50,
		DurationMinutes: 45,
		StartTime:       start,
		EndTime:         start.Add(45 * time.Minute),
		Status:          status,
	}
}

func newTestService(appointments ...*domain.Appointment) (*Service, *fakeRepo) {
	repo := &fakeRepo{byID: map[int64]*domain.Appointment{}}
	for _, a := range appointments {
		repo.byID[a.ID] = a
	}
	cat := &fakeCatalog{stylists: map[string]domain.Stylist{
		"alice": {ID: "alice", Name: "Alice Johnson"},
	}}
	return NewService(repo, cat, nopLogger{}), repo
}

func TestService_GetByID(t *testing.T) {
	svc, _ := newTestService(testAppointment(1, domain.StatusConfirmed))

	resp, err := svc.GetByID(context.Background(), 1, "client@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, "2026-09-07T10:00:00Z", resp.StartTime)

	// Email сравнивается регистронезависимо
	_, err = svc.GetByID(context.Background(), 1, "Client@Example.COM")
	assert.NoError(t, err)

	// Чужая запись недоступна
	_, err = svc.GetByID(context.Background(), 1, "other@example.com")
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetByID(context.Background(), 42, "client@example.com")
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestService_GetClientAppointments(t *testing.T) {
	confirmed := testAppointment(1, domain.StatusConfirmed)
	cancelled := testAppointment(2, domain.StatusCancelled)
	svc, _ := newTestService(confirmed, cancelled)

	resp, err := svc.GetClientAppointments(context.Background(), &models.GetClientAppointmentsRequest{
		ClientEmail: "client@example.com",
	})
	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 2)

	resp, err = svc.GetClientAppointments(context.Background(), &models.GetClientAppointmentsRequest{
		ClientEmail: "client@example.com",
		Status:      ptr.Ptr("confirmed"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Appointments, 1)
	assert.Equal(t, int64(1), resp.Appointments[0].ID)

	_, err = svc.GetClientAppointments(context.Background(), &models.GetClientAppointmentsRequest{
		ClientEmail: "client@example.com",
		Status:      ptr.Ptr("bogus"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_GetStylistAppointments(t *testing.T) {
	active := testAppointment(1, domain.StatusConfirmed)
	cancelled := testAppointment(2, domain.StatusCancelled)
	svc, _ := newTestService(active, cancelled)

	// По умолчанию отмененные скрыты
	resp, err := svc.GetStylistAppointments(context.Background(), &models.GetStylistAppointmentsRequest{
		StylistID: "alice",
	})
	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 1)

	resp, err = svc.GetStylistAppointments(context.Background(), &models.GetStylistAppointmentsRequest{
		StylistID:       "alice",
		IncludeInactive: true,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 2)

	_, err = svc.GetStylistAppointments(context.Background(), &models.GetStylistAppointmentsRequest{
		StylistID: "ghost",
	})
	assert.ErrorIs(t, err, ErrStylistNotFound)
}

func TestService_Cancel(t *testing.T) {
	svc, repo := newTestService(
		testAppointment(1, domain.StatusConfirmed),
		testAppointment(2, domain.StatusCompleted),
	)

	err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{
		ClientEmail:        "client@example.com",
		CancellationReason: "plans changed",
	})
	require.NoError(t, err)

	appt := repo.byID[1]
	assert.Equal(t, domain.StatusCancelled, appt.Status)
	require.NotNil(t, appt.CancellationReason)
	assert.Equal(t, "plans changed", *appt.CancellationReason)
	assert.NotNil(t, appt.CancelledAt)

	// Повторная отмена недопустима
	err = svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{
		ClientEmail: "client@example.com",
	})
	assert.ErrorIs(t, err, ErrCannotCancel)

	// Завершенную запись отменить нельзя
	err = svc.Cancel(context.Background(), 2, &models.CancelAppointmentRequest{
		ClientEmail: "client@example.com",
	})
	assert.ErrorIs(t, err, ErrCannotCancel)

	// Чужая запись
	err = svc.Cancel(context.Background(), 2, &models.CancelAppointmentRequest{
		ClientEmail: "other@example.com",
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	err = svc.Cancel(context.Background(), 42, &models.CancelAppointmentRequest{
		ClientEmail: "client@example.com",
	})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestService_Cancel_ConcurrentCompletionWins(t *testing.T) {
	svc, repo := newTestService(testAppointment(1, domain.StatusConfirmed))

	// Запись завершается между проверкой статуса и обновлением
	repo.beforeWrite = func() { repo.byID[1].Status = domain.StatusCompleted }

	err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{
		ClientEmail:        "client@example.com",
		CancellationReason: "plans changed",
	})
	assert.ErrorIs(t, err, ErrCannotCancel)

	// Завершенная запись не перетерта отменой
	assert.Equal(t, domain.StatusCompleted, repo.byID[1].Status)
	assert.Nil(t, repo.byID[1].CancellationReason)
}

func TestService_Complete_ConcurrentCancellationWins(t *testing.T) {
	svc, repo := newTestService(testAppointment(1, domain.StatusConfirmed))

	repo.beforeWrite = func() { repo.byID[1].Status = domain.StatusCancelled }

	err := svc.Complete(context.Background(), 1)
	assert.ErrorIs(t, err, ErrCannotComplete)
	assert.Equal(t, domain.StatusCancelled, repo.byID[1].Status)
}

func TestService_Complete(t *testing.T) {
	svc, repo := newTestService(
		testAppointment(1, domain.StatusConfirmed),
		testAppointment(2, domain.StatusPending),
	)

	err := svc.Complete(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, repo.byID[1].Status)

	// Неподтвержденную запись завершить нельзя
	err = svc.Complete(context.Background(), 2)
	assert.ErrorIs(t, err, ErrCannotComplete)

	err = svc.Complete(context.Background(), 42)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}
