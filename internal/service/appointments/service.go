package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/Salon-BookingService/internal/domain"
	appointmentRepo "github.com/m04kA/Salon-BookingService/internal/infra/storage/appointment"
	"github.com/m04kA/Salon-BookingService/internal/service/appointments/models"
)

// Service сервис для работы с записями на услуги
type Service struct {
	appointmentRepo AppointmentRepository
	catalog         Catalog
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	catalog Catalog,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		catalog:         catalog,
		logger:          logger,
	}
}

// GetByID получает запись по ID
// Клиент может видеть только собственные записи (по email)
func (s *Service) GetByID(ctx context.Context, id int64, clientEmail string) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for client=%s", id, clientEmail)

	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if err := s.checkClientAccess(appt, clientEmail); err != nil {
		s.logger.Warn("GetByID: access denied for client=%s to appointment id=%d", clientEmail, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return models.FromDomainAppointment(appt), nil
}

// GetClientAppointments получает историю записей клиента по email
// Опционально фильтрует по статусу
func (s *Service) GetClientAppointments(ctx context.Context, req *models.GetClientAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetClientAppointments: fetching appointments for client=%s, status=%v", req.ClientEmail, req.Status)

	if req.ClientEmail == "" {
		return nil, fmt.Errorf("%w: client email is required", ErrInvalidInput)
	}

	var domainStatus *domain.AppointmentStatus
	if req.Status != nil {
		status, err := models.ToDomainAppointmentStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetClientAppointments: invalid status=%s for client=%s", *req.Status, req.ClientEmail)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	appointments, err := s.appointmentRepo.GetByClientEmail(ctx, req.ClientEmail, domainStatus)
	if err != nil {
		s.logger.Error("GetClientAppointments: repository error for client=%s: %v", req.ClientEmail, err)
		return nil, fmt.Errorf("%w: GetClientAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetClientAppointments: successfully fetched %d appointments for client=%s", len(appointments), req.ClientEmail)
	return models.FromDomainAppointmentList(appointments), nil
}

// GetStylistAppointments получает записи мастера с гибкой фильтрацией
// Поддерживает фильтрацию по периоду, статусу и включению отмененных записей
//
// Примеры использования:
// - Все активные записи: GetStylistAppointments(ctx, &GetStylistAppointmentsRequest{StylistID: "alice"})
// - Записи на дату: StartDate и EndDate ограничивают один день
// - Только подтвержденные: указать Status = "confirmed"
// - Включая отмененные: IncludeInactive = true
func (s *Service) GetStylistAppointments(ctx context.Context, req *models.GetStylistAppointmentsRequest) (*models.AppointmentListResponse, error) {
	logMsg := fmt.Sprintf("GetStylistAppointments: fetching appointments for stylist=%s", req.StylistID)
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info(logMsg)

	if _, err := s.catalog.StylistByID(req.StylistID); err != nil {
		s.logger.Warn("GetStylistAppointments: stylist=%s not found", req.StylistID)
		return nil, ErrStylistNotFound
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetStylistAppointments: invalid filter for stylist=%s: %v", req.StylistID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.GetByStylistWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetStylistAppointments: repository error for stylist=%s: %v", req.StylistID, err)
		return nil, fmt.Errorf("%w: GetStylistAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetStylistAppointments: successfully fetched %d appointments for stylist=%s", len(appointments), req.StylistID)
	return models.FromDomainAppointmentList(appointments), nil
}

// Cancel отменяет запись
// Отменить можно только ожидающую или подтвержденную запись;
// после отмены слот немедленно освобождается
func (s *Service) Cancel(ctx context.Context, appointmentID int64, req *models.CancelAppointmentRequest) error {
	s.logger.Info("Cancel: cancelling appointment id=%d by client=%s", appointmentID, req.ClientEmail)

	appt, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if err := s.checkClientAccess(appt, req.ClientEmail); err != nil {
		s.logger.Warn("Cancel: access denied for client=%s to appointment id=%d", req.ClientEmail, appointmentID)
		return err
	}

	if !appt.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", appointmentID, appt.Status)
		return ErrCannotCancel
	}

	if err := s.appointmentRepo.Cancel(ctx, appointmentID, req.CancellationReason); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found during cancellation", appointmentID)
			return ErrAppointmentNotFound
		}
		// Статус успел измениться между проверкой и обновлением
		if errors.Is(err, appointmentRepo.ErrInvalidStatusTransition) {
			s.logger.Warn("Cancel: appointment id=%d was finalized concurrently", appointmentID)
			return ErrCannotCancel
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%d", appointmentID)
	return nil
}

// Complete переводит подтвержденную запись в статус completed
// Используется администратором после оказания услуги
func (s *Service) Complete(ctx context.Context, appointmentID int64) error {
	s.logger.Info("Complete: completing appointment id=%d", appointmentID)

	appt, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Complete: appointment id=%d not found", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Complete: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Complete - repository error: %v", ErrInternal, err)
	}

	if !appt.CanBeCompleted() {
		s.logger.Warn("Complete: appointment id=%d cannot be completed, status=%s", appointmentID, appt.Status)
		return ErrCannotComplete
	}

	if err := s.appointmentRepo.UpdateStatus(ctx, appointmentID, domain.StatusCompleted); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Complete: appointment id=%d not found during update", appointmentID)
			return ErrAppointmentNotFound
		}
		// Статус успел измениться между проверкой и обновлением
		if errors.Is(err, appointmentRepo.ErrInvalidStatusTransition) {
			s.logger.Warn("Complete: appointment id=%d was finalized concurrently", appointmentID)
			return ErrCannotComplete
		}
		s.logger.Error("Complete: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Complete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Complete: successfully completed appointment id=%d", appointmentID)
	return nil
}

// Вспомогательные методы

// checkClientAccess проверяет, что запись принадлежит клиенту
// Сравнение email регистронезависимое
func (s *Service) checkClientAccess(appt *domain.Appointment, clientEmail string) error {
	if clientEmail == "" {
		return ErrAccessDenied
	}
	if !strings.EqualFold(appt.ClientEmail, clientEmail) {
		return ErrAccessDenied
	}
	return nil
}
