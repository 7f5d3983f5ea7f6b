package schedule_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/Salon-BookingService/internal/api/handlers"
	"github.com/m04kA/Salon-BookingService/internal/api/middleware"
	scheduleAppointment "github.com/m04kA/Salon-BookingService/internal/usecase/schedule_appointment"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidStartTime    = "некорректный формат времени начала, ожидается ISO 8601"
	msgMissingClientEmail  = "отсутствует email клиента"
	msgUnknownService      = "услуга не найдена"
	msgUnknownStylist      = "мастер не найден"
	msgStylistNotQualified = "мастер не оказывает эту услугу"
	msgStylistUnavailable  = "мастер недоступен в выбранное время"
	msgSlotConflict        = "выбранный слот занят, альтернативы отправлены на email"
	msgInvalidInput        = "некорректные данные записи"
)

type Handler struct {
	useCase ScheduleAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase ScheduleAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clientEmail, ok := middleware.GetClientEmail(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing client email")
		handlers.RespondUnauthorized(w, msgMissingClientEmail)
		return
	}

	var req ScheduleAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(clientEmail)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse start time %q: %v", req.StartTime, err)
		handlers.RespondBadRequest(w, msgInvalidStartTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, scheduleAppointment.ErrSlotConflict):
			h.logger.Warn("POST /appointments - Slot conflict: client=%s, service=%s, start=%s",
				clientEmail, req.ServiceName, req.StartTime)
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, scheduleAppointment.ErrUnknownService):
			h.logger.Warn("POST /appointments - Unknown service: %s", req.ServiceName)
			handlers.RespondError(w, http.StatusNotFound, handlers.KindUnknownService, msgUnknownService)

		case errors.Is(err, scheduleAppointment.ErrUnknownStylist):
			h.logger.Warn("POST /appointments - Unknown stylist: %v", req.StylistID)
			handlers.RespondNotFound(w, msgUnknownStylist)

		case errors.Is(err, scheduleAppointment.ErrStylistNotQualified):
			h.logger.Warn("POST /appointments - Stylist not qualified: stylist=%v, service=%s",
				req.StylistID, req.ServiceName)
			handlers.RespondError(w, http.StatusConflict, handlers.KindStylistUnavailable, msgStylistNotQualified)

		case errors.Is(err, scheduleAppointment.ErrStylistUnavailable):
			h.logger.Warn("POST /appointments - Stylist unavailable: client=%s, start=%s", clientEmail, req.StartTime)
			handlers.RespondError(w, http.StatusConflict, handlers.KindStylistUnavailable, msgStylistUnavailable)

		case errors.Is(err, scheduleAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: client=%s, error=%v", clientEmail, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /appointments - Failed to schedule appointment: client=%s, error=%v", clientEmail, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, client=%s, stylist=%s",
		result.Appointment.ID, clientEmail, result.Appointment.StylistID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
