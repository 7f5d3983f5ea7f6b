package get_client_appointments

import (
	"errors"
	"net/http"

	"github.com/m04kA/Salon-BookingService/internal/api/handlers"
	"github.com/m04kA/Salon-BookingService/internal/api/middleware"
	"github.com/m04kA/Salon-BookingService/internal/service/appointments"
	"github.com/m04kA/Salon-BookingService/internal/service/appointments/models"
)

const (
	msgMissingClientEmail = "отсутствует email клиента"
	msgInvalidStatus      = "некорректный статус записи"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/appointments?status=confirmed
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clientEmail, ok := middleware.GetClientEmail(r.Context())
	if !ok {
		h.logger.Warn("GET /appointments - Missing client email")
		handlers.RespondUnauthorized(w, msgMissingClientEmail)
		return
	}

	req := &models.GetClientAppointmentsRequest{
		ClientEmail: clientEmail,
	}

	if status := r.URL.Query().Get("status"); status != "" {
		req.Status = &status
	}

	result, err := h.service.GetClientAppointments(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /appointments - Invalid status filter: client=%s", clientEmail)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /appointments - Failed to get appointments: client=%s, error=%v", clientEmail, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /appointments - Retrieved %d appointments: client=%s", len(result.Appointments), clientEmail)
	handlers.RespondJSON(w, http.StatusOK, result)
}
