package get_stylist_appointments

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/Salon-BookingService/internal/api/handlers"
	"github.com/m04kA/Salon-BookingService/internal/service/appointments"
)

const (
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidStatus   = "некорректный статус записи"
	msgStylistNotFound = "мастер не найден"
)

type Handler struct {
	service  AppointmentService
	location *time.Location
	logger   Logger
}

func NewHandler(service AppointmentService, location *time.Location, logger Logger) *Handler {
	return &Handler{
		service:  service,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/stylists/{stylistId}/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	stylistID := vars["stylistId"]

	req, err := parseQuery(stylistID, r.URL.Query(), h.location)
	if err != nil {
		h.logger.Warn("GET /stylists/{id}/appointments - Invalid date filter: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.GetStylistAppointments(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrStylistNotFound):
			h.logger.Warn("GET /stylists/{id}/appointments - Stylist not found: stylist=%s", stylistID)
			handlers.RespondNotFound(w, msgStylistNotFound)

		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /stylists/{id}/appointments - Invalid status filter: stylist=%s", stylistID)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /stylists/{id}/appointments - Failed to get appointments: stylist=%s, error=%v",
				stylistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /stylists/{id}/appointments - Retrieved %d appointments: stylist=%s",
		len(result.Appointments), stylistID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
