package find_available_slots

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/Salon-BookingService/internal/api/handlers"
	"github.com/m04kA/Salon-BookingService/internal/domain"
	findSlots "github.com/m04kA/Salon-BookingService/internal/usecase/find_available_slots"
	"github.com/m04kA/Salon-BookingService/pkg/types"
)

const (
	msgMissingService      = "не указана услуга"
	msgInvalidDate         = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime         = "некорректный формат времени, ожидается HH:MM"
	msgUnknownService      = "услуга не найдена"
	msgUnknownStylist      = "мастер не найден"
	msgStylistNotQualified = "мастер не оказывает эту услугу"
	msgDateInPast          = "дата в прошлом"
	msgDateTooFar          = "дата слишком далеко в будущем"
)

type Handler struct {
	useCase  FindAvailableSlotsUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase FindAvailableSlotsUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/slots?service=haircut&date=2026-09-07&preferredTime=10:00&stylistId=alice
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	serviceName := query.Get("service")
	if serviceName == "" {
		h.logger.Warn("GET /slots - Missing service parameter")
		handlers.RespondBadRequest(w, msgMissingService)
		return
	}

	// Дата интерпретируется в таймзоне салона
	date, err := time.ParseInLocation(domain.DateFormat, query.Get("date"), h.location)
	if err != nil {
		h.logger.Warn("GET /slots - Invalid date %q: %v", query.Get("date"), err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	req := &findSlots.Request{
		ServiceName: serviceName,
		Date:        date,
	}

	if preferredStr := query.Get("preferredTime"); preferredStr != "" {
		preferred, err := types.NewTimeStringFromString(preferredStr)
		if err != nil {
			h.logger.Warn("GET /slots - Invalid preferredTime %q: %v", preferredStr, err)
			handlers.RespondBadRequest(w, msgInvalidTime)
			return
		}
		req.PreferredTime = &preferred
	}

	if stylistID := query.Get("stylistId"); stylistID != "" {
		req.StylistID = &stylistID
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, findSlots.ErrUnknownService):
			h.logger.Warn("GET /slots - Unknown service: %s", serviceName)
			handlers.RespondError(w, http.StatusNotFound, handlers.KindUnknownService, msgUnknownService)

		case errors.Is(err, findSlots.ErrUnknownStylist):
			h.logger.Warn("GET /slots - Unknown stylist: %v", req.StylistID)
			handlers.RespondNotFound(w, msgUnknownStylist)

		case errors.Is(err, findSlots.ErrStylistNotQualified):
			h.logger.Warn("GET /slots - Stylist not qualified: stylist=%v, service=%s", req.StylistID, serviceName)
			handlers.RespondError(w, http.StatusConflict, handlers.KindStylistUnavailable, msgStylistNotQualified)

		case errors.Is(err, findSlots.ErrInvalidDate):
			h.logger.Warn("GET /slots - Date in past: %s", query.Get("date"))
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, findSlots.ErrDateTooFarInFuture):
			h.logger.Warn("GET /slots - Date too far in future: %s", query.Get("date"))
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, findSlots.ErrInvalidInput):
			h.logger.Warn("GET /slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgMissingService)

		default:
			h.logger.Error("GET /slots - Failed to find slots: service=%s, error=%v", serviceName, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /slots - Found %d slots: service=%s, date=%s", len(result.Slots), serviceName, query.Get("date"))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
