package find_available_slots

import (
	"time"

	"github.com/m04kA/Salon-BookingService/internal/domain"
	findSlots "github.com/m04kA/Salon-BookingService/internal/usecase/find_available_slots"
)

// SlotResponse HTTP модель одного слота
type SlotResponse struct {
	StartTime  string   `json:"startTime"` // ISO 8601
	StylistIDs []string `json:"stylistIds"`
}

// SlotsResponse HTTP модель ответа со слотами
type SlotsResponse struct {
	ServiceName     string         `json:"serviceName"`
	Date            string         `json:"date"` // "2026-09-07"
	DurationMinutes int            `json:"durationMinutes"`
	Slots           []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *findSlots.Response) *SlotsResponse {
	slots := make([]SlotResponse, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = SlotResponse{
			StartTime:  slot.StartTime.Format(time.RFC3339),
			StylistIDs: slot.StylistIDs,
		}
	}

	return &SlotsResponse{
		ServiceName:     resp.ServiceName,
		Date:            resp.Date.Format(domain.DateFormat),
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}
}
