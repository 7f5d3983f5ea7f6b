package find_available_slots

import (
	"context"

	findSlots "github.com/m04kA/Salon-BookingService/internal/usecase/find_available_slots"
)

type FindAvailableSlotsUseCase interface {
	Execute(ctx context.Context, req *findSlots.Request) (*findSlots.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
