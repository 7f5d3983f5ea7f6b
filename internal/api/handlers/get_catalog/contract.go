package get_catalog

import (
	"time"

	"github.com/m04kA/Salon-BookingService/internal/domain"
)

// Catalog интерфейс каталога салона
type Catalog interface {
	Services() []domain.Service
	Stylists() []domain.Stylist
	Holidays() []string
	Location() *time.Location
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
