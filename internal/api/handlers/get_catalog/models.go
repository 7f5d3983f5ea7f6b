package get_catalog

import (
	"strings"

	"github.com/m04kA/Salon-BookingService/internal/domain"
)

// ServiceResponse HTTP модель услуги
type ServiceResponse struct {
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
}

// WorkWindowResponse HTTP модель рабочего окна
type WorkWindowResponse struct {
	Start string `json:"start"` // "09:00"
	End   string `json:"end"`   // "18:00"
}

// StylistResponse HTTP модель мастера
type StylistResponse struct {
	ID          string                        `json:"id"`
	Name        string                        `json:"name"`
	Specialties []string                      `json:"specialties"`
	Schedule    map[string]WorkWindowResponse `json:"schedule"`
}

// CatalogResponse HTTP модель каталога салона
type CatalogResponse struct {
	Timezone string            `json:"timezone"`
	Services []ServiceResponse `json:"services"`
	Stylists []StylistResponse `json:"stylists"`
	Holidays []string          `json:"holidays"`
}

// FromDomain собирает HTTP модель каталога
func FromDomain(services []domain.Service, stylists []domain.Stylist, holidays []string, timezone string) *CatalogResponse {
	resp := &CatalogResponse{
		Timezone: timezone,
		Services: make([]ServiceResponse, len(services)),
		Stylists: make([]StylistResponse, len(stylists)),
		Holidays: holidays,
	}

	for i, svc := range services {
		resp.Services[i] = ServiceResponse{
			Name:            svc.Name,
			Description:     svc.Description,
			DurationMinutes: svc.DurationMinutes,
			Price:           svc.Price,
		}
	}

	for i, stylist := range stylists {
		schedule := make(map[string]WorkWindowResponse, len(stylist.Schedule))
		for day, window := range stylist.Schedule {
			schedule[strings.ToLower(day.String())] = WorkWindowResponse{
				Start: window.Start.String(),
				End:   window.End.String(),
			}
		}
		resp.Stylists[i] = StylistResponse{
			ID:          stylist.ID,
			Name:        stylist.Name,
			Specialties: stylist.Specialties,
			Schedule:    schedule,
		}
	}

	return resp
}
