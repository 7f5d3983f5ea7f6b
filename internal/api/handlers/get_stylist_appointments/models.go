package get_stylist_appointments

import (
	"net/url"
	"time"

	"github.com/m04kA/Salon-BookingService/internal/domain"
	"github.com/m04kA/Salon-BookingService/internal/service/appointments/models"
)

// parseQuery собирает фильтр записей мастера из query-параметров
//
// Поддерживаемые параметры:
// - date=2026-09-07 - записи на один день
// - startDate и endDate - записи за период
// - status=confirmed - фильтр по статусу
// - includeInactive=true - включить отмененные записи
func parseQuery(stylistID string, query url.Values, location *time.Location) (*models.GetStylistAppointmentsRequest, error) {
	req := &models.GetStylistAppointmentsRequest{
		StylistID: stylistID,
	}

	if dateStr := query.Get("date"); dateStr != "" {
		date, err := time.ParseInLocation(domain.DateFormat, dateStr, location)
		if err != nil {
			return nil, err
		}
		end := date.AddDate(0, 0, 1)
		req.StartDate = &date
		req.EndDate = &end
	} else {
		if startStr := query.Get("startDate"); startStr != "" {
			start, err := time.ParseInLocation(domain.DateFormat, startStr, location)
			if err != nil {
				return nil, err
			}
			req.StartDate = &start
		}
		if endStr := query.Get("endDate"); endStr != "" {
			end, err := time.ParseInLocation(domain.DateFormat, endStr, location)
			if err != nil {
				return nil, err
			}
			// Правая граница эксклюзивная: включаем весь указанный день
			endNext := end.AddDate(0, 0, 1)
			req.EndDate = &endNext
		}
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	req.IncludeInactive = query.Get("includeInactive") == "true"

	return req, nil
}
