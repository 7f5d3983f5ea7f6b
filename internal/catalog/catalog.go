package catalog

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/m04kA/Salon-BookingService/internal/config"
	"github.com/m04kA/Salon-BookingService/internal/domain"
)

// weekdays соответствие ключей конфигурации дням недели
var weekdays = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// Catalog неизменяемый каталог салона: услуги, мастера, праздники и правила
// Строится один раз при старте из конфигурации и передается в движок явно
type Catalog struct {
	location *time.Location
	services map[string]domain.Service
	stylists map[string]domain.Stylist
	holidays map[string]struct{} // ключ YYYY-MM-DD
	rules    domain.BookingRules
}

// New строит каталог из секций salon и booking конфигурации
func New(salon config.SalonConfig, booking config.BookingConfig) (*Catalog, error) {
	location, err := time.LoadLocation(salon.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: bad timezone %q: %v", ErrInvalidCatalog, salon.Timezone, err)
	}

	defaultSchedule, err := buildSchedule(salon.BusinessHours)
	if err != nil {
		return nil, fmt.Errorf("%w: business_hours: %v", ErrInvalidCatalog, err)
	}

	services := make(map[string]domain.Service, len(salon.Services))
	for name, svc := range salon.Services {
		key := strings.ToLower(name)
		services[key] = domain.Service{
			Name:            key,
			Description:     svc.Description,
			DurationMinutes: svc.DurationMinutes,
			Price:           svc.Price,
			Active:          svc.Active == nil || *svc.Active,
		}
	}

	stylists := make(map[string]domain.Stylist, len(salon.Stylists))
	for id, st := range salon.Stylists {
		schedule := defaultSchedule
		if len(st.Schedule) > 0 {
			schedule, err = mergeSchedule(defaultSchedule, st.Schedule)
			if err != nil {
				return nil, fmt.Errorf("%w: stylist %s schedule: %v", ErrInvalidCatalog, id, err)
			}
		}

		key := strings.ToLower(id)
		stylists[key] = domain.Stylist{
			ID:          key,
			Name:        st.Name,
			Email:       st.Email,
			Specialties: normalizeSpecialties(st.Specialties),
			Schedule:    schedule,
			Active:      st.Active == nil || *st.Active,
		}
	}

	holidays := make(map[string]struct{}, len(salon.Holidays))
	for _, h := range salon.Holidays {
		if _, err := time.Parse(domain.DateFormat, h); err != nil {
			return nil, fmt.Errorf("%w: bad holiday date %q", ErrInvalidCatalog, h)
		}
		holidays[h] = struct{}{}
	}

	return &Catalog{
		location: location,
		services: services,
		stylists: stylists,
		holidays: holidays,
		rules:    booking.ToRules(),
	}, nil
}

// Location возвращает часовой пояс салона
func (c *Catalog) Location() *time.Location {
	return c.location
}

// Rules возвращает правила бронирования
func (c *Catalog) Rules() domain.BookingRules {
	return c.rules
}

// ServiceByName возвращает активную услугу по имени
func (c *Catalog) ServiceByName(name string) (domain.Service, error) {
	svc, ok := c.services[strings.ToLower(name)]
	if !ok || !svc.Active {
		return domain.Service{}, fmt.Errorf("%w: %q", ErrUnknownService, name)
	}
	return svc, nil
}

// StylistByID возвращает активного мастера по идентификатору
func (c *Catalog) StylistByID(id string) (domain.Stylist, error) {
	st, ok := c.stylists[strings.ToLower(id)]
	if !ok || !st.Active {
		return domain.Stylist{}, fmt.Errorf("%w: %q", ErrUnknownStylist, id)
	}
	return st, nil
}

// StylistsFor возвращает активных мастеров, квалифицированных для услуги
// Результат отсортирован по ID для детерминированного порядка
func (c *Catalog) StylistsFor(serviceName string) []domain.Stylist {
	name := strings.ToLower(serviceName)
	result := make([]domain.Stylist, 0)
	for _, st := range c.stylists {
		if st.Active && st.HasSpecialty(name) {
			result = append(result, st)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// Services возвращает все активные услуги, отсортированные по имени
func (c *Catalog) Services() []domain.Service {
	result := make([]domain.Service, 0, len(c.services))
	for _, svc := range c.services {
		if svc.Active {
			result = append(result, svc)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// Stylists возвращает всех активных мастеров, отсортированных по ID
func (c *Catalog) Stylists() []domain.Stylist {
	result := make([]domain.Stylist, 0, len(c.stylists))
	for _, st := range c.stylists {
		if st.Active {
			result = append(result, st)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// IsHoliday возвращает true, если дата входит в список праздников
func (c *Catalog) IsHoliday(date time.Time) bool {
	_, ok := c.holidays[date.Format(domain.DateFormat)]
	return ok
}

// Holidays возвращает список праздничных дат (YYYY-MM-DD), отсортированный
func (c *Catalog) Holidays() []string {
	result := make([]string, 0, len(c.holidays))
	for h := range c.holidays {
		result = append(result, h)
	}
	sort.Strings(result)
	return result
}

// WorkWindow возвращает рабочее окно мастера на дату
// nil - мастер не работает в этот день недели или дата праздничная
func (c *Catalog) WorkWindow(stylist domain.Stylist, date time.Time) *domain.WorkWindow {
	if c.IsHoliday(date) {
		return nil
	}
	window, ok := stylist.WindowOn(date)
	if !ok {
		return nil
	}
	return &window
}

func buildSchedule(hours map[string]config.HoursConfig) (domain.WeeklySchedule, error) {
	schedule := make(domain.WeeklySchedule, len(hours))
	for day, window := range hours {
		weekday, ok := weekdays[strings.ToLower(day)]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", day)
		}
		schedule[weekday] = domain.WorkWindow{Start: window.Start, End: window.End}
	}
	return schedule, nil
}

// mergeSchedule накладывает индивидуальное расписание мастера поверх общего
func mergeSchedule(base domain.WeeklySchedule, override map[string]config.HoursConfig) (domain.WeeklySchedule, error) {
	overrideSchedule, err := buildSchedule(override)
	if err != nil {
		return nil, err
	}

	merged := make(domain.WeeklySchedule, len(base))
	for day, window := range base {
		merged[day] = window
	}
	for day, window := range overrideSchedule {
		merged[day] = window
	}
	return merged, nil
}

func normalizeSpecialties(specialties []string) []string {
	result := make([]string, 0, len(specialties))
	for _, s := range specialties {
		result = append(result, strings.ToLower(s))
	}
	return result
}
