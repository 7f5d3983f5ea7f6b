package find_available_slots

import (
	"time"

	"github.com/m04kA/Salon-BookingService/pkg/types"
)

// Request модель запроса на поиск доступных слотов
type Request struct {
	ServiceName   string            // Имя услуги (обязательно)
	Date          time.Time         // Дата поиска (без времени, в таймзоне салона)
	PreferredTime *types.TimeString // Желаемое время: кандидаты раньше него не предлагаются (опционально)
	StylistID     *string           // Ограничение по мастеру (опционально)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	ServiceName     string    // Имя услуги
	Date            time.Time // Дата, на которую искали слоты
	DurationMinutes int       // Длительность услуги
	Slots           []Slot    // Слоты по возрастанию времени начала
}

// Slot временной слот и мастера, свободные в это время
type Slot struct {
	StartTime  time.Time // Время начала
	StylistIDs []string  // Мастера, доступные в это время (отсортированы по ID)
}
