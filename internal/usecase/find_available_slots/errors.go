package find_available_slots

import "errors"

var (
	// ErrUnknownService возвращается, когда услуга не найдена в каталоге
	ErrUnknownService = errors.New("find_available_slots: unknown service")

	// ErrUnknownStylist возвращается, когда мастер не найден в каталоге
	ErrUnknownStylist = errors.New("find_available_slots: unknown stylist")

	// ErrStylistNotQualified возвращается, когда у запрошенного мастера
	// нет специализации по услуге
	ErrStylistNotQualified = errors.New("find_available_slots: stylist is not qualified for this service")

	// ErrInvalidDate возвращается при дате в прошлом
	ErrInvalidDate = errors.New("find_available_slots: invalid date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение maxAdvanceDays
	ErrDateTooFarInFuture = errors.New("find_available_slots: date is too far in the future")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("find_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("find_available_slots: internal error")
)
