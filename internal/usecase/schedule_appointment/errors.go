package schedule_appointment

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных:
	// пустые контакты, время в прошлом, нарушение окна бронирования
	ErrInvalidInput = errors.New("schedule_appointment: invalid input data")

	// ErrUnknownService возвращается, когда услуга не найдена в каталоге
	ErrUnknownService = errors.New("schedule_appointment: unknown service")

	// ErrUnknownStylist возвращается, когда мастер не найден в каталоге
	ErrUnknownStylist = errors.New("schedule_appointment: unknown stylist")

	// ErrStylistNotQualified возвращается, когда у мастера нет специализации по услуге
	ErrStylistNotQualified = errors.New("schedule_appointment: stylist is not qualified for this service")

	// ErrStylistUnavailable возвращается, когда слот вне рабочего окна мастера,
	// дата праздничная или исчерпан дневной лимит записей
	ErrStylistUnavailable = errors.New("schedule_appointment: stylist is unavailable at this time")

	// ErrSlotConflict возвращается, когда слот пересекается с существующей
	// записью с учетом буфера
	ErrSlotConflict = errors.New("schedule_appointment: slot conflicts with an existing appointment")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("schedule_appointment: internal error")
)
