package appointments

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrStylistNotFound возвращается, когда мастер не найден
	ErrStylistNotFound = errors.New("stylist not found")

	// ErrAccessDenied возвращается, когда у клиента нет прав на запись
	ErrAccessDenied = errors.New("access denied")

	// ErrCannotCancel возвращается, когда запись нельзя отменить
	// (уже отменена или завершена)
	ErrCannotCancel = errors.New("appointment cannot be cancelled")

	// ErrCannotComplete возвращается, когда запись нельзя завершить
	// (завершаются только подтвержденные записи)
	ErrCannotComplete = errors.New("appointment cannot be completed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
