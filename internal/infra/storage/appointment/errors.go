package appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrSlotTaken возвращается, когда exclusion constraint БД отклонил вставку
	// из-за пересечения с существующей записью мастера
	ErrSlotTaken = errors.New("appointment.repository: slot already taken")

	// ErrInvalidStatusTransition возвращается, когда запись существует,
	// но её текущий статус не допускает запрошенную смену
	ErrInvalidStatusTransition = errors.New("appointment.repository: status transition not allowed")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)
