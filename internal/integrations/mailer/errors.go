package mailer

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("mailer client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе почтового сервиса
	ErrInvalidResponse = errors.New("mailer client: invalid response")

	// ErrServiceDegraded возвращается, когда почтовый сервис недоступен
	// Отправка писем best-effort: вызывающая сторона логирует и продолжает
	ErrServiceDegraded = errors.New("mailer service unavailable: graceful degradation applied")
)
