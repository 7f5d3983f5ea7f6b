package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент внешнего почтового сервиса
// Сервис владеет шаблонами писем; клиент передает только данные записи
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента почтового сервиса
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// SendAcknowledgment отправляет клиенту подтверждение приема заявки
func (c *Client) SendAcknowledgment(ctx context.Context, msg *AppointmentMessage) error {
	return c.post(ctx, "/internal/mail/acknowledgment", msg)
}

// SendConfirmation отправляет клиенту подтверждение записи
func (c *Client) SendConfirmation(ctx context.Context, msg *AppointmentMessage) error {
	return c.post(ctx, "/internal/mail/confirmation", msg)
}

// SendReminder отправляет клиенту напоминание о предстоящей записи
func (c *Client) SendReminder(ctx context.Context, msg *AppointmentMessage) error {
	return c.post(ctx, "/internal/mail/reminder", msg)
}

// SendAlternatives отправляет клиенту альтернативные слоты,
// когда запрошенное время занято
func (c *Client) SendAlternatives(ctx context.Context, msg *AlternativesMessage) error {
	return c.post(ctx, "/internal/mail/alternatives", msg)
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal payload: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Недоступность почтового сервиса не должна ронять бизнес-операцию
		c.log.Error("Mailer unavailable, applying graceful degradation: %v", err)
		return fmt.Errorf("%w: %v", ErrServiceDegraded, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusAccepted:
		return nil
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}
}
