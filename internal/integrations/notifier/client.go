package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для отправки событий в сервис нотификаций
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента нотификаций
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Notify отправляет событие жизненного цикла бронирования
// Fire-and-forget: сбой доставки логируется, но не влияет на результат операции
func (c *Client) Notify(ctx context.Context, eventType string, bookingID, businessID int64, payload any) {
	event := Event{
		EventID:    uuid.NewString(),
		Type:       eventType,
		BookingID:  bookingID,
		BusinessID: businessID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}

	if err := c.send(ctx, event); err != nil {
		c.log.Error("Failed to deliver notification event %s (type=%s, booking=%d): %v",
			event.EventID, eventType, bookingID, err)
		return
	}

	c.log.Info("Notification event %s delivered (type=%s, booking=%d)", event.EventID, eventType, bookingID)
}

func (c *Client) send(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal event: %v", ErrInternal, err)
	}

	reqURL := fmt.Sprintf("%s/internal/events", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	return nil
}
