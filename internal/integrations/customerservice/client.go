package customerservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с CustomerService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента CustomerService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// FindByEmail ищет клиента по email
func (c *Client) FindByEmail(ctx context.Context, email string) (*Customer, error) {
	reqURL := fmt.Sprintf("%s/internal/customers?email=%s", c.baseURL, url.QueryEscape(email))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return nil, ErrCustomerNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var customer Customer
	if err := json.NewDecoder(resp.Body).Decode(&customer); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &customer, nil
}

// FindByEmailWithGracefulDegradation ищет клиента по email с graceful degradation
// При недоступности CustomerService возвращает ErrServiceDegraded: бронирование
// создается с inline-контактами без привязки customer_id, аллокация не блокируется
func (c *Client) FindByEmailWithGracefulDegradation(ctx context.Context, email string) (*Customer, error) {
	customer, err := c.FindByEmail(ctx, email)
	if err != nil {
		// Клиент не зарегистрирован - это нормальный случай, не деградация
		if err == ErrCustomerNotFound {
			return nil, err
		}

		// Для остальных ошибок (недоступность сервиса, timeout, ошибки парсинга)
		// применяем graceful degradation
		c.log.Error("CustomerService unavailable, applying graceful degradation for email lookup: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrServiceDegraded, err)
	}

	return customer, nil
}
