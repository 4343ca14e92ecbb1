package paymentservice

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

// Client клиент платежного коллаборатора
// Списание и возврат вызываются синхронно внутри перехода статуса:
// отказ платежного сервиса откатывает переход целиком
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента платежного сервиса
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Capture списывает средства по бронированию
// Возвращает ErrCaptureDeclined, если платежный сервис отклонил списание
func (c *Client) Capture(ctx context.Context, bookingID int64, amount float64) error {
	c.log.Info("Capturing payment for booking_id=%d, amount=%.2f", bookingID, amount)

	resp, err := c.post(ctx, "/internal/payments/capture", captureRequest{
		BookingID: bookingID,
		Amount:    amount,
	})
	if err != nil {
		return err
	}

	if resp.Status != statusCaptured {
		c.log.Warn("Payment capture declined for booking_id=%d: %s", bookingID, resp.Reason)
		return fmt.Errorf("%w: %s", ErrCaptureDeclined, resp.Reason)
	}

	c.log.Info("Payment captured for booking_id=%d, payment_id=%s", bookingID, resp.PaymentID)
	return nil
}

// Refund возвращает средства по бронированию
// Возвращает ErrRefundDeclined, если платежный сервис отклонил возврат
func (c *Client) Refund(ctx context.Context, bookingID int64, amount float64) error {
	c.log.Info("Refunding payment for booking_id=%d, amount=%.2f", bookingID, amount)

	resp, err := c.post(ctx, "/internal/payments/refund", refundRequest{
		BookingID: bookingID,
		Amount:    amount,
	})
	if err != nil {
		return err
	}

	if resp.Status != statusRefunded {
		c.log.Warn("Payment refund declined for booking_id=%d: %s", bookingID, resp.Reason)
		return fmt.Errorf("%w: %s", ErrRefundDeclined, resp.Reason)
	}

	c.log.Info("Payment refunded for booking_id=%d, payment_id=%s", bookingID, resp.PaymentID)
	return nil
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) (*paymentResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
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
	case http.StatusOK, http.StatusPaymentRequired:
		// 200 - решение в теле ответа, 402 - отказ с причиной в теле
	default:
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(raw))
	}

	var parsed paymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &parsed, nil
}
