package notifyservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/m04kA/BMS-SchedulingService/internal/domain"
)

// ErrInternal возвращается при внутренних ошибках клиента
var ErrInternal = errors.New("notifyservice client: internal error")

// Client клиент для работы с NotificationService.
// Доставка уведомлений fire-and-forget: ошибки логируются вызывающей
// стороной и никогда не влияют на результат бизнес-операции.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента NotificationService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Notify отправляет событие по бронированию в NotificationService
func (c *Client) Notify(ctx context.Context, event Event, booking *domain.Booking) error {
	notification := Notification{
		Event:      event,
		BusinessID: booking.BusinessID,
		BookingID:  booking.ID,
		CustomerID: booking.CustomerID,
		StaffID:    booking.StaffID,
		StartTime:  booking.StartTime,
		EndTime:    booking.EndTime,
		Reason:     booking.CancellationReason,
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal notification: %v", ErrInternal, err)
	}

	url := fmt.Sprintf("%s/internal/notifications", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
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
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInternal, resp.StatusCode, string(body))
	}

	c.log.Info("Notification %s sent for booking id=%d", event, booking.ID)
	return nil
}
