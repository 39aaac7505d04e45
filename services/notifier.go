// services/notifier.go
package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

// BookingNotification is the payload sent out after a booking commits.
type BookingNotification struct {
	CustomerName  string   `json:"customer_name"`
	CustomerPhone string   `json:"customer_phone"`
	Date          string   `json:"date"`
	Time          string   `json:"time"`
	ServiceLines  []string `json:"service_lines"`
	// 10% of the total, charged up front to hold the slot.
	TotalCentavos  int64 `json:"total_centavos"`
	SignalCentavos int64 `json:"signal_centavos"`
}

// BookingNotifier is the outbound port the booking sequencer calls after
// commit. Delivery is best-effort: implementations return an error for
// logging but the booking never rolls back on it.
type BookingNotifier interface {
	SendBookingConfirmation(n BookingNotification) error
}

// WebhookNotifier posts the payload to an external automation endpoint
// (BOOKING_WEBHOOK_URL).
type WebhookNotifier struct {
	url    string
	client *http.Client
}

func NewWebhookNotifier() *WebhookNotifier {
	return &WebhookNotifier{
		url: os.Getenv("BOOKING_WEBHOOK_URL"),
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

func (w *WebhookNotifier) SendBookingConfirmation(n BookingNotification) error {
	if w.url == "" {
		return fmt.Errorf("BOOKING_WEBHOOK_URL not set")
	}

	body, err := json.Marshal(n)
	if err != nil {
		return err
	}

	resp, err := w.client.Post(w.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// NoopNotifier discards notifications. Used when no webhook is configured.
type NoopNotifier struct{}

func (NoopNotifier) SendBookingConfirmation(BookingNotification) error { return nil }
