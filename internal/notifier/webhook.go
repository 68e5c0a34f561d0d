package notifier

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
)

// WebhookNotifier posts notifications to an external endpoint (campus
// chat bot, email bridge). The circuit breaker keeps a dead endpoint
// from stalling the worker: while open, Notify fails fast and the
// notification row is still written.
type WebhookNotifier struct {
	client  *resty.Client
	url     string
	breaker *gobreaker.CircuitBreaker
}

func NewWebhook(url string) *WebhookNotifier {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     "notify-webhook",
		Interval: 15 * time.Second,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
	})
	return &WebhookNotifier{
		client:  resty.New().SetTimeout(5 * time.Second).SetRetryCount(0),
		url:     url,
		breaker: cb,
	}
}

func (w *WebhookNotifier) Notify(subject, message string) error {
	_, err := w.breaker.Execute(func() (interface{}, error) {
		resp, err := w.client.R().
			SetHeader("Content-Type", "application/json").
			SetBody(map[string]string{"subject": subject, "message": message}).
			Post(w.url)
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("webhook status %d", resp.StatusCode())
		}
		return nil, nil
	})
	return err
}
