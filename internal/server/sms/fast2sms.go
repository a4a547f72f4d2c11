package sms

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/jobhub/internal/common"
	"github.com/sethvargo/go-retry"
)

// Fast2SMSConfig holds settings for the Fast2SMS bulk endpoint.
type Fast2SMSConfig struct {
	APIKey string
	// Endpoint is the bulkV2 URL, overridable for tests.
	Endpoint string
	// CountryPrefix is prepended to the destination number ("91").
	CountryPrefix string
}

// Fast2SMSSender sends messages through the Fast2SMS HTTP API.
type Fast2SMSSender struct {
	cfg    Fast2SMSConfig
	client *http.Client
}

func NewFast2SMSSender(cfg Fast2SMSConfig) *Fast2SMSSender {
	return &Fast2SMSSender{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Send posts the message to the gateway. Transient failures (network errors,
// 5xx) are retried with exponential backoff; whatever remains is reported as
// common.ErrorUpstream.
func (s *Fast2SMSSender) Send(ctx context.Context, mobileNumber, message string) error {
	form := url.Values{}
	form.Set("route", "q")
	form.Set("message", message)
	form.Set("language", "english")
	form.Set("numbers", s.cfg.CountryPrefix+mobileNumber)
	payload := form.Encode()

	backoff := retry.WithMaxRetries(2, retry.NewExponential(500*time.Millisecond))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Endpoint, strings.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("authorization", s.cfg.APIKey)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := s.client.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)

		if resp.StatusCode >= http.StatusInternalServerError {
			return retry.RetryableError(fmt.Errorf("gateway status %d", resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("gateway status %d", resp.StatusCode)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: sms dispatch: %v", common.ErrorUpstream, err)
	}
	return nil
}
