package mattermost

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Tomas-vilte/semrel/internal/config"
	domainErrors "github.com/Tomas-vilte/semrel/internal/errors"
	"github.com/Tomas-vilte/semrel/internal/logger"
	"github.com/Tomas-vilte/semrel/internal/notifier"
	"github.com/sethvargo/go-retry"
)

var _ notifier.Notifier = (*Client)(nil)

const (
	postsPath      = "/api/v4/posts"
	defaultTimeout = 10 * time.Second
	defaultRetries = 2
	defaultBackoff = 500 * time.Millisecond
)

type post struct {
	ChannelID string `json:"channel_id"`
	Message   string `json:"message"`
}

// Client posts messages to a single Mattermost channel.
type Client struct {
	baseURL   string
	channelID string
	token     string
	client    notifier.HTTPClient
	backoff   func() retry.Backoff
}

type Option func(*Client)

// WithBackoff replaces the retry policy. The factory is called once per
// Notify since backoffs are stateful.
func WithBackoff(backoff func() retry.Backoff) Option {
	return func(c *Client) {
		c.backoff = backoff
	}
}

func NewClient(cfg config.MattermostConfig, client notifier.HTTPClient, opts ...Option) (*Client, error) {
	if cfg.Token == "" {
		return nil, domainErrors.ErrNotifierToken
	}
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	c := &Client{
		baseURL:   strings.TrimSuffix(cfg.URL, "/"),
		channelID: cfg.ChannelID,
		token:     cfg.Token,
		client:    client,
		backoff: func() retry.Backoff {
			return retry.WithMaxRetries(defaultRetries, retry.NewExponential(defaultBackoff))
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Notify posts message to the channel. Transport failures, 429 and 5xx
// responses are retried; other statuses fail immediately.
func (c *Client) Notify(ctx context.Context, message string) error {
	body, err := json.Marshal(post{ChannelID: c.channelID, Message: message})
	if err != nil {
		return domainErrors.ErrNotifyFailed.WithError(err)
	}

	attempt := 0
	err = retry.Do(ctx, c.backoff(), func(ctx context.Context) error {
		attempt++
		err := c.send(ctx, body)
		if err != nil && retryable(err) {
			logger.Debug(ctx, "notification attempt failed", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "notification sent", "channel", c.channelID)
	return nil
}

func (c *Client) send(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+postsPath, bytes.NewReader(body))
	if err != nil {
		return domainErrors.ErrNotifyFailed.WithError(err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return domainErrors.ErrNotifyFailed.WithError(err).WithContext("transport", true)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Debug(ctx, "error closing response body", "error", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domainErrors.ErrNotifyFailed.
			WithError(fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(detail)))).
			WithContext("status_code", resp.StatusCode)
	}
	return nil
}

func retryable(err error) bool {
	var appErr *domainErrors.AppError
	if !errors.As(err, &appErr) {
		return false
	}
	if appErr.Context["transport"] == true {
		return true
	}
	code, _ := appErr.Context["status_code"].(int)
	return code == http.StatusTooManyRequests || code >= 500
}
