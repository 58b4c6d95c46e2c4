package mattermost

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Tomas-vilte/semrel/internal/config"
	domainErrors "github.com/Tomas-vilte/semrel/internal/errors"
	"github.com/Tomas-vilte/semrel/internal/notifier"
	"github.com/sethvargo/go-retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockHTTPClient struct {
	mock.Mock
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*http.Response), args.Error(1)
}

func fastRetries(n uint64) Option {
	return WithBackoff(func() retry.Backoff {
		return retry.WithMaxRetries(n, retry.NewConstant(time.Millisecond))
	})
}

func TestNewClient(t *testing.T) {
	_, err := NewClient(config.MattermostConfig{URL: "https://chat", ChannelID: "c"}, nil)
	assert.ErrorIs(t, err, domainErrors.ErrNotifierToken)

	client, err := NewClient(config.MattermostConfig{URL: "https://chat/", ChannelID: "c", Token: "t"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://chat", client.baseURL)
}

func TestClient_Notify(t *testing.T) {
	t.Run("posts the message to the channel", func(t *testing.T) {
		var got post
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/v4/posts", r.URL.Path)
			assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		client, err := NewClient(config.MattermostConfig{URL: server.URL, ChannelID: "town-square", Token: "secret"}, server.Client())
		require.NoError(t, err)

		err = client.Notify(context.Background(), notifier.FormatMessage("A new release is available", "v1.2.0"))

		require.NoError(t, err)
		assert.Equal(t, post{ChannelID: "town-square", Message: "A new release is available (v1.2.0) !"}, got)
	})

	t.Run("fails on a non-2xx response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"message":"invalid token"}`, http.StatusUnauthorized)
		}))
		defer server.Close()

		client, err := NewClient(config.MattermostConfig{URL: server.URL, ChannelID: "c", Token: "bad"}, server.Client())
		require.NoError(t, err)

		err = client.Notify(context.Background(), "hello")

		require.ErrorIs(t, err, domainErrors.ErrNotifyFailed)
		assert.Contains(t, err.Error(), "invalid token")
	})

	t.Run("does not retry client errors", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		client, err := NewClient(config.MattermostConfig{URL: server.URL, ChannelID: "c", Token: "t"}, server.Client(), fastRetries(3))
		require.NoError(t, err)

		assert.ErrorIs(t, client.Notify(context.Background(), "hello"), domainErrors.ErrNotifyFailed)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("retries server errors until one succeeds", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		client, err := NewClient(config.MattermostConfig{URL: server.URL, ChannelID: "c", Token: "t"}, server.Client(), fastRetries(3))
		require.NoError(t, err)

		require.NoError(t, client.Notify(context.Background(), "hello"))
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("fails when the transport keeps failing", func(t *testing.T) {
		mockClient := new(MockHTTPClient)
		mockClient.On("Do", mock.Anything).Return(nil, errors.New("dial tcp: connection refused"))

		client, err := NewClient(config.MattermostConfig{URL: "https://chat", ChannelID: "c", Token: "t"}, mockClient, fastRetries(2))
		require.NoError(t, err)

		err = client.Notify(context.Background(), "hello")

		assert.ErrorIs(t, err, domainErrors.ErrNotifyFailed)
		assert.Contains(t, err.Error(), "connection refused")
		mockClient.AssertNumberOfCalls(t, "Do", 3)
	})
}
