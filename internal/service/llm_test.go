package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChatClient(t *testing.T) {
	t.Run("should return nil without API key", func(t *testing.T) {
		assert.Nil(t, NewChatClient(ChatConfig{APIKey: "  "}, nil))
	})

	t.Run("should apply defaults", func(t *testing.T) {
		client := NewChatClient(ChatConfig{APIKey: "test-key"}, nil)
		require.NotNil(t, client)
		assert.Equal(t, DefaultChatURL, client.cfg.URL)
		assert.Equal(t, DefaultChatModel, client.cfg.Model)
		assert.Equal(t, 2000, client.cfg.MaxTokens)
		assert.Equal(t, 0.7, client.cfg.Temperature)
	})
}

func TestChatClient_Generate(t *testing.T) {
	t.Run("should send prompt and return content", func(t *testing.T) {
		var got Request
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"清炒白菜"}}]}`))
		}))
		defer server.Close()

		client := NewChatClient(ChatConfig{APIKey: "test-key", URL: server.URL}, server.Client())
		text, err := client.Generate(context.Background(), "白菜怎么做")

		require.NoError(t, err)
		assert.Equal(t, "清炒白菜", text)
		assert.Equal(t, DefaultChatModel, got.Model)
		require.Len(t, got.Messages, 2)
		assert.Equal(t, "system", got.Messages[0].Role)
		assert.Equal(t, "user", got.Messages[1].Role)
		assert.Equal(t, "白菜怎么做", got.Messages[1].Content)
	})

	t.Run("should fail on non-200 status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"invalid key"}`, http.StatusUnauthorized)
		}))
		defer server.Close()

		client := NewChatClient(ChatConfig{APIKey: "bad", URL: server.URL}, server.Client())
		_, err := client.Generate(context.Background(), "prompt")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 401")
	})

	t.Run("should fail on empty choices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		}))
		defer server.Close()

		client := NewChatClient(ChatConfig{APIKey: "test-key", URL: server.URL}, server.Client())
		_, err := client.Generate(context.Background(), "prompt")

		assert.EqualError(t, err, "no response from API")
	})

	t.Run("should report timeouts through the context", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer server.Close()
		defer close(release)

		client := NewChatClient(ChatConfig{APIKey: "test-key", URL: server.URL}, server.Client())
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := client.Generate(ctx, "prompt")
		require.Error(t, err)
		assert.True(t, isTimeout(err))
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "短", truncate("短", 5))
	assert.Equal(t, "一二...", truncate("一二三四", 2))
}
