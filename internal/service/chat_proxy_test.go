package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"silvercare/internal/config"
	"silvercare/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubProvider struct {
	reply   string
	err     error
	gotUser string
}

func (p *stubProvider) Complete(_ context.Context, _, user string) (string, error) {
	p.gotUser = user
	return p.reply, p.err
}

func TestChatProxy_SimulatedWithoutProvider(t *testing.T) {
	proxy := NewChatProxy(nil, time.Second, zap.NewNop())

	reply, err := proxy.Reply(context.Background(), "I have a headache")
	require.NoError(t, err)
	assert.Equal(t, SimulatedChatReply, reply)
}

func TestChatProxy_ProviderFailureIsChatUnavailable(t *testing.T) {
	for name, p := range map[string]*stubProvider{
		"error": {err: errors.New("upstream 500")},
		"empty": {reply: "   "},
	} {
		t.Run(name, func(t *testing.T) {
			proxy := NewChatProxy(p, time.Second, zap.NewNop())
			_, err := proxy.Reply(context.Background(), "hello")
			assert.ErrorIs(t, err, domain.ErrChatUnavailable)
		})
	}
}

func TestChatProxy_Validation(t *testing.T) {
	proxy := NewChatProxy(&stubProvider{reply: "ok"}, time.Second, zap.NewNop())

	_, err := proxy.Reply(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = proxy.Reply(context.Background(), strings.Repeat("a", maxChatMessageLen+1))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestChatProxy_OpenAIProviderSendsSingleTurn(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","model":"gpt-3.5-turbo",` +
			`"choices":[{"index":0,"message":{"role":"assistant","content":" Rest in a quiet room. "},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	provider := NewOpenAIProvider(config.ChatConfig{APIKey: "test-key", BaseURL: srv.URL + "/v1", Model: "gpt-3.5-turbo", MaxTokens: 150})
	proxy := NewChatProxy(provider, 5*time.Second, zap.NewNop())

	reply, err := proxy.Reply(context.Background(), "I have a headache")
	require.NoError(t, err)
	assert.Equal(t, "Rest in a quiet room.", reply)

	assert.Equal(t, "gpt-3.5-turbo", got.Model)
	require.Len(t, got.Messages, 2, "system prompt plus the one user message")
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "I have a headache", got.Messages[1].Content)
}

func TestChatProxy_OpenAIProviderErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
	}))
	defer srv.Close()

	provider := NewOpenAIProvider(config.ChatConfig{APIKey: "k", BaseURL: srv.URL + "/v1", Model: "m"})
	proxy := NewChatProxy(provider, 5*time.Second, zap.NewNop())

	_, err := proxy.Reply(context.Background(), "hello")
	require.ErrorIs(t, err, domain.ErrChatUnavailable)
	assert.NotContains(t, err.(*domain.Error).Message, "overloaded")
}
