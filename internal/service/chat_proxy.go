package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"silvercare/internal/config"
	"silvercare/internal/domain"
	"silvercare/internal/metrics"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const (
	SimulatedChatReply = "I am a simulated assistant. Please take your medicines on time and rest well!"

	assistantSystemPrompt = "You are SilverCare, an empathetic, clear, and reassuring AI health assistant for elderly patients. " +
		"Provide concise, simple advice. Never replace professional diagnosis. " +
		"End serious complaints with a reminder to see a doctor."

	maxChatMessageLen = 2000
)

// ChatProvider completes a single-turn conversation.
type ChatProvider interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// ChatProxy forwards one message at a time; no history is kept or sent.
type ChatProxy struct {
	provider ChatProvider // nil means simulated
	timeout  time.Duration
	logger   *zap.Logger
}

func NewChatProxy(provider ChatProvider, timeout time.Duration, logger *zap.Logger) *ChatProxy {
	return &ChatProxy{provider: provider, timeout: timeout, logger: logger}
}

func (p *ChatProxy) Reply(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", domain.Validation("message is required")
	}
	if len(message) > maxChatMessageLen {
		return "", domain.Validation("message is too long")
	}

	if p.provider == nil {
		metrics.ChatRequests.WithLabelValues("simulated").Inc()
		return SimulatedChatReply, nil
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	reply, err := p.provider.Complete(ctx, assistantSystemPrompt, message)
	if err == nil && strings.TrimSpace(reply) == "" {
		err = errors.New("empty completion")
	}
	if err != nil {
		metrics.ChatRequests.WithLabelValues("unavailable").Inc()
		p.logger.Error("chat provider call failed", zap.Error(err))
		return "", domain.ChatUnavailable(err)
	}

	metrics.ChatRequests.WithLabelValues("provider").Inc()
	return strings.TrimSpace(reply), nil
}

// OpenAIProvider talks to any OpenAI-compatible chat completions endpoint.
type OpenAIProvider struct {
	client    *openai.Client
	model     string
	maxTokens int
}

func NewOpenAIProvider(cfg config.ChatConfig) *OpenAIProvider {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	return &OpenAIProvider{
		client:    openai.NewClientWithConfig(oc),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}
}

func (o *OpenAIProvider) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens: o.maxTokens,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no completion choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
