package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"review-replier/internal/domain"
	"review-replier/internal/ports/output"

	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

// Compile-time check to ensure OpenAIClientAdapter implements TextGenerator interface
var _ output.TextGenerator = (*OpenAIClientAdapter)(nil)

const providerName = "llm"

const defaultTimeout = 20 * time.Second

// Config struct - Connection settings of an OpenAI-compatible server
type Config struct {
	BaseURL string // e.g. https://api.openai.com/v1 or http://localhost:1234/v1 for LM Studio
	APIKey  string
	Model   string
	Timeout time.Duration
}

// OpenAIClientAdapter struct - Output adapter for OpenAI-compatible chat completion APIs
type OpenAIClientAdapter struct {
	llm   llms.Model
	model string
}

// NewOpenAIClientAdapter func - Creates new chat completion client
func NewOpenAIClientAdapter(config Config) (*OpenAIClientAdapter, error) {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	opts := []openai.Option{
		openai.WithToken(config.APIKey),
		openai.WithModel(config.Model),
		openai.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if config.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(strings.TrimSuffix(config.BaseURL, "/")))
	}

	model, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create openai model: %w", err)
	}

	logrus.Infof("LLM client initialized with model: %s, timeout: %v", config.Model, timeout)

	return &OpenAIClientAdapter{
		llm:   model,
		model: config.Model,
	}, nil
}

// Complete returns the model's answer. A failed call is not retried; callers
// fall back instead.
func (a *OpenAIClientAdapter) Complete(ctx context.Context, request output.CompletionRequest) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, request.SystemPrompt),
		llms.TextParts(schema.ChatMessageTypeHuman, request.UserPrompt),
	}

	var opts []llms.CallOption
	if request.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(request.MaxTokens))
	}
	opts = append(opts, llms.WithTemperature(request.Temperature))

	response, err := a.llm.GenerateContent(ctx, messages, opts...)
	if err != nil {
		logrus.Warnf("LLM request failed: model=%s: %v", a.model, err)
		return "", &domain.RemoteError{Provider: providerName, Message: err.Error()}
	}
	if len(response.Choices) == 0 {
		return "", &domain.RemoteError{Provider: providerName, Message: "no response choices"}
	}
	return response.Choices[0].Content, nil
}
