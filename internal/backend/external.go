package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"Mathagent/internal/config"
	"Mathagent/internal/logging"
	"Mathagent/pkg/types"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/openai/openai-go"
	openaiopt "github.com/openai/openai-go/option"
)

// ErrEmptyReply is returned when a provider answers without any text
var ErrEmptyReply = errors.New("external agent returned no text")

const externalMaxTokens = 512

// Completer sends one user message to a hosted agent and returns its reply
type Completer interface {
	Complete(ctx context.Context, text string) (string, error)
}

// External delegates the whole request to a Completer; tools and step budget
// belong to the provider
type External struct {
	Completer Completer
	Logger    *logging.Logger
}

func (e *External) Run(ctx context.Context, text string, maxSteps int) types.Outcome {
	started := time.Now()
	reply, err := e.Completer.Complete(ctx, text)
	if err == nil && strings.TrimSpace(reply) == "" {
		err = ErrEmptyReply
	}
	if err != nil {
		e.Logger.LogError(err)
		out := types.Failure(err)
		e.Logger.LogOutcome(false, out.Error, time.Since(started))
		return out
	}
	e.Logger.LogOutcome(true, reply, time.Since(started))
	return types.Success(reply)
}

// NewCompleter builds the Completer for cfg.ExternalProvider
func NewCompleter(cfg config.Config) (Completer, error) {
	switch cfg.ExternalProvider {
	case config.ProviderOpenAI:
		return NewOpenAICompleter(cfg), nil
	case config.ProviderAnthropic:
		return NewAnthropicCompleter(cfg), nil
	default:
		return nil, fmt.Errorf("invalid external provider %q", cfg.ExternalProvider)
	}
}

// OpenAICompleter talks to any OpenAI compatible chat completions endpoint:
// external_url when set, otherwise model_url + /v1
type OpenAICompleter struct {
	client openai.Client
	model  string
}

func NewOpenAICompleter(cfg config.Config) *OpenAICompleter {
	baseURL := strings.TrimRight(cfg.ModelURL, "/") + "/v1/"
	if cfg.ExternalURL != "" {
		baseURL = strings.TrimRight(cfg.ExternalURL, "/") + "/"
	}
	opts := []openaiopt.RequestOption{
		openaiopt.WithBaseURL(baseURL),
		openaiopt.WithMaxRetries(0),
		openaiopt.WithRequestTimeout(cfg.Timeout),
	}
	if cfg.APIKey != "" {
		opts = append(opts, openaiopt.WithAPIKey(cfg.APIKey))
	} else {
		// the SDK insists on a key; local servers ignore it
		opts = append(opts, openaiopt.WithAPIKey("unused"))
	}
	return &OpenAICompleter{client: openai.NewClient(opts...), model: cfg.Model}
}

func (c *OpenAICompleter) Complete(ctx context.Context, text string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(text),
		},
		Model: c.model,
	})
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyReply
	}
	return resp.Choices[0].Message.Content, nil
}

// AnthropicCompleter talks to the Anthropic messages API
type AnthropicCompleter struct {
	client anthropic.Client
	model  string
}

func NewAnthropicCompleter(cfg config.Config) *AnthropicCompleter {
	opts := []anthropicopt.RequestOption{
		anthropicopt.WithMaxRetries(0),
		anthropicopt.WithRequestTimeout(cfg.Timeout),
	}
	// model_url points at the local model server; Anthropic is only
	// redirected when external_url is set
	if cfg.ExternalURL != "" {
		opts = append(opts, anthropicopt.WithBaseURL(strings.TrimRight(cfg.ExternalURL, "/")+"/"))
	}
	if cfg.APIKey != "" {
		opts = append(opts, anthropicopt.WithAPIKey(cfg.APIKey))
	}
	return &AnthropicCompleter{client: anthropic.NewClient(opts...), model: cfg.Model}
}

func (c *AnthropicCompleter) Complete(ctx context.Context, text string) (string, error) {
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		MaxTokens: externalMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
		},
		Model: anthropic.Model(c.model),
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}
