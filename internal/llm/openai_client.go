package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/nbenliogludev/webmancer/internal/config"
)

var ErrNoChoices = errors.New("model returned no choices")

// defaultMaxRetryElapsed bounds retries when the configuration leaves it
// unset.
const defaultMaxRetryElapsed = 2 * time.Minute

type OpenAIClient struct {
	api    chatCompleter
	cfg    config.LLMConfig
	logger *zap.Logger

	newBackOff func() backoff.BackOff
}

// NewOpenAIClient builds a client for the OpenAI API or an Azure OpenAI
// deployment, depending on cfg.Provider.
func NewOpenAIClient(cfg config.LLMConfig, logger *zap.Logger) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm api key is not set (OPENAI_API_KEY or OPEN_AI_AZURE_KEY)")
	}

	var clientCfg openai.ClientConfig
	switch cfg.Provider {
	case "azure":
		clientCfg = openai.DefaultAzureConfig(cfg.APIKey, cfg.Endpoint)
		if cfg.APIVersion != "" {
			clientCfg.APIVersion = cfg.APIVersion
		}
	default:
		clientCfg = openai.DefaultConfig(cfg.APIKey)
		if cfg.Endpoint != "" {
			clientCfg.BaseURL = cfg.Endpoint
		}
	}

	return newClient(openai.NewClientWithConfig(clientCfg), cfg, logger), nil
}

func newClient(api chatCompleter, cfg config.LLMConfig, logger *zap.Logger) *OpenAIClient {
	c := &OpenAIClient{api: api, cfg: cfg, logger: logger.Named("llm")}
	maxElapsed := cfg.MaxRetryElapsed
	if maxElapsed <= 0 {
		maxElapsed = defaultMaxRetryElapsed
	}
	c.newBackOff = func() backoff.BackOff {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = 3 * time.Second
		b.MaxInterval = 30 * time.Second
		b.MaxElapsedTime = maxElapsed
		return b
	}
	return c
}

// Complete runs one chat completion. Tool calls are requested one at a
// time. Rate limits and server errors are retried with exponential
// backoff.
func (c *OpenAIClient) Complete(ctx context.Context, messages []openai.ChatCompletionMessage, tools []openai.Tool) (openai.ChatCompletionMessage, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: temperature(c.cfg.Temperature),
	}
	if len(tools) > 0 {
		req.Tools = tools
		req.ToolChoice = "auto"
		req.ParallelToolCalls = false
	}

	resp, err := c.create(ctx, req)
	if err != nil {
		return openai.ChatCompletionMessage{}, err
	}
	return resp.Choices[0].Message, nil
}

func (c *OpenAIClient) create(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	var resp openai.ChatCompletionResponse

	operation := func() error {
		start := time.Now()
		r, err := c.api.CreateChatCompletion(ctx, req)
		if err != nil {
			if retryable(err) {
				return err
			}
			return backoff.Permanent(fmt.Errorf("chat completion failed: %w", err))
		}
		if len(r.Choices) == 0 {
			return backoff.Permanent(ErrNoChoices)
		}
		c.logger.Debug("Chat completion done",
			zap.Duration("duration", time.Since(start)),
			zap.Int("prompt_tokens", r.Usage.PromptTokens),
			zap.Int("completion_tokens", r.Usage.CompletionTokens),
			zap.String("finish_reason", string(r.Choices[0].FinishReason)))
		resp = r
		return nil
	}

	notify := func(err error, wait time.Duration) {
		c.logger.Warn("Chat completion failed, retrying", zap.Error(err), zap.Duration("backoff", wait))
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(c.newBackOff(), ctx), notify); err != nil {
		return openai.ChatCompletionResponse{}, err
	}
	return resp, nil
}

func retryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return retryableStatus(reqErr.HTTPStatusCode)
	}
	return false
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// temperature maps a configured zero to the smallest positive value, since
// the request encoding drops a literal zero and the API then uses its
// default.
func temperature(t float32) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return t
}
