package llm

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

// Client is the model backend used by the agent.
type Client interface {
	// Complete sends the conversation and returns the assistant message,
	// which either carries text or a list of tool calls.
	Complete(ctx context.Context, messages []openai.ChatCompletionMessage, tools []openai.Tool) (openai.ChatCompletionMessage, error)
	// Summarize writes a short report of a finished run.
	Summarize(ctx context.Context, input SummaryInput) (string, error)
}

// chatCompleter is the part of *openai.Client the package depends on.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type SummaryInput struct {
	Tasks   []string
	Replies []string
	// Actions is the executed command history.
	Actions []string
	// Looped is set when repeated tool calls had to be blocked.
	Looped bool
	Failed bool
}
