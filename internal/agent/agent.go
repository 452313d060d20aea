package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/nbenliogludev/webmancer/internal/llm"
)

var (
	ErrMaxRounds = errors.New("tool round limit reached")
	ErrLLMFail   = errors.New("llm error")
)

const loopThreshold = 3

// Agent carries one conversation with the model. Instructions are handled
// one after another and share the chat history.
type Agent struct {
	llm       llm.Client
	tools     *Toolbox
	maxRounds int
	runID     string
	logger    *zap.Logger

	history []openai.ChatCompletionMessage
	// looped counts instructions in which a repeated call was blocked.
	looped int
}

func NewAgent(client llm.Client, tools *Toolbox, maxRounds int, logger *zap.Logger) *Agent {
	runID := uuid.NewString()
	return &Agent{
		llm:       client,
		tools:     tools,
		maxRounds: maxRounds,
		runID:     runID,
		logger:    logger.Named("agent").With(zap.String("run_id", runID)),
		history: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: llm.SystemInstructions},
		},
	}
}

func (a *Agent) RunID() string {
	return a.runID
}

// LoopedInstructions reports how many instructions had a repeated tool
// call blocked.
func (a *Agent) LoopedInstructions() int {
	return a.looped
}

// History returns a copy of the conversation so far.
func (a *Agent) History() []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, len(a.history))
	copy(out, a.history)
	return out
}

// Interact sends one instruction and executes the tool calls the model
// asks for, strictly in order, until it answers with text.
func (a *Agent) Interact(ctx context.Context, instruction string) (string, error) {
	a.history = append(a.history, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: instruction,
	})
	mem := NewStepMemory(loopThreshold)
	defer func() {
		if mem.LoopTriggered() {
			a.looped++
		}
	}()
	defs := Definitions()

	for round := 1; round <= a.maxRounds; round++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		msg, err := a.llm.Complete(ctx, a.history, defs)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrLLMFail, err)
		}
		a.history = append(a.history, msg)

		if len(msg.ToolCalls) == 0 {
			a.logger.Info("Instruction answered", zap.Int("rounds", round))
			return msg.Content, nil
		}

		for _, call := range msg.ToolCalls {
			a.history = append(a.history, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    a.execute(ctx, mem, call),
				Name:       call.Function.Name,
				ToolCallID: call.ID,
			})
		}
	}

	a.logger.Warn("Tool round limit reached", zap.Int("max_rounds", a.maxRounds))
	return "", ErrMaxRounds
}

func (a *Agent) execute(ctx context.Context, mem *StepMemory, call openai.ToolCall) string {
	if block, note := mem.ShouldBlock(call); block {
		mem.MarkLoopTriggered()
		a.logger.Warn("Repeated tool call blocked", zap.String("tool", call.Function.Name))
		return note
	}
	result := a.tools.Dispatch(ctx, call)
	mem.Add(call)
	return result
}
