package llm

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Summarize asks the model for a short report of a finished run.
func (c *OpenAIClient) Summarize(ctx context.Context, input SummaryInput) (string, error) {
	var sb strings.Builder
	sb.WriteString("INSTRUCTIONS:\n")
	for _, t := range input.Tasks {
		sb.WriteString("- " + t + "\n")
	}
	if input.Failed {
		sb.WriteString("\nThe run stopped early on an error.\n")
	}
	if input.Looped {
		sb.WriteString("\nSome repeated tool calls were blocked as loops.\n")
	}
	sb.WriteString("\nEXECUTED COMMANDS:\n")
	if len(input.Actions) == 0 {
		sb.WriteString("(none)\n")
	}
	for _, a := range input.Actions {
		sb.WriteString(a + "\n")
	}
	if len(input.Replies) > 0 {
		sb.WriteString("\nASSISTANT REPLIES:\n")
		for _, r := range input.Replies {
			sb.WriteString(r + "\n")
		}
	}

	resp, err := c.create(ctx, openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SummaryInstructions},
			{Role: openai.ChatMessageRoleUser, Content: sb.String()},
		},
		Temperature: 0.2,
		MaxTokens:   600,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
