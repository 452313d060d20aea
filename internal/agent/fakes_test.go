package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nbenliogludev/webmancer/internal/browser"
	"github.com/nbenliogludev/webmancer/internal/llm"
)

// scriptedLLM replies with queued assistant messages and records the
// conversation it was sent each time.
type scriptedLLM struct {
	replies  []openai.ChatCompletionMessage
	err      error
	sent     [][]openai.ChatCompletionMessage
	summary  string
	summErr  error
	summIn   []llm.SummaryInput
	toolSets [][]openai.Tool
}

func (s *scriptedLLM) Complete(ctx context.Context, messages []openai.ChatCompletionMessage, tools []openai.Tool) (openai.ChatCompletionMessage, error) {
	snapshot := make([]openai.ChatCompletionMessage, len(messages))
	copy(snapshot, messages)
	s.sent = append(s.sent, snapshot)
	s.toolSets = append(s.toolSets, tools)
	if s.err != nil {
		return openai.ChatCompletionMessage{}, s.err
	}
	if len(s.replies) == 0 {
		return openai.ChatCompletionMessage{}, errors.New("no reply queued")
	}
	m := s.replies[0]
	s.replies = s.replies[1:]
	return m, nil
}

func (s *scriptedLLM) Summarize(ctx context.Context, in llm.SummaryInput) (string, error) {
	s.summIn = append(s.summIn, in)
	return s.summary, s.summErr
}

func say(text string) openai.ChatCompletionMessage {
	return openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: text}
}

func calls(cs ...openai.ToolCall) openai.ChatCompletionMessage {
	return openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, ToolCalls: cs}
}

var callSeq int

func call(name, args string) openai.ToolCall {
	callSeq++
	return openai.ToolCall{
		ID:       fmt.Sprintf("call_%d", callSeq),
		Type:     openai.ToolTypeFunction,
		Function: openai.FunctionCall{Name: name, Arguments: args},
	}
}

// fakeBrowser records the operations it is asked to perform. Descriptions
// listed in missing fail.
type fakeBrowser struct {
	ops      []string
	log      []string
	missing  map[string]bool
	startErr bool
	lastErr  string
}

func newFakeBrowser(missing ...string) *fakeBrowser {
	b := &fakeBrowser{missing: make(map[string]bool)}
	for _, m := range missing {
		b.missing[m] = true
	}
	return b
}

func (b *fakeBrowser) result(op, entry, key string) bool {
	b.ops = append(b.ops, op)
	if b.missing[key] {
		b.lastErr = fmt.Sprintf("could not resolve %q", key)
		return false
	}
	b.log = append(b.log, entry)
	return true
}

func (b *fakeBrowser) StartSession(ctx context.Context) bool {
	b.ops = append(b.ops, "start")
	if b.startErr {
		b.lastErr = "failed to start browser session"
		return false
	}
	return true
}

func (b *fakeBrowser) Navigate(ctx context.Context, url string, opts browser.NavigateOptions) bool {
	return b.result("navigate "+url, fmt.Sprintf("navigate('%s')", browser.NormalizeURL(url)), url)
}

func (b *fakeBrowser) ClickByDescription(ctx context.Context, d string) bool {
	return b.result("click "+d, fmt.Sprintf("click('%s')", d), d)
}

func (b *fakeBrowser) FillByDescription(ctx context.Context, field, text string) bool {
	return b.result("fill "+field+"="+text, fmt.Sprintf("fill('%s')", field), field)
}

func (b *fakeBrowser) TypeText(ctx context.Context, text string, delay time.Duration) bool {
	return b.result("type "+text, fmt.Sprintf("type_text('%s')", text), text)
}

func (b *fakeBrowser) PressKey(ctx context.Context, key string) bool {
	return b.result("press "+key, fmt.Sprintf("press_key('%s')", key), key)
}

func (b *fakeBrowser) LastError() string { return b.lastErr }

func (b *fakeBrowser) History() []string {
	out := make([]string, len(b.log))
	copy(out, b.log)
	return out
}
