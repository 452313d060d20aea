package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/nbenliogludev/webmancer/internal/browser"
)

// BrowserActions is the browser surface the tools drive.
// *browser.Actions implements it.
type BrowserActions interface {
	StartSession(ctx context.Context) bool
	Navigate(ctx context.Context, url string, opts browser.NavigateOptions) bool
	ClickByDescription(ctx context.Context, description string) bool
	FillByDescription(ctx context.Context, field, text string) bool
	TypeText(ctx context.Context, text string, delay time.Duration) bool
	PressKey(ctx context.Context, key string) bool
	LastError() string
	History() []string
}

// Toolbox executes tool calls issued by the model.
type Toolbox struct {
	browser BrowserActions
	creds   *Credentials
	logger  *zap.Logger
}

func NewToolbox(b BrowserActions, creds *Credentials, logger *zap.Logger) *Toolbox {
	return &Toolbox{browser: b, creds: creds, logger: logger.Named("tools")}
}

type navigateArgs struct {
	URL string `json:"url"`
}

type clickArgs struct {
	Text string `json:"text"`
}

type fillArgs struct {
	Field string `json:"field"`
	Text  string `json:"text"`
}

type typeArgs struct {
	String string `json:"string"`
}

type keyArgs struct {
	Key string `json:"key"`
}

// Dispatch runs one tool call and returns the text handed back to the
// model. Browser tools answer "true", or "false: <reason>".
func (t *Toolbox) Dispatch(ctx context.Context, call openai.ToolCall) string {
	name := call.Function.Name
	args := call.Function.Arguments
	log := t.logger.With(zap.String("tool", name))

	switch name {
	case ToolNavigate:
		var a navigateArgs
		if err := decode(args, &a); err != nil {
			return invalid(err)
		}
		log.Info("Function called", zap.String("url", a.URL))
		if !t.browser.StartSession(ctx) {
			return t.failed()
		}
		return t.outcome(t.browser.Navigate(ctx, a.URL, browser.NavigateOptions{}))

	case ToolFindAndClick:
		var a clickArgs
		if err := decode(args, &a); err != nil {
			return invalid(err)
		}
		log.Info("Function called", zap.String("text", a.Text))
		return t.outcome(t.browser.ClickByDescription(ctx, a.Text))

	case ToolFindAndFill:
		var a fillArgs
		if err := decode(args, &a); err != nil {
			return invalid(err)
		}
		log.Info("Function called", zap.String("field", a.Field))
		return t.outcome(t.browser.FillByDescription(ctx, a.Field, a.Text))

	case ToolTypeString:
		var a typeArgs
		if err := decode(args, &a); err != nil {
			return invalid(err)
		}
		log.Info("Function called", zap.Int("length", len(a.String)))
		return t.outcome(t.browser.TypeText(ctx, a.String, 0))

	case ToolPressKey:
		var a keyArgs
		if err := decode(args, &a); err != nil {
			return invalid(err)
		}
		log.Info("Function called", zap.String("key", a.Key))
		return t.outcome(t.browser.PressKey(ctx, a.Key))

	case ToolGithubUsername:
		log.Info("Function called")
		v, err := t.creds.GithubUsername()
		if err != nil {
			return "error: " + err.Error()
		}
		return v

	case ToolGithubPassword:
		log.Info("Function called")
		v, err := t.creds.GithubPassword()
		if err != nil {
			return "error: " + err.Error()
		}
		log.Info("Password retrieved")
		return v

	default:
		log.Warn("Unknown tool requested")
		return fmt.Sprintf("error: unknown function %q", name)
	}
}

func (t *Toolbox) outcome(ok bool) string {
	if ok {
		return "true"
	}
	return t.failed()
}

func (t *Toolbox) failed() string {
	if reason := t.browser.LastError(); reason != "" {
		return "false: " + reason
	}
	return "false"
}

func decode(raw string, v any) error {
	if raw == "" {
		raw = "{}"
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func invalid(err error) string {
	return "error: " + err.Error()
}
