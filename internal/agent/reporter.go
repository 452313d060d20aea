package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nbenliogludev/webmancer/internal/llm"
)

// Exit reasons of a run.
const (
	ReasonCompleted   = "all instructions executed"
	ReasonInterrupted = "interrupted"
	ReasonMaxRounds   = "tool round limit reached"
	ReasonLLMError    = "llm error"
	ReasonFailed      = "instruction failed"
)

func exitReason(err error) string {
	switch {
	case err == nil:
		return ReasonCompleted
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ReasonInterrupted
	case errors.Is(err, ErrMaxRounds):
		return ReasonMaxRounds
	case errors.Is(err, ErrLLMFail):
		return ReasonLLMError
	default:
		return ReasonFailed
	}
}

// Reporter prints the run to the console.
type Reporter struct {
	w io.Writer
	// summarizer is optional; without it the report has no summary.
	summarizer llm.Client
}

func NewReporter(w io.Writer, summarizer llm.Client) *Reporter {
	return &Reporter{w: w, summarizer: summarizer}
}

func (r *Reporter) Instruction(i int, text string) {
	fmt.Fprintf(r.w, "INSTRUCTION %d: %s\n", i, text)
}

func (r *Reporter) Reply(text string) {
	fmt.Fprintf(r.w, "WebMancer:> %s\n", text)
}

func (r *Reporter) Executed(i int) {
	fmt.Fprintf(r.w, "EXECUTED INSTRUCTION %d\n", i)
}

func (r *Reporter) StepError(err error) {
	fmt.Fprintf(r.w, "Instruction error: %v\n", err)
}

// RunReport is everything printed at the end of a run.
type RunReport struct {
	RunID    string
	Tasks    []string
	Replies  []string
	Actions  []string
	Looped   int
	Err      error
	Duration time.Duration
}

// Report prints the action history and, when a summarizer is set, a
// model-written summary.
func (r *Reporter) Report(ctx context.Context, rep RunReport) {
	reason := exitReason(rep.Err)

	fmt.Fprintln(r.w, "\n===== EXECUTION REPORT =====")
	if rep.RunID != "" {
		fmt.Fprintf(r.w, "Run: %s\n", rep.RunID)
	}
	fmt.Fprintf(r.w, "Instructions: %d\n", len(rep.Tasks))
	fmt.Fprintf(r.w, "Duration: %s\n", rep.Duration.Truncate(time.Millisecond))
	fmt.Fprintf(r.w, "Exit reason: %s\n", reason)
	if rep.Err != nil {
		fmt.Fprintf(r.w, "Error: %v\n", rep.Err)
	}
	if rep.Looped > 0 {
		fmt.Fprintf(r.w, "Repeated calls blocked in %d instruction(s)\n", rep.Looped)
	}

	fmt.Fprintln(r.w, "\n--- ACTION HISTORY ---")
	if len(rep.Actions) == 0 {
		fmt.Fprintln(r.w, "(no actions)")
	}
	for i, a := range rep.Actions {
		fmt.Fprintf(r.w, "%d. %s\n", i+1, a)
	}

	if r.summarizer != nil {
		fmt.Fprintln(r.w, "\n--- SUMMARY ---")
		summary, err := r.summarizer.Summarize(ctx, llm.SummaryInput{
			Tasks:   rep.Tasks,
			Replies: rep.Replies,
			Actions: rep.Actions,
			Looped:  rep.Looped > 0,
			Failed:  rep.Err != nil,
		})
		if err != nil {
			fmt.Fprintln(r.w, "(failed to generate summary)")
		} else {
			fmt.Fprintln(r.w, strings.TrimSpace(summary))
		}
	}

	fmt.Fprintln(r.w, "===== END OF REPORT =====")
}
