package agent

import (
	"bufio"
	"context"
	"io"
	"strings"
	"time"
)

// Runner feeds instructions to an agent and reports the outcome.
type Runner struct {
	agent    *Agent
	browser  BrowserActions
	reporter *Reporter
}

func NewRunner(a *Agent, b BrowserActions, reporter *Reporter) *Runner {
	return &Runner{agent: a, browser: b, reporter: reporter}
}

// Run executes tasks in order and stops at the first instruction that
// fails. The report is printed in every case.
func (r *Runner) Run(ctx context.Context, tasks []string) error {
	start := time.Now()
	var (
		replies []string
		runErr  error
	)

	for i, task := range tasks {
		r.reporter.Instruction(i, task)
		reply, err := r.agent.Interact(ctx, task)
		if err != nil {
			r.reporter.StepError(err)
			runErr = err
			break
		}
		r.reporter.Reply(reply)
		r.reporter.Executed(i)
		replies = append(replies, reply)
	}

	r.reporter.Report(context.WithoutCancel(ctx), RunReport{
		RunID:    r.agent.RunID(),
		Tasks:    tasks,
		Replies:  replies,
		Actions:  r.browser.History(),
		Looped:   r.agent.LoopedInstructions(),
		Err:      runErr,
		Duration: time.Since(start),
	})
	return runErr
}

// Interactive reads instructions line by line until EOF, "exit" or
// "quit". A failed instruction is reported and the loop goes on.
func (r *Runner) Interactive(ctx context.Context, in io.Reader, prompt func()) error {
	start := time.Now()
	scanner := bufio.NewScanner(in)
	var (
		tasks   []string
		replies []string
		runErr  error
		i       int
	)

	for {
		if prompt != nil {
			prompt()
		}
		if !scanner.Scan() {
			runErr = scanner.Err()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		tasks = append(tasks, line)
		reply, err := r.agent.Interact(ctx, line)
		if err != nil {
			r.reporter.StepError(err)
			if ctx.Err() != nil {
				runErr = err
				break
			}
			continue
		}
		r.reporter.Reply(reply)
		r.reporter.Executed(i)
		replies = append(replies, reply)
		i++
	}

	r.reporter.Report(context.WithoutCancel(ctx), RunReport{
		RunID:    r.agent.RunID(),
		Tasks:    tasks,
		Replies:  replies,
		Actions:  r.browser.History(),
		Looped:   r.agent.LoopedInstructions(),
		Err:      runErr,
		Duration: time.Since(start),
	})
	return runErr
}
