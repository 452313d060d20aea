package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nbenliogludev/webmancer/internal/agent"
	"github.com/nbenliogludev/webmancer/internal/browser"
	"github.com/nbenliogludev/webmancer/internal/config"
	"github.com/nbenliogludev/webmancer/internal/llm"
	"github.com/nbenliogludev/webmancer/internal/observability"
)

type options struct {
	cfgFile   string
	headless  bool
	tasksFile string
	demo      bool
	summary   bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "webmancer",
		Short: "WebMancer drives a browser from plain-language instructions.",
		Long: `WebMancer sends instructions to a language model that controls a browser
through description-based actions: navigate, click, fill, type and press.

Without --tasks or --demo, instructions are read from standard input.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v, err := config.NewViper(opts.cfgFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("headless") {
				v.Set("browser.headless", opts.headless)
			}
			cfg, err := config.NewConfigFromViper(v)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			opts.logger = observability.NewLogger(cfg.Logger)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			defer func() { _ = opts.logger.Sync() }()
			return run(cmd, opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	flags.BoolVar(&opts.headless, "headless", false, "run the browser without a window")
	cmd.Flags().StringVarP(&opts.tasksFile, "tasks", "t", "", "YAML task script to run")
	cmd.Flags().BoolVar(&opts.demo, "demo", false, "run the built-in GitHub demo script")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "ask the model for a summary at the end of the run")
	cmd.MarkFlagsMutuallyExclusive("tasks", "demo")

	return cmd
}

func run(cmd *cobra.Command, opts *options) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, logger := opts.cfg, opts.logger

	tasks, err := selectTasks(opts)
	if err != nil {
		return err
	}

	client, err := llm.NewOpenAIClient(cfg.LLM, logger)
	if err != nil {
		return fmt.Errorf("failed to create llm client: %w", err)
	}

	mgr := browser.NewManager(cfg.Browser, logger)
	actions := browser.NewActions(mgr, cfg.Browser, logger)
	defer actions.StopSession(context.WithoutCancel(ctx))

	tools := agent.NewToolbox(actions, agent.NewCredentials(cfg.Credentials), logger)
	ag := agent.NewAgent(client, tools, cfg.LLM.MaxToolRounds, logger)

	var summarizer llm.Client
	if opts.summary {
		summarizer = client
	}
	out := cmd.OutOrStdout()
	runner := agent.NewRunner(ag, actions, agent.NewReporter(out, summarizer))

	logger.Info("Starting WebMancer",
		zap.String("run_id", ag.RunID()),
		zap.String("browser", cfg.Browser.Type),
		zap.Bool("headless", cfg.Browser.Headless),
		zap.String("model", cfg.LLM.Model))

	if tasks == nil {
		fmt.Fprintln(out, "Type an instruction, or \"exit\" to quit.")
		return runner.Interactive(ctx, cmd.InOrStdin(), func() { fmt.Fprint(out, "User:> ") })
	}
	return runner.Run(ctx, tasks)
}

// selectTasks returns nil for interactive mode.
func selectTasks(opts *options) ([]string, error) {
	switch {
	case opts.tasksFile != "":
		return agent.LoadTasks(opts.tasksFile)
	case opts.demo:
		return agent.DefaultTasks, nil
	default:
		return nil, nil
	}
}
