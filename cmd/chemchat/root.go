package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"chemchat/internal/config"
	"chemchat/internal/contextutil"
	"chemchat/internal/events"
	"chemchat/internal/tui"
)

type rootOptions struct {
	baseURL       string
	timeout       time.Duration
	markdownStyle string

	cfg     *config.Config
	logFile *os.File
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "chemchat",
		Short:         "Chat with a ChemLLM server from the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.logFile != nil {
				return opts.logFile.Close()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", "", "ChemLLM server URL (overrides CHEMLLM_BASE_URL)")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 0, "generation timeout (overrides REQUEST_TIMEOUT)")
	cmd.Flags().StringVar(&opts.markdownStyle, "markdown-style", "auto", "glamour style for replies: auto, dark, light, notty")

	cmd.AddCommand(newAskCmd(opts), newStatusCmd(opts), newExportsCmd(opts))
	return cmd
}

// load reads configuration, applies flag overrides and installs the logger.
func (o *rootOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if o.baseURL != "" {
		cfg.ChemLLMBaseURL = strings.TrimRight(o.baseURL, "/")
	}
	if o.timeout > 0 {
		cfg.RequestTimeout = o.timeout
	}
	f, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	o.cfg, o.logFile = cfg, f
	return nil
}

func runTUI(parent context.Context, opts *rootOptions) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	ctx = contextutil.WithLogger(ctx, contextutil.LoggerFromContext(ctx).With("component", "tui"))

	bus := events.NewBus(contextutil.LoggerFromContext(ctx))
	// Subscribers stop before the bus closes so a late publish is not left waiting for an ack.
	defer func() {
		cancel()
		_ = bus.Close()
	}()

	confirmer := &tui.Confirmer{}
	a, err := newApp(opts.cfg, bus, confirmer)
	if err != nil {
		return err
	}
	defer func() {
		_ = a.Close()
	}()

	ch, err := bus.Subscribe(ctx)
	if err != nil {
		return err
	}

	model := tui.New(tui.Options{
		Session:       a.controller,
		Params:        a.params,
		Context:       ctx,
		ModelID:       opts.cfg.ModelID,
		MarkdownStyle: opts.markdownStyle,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	confirmer.Attach(p.Send)
	go tui.Pump(ctx, ch, p.Send)

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	return nil
}
