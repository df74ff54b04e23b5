package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"chemchat/internal/events"
	"chemchat/internal/session"
)

// ErrNotAnswered is returned when a question did not produce an assistant reply.
var ErrNotAnswered = errors.New("question was not answered")

type askOptions struct {
	maxLength   int
	temperature float64
	topP        float64
	export      bool
}

func newAskCmd(root *rootOptions) *cobra.Command {
	opts := &askOptions{}

	cmd := &cobra.Command{
		Use:   "ask QUESTION",
		Short: "Ask one question and print the reply",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, root, opts, args[0])
		},
	}

	cmd.Flags().IntVar(&opts.maxLength, "max-length", 0, "maximum reply length")
	cmd.Flags().Float64Var(&opts.temperature, "temperature", 0, "sampling temperature")
	cmd.Flags().Float64Var(&opts.topP, "top-p", 0, "nucleus sampling threshold")
	cmd.Flags().BoolVar(&opts.export, "export", false, "export the exchange after a successful reply")
	return cmd
}

// noticePrinter writes notices to w and drops every other event.
func noticePrinter(w io.Writer) events.Publisher {
	return events.PublisherFunc(func(_ context.Context, e events.Event) error {
		if e.Type == events.TypeNotice {
			_, _ = fmt.Fprintf(w, "[%s] %s\n", e.Level, e.Notice)
		}
		return nil
	})
}

func runAsk(cmd *cobra.Command, root *rootOptions, opts *askOptions, question string) error {
	ctx := cmd.Context()
	a, err := newApp(root.cfg, noticePrinter(cmd.ErrOrStderr()), declineClear)
	if err != nil {
		return err
	}
	defer func() {
		_ = a.Close()
	}()

	flags := cmd.Flags()
	if flags.Changed("max-length") {
		a.params.SetMaxLength(opts.maxLength)
	}
	if flags.Changed("temperature") {
		a.params.SetTemperature(opts.temperature)
	}
	if flags.Changed("top-p") {
		a.params.SetTopP(opts.topP)
	}

	if err := a.controller.RefreshStatus(ctx); err != nil {
		slog.Warn("Status check failed, submitting anyway", "error", err)
	}
	if !a.controller.CanSubmit() {
		return fmt.Errorf("%w: model is unavailable", ErrNotAnswered)
	}

	pending, ok := a.controller.Submit(ctx, question)
	if !ok {
		return fmt.Errorf("%w: question is empty", ErrNotAnswered)
	}
	res, err := pending.Wait(ctx)
	if err != nil {
		return err
	}

	if res.Outcome != session.OutcomeSuccess {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), res.Message.Text)
		return fmt.Errorf("%w: %s", ErrNotAnswered, res.Outcome)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), res.Message.Text)

	if opts.export {
		if _, err := a.controller.ExportHistory(ctx); err != nil {
			return err
		}
	}
	return nil
}
