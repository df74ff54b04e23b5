package session

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_generator.go -package=mocks chemchat/internal/session Generator
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_export_sink.go -package=mocks chemchat/internal/session ExportSink

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"chemchat/internal/contextutil"
	"chemchat/internal/events"
	"chemchat/internal/llm"
	"chemchat/internal/params"
	"chemchat/internal/transcript"
)

// DefaultRequestTimeout bounds a generation when Deps.RequestTimeout is zero.
const DefaultRequestTimeout = 60 * time.Second

// ProgressLabel is shown next to the busy indicator.
const ProgressLabel = "Generating response..."

// Generator performs one remote generation.
// This interface is defined from the controller's perspective (consumer-first).
type Generator interface {
	Generate(ctx context.Context, req llm.GenerateRequest) (llm.GenerateResponse, error)
}

// ExportSink persists an exported snapshot and returns where it went.
type ExportSink interface {
	Save(ctx context.Context, snap transcript.Snapshot) (string, error)
}

// StatusGate is the part of the status monitor the controller relies on.
type StatusGate interface {
	Permits() bool
	ApplyExternalHint(ctx context.Context, info llm.StatusInfo)
	Refresh(ctx context.Context) error
}

// Deps are the collaborators of a Controller.
type Deps struct {
	Log       *transcript.Log
	Params    *params.Store
	Status    StatusGate
	Generator Generator
	Sink      ExportSink
	Confirmer transcript.Confirmer
	Publisher events.Publisher
	// Clock defaults to time.Now.
	Clock func() time.Time
	// RequestTimeout defaults to DefaultRequestTimeout.
	RequestTimeout time.Duration
}

// Controller drives the submit cycle. At most one generation is in flight;
// the Awaiting state is the guard and it is checked and set under mu.
type Controller struct {
	log       *transcript.Log
	params    *params.Store
	status    StatusGate
	generator Generator
	sink      ExportSink
	confirmer transcript.Confirmer
	publisher events.Publisher
	now       func() time.Time
	timeout   time.Duration

	mu    sync.Mutex
	state State
}

// NewController wires a Controller from deps.
func NewController(deps Deps) *Controller {
	c := &Controller{
		log:       deps.Log,
		params:    deps.Params,
		status:    deps.Status,
		generator: deps.Generator,
		sink:      deps.Sink,
		confirmer: deps.Confirmer,
		publisher: deps.Publisher,
		now:       deps.Clock,
		timeout:   deps.RequestTimeout,
	}
	if c.publisher == nil {
		c.publisher = events.Discard
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.timeout <= 0 {
		c.timeout = DefaultRequestTimeout
	}
	return c
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// CanSubmit reports whether a submission would be accepted right now.
func (c *Controller) CanSubmit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canSubmitLocked()
}

func (c *Controller) canSubmitLocked() bool {
	return c.state == Idle && c.status.Permits()
}

// Submit starts a generation for text. It returns false without side effects when
// the trimmed text is empty, a generation is already pending, or the model is known
// to be unavailable.
func (c *Controller) Submit(ctx context.Context, text string) (*Pending, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}

	c.mu.Lock()
	if !c.canSubmitLocked() {
		c.mu.Unlock()
		return nil, false
	}
	c.state = Awaiting
	c.mu.Unlock()

	c.log.Append(ctx, transcript.NewMessage(transcript.RoleUser, text, c.now()))
	c.publish(ctx, events.Event{Type: events.TypeInputAccepted})
	snap := c.params.Snapshot()
	c.publish(ctx, events.Event{Type: events.TypeStateChanged, State: Awaiting.String()})
	c.publish(ctx, events.Event{Type: events.TypeProgress, Progress: true, Label: ProgressLabel})

	p := newPending()
	go c.run(context.WithoutCancel(ctx), text, snap, p)
	return p, true
}

func (c *Controller) run(ctx context.Context, text string, snap params.Snapshot, p *Pending) {
	defer close(p.done)
	defer c.leaveAwaiting(ctx)

	logger := contextutil.LoggerFromContext(ctx)

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.generator.Generate(reqCtx, llm.GenerateRequest{
		Prompt:      text,
		MaxLength:   snap.MaxLength,
		Temperature: snap.Temperature,
		TopP:        snap.TopP,
	})

	switch {
	case err != nil:
		logger.ErrorContext(ctx, "generation transport failure", "error", err, "duration", time.Since(start))
		p.result = c.transportFailure(ctx, err)
	case !resp.Success:
		logger.WarnContext(ctx, "generation refused", "error", resp.Error, "duration", time.Since(start))
		p.result = c.domainError(ctx, resp)
	default:
		logger.InfoContext(ctx, "generation completed", "prompt_length", len(text), "response_length", len(resp.Response), "duration", time.Since(start))
		p.result = c.success(ctx, text, snap, resp)
	}
}

func (c *Controller) success(ctx context.Context, text string, snap params.Snapshot, resp llm.GenerateResponse) Result {
	sentAt := parseTimestamp(resp.Timestamp, c.now)
	msg := transcript.NewMessage(transcript.RoleAssistant, resp.Response, sentAt)
	ex := transcript.Exchange{
		UserText:      text,
		AssistantText: resp.Response,
		SentAt:        msg.SentAt,
		Parameters:    snap,
	}
	c.log.Append(ctx, msg)
	c.log.RecordExchange(ex)
	if resp.ModelInfo != nil {
		c.status.ApplyExternalHint(ctx, *resp.ModelInfo)
	}
	return Result{Outcome: OutcomeSuccess, Message: msg, Exchange: &ex}
}

func (c *Controller) domainError(ctx context.Context, resp llm.GenerateResponse) Result {
	text := resp.Error
	if text == "" {
		text = DomainFailureText
	}
	msg := transcript.NewMessage(transcript.RoleError, text, c.now())
	c.log.Append(ctx, msg)
	if resp.ModelStatus != nil {
		c.status.ApplyExternalHint(ctx, *resp.ModelStatus)
	}
	return Result{Outcome: OutcomeDomainError, Message: msg}
}

func (c *Controller) transportFailure(ctx context.Context, err error) Result {
	msg := transcript.NewMessage(transcript.RoleError, TransportFailureText, c.now())
	c.log.Append(ctx, msg)
	return Result{Outcome: OutcomeTransportFailure, Message: msg, Err: err}
}

func (c *Controller) leaveAwaiting(ctx context.Context) {
	c.mu.Lock()
	c.state = Idle
	canSubmit := c.canSubmitLocked()
	c.mu.Unlock()

	c.publish(ctx, events.Event{Type: events.TypeProgress, Progress: false})
	c.publish(ctx, events.Event{Type: events.TypeStateChanged, State: Idle.String(), CanSubmit: canSubmit})
}

// ClearHistory asks for confirmation and empties the transcript on yes.
func (c *Controller) ClearHistory(ctx context.Context) (bool, error) {
	cleared, err := c.log.Clear(ctx, c.confirmer)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to clear chat history", "error", err)
		c.publish(ctx, events.Notice(events.LevelError, "Could not clear the chat history."))
		return false, fmt.Errorf("%w: %w", ErrClearFailed, err)
	}
	if cleared {
		contextutil.LoggerFromContext(ctx).InfoContext(ctx, "chat history cleared")
		c.publish(ctx, events.Notice(events.LevelSuccess, "Chat history cleared."))
	}
	return cleared, nil
}

// ExportHistory saves the exchange history through the export sink and returns its location.
// With nothing recorded it publishes a warning, saves nothing and returns transcript.ErrEmptyHistory.
func (c *Controller) ExportHistory(ctx context.Context) (string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	snap, err := c.log.ExportSnapshot(c.now())
	if errors.Is(err, transcript.ErrEmptyHistory) {
		c.publish(ctx, events.Notice(events.LevelWarning, "No chat history to export."))
		return "", err
	}
	if err != nil {
		return "", WrapError(err, "failed to build export snapshot")
	}

	location, err := c.sink.Save(ctx, snap)
	if err != nil {
		logger.ErrorContext(ctx, "failed to save export", "error", err)
		c.publish(ctx, events.Notice(events.LevelError, "Failed to export chat history."))
		return "", fmt.Errorf("%w: %w", ErrExportFailed, err)
	}

	logger.InfoContext(ctx, "chat history exported", "location", location, "exchanges", len(snap.Exchanges))
	c.publish(ctx, events.Notice(events.LevelSuccess, "Chat history exported to "+location))
	return location, nil
}

// RefreshStatus re-queries model availability.
func (c *Controller) RefreshStatus(ctx context.Context) error {
	return c.status.Refresh(ctx)
}

func (c *Controller) publish(ctx context.Context, e events.Event) {
	if err := c.publisher.Publish(ctx, e); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to publish event", "type", e.Type, "error", err)
	}
}

// parseTimestamp reads the server's ISO timestamp, which may lack a zone.
// Anything unparseable falls back to now.
func parseTimestamp(s string, now func() time.Time) time.Time {
	if s != "" {
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999"} {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC()
			}
		}
	}
	return now().UTC()
}
