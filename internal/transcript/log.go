//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_confirmer.go -package=mocks chemchat/internal/transcript Confirmer

// Package transcript keeps the visible conversation and the exportable exchange history.
package transcript

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"chemchat/internal/events"
)

// ErrEmptyHistory is returned by ExportSnapshot when no exchange has been recorded.
var ErrEmptyHistory = errors.New("no chat history to export")

// DefaultModelID identifies the model in exported documents.
const DefaultModelID = "ChemLLM-7B-Chat-1.5-DPO"

// WelcomeText is shown in place of the log when it is empty.
const WelcomeText = "Welcome to ChemLLM. Ask a chemistry question to get started."

// ClearPrompt is the question put to the confirmation gate before clearing.
const ClearPrompt = "Clear the entire chat history?"

// Confirmer is a blocking yes/no gate.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Log holds the visible messages and, separately, the successful exchanges.
// Error messages appear in the former but never in the latter.
type Log struct {
	mu        sync.RWMutex
	messages  []Message
	exchanges []Exchange
	modelID   string
	publisher events.Publisher
}

// NewLog creates an empty Log. modelID names the model in exports; empty means DefaultModelID.
func NewLog(modelID string, publisher events.Publisher) *Log {
	if modelID == "" {
		modelID = DefaultModelID
	}
	if publisher == nil {
		publisher = events.Discard
	}
	return &Log{modelID: modelID, publisher: publisher}
}

// NewMessage builds a Message with a fresh ID.
func NewMessage(role Role, text string, sentAt time.Time) Message {
	return Message{
		ID:     uuid.NewString(),
		Role:   role,
		Text:   text,
		SentAt: sentAt.UTC(),
	}
}

// Append adds msg to the visible log and announces it so the view scrolls to it.
func (l *Log) Append(ctx context.Context, msg Message) {
	l.mu.Lock()
	l.messages = append(l.messages, msg)
	l.mu.Unlock()

	_ = l.publisher.Publish(ctx, events.Event{
		Type:      events.TypeMessageAppended,
		MessageID: msg.ID,
		Role:      string(msg.Role),
		Text:      msg.Text,
		SentAt:    msg.SentAt,
	})
}

// RecordExchange adds ex to the exportable history.
func (l *Log) RecordExchange(ex Exchange) {
	ex.SentAt = ex.SentAt.UTC()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.exchanges = append(l.exchanges, ex)
}

// Clear asks confirmer before emptying both the visible log and the exchange history.
// It reports whether the log was cleared. A declined or failed confirmation changes nothing.
func (l *Log) Clear(ctx context.Context, confirmer Confirmer) (bool, error) {
	ok, err := confirmer.Confirm(ctx, ClearPrompt)
	if err != nil {
		return false, fmt.Errorf("failed to confirm clear: %w", err)
	}
	if !ok {
		return false, nil
	}

	l.mu.Lock()
	l.messages = nil
	l.exchanges = nil
	l.mu.Unlock()

	_ = l.publisher.Publish(ctx, events.Event{
		Type: events.TypeTranscriptCleared,
		Text: WelcomeText,
	})
	return true, nil
}

// ExportSnapshot returns the exchange history as an exportable document.
// It has no side effects on the log.
func (l *Log) ExportSnapshot(now time.Time) (Snapshot, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.exchanges) == 0 {
		return Snapshot{}, ErrEmptyHistory
	}
	exchanges := make([]Exchange, len(l.exchanges))
	copy(exchanges, l.exchanges)
	return Snapshot{
		ExportedAt: now.UTC(),
		Model:      l.modelID,
		Exchanges:  exchanges,
	}, nil
}

// Messages returns a copy of the visible log.
func (l *Log) Messages() []Message {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// Exchanges returns a copy of the exchange history.
func (l *Log) Exchanges() []Exchange {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Exchange, len(l.exchanges))
	copy(out, l.exchanges)
	return out
}

// Len returns the number of visible messages.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}

// ModelID returns the identifier written into exports.
func (l *Log) ModelID() string {
	return l.modelID
}
