// Package events carries presentation events from the session core to whatever renders it.
//
// The core never touches a UI toolkit. It publishes Events, and a presentation layer
// (the terminal UI, a headless printer, a test recorder) reacts to them.
package events

import (
	"context"
	"time"
)

// Type names an event kind.
type Type string

const (
	// TypeMessageAppended is published for every message added to the visible log.
	// Consumers scroll to the latest message.
	TypeMessageAppended Type = "message_appended"
	// TypeTranscriptCleared is published after a confirmed clear. Text holds the welcome placeholder.
	TypeTranscriptCleared Type = "transcript_cleared"
	// TypeInputAccepted tells the input surface to clear itself.
	TypeInputAccepted Type = "input_accepted"
	// TypeStateChanged reports the controller state and whether submission is enabled.
	TypeStateChanged Type = "state_changed"
	// TypeAvailabilityChanged reports a new model availability value.
	TypeAvailabilityChanged Type = "availability_changed"
	// TypeProgress starts or stops a busy indicator.
	TypeProgress Type = "show_progress"
	// TypeNotice is a transient user-visible notice.
	TypeNotice Type = "show_notice"
)

// Level classifies a notice.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// ModelInfo is the structured status record shown next to the availability indicator.
type ModelInfo struct {
	ModelName string `json:"model_name,omitempty"`
	Device    string `json:"device,omitempty"`
	ModelType string `json:"model_type,omitempty"`
	Status    string `json:"status,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Event is a flat record so it can travel as JSON over the bus without import cycles.
// Only the fields relevant to Type are set.
type Event struct {
	Type Type `json:"type"`

	MessageID string    `json:"message_id,omitempty"`
	Role      string    `json:"role,omitempty"`
	Text      string    `json:"text,omitempty"`
	SentAt    time.Time `json:"sent_at,omitempty"`

	State     string `json:"state,omitempty"`
	CanSubmit bool   `json:"can_submit,omitempty"`

	Availability string     `json:"availability,omitempty"`
	ModelInfo    *ModelInfo `json:"model_info,omitempty"`

	Level  Level  `json:"level,omitempty"`
	Notice string `json:"notice,omitempty"`

	Progress bool   `json:"progress,omitempty"`
	Label    string `json:"label,omitempty"`
}

// Publisher accepts events from the core.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, e Event) error

// Publish calls f.
func (f PublisherFunc) Publish(ctx context.Context, e Event) error {
	return f(ctx, e)
}

// Discard drops every event.
var Discard Publisher = PublisherFunc(func(context.Context, Event) error { return nil })

// Notice builds a notice event.
func Notice(level Level, text string) Event {
	return Event{Type: TypeNotice, Level: level, Notice: text}
}
