package status

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_source.go -package=mocks chemchat/internal/status Source

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"chemchat/internal/contextutil"
	"chemchat/internal/events"
	"chemchat/internal/llm"
)

// ErrStatusRefresh is returned when the status endpoint could not produce model info.
var ErrStatusRefresh = errors.New("status refresh failed")

// Availability is the tri-state model availability gate.
type Availability int

const (
	Unknown Availability = iota
	Available
	Unavailable
)

func (a Availability) String() string {
	switch a {
	case Available:
		return "available"
	case Unavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Info is the structured model record shown next to the indicator.
type Info struct {
	ModelName string
	Device    string
	ModelType string
	Status    string
	Error     string
}

// Source queries remote model availability.
// This interface is defined from the monitor's perspective (consumer-first).
type Source interface {
	Status(ctx context.Context) (llm.StatusResponse, error)
}

// Monitor tracks model availability. It has its own lock and never shares the
// controller's busy state, so a refresh may overlap a pending generation.
type Monitor struct {
	source    Source
	publisher events.Publisher
	timeout   time.Duration

	mu           sync.RWMutex
	availability Availability
	info         Info
}

// NewMonitor creates a Monitor in the Unknown state. timeout bounds each refresh.
func NewMonitor(source Source, publisher events.Publisher, timeout time.Duration) *Monitor {
	if publisher == nil {
		publisher = events.Discard
	}
	return &Monitor{
		source:    source,
		publisher: publisher,
		timeout:   timeout,
	}
}

// Refresh queries the status endpoint and updates the gate.
// On failure a warning notice is published and the last known availability is kept.
func (m *Monitor) Refresh(ctx context.Context) error {
	logger := contextutil.LoggerFromContext(ctx)

	reqCtx := ctx
	if m.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	resp, err := m.source.Status(reqCtx)
	switch {
	case err != nil:
		logger.WarnContext(ctx, "model status request failed", "error", err)
		m.notice(ctx, events.LevelWarning, "Unable to check model status. Please try again.")
		return fmt.Errorf("%w: %w", ErrStatusRefresh, err)
	case !resp.Success || resp.ModelInfo == nil:
		logger.WarnContext(ctx, "model status unavailable", "error", resp.Error)
		msg := "Unable to check model status."
		if resp.Error != "" {
			msg = "Unable to check model status: " + resp.Error
		}
		m.notice(ctx, events.LevelWarning, msg)
		return fmt.Errorf("%w: %s", ErrStatusRefresh, resp.Error)
	}

	a := m.apply(ctx, *resp.ModelInfo)
	logger.InfoContext(ctx, "model status refreshed", "availability", a.String(), "status", resp.ModelInfo.Status)
	level := events.LevelInfo
	if a != Available {
		level = events.LevelWarning
	}
	m.notice(ctx, level, fmt.Sprintf("Model status: %s", resp.ModelInfo.Status))
	return nil
}

// ApplyExternalHint updates the gate from a status fragment that arrived with some
// other response, without a round trip.
func (m *Monitor) ApplyExternalHint(ctx context.Context, info llm.StatusInfo) {
	a := m.apply(ctx, info)
	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "applied model status hint", "availability", a.String())
}

// Availability returns the current gate value.
func (m *Monitor) Availability() Availability {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.availability
}

// Info returns the last known model record.
func (m *Monitor) Info() Info {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.info
}

// Permits reports whether generation is allowed. Only a known-unavailable model blocks it.
func (m *Monitor) Permits() bool {
	return m.Availability() != Unavailable
}

func (m *Monitor) apply(ctx context.Context, s llm.StatusInfo) Availability {
	a := Unavailable
	if s.Loaded() {
		a = Available
	}
	info := Info{
		ModelName: s.ModelName,
		Device:    s.Device,
		ModelType: s.ModelType,
		Status:    s.Status,
		Error:     s.Error,
	}

	m.mu.Lock()
	m.availability = a
	m.info = info
	m.mu.Unlock()

	_ = m.publisher.Publish(ctx, events.Event{
		Type:         events.TypeAvailabilityChanged,
		Availability: a.String(),
		ModelInfo: &events.ModelInfo{
			ModelName: info.ModelName,
			Device:    info.Device,
			ModelType: info.ModelType,
			Status:    info.Status,
			Error:     info.Error,
		},
	})
	return a
}

func (m *Monitor) notice(ctx context.Context, level events.Level, text string) {
	_ = m.publisher.Publish(ctx, events.Notice(level, text))
}
