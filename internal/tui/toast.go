package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"chemchat/internal/events"
)

const (
	maxToasts = 3
	toastTTL  = 4 * time.Second
)

type toast struct {
	message string
	level   events.Level
	expiry  time.Time
}

// toasts is a queue of auto-dismissing notices.
type toasts struct {
	queue []toast
}

// add enqueues a notice, dropping the oldest beyond maxToasts.
func (t *toasts) add(message string, level events.Level, now time.Time) {
	t.queue = append(t.queue, toast{message: message, level: level, expiry: now.Add(toastTTL)})
	if len(t.queue) > maxToasts {
		t.queue = t.queue[len(t.queue)-maxToasts:]
	}
}

// prune drops expired notices.
func (t *toasts) prune(now time.Time) {
	alive := t.queue[:0]
	for _, q := range t.queue {
		if now.Before(q.expiry) {
			alive = append(alive, q)
		}
	}
	t.queue = alive
}

func (t toasts) len() int { return len(t.queue) }

func (t toasts) view(width int) string {
	if len(t.queue) == 0 {
		return ""
	}
	lines := make([]string, 0, len(t.queue))
	for _, q := range t.queue {
		icon, color := toastIconColor(q.level)
		rendered := lipgloss.NewStyle().Foreground(color).Render(fmt.Sprintf(" %s %s ", icon, q.message))
		pad := max(width-lipgloss.Width(rendered), 0)
		lines = append(lines, strings.Repeat(" ", pad)+rendered)
	}
	return strings.Join(lines, "\n")
}

func toastIconColor(level events.Level) (string, lipgloss.TerminalColor) {
	switch level {
	case events.LevelWarning:
		return "⚠", colorWarning
	case events.LevelError:
		return "✘", colorError
	case events.LevelSuccess:
		return "✓", colorSuccess
	default:
		return "ℹ", colorAccent
	}
}
