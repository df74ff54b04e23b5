package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"chemchat/internal/events"
)

// eventMsg carries one session event into the program.
type eventMsg events.Event

// Pump forwards events to send until the channel closes or ctx ends.
// Each send returns only once the program has taken the message, which
// keeps the bus's one-at-a-time ordering intact.
func Pump(ctx context.Context, in <-chan events.Event, send func(tea.Msg)) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-in:
			if !ok {
				return
			}
			send(eventMsg(e))
		}
	}
}
