package tui

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrNoProgram is returned by Confirmer before a program is attached.
var ErrNoProgram = errors.New("confirm: no program attached")

// confirmRequestMsg asks the model to show a yes/no prompt and answer on reply.
type confirmRequestMsg struct {
	prompt string
	reply  chan<- bool
}

// Confirmer implements transcript.Confirmer by prompting inside the running program.
// Confirm must not be called from the program's Update loop.
type Confirmer struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

// Attach sets the function used to deliver prompts, normally (*tea.Program).Send.
func (c *Confirmer) Attach(send func(tea.Msg)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.send = send
}

// Confirm blocks until the user answers or ctx ends.
func (c *Confirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	c.mu.Lock()
	send := c.send
	c.mu.Unlock()
	if send == nil {
		return false, ErrNoProgram
	}

	reply := make(chan bool, 1)
	send(confirmRequestMsg{prompt: prompt, reply: reply})
	select {
	case ok := <-reply:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
