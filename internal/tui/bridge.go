package tui

import (
	"context"
	"sync"

	"asperro-contact-backend/internal/contactform"

	tea "github.com/charmbracelet/bubbletea"
)

// StateMsg carries a controller state change into the Bubble Tea loop.
type StateMsg struct {
	State contactform.State
}

// SubmitDoneMsg is sent when a Submit call returns.
type SubmitDoneMsg struct {
	Status contactform.Status
}

// StateBridge forwards controller notifications to a tea.Program. The
// controller is built before the program exists, so the send function is
// attached later; notifications before that are dropped.
type StateBridge struct {
	mu   sync.RWMutex
	send func(tea.Msg)
}

func NewStateBridge() *StateBridge {
	return &StateBridge{}
}

// Attach sets the send function, typically program.Send.
func (b *StateBridge) Attach(send func(tea.Msg)) {
	b.mu.Lock()
	b.send = send
	b.mu.Unlock()
}

// Forward has the contactform.Config.OnChange signature.
func (b *StateBridge) Forward(st contactform.State) {
	b.mu.RLock()
	send := b.send
	b.mu.RUnlock()
	if send != nil {
		send(StateMsg{State: st})
	}
}

// SubmitCmd runs Submit off the UI goroutine.
func SubmitCmd(ctx context.Context, form Form) tea.Cmd {
	return func() tea.Msg {
		return SubmitDoneMsg{Status: form.Submit(ctx)}
	}
}
