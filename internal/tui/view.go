package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/mcpchat/internal/models"
)

// Messages delivered by ProgramView. They carry controller callbacks onto
// the bubbletea event loop.
type (
	appendMsg struct {
		msg      models.Message
		rendered string
	}
	clearInputMsg   struct{}
	inputEnabledMsg struct {
		enabled bool
	}
	pendingMsg struct {
		token string
	}
	pendingDoneMsg struct {
		token string
	}
	statusMsg struct {
		state models.ConnectionState
	}
)

// ProgramView implements conversation.View by forwarding every callback
// to a running bubbletea program. Callbacks made before Attach or after
// Detach are dropped.
type ProgramView struct {
	mu   sync.RWMutex
	send func(tea.Msg)
}

// NewProgramView returns a view with no program attached
func NewProgramView() *ProgramView {
	return &ProgramView{}
}

// Attach routes callbacks to p
func (v *ProgramView) Attach(p *tea.Program) {
	v.attach(p.Send)
}

func (v *ProgramView) attach(send func(tea.Msg)) {
	v.mu.Lock()
	v.send = send
	v.mu.Unlock()
}

// Detach stops forwarding callbacks
func (v *ProgramView) Detach() {
	v.attach(nil)
}

func (v *ProgramView) emit(msg tea.Msg) {
	v.mu.RLock()
	send := v.send
	v.mu.RUnlock()
	if send != nil {
		send(msg)
	}
}

func (v *ProgramView) AppendMessage(msg models.Message, rendered string) {
	v.emit(appendMsg{msg: msg, rendered: rendered})
}

func (v *ProgramView) ClearInput() {
	v.emit(clearInputMsg{})
}

func (v *ProgramView) SetInputEnabled(enabled bool) {
	v.emit(inputEnabledMsg{enabled: enabled})
}

func (v *ProgramView) ShowPending(token string) {
	v.emit(pendingMsg{token: token})
}

func (v *ProgramView) RemovePending(token string) {
	v.emit(pendingDoneMsg{token: token})
}

func (v *ProgramView) UpdateStatus(state models.ConnectionState) {
	v.emit(statusMsg{state: state})
}
