package commands

import (
	"github.com/atotto/clipboard"

	"github.com/diogo/mcpchat/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(m tui.Model, view *tui.ProgramView, onStart func()) error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// TUI is the terminal user interface.
	TUI TUIInterface

	// Clipboard copies text to the system clipboard.
	Clipboard func(string) error
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(m tui.Model, view *tui.ProgramView, onStart func()) error {
	return tui.RunChat(m, view, onStart)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		TUI:       &DefaultTUI{},
		Clipboard: clipboard.WriteAll,
	}
}

func (d *Dependencies) orDefault() *Dependencies {
	if d == nil {
		return NewDependencies()
	}
	out := *d
	if out.TUI == nil {
		out.TUI = &DefaultTUI{}
	}
	if out.Clipboard == nil {
		out.Clipboard = clipboard.WriteAll
	}
	return &out
}
