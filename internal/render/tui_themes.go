package render

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// TUITheme is the palette of the chat interface
type TUITheme struct {
	Name        string
	Description string

	Border lipgloss.Color

	Primary   lipgloss.Color // assistant bubbles, titles
	Secondary lipgloss.Color // user bubbles, connected indicator
	Accent    lipgloss.Color
	Warning   lipgloss.Color // status not checked yet
	Error     lipgloss.Color // disconnected, failures

	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color

	// MarkdownStyle is the glamour style used for replies under this theme
	MarkdownStyle string
}

// TokyoNightTheme is the default theme
var TokyoNightTheme = TUITheme{
	Name:          "tokyonight",
	Description:   "Tokyo Night, dark with blue accents",
	Border:        "#414868",
	Primary:       "#7aa2f7",
	Secondary:     "#9ece6a",
	Accent:        "#bb9af7",
	Warning:       "#e0af68",
	Error:         "#f7768e",
	Text:          "#c0caf5",
	TextDim:       "#565f89",
	TextMute:      "#3b4261",
	MarkdownStyle: "tokyo-night",
}

var builtinThemes = []TUITheme{
	TokyoNightTheme,
	{
		Name:          "catppuccin",
		Description:   "Catppuccin Mocha, warm pastels",
		Border:        "#45475a",
		Primary:       "#89b4fa",
		Secondary:     "#a6e3a1",
		Accent:        "#cba6f7",
		Warning:       "#f9e2af",
		Error:         "#f38ba8",
		Text:          "#cdd6f4",
		TextDim:       "#6c7086",
		TextMute:      "#45475a",
		MarkdownStyle: "dark",
	},
	{
		Name:          "nord",
		Description:   "Nord, cool arctic tones",
		Border:        "#4c566a",
		Primary:       "#88c0d0",
		Secondary:     "#a3be8c",
		Accent:        "#b48ead",
		Warning:       "#ebcb8b",
		Error:         "#bf616a",
		Text:          "#eceff4",
		TextDim:       "#7b88a1",
		TextMute:      "#4c566a",
		MarkdownStyle: "dark",
	},
	{
		Name:          "dracula",
		Description:   "Dracula, vivid on dark grey",
		Border:        "#6272a4",
		Primary:       "#8be9fd",
		Secondary:     "#50fa7b",
		Accent:        "#ff79c6",
		Warning:       "#f1fa8c",
		Error:         "#ff5555",
		Text:          "#f8f8f2",
		TextDim:       "#6272a4",
		TextMute:      "#44475a",
		MarkdownStyle: "dracula",
	},
	{
		Name:          "light",
		Description:   "Light background, for bright terminals",
		Border:        "#c0c4cc",
		Primary:       "#2e59c7",
		Secondary:     "#2f8a3c",
		Accent:        "#8a3ffc",
		Warning:       "#b8860b",
		Error:         "#c62828",
		Text:          "#1f2328",
		TextDim:       "#57606a",
		TextMute:      "#8c959f",
		MarkdownStyle: "light",
	},
}

var (
	themeMu     sync.RWMutex
	activeTheme = TokyoNightTheme
)

// GetTUITheme returns the active theme
func GetTUITheme() TUITheme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return activeTheme
}

// SetTUITheme activates the named theme. Unknown names leave the active
// theme unchanged and return false.
func SetTUITheme(name string) bool {
	theme, ok := GetTUIThemeByName(name)
	if !ok {
		return false
	}
	themeMu.Lock()
	activeTheme = theme
	themeMu.Unlock()
	return true
}

// StatusColor returns the indicator colour for a connection state. A
// server that has not been probed yet is shown as a warning.
func (t TUITheme) StatusColor(checked, connected bool) lipgloss.Color {
	switch {
	case !checked:
		return t.Warning
	case connected:
		return t.Secondary
	default:
		return t.Error
	}
}

func GetTUIThemeByName(name string) (TUITheme, bool) {
	for _, t := range builtinThemes {
		if t.Name == name {
			return t, true
		}
	}
	return TUITheme{}, false
}

// AvailableTUIThemes returns the built-in themes, default first
func AvailableTUIThemes() []TUITheme {
	out := make([]TUITheme, len(builtinThemes))
	copy(out, builtinThemes)
	return out
}

func TUIThemeNames() []string {
	names := make([]string, 0, len(builtinThemes))
	for _, t := range builtinThemes {
		names = append(names, t.Name)
	}
	return names
}
