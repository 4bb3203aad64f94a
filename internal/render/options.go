// Package render turns assistant replies into display markup: HTML-ish
// markup for the message log and glamour output for the terminal.
package render

// Options configures glamour rendering
type Options struct {
	Width int
	// Style is a glamour style name, a TUI theme name or a path to a
	// JSON style file.
	Style string

	EnableEmoji      bool
	PreserveNewLines bool
	TableWrap        bool
	InlineTableLinks bool
}

// DefaultOptions returns an 80 column dark style
func DefaultOptions() Options {
	return Options{
		Width:            80,
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
	}
}

// WithWidth returns a copy of o wrapping at width columns
func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

// WithStyle returns a copy of o using style
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}

// ResolveStyle maps a TUI theme name to its glamour style. Other names
// and file paths pass through unchanged; empty means "dark".
func ResolveStyle(name string) string {
	if name == "" {
		return "dark"
	}
	if theme, ok := GetTUIThemeByName(name); ok {
		return theme.MarkdownStyle
	}
	return name
}
