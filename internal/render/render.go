package render

// Markdown renders content with glamour for terminal display. It is safe
// for concurrent use.
func Markdown(content string, opts Options) (string, error) {
	r, release, err := renderers.borrow(opts)
	if err != nil {
		return "", err
	}
	defer release()

	return r.Render(content)
}

// HTMLRenderer renders assistant replies with Markup
type HTMLRenderer struct{}

// Render implements conversation.Renderer
func (HTMLRenderer) Render(content string) string {
	return Markup(content)
}

// TerminalRenderer renders assistant replies with glamour. Content that
// fails to render is returned unchanged.
type TerminalRenderer struct {
	Options Options
}

// NewTerminalRenderer creates a TerminalRenderer for opts
func NewTerminalRenderer(opts Options) *TerminalRenderer {
	return &TerminalRenderer{Options: opts}
}

// Render implements conversation.Renderer
func (r *TerminalRenderer) Render(content string) string {
	out, err := Markdown(content, r.Options)
	if err != nil {
		return content
	}
	return out
}

// PlainRenderer returns content unchanged
type PlainRenderer struct{}

// Render implements conversation.Renderer
func (PlainRenderer) Render(content string) string {
	return content
}
