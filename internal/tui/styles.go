// Package tui provides the terminal user interface for mcpchat.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/mcpchat/internal/errors"
	"github.com/diogo/mcpchat/internal/render"
)

// Text colors of the active theme, used for inline styling
var (
	colorText     lipgloss.Color
	colorTextDim  lipgloss.Color
	colorTextMute lipgloss.Color
	colorError    lipgloss.Color
)

// Styles rebuilt by UpdateTheme
var (
	headerStyle, titleStyle, subtitleStyle, hintStyle lipgloss.Style

	messagesAreaStyle    lipgloss.Style
	userBubbleStyle      lipgloss.Style
	userLabelStyle       lipgloss.Style
	assistantBubbleStyle lipgloss.Style
	assistantLabelStyle  lipgloss.Style

	inputPanelStyle, inputLabelStyle, loadingStyle lipgloss.Style

	statusBarStyle, statusKeyStyle, statusDescStyle lipgloss.Style
	errorStyle, noticeStyle                         lipgloss.Style

	welcomeStyle      lipgloss.Style
	welcomeTitleStyle lipgloss.Style
	welcomeIconStyle  lipgloss.Style
	promptKeyStyle    lipgloss.Style
	promptLabelStyle  lipgloss.Style
)

// Typing indicator colors, independent of the theme
var gradientColors = []lipgloss.Color{
	"#ff6b6b", "#feca57", "#48dbfb", "#ff9ff3",
	"#54a0ff", "#5f27cd", "#00d2d3", "#1dd1a1",
}

func init() {
	UpdateTheme()
}

// UpdateTheme rebuilds every style from render.GetTUITheme. Call it after
// render.SetTUITheme.
func UpdateTheme() {
	applyTheme(render.GetTUITheme())
}

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func panel(border lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(border)
}

func applyTheme(t render.TUITheme) {
	colorText, colorTextDim, colorTextMute, colorError = t.Text, t.TextDim, t.TextMute, t.Error

	headerStyle = panel(t.Border).Padding(0, 2).MarginBottom(1)
	titleStyle = fg(t.Primary).Bold(true)
	subtitleStyle = fg(t.TextDim)
	hintStyle = fg(t.TextMute).Italic(true)

	messagesAreaStyle = panel(t.Border).Padding(1)
	userLabelStyle = fg(t.Secondary).Bold(true).MarginLeft(4)
	userBubbleStyle = panel(t.Secondary).Padding(0, 1).MarginLeft(4)
	assistantLabelStyle = fg(t.Primary).Bold(true)
	assistantBubbleStyle = panel(t.Primary).Foreground(t.Text).Padding(0, 1).MarginRight(4)

	inputPanelStyle = panel(t.Border).Padding(0, 1).MarginTop(1)
	inputLabelStyle = fg(t.Primary).Bold(true).MarginRight(1)
	loadingStyle = fg(t.Accent).Bold(true)

	statusBarStyle = fg(t.TextMute).MarginTop(1)
	statusKeyStyle = fg(t.TextDim).Bold(true)
	statusDescStyle = fg(t.TextMute)
	errorStyle = fg(t.Error).Bold(true)
	noticeStyle = fg(t.TextDim).Italic(true)

	welcomeStyle = panel(t.Primary).Padding(1, 2).MarginBottom(1).Align(lipgloss.Center)
	welcomeTitleStyle = fg(t.Primary).Bold(true).MarginBottom(1)
	welcomeIconStyle = fg(t.Accent).MarginBottom(1)
	promptKeyStyle = fg(t.Accent).Bold(true)
	promptLabelStyle = fg(t.Text)
}

// statusStyle colors the connection indicator for the current theme
func statusStyle(checked, connected bool) lipgloss.Style {
	return fg(render.GetTUITheme().StatusColor(checked, connected)).Bold(true)
}

// FormatError returns a styled error message with additional context
// extracted from the structured error types.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	errStyle, dimStyle := fg(colorError), fg(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errStyle.Render(fmt.Sprintf("✗ %v", err)))

	if status := errors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}

	if endpoint := errors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	if body := errors.GetResponseBody(err); body != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n\n  %s", strings.ReplaceAll(body, "\n", "\n  "))))
	} else if hint := errorHint(err); hint != "" {
		sb.WriteString(dimStyle.Render("\n  Hint: " + hint))
	}

	return sb.String()
}

func errorHint(err error) string {
	switch {
	case errors.IsTimeoutError(err):
		return "The MCP server took too long to answer. Try again"
	case errors.IsConnectivityError(err):
		return "Make sure the MCP server is running (try 'mcpchat serve') and check base_url"
	case errors.IsEmptyInput(err):
		return "Type a message before sending"
	}
	return ""
}

// PrintError prints a styled error message.
func PrintError(err error) {
	if err == nil {
		return
	}
	fmt.Println(FormatError(err))
}
