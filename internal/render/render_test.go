package render

import (
	"strings"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.Width != 80 {
		t.Errorf("expected Width=80, got %d", opts.Width)
	}
	if opts.Style != "dark" {
		t.Errorf("expected Style='dark', got %s", opts.Style)
	}
	if !opts.EnableEmoji {
		t.Error("expected EnableEmoji=true")
	}
	if !opts.PreserveNewLines {
		t.Error("expected PreserveNewLines=true")
	}
	if !opts.TableWrap {
		t.Error("expected TableWrap=true")
	}
	if opts.InlineTableLinks {
		t.Error("expected InlineTableLinks=false")
	}
}

func TestOptionsWithWidth(t *testing.T) {
	opts := DefaultOptions().WithWidth(120)

	if opts.Width != 120 {
		t.Errorf("expected Width=120, got %d", opts.Width)
	}
	// Verify other options are preserved
	if opts.Style != "dark" {
		t.Errorf("expected Style='dark', got %s", opts.Style)
	}
}

func TestOptionsWithStyle(t *testing.T) {
	opts := DefaultOptions().WithStyle("light")

	if opts.Style != "light" {
		t.Errorf("expected Style='light', got %s", opts.Style)
	}
}

func TestOptions_CopyOnWrite(t *testing.T) {
	base := DefaultOptions()
	wide := base.WithWidth(100).WithStyle("light")

	if base.Width != 80 || base.Style != "dark" {
		t.Errorf("base options changed: %+v", base)
	}
	if wide.Width != 100 || wide.Style != "light" {
		t.Errorf("unexpected options: %+v", wide)
	}
	if wide.EnableEmoji != base.EnableEmoji || wide.TableWrap != base.TableWrap {
		t.Error("expected flags to be carried over")
	}
}

func TestMarkdown(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		width    int
		contains string
	}{
		{
			name:     "heading",
			input:    "**Endpoint Health Check Results:**",
			width:    80,
			contains: "Endpoint", // Check individual words due to ANSI codes
		},
		{
			name:     "bold",
			input:    "**Current Error Rate:** 2.3%",
			width:    80,
			contains: "2.3%",
		},
		{
			name:     "code_block",
			input:    "```\n[2025-10-16 14:32:15] ERROR: Database connection timeout\n```",
			width:    80,
			contains: "Database",
		},
		{
			name:     "link",
			input:    "[Grafana](http://grafana:3000)",
			width:    80,
			contains: "Grafana",
		},
		{
			name:     "multiline",
			input:    "Line 1\n\nLine 2\n\nLine 3",
			width:    80,
			contains: "Line",
		},
		{
			name:     "narrow_width",
			input:    "The p95 latency is currently stable. There was a spike to 1.2s at 14:28 UTC.",
			width:    40,
			contains: "latency",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			opts := DefaultOptions().WithWidth(tc.width)
			output, err := Markdown(tc.input, opts)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(output, tc.contains) {
				t.Errorf("output should contain %q, got: %s", tc.contains, output)
			}
		})
	}
}

func TestMarkdownHeading(t *testing.T) {
	input := "# Demo Application Logs\n\nLog volume by level."
	output, err := Markdown(input, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Check individual words due to ANSI codes in output
	if !strings.Contains(output, "Demo") {
		t.Errorf("output should contain 'Demo', got: %s", output)
	}
	if !strings.Contains(output, "volume") {
		t.Errorf("output should contain 'volume', got: %s", output)
	}
}

func TestMarkdownEmoji(t *testing.T) {
	input := "Hello :smile: world"

	// With emoji enabled (default)
	opts := DefaultOptions()
	output, err := Markdown(input, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// When emoji is enabled, :smile: should be converted to the emoji character
	if strings.Contains(output, ":smile:") {
		t.Errorf("emoji should have been converted, got: %s", output)
	}

	// With emoji disabled
	opts = DefaultOptions()
	opts.EnableEmoji = false
	output, err = Markdown(input, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// When emoji is disabled, :smile: should remain as text
	if !strings.Contains(output, ":smile:") {
		t.Errorf("emoji should NOT have been converted, got: %s", output)
	}
}

func TestMarkdownTable(t *testing.T) {
	input := "| Endpoint | p95 |\n|---|---|\n| /api/data | 623ms |"
	output, err := Markdown(input, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(output, "Endpoint") || !strings.Contains(output, "p95") {
		t.Errorf("table should contain headers, got: %s", output)
	}
}

func TestMarkdownInvalidStyle(t *testing.T) {
	opts := DefaultOptions().WithStyle("nonexistent_style_path")
	_, err := Markdown("# Test", opts)
	// glamour should return an error for invalid style path
	if err == nil {
		t.Error("expected error for invalid style path")
	}
}

func TestResolveStyle(t *testing.T) {
	tests := map[string]string{
		"":            "dark",
		"tokyonight":  "tokyo-night",
		"catppuccin":  "dark",
		"nord":        "dark",
		"dracula":     "dracula",
		"light":       "light",
		"/tmp/x.json": "/tmp/x.json",
	}
	for in, want := range tests {
		if got := ResolveStyle(in); got != want {
			t.Errorf("ResolveStyle(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMarkdownWithThemeName(t *testing.T) {
	for _, name := range TUIThemeNames() {
		out, err := Markdown("**Summary:**", DefaultOptions().WithStyle(name))
		if err != nil {
			t.Errorf("theme %s: %v", name, err)
			continue
		}
		if !strings.Contains(out, "Summary") {
			t.Errorf("theme %s: output missing text: %q", name, out)
		}
	}
}
