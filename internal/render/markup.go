package render

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	fencedCodeRe = regexp.MustCompile("(?s)```(.*?)```")
	inlineCodeRe = regexp.MustCompile("`([^`]+)`")
	boldRe       = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	slotRe       = regexp.MustCompile("\x00([0-9]+)\x00")
)

// Markup converts the lightweight markdown used in assistant replies to
// HTML: fenced code blocks, inline code, **bold** and line breaks, in
// that order. Code is set aside before bold runs, so asterisks inside
// code stay literal and newlines inside a fenced block are kept.
// Text is not HTML-escaped. NUL bytes in content are dropped.
func Markup(content string) string {
	content = strings.ReplaceAll(content, "\x00", "")

	var slots []string
	stash := func(html string) string {
		slots = append(slots, html)
		return fmt.Sprintf("\x00%d\x00", len(slots)-1)
	}

	out := fencedCodeRe.ReplaceAllStringFunc(content, func(m string) string {
		inner := fencedCodeRe.FindStringSubmatch(m)[1]
		return stash("<pre><code>" + inner + "</code></pre>")
	})
	out = inlineCodeRe.ReplaceAllStringFunc(out, func(m string) string {
		inner := inlineCodeRe.FindStringSubmatch(m)[1]
		return stash("<code>" + inner + "</code>")
	})
	out = boldRe.ReplaceAllString(out, "<strong>$1</strong>")
	out = strings.ReplaceAll(out, "\n", "<br>")

	return slotRe.ReplaceAllStringFunc(out, func(m string) string {
		i, err := strconv.Atoi(strings.Trim(m, "\x00"))
		if err != nil || i >= len(slots) {
			return m
		}
		return slots[i]
	})
}
