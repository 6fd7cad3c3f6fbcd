package utils

import (
	"regexp"
	"strings"
)

var (
	leadingFence  = regexp.MustCompile("^```[A-Za-z0-9_+-]*[ \t]*\r?\n?")
	trailingFence = regexp.MustCompile("\r?\n?```$")
)

// StripCodeFence removes a markdown code fence wrapped around AI output.
// Supports: ```json {...} ```, ```{...}```, or ```\n{...}\n```.
// Text between the fences is returned untouched apart from outer whitespace.
func StripCodeFence(input string) string {
	s := strings.TrimSpace(input)
	s = strings.TrimPrefix(s, "\ufeff")

	if !strings.HasPrefix(s, "```") && !strings.HasSuffix(s, "```") {
		return s
	}

	s = leadingFence.ReplaceAllString(s, "")
	s = trailingFence.ReplaceAllString(s, "")

	return strings.TrimSpace(s)
}

// TruncateString truncates a string to maxLen bytes, for log fields
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
