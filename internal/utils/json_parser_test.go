package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Pure JSON",
			input: `{"type":"CHAT","reply":"hi"}`,
			want:  `{"type":"CHAT","reply":"hi"}`,
		},
		{
			name:  "JSON in tagged code block",
			input: "```json\n{\"type\":\"CHAT\",\"reply\":\"hi\"}\n```",
			want:  `{"type":"CHAT","reply":"hi"}`,
		},
		{
			name:  "Bare code block",
			input: "```\n{\"a\":1}\n```",
			want:  `{"a":1}`,
		},
		{
			name:  "Single line fence",
			input: "```{\"a\":1}```",
			want:  `{"a":1}`,
		},
		{
			name:  "Windows line endings",
			input: "```JSON\r\n{\"a\":1}\r\n```",
			want:  `{"a":1}`,
		},
		{
			name:  "Surrounding whitespace",
			input: "  \n```json\n{\"a\":1}\n```\n  ",
			want:  `{"a":1}`,
		},
		{
			name:  "Interior backticks kept",
			input: "```json\n{\"reply\":\"use `code` here\"}\n```",
			want:  "{\"reply\":\"use `code` here\"}",
		},
		{
			name:  "Plain text",
			input: "Sure thing! Let me help you.",
			want:  "Sure thing! Let me help you.",
		},
		{
			name:  "Empty string",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFence(tt.input))
		})
	}
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "abc", TruncateString("abc", 5))
	assert.Equal(t, "ab...", TruncateString("abcdef", 2))
}
