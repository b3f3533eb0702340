package llm_test

import (
	"testing"

	"github.com/sitesmith/sitesmith-api/internal/pkg/llm"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "clean markup untouched",
			in:   "<html><body>hi</body></html>",
			want: "<html><body>hi</body></html>",
		},
		{
			name: "fence with language tag",
			in:   "```html\n<html></html>\n```",
			want: "<html></html>",
		},
		{
			name: "fence without language tag",
			in:   "```\n<html></html>\n```",
			want: "<html></html>",
		},
		{
			name: "opening fence only",
			in:   "```html\n<html></html>",
			want: "<html></html>",
		},
		{
			name: "surrounding whitespace",
			in:   "  \n```html\n<html></html>\n```  \n",
			want: "<html></html>",
		},
		{
			name: "fence with no body",
			in:   "```",
			want: "",
		},
		{
			name: "stacked trailing fences",
			in:   "foo``````",
			want: "foo",
		},
		{
			name: "nested opening fences",
			in:   "```\n```html\n<p>x</p>\n```",
			want: "<p>x</p>",
		},
		{
			name: "doubled fenced block",
			in:   "```\n```html\n<p>x</p>\n```\n```",
			want: "<p>x</p>",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
		{
			name: "whitespace only",
			in:   "   \n\t ",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := llm.Sanitize(tt.in)
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		"```html\n<html></html>\n```",
		"<html><body>already clean</body></html>",
		"```\n<p>x</p>\n```",
		"foo``````",
		"```\n```html\n<p>x</p>\n```",
		"```html\n<p>x</p>\n``````",
		"",
	}

	for _, in := range inputs {
		once := llm.Sanitize(in)
		twice := llm.Sanitize(once)
		if once != twice {
			t.Errorf("Sanitize not idempotent for %q: once %q, twice %q", in, once, twice)
		}
	}
}
