package project_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/sitesmith/sitesmith-api/internal/domain/project"
)

func TestDeriveName(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		want   string
	}{
		{
			name:   "short prompt kept verbatim",
			prompt: "a bakery site",
			want:   "a bakery site",
		},
		{
			name:   "surrounding whitespace trimmed",
			prompt: "  a bakery site  ",
			want:   "a bakery site",
		},
		{
			name:   "exactly fifty characters kept",
			prompt: strings.Repeat("x", 50),
			want:   strings.Repeat("x", 50),
		},
		{
			name:   "long prompt truncated with ellipsis",
			prompt: strings.Repeat("x", 60),
			want:   strings.Repeat("x", 47) + "...",
		},
		{
			name:   "trailing space before cut removed",
			prompt: strings.Repeat("x", 46) + " yyyyyyyyyy",
			want:   strings.Repeat("x", 46) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := project.DeriveName(tt.prompt)
			if got != tt.want {
				t.Errorf("DeriveName(%q) = %q, want %q", tt.prompt, got, tt.want)
			}
		})
	}
}

func TestDeriveNameMultibyte(t *testing.T) {
	prompt := strings.Repeat("ё", 60)

	got := project.DeriveName(prompt)
	if utf8.RuneCountInString(got) > 50 {
		t.Fatalf("derived name exceeds 50 runes: %d", utf8.RuneCountInString(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatal("truncated name must end with an ellipsis")
	}
	if !utf8.ValidString(got) {
		t.Fatal("truncation must not split a rune")
	}
}
