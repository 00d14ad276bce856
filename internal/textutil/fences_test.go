package textutil

import "testing"

func TestStripMarkdownFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `\frac{a}{b}`, `\frac{a}{b}`},
		{"plain keeps whitespace", "  x  \n", "  x  \n"},
		{"latex fence", "```latex\n\\alpha + \\beta\n```", `\alpha + \beta`},
		{"bare fence", "```\na\nb\n```\n", "a\nb"},
		{"single line", "```x^2```", "x^2"},
		{"unterminated", "```latex\n\\alpha", "```latex\n\\alpha"},
		{"fence in prose", "Here:\n```\nx\n```", "Here:\n```\nx\n```"},
		{"two blocks", "```\na\n```\n```\nb\n```", "```\na\n```\n```\nb\n```"},
		{"only backticks", "```", "```"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripMarkdownFences(tt.in); got != tt.want {
				t.Errorf("StripMarkdownFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
