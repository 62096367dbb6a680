package draft

import "testing"

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "clean page unchanged",
			in:   "# Getting Started\n\nInstall the CLI.",
			want: "# Getting Started\n\nInstall the CLI.",
		},
		{
			name: "strips here is preamble",
			in:   "Here is the final page:\n\n# Getting Started",
			want: "# Getting Started",
		},
		{
			name: "strips stacked preamble lines",
			in:   "Sure!\nI'll write this now.\nHaving reviewed the code:\n\n# API Reference",
			want: "# API Reference",
		},
		{
			name: "strips let me know signoff",
			in:   "# Usage\n\nRun it.\n\nLet me know if you need anything else!",
			want: "# Usage\n\nRun it.",
		},
		{
			name: "unwraps mdx fence",
			in:   "```mdx\n# Usage\n\n```bash\nwidgets run\n```\n```",
			want: "# Usage\n\n```bash\nwidgets run\n```",
		},
		{
			name: "unwraps markdown fence with preamble and signoff",
			in:   "Here's the page:\n\n```markdown\n# Usage\n\nRun it.\n```\n\nHope this helps!",
			want: "# Usage\n\nRun it.",
		},
		{
			name: "unwraps bare fence without inner fences",
			in:   "```\n# Usage\n\nRun it.\n```",
			want: "# Usage\n\nRun it.",
		},
		{
			name: "keeps page that is a single example",
			in:   "```bash\nwidgets run\n```",
			want: "```bash\nwidgets run\n```",
		},
		{
			name: "keeps bare fence with inner fences",
			in:   "```\nfirst\n```\n\nprose\n\n```\nsecond\n```",
			want: "```\nfirst\n```\n\nprose\n\n```\nsecond\n```",
		},
		{
			name: "case insensitive",
			in:   "HERE IS the page:\n\n# Usage",
			want: "# Usage",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
		{
			name: "preserves headings that start with common words",
			in:   "## Here Is How Auth Works\n\nDetails follow.",
			want: "## Here Is How Auth Works\n\nDetails follow.",
		},
		{
			name: "does not strip body content matching patterns",
			in:   "# Report\n\nAfter reviewing the config, the server starts.\n\nLet me explain the design.",
			want: "# Report\n\nAfter reviewing the config, the server starts.\n\nLet me explain the design.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.in); got != tt.want {
				t.Errorf("Sanitize() = %q, want %q", got, tt.want)
			}
		})
	}
}
