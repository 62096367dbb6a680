package draft

import (
	"slices"
	"strings"
)

// preamblePatterns are common LLM thought-process prefixes that leak into
// a page. Each is checked as a case-insensitive prefix of the first
// non-empty lines.
var preamblePatterns = []string{
	"here is",
	"here's",
	"i'll ",
	"i will ",
	"i've ",
	"i have ",
	"let me ",
	"sure,",
	"sure!",
	"okay,",
	"okay!",
	"certainly",
	"absolutely",
	"of course",
	"now i ",
	"now let me",
	"after reviewing",
	"after analyzing",
	"having reviewed",
	"having analyzed",
	"below is",
	"after carefully",
}

// signoffPatterns are common LLM sign-offs appended after the page.
var signoffPatterns = []string{
	"let me know",
	"feel free to",
	"hope this helps",
	"is there anything",
	"would you like",
	"shall i ",
	"do you want",
	"i can also",
	"if you need",
	"if you'd like",
}

// wrapperLanguages are fence info strings that mark the whole answer as the
// page rather than an example inside it.
var wrapperLanguages = []string{"mdx", "markdown", "md"}

// Sanitize strips LLM preamble and sign-off lines and unwraps a page that
// was returned inside a single Markdown code fence.
func Sanitize(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return content
	}

	content = strings.TrimSpace(stripPreamble(content))
	content = strings.TrimSpace(stripSignoff(content))
	content = unwrapFence(content)

	return strings.TrimSpace(content)
}

// stripPreamble removes leading lines that match preamble patterns.
// Strips at most 3 lines to avoid eating actual content.
func stripPreamble(content string) string {
	lines := strings.SplitN(content, "\n", 5)
	stripped := 0

	for stripped < len(lines) && stripped < 3 {
		line := strings.TrimSpace(lines[stripped])
		if line == "" {
			stripped++
			continue
		}
		if matchesAnyPrefix(line, preamblePatterns) {
			stripped++
			continue
		}
		break
	}

	if stripped == 0 {
		return content
	}

	return strings.Join(lines[stripped:], "\n")
}

// stripSignoff removes trailing lines that match sign-off patterns.
func stripSignoff(content string) string {
	lines := strings.Split(content, "\n")

	end := len(lines)
	for end > 0 {
		line := strings.TrimSpace(lines[end-1])
		if line == "" {
			end--
			continue
		}
		if matchesAnyPrefix(line, signoffPatterns) {
			end--
			continue
		}
		break
	}

	if end == len(lines) {
		return content
	}

	return strings.Join(lines[:end], "\n")
}

// unwrapFence removes an opening and closing fence around the whole
// content. A bare ``` wrapper is only removed when nothing inside it is
// fenced, so a page made of a single example keeps its fence.
func unwrapFence(content string) string {
	lines := strings.Split(content, "\n")
	if len(lines) < 2 {
		return content
	}

	first := strings.TrimSpace(lines[0])
	last := strings.TrimSpace(lines[len(lines)-1])
	if !strings.HasPrefix(first, "```") || last != "```" {
		return content
	}

	inner := lines[1 : len(lines)-1]
	lang := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(first, "```")))
	switch {
	case slices.Contains(wrapperLanguages, lang):
	case lang == "" && !hasFence(inner):
	default:
		return content
	}
	return strings.Join(inner, "\n")
}

func hasFence(lines []string) bool {
	for _, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), "```") {
			return true
		}
	}
	return false
}

// matchesAnyPrefix checks if the line starts with any of the given patterns (case-insensitive).
func matchesAnyPrefix(line string, patterns []string) bool {
	lower := strings.ToLower(line)
	for _, p := range patterns {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}
