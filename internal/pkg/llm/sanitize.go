package llm

import "strings"

// Sanitize strips Markdown code-fence delimiters from a model reply:
// opening fences with optional language tags, trailing closing fences,
// and surrounding whitespace. Models sometimes stack fences, so the
// stripping runs to a fixpoint; applying it to already-clean markup is
// a no-op, which makes it safe to apply more than once.
func Sanitize(raw string) string {
	s := strings.TrimSpace(raw)

	for {
		prev := s

		if strings.HasPrefix(s, "```") {
			if idx := strings.IndexByte(s, '\n'); idx >= 0 {
				s = s[idx+1:]
			} else {
				// A fence with no body at all
				s = ""
			}
		}

		s = strings.TrimSpace(s)
		for strings.HasSuffix(s, "```") {
			s = strings.TrimSpace(s[:len(s)-3])
		}

		if s == prev {
			return s
		}
	}
}
