package llm

import "strings"

// extractJSON pulls a JSON document out of a reply that may wrap it in markdown or prose.
func extractJSON(s string) string {
	for _, fence := range []string{"```json", "```"} {
		if body, ok := fenced(s, fence); ok {
			return body
		}
	}

	start := strings.IndexAny(s, "{[")
	if start == -1 {
		return s
	}
	depth := 0
	inString := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch c {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return s
}

// fenced returns the body of the first code block opened by fence.
func fenced(s, fence string) (string, bool) {
	idx := strings.Index(s, fence)
	if idx == -1 {
		return "", false
	}
	rest := strings.TrimLeft(s[idx+len(fence):], "\r\n")
	end := strings.Index(rest, "```")
	if end == -1 {
		return "", false
	}
	return strings.TrimRight(rest[:end], "\r\n"), true
}
