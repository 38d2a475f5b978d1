package stringtest

import "strings"

// Input normalizes an indented raw-string fixture: it strips one leading
// and one trailing newline and removes the common leading whitespace from
// every line. Whitespace-only lines become empty lines.
//
// Example:
//
//	doc := stringtest.Input(`
//	    {"a": 1,
//	     "b": 2}`)
func Input(s string) string {
	s = strings.TrimPrefix(s, "\n")
	s = strings.TrimSuffix(s, "\n")

	lines := strings.Split(s, "\n")

	indent := -1

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		n := leadingWhitespace(line)
		if indent < 0 || n < indent {
			indent = n
		}
	}

	if indent <= 0 {
		for i, line := range lines {
			if strings.TrimSpace(line) == "" {
				lines[i] = ""
			}
		}

		return strings.Join(lines, "\n")
	}

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""

			continue
		}

		lines[i] = line[indent:]
	}

	return strings.Join(lines, "\n")
}

// leadingWhitespace counts the leading space and tab bytes of line.
func leadingWhitespace(line string) int {
	for i := 0; i < len(line); i++ {
		if line[i] != ' ' && line[i] != '\t' {
			return i
		}
	}

	return len(line)
}

// JoinLF joins multiple strings with LF line endings.
// Use this to construct expected test output with explicit line endings.
//
// Example:
//
//	want := stringtest.JoinLF(
//		"line1",
//		"line2",
//		"line3",
//	) // -> "line1\nline2\nline3"
func JoinLF(ss ...string) string {
	var sb strings.Builder
	for i, s := range ss {
		if i > 0 {
			sb.WriteByte('\n')
		}

		sb.WriteString(s)
	}

	return sb.String()
}
