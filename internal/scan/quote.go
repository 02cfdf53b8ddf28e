// Package scan locates the boundaries of Swift string literals on a single line,
// skipping over quote characters that appear inside \( ... ) interpolations.
package scan

import "strings"

// Span is a half-open byte range [Start, End) within a line.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Text returns the slice of line covered by the span.
func (s Span) Text(line string) string {
	return line[s.Start:s.End]
}

// FindClosingQuote returns the index of the double quote that closes the
// literal opened at quoteStart. The boolean is false when the line ends
// before a closing quote is seen (unterminated or multi-line literal).
//
// Every `\(` raises the interpolation depth and every `)` seen while the
// depth is positive lowers it. Parentheses nested inside an interpolation
// are not told apart from the interpolation's own closing parenthesis, so
// `\(f(a) + "x")` drops back to depth 0 at the `)` after `a`.
func FindClosingQuote(line string, quoteStart int) (int, bool) {
	if quoteStart < 0 || quoteStart >= len(line) {
		return 0, false
	}

	depth := 0
	for i := quoteStart + 1; i < len(line); {
		if i+1 < len(line) && line[i] == '\\' && line[i+1] == '(' {
			depth++
			i += 2
			continue
		}
		switch c := line[i]; {
		case c == ')' && depth > 0:
			depth--
		case c == '"' && depth == 0 && line[i-1] != '\\':
			return i, true
		}
		i++
	}
	return 0, false
}

// MessageSpan finds prefix in line, the first double quote after it and the
// quote that closes it. The returned span excludes both quotes.
func MessageSpan(line, prefix string) (Span, bool) {
	start := strings.Index(line, prefix)
	if start < 0 {
		return Span{}, false
	}
	offset := strings.IndexByte(line[start+len(prefix):], '"')
	if offset < 0 {
		return Span{}, false
	}
	quoteStart := start + len(prefix) + offset
	quoteEnd, ok := FindClosingQuote(line, quoteStart)
	if !ok {
		return Span{}, false
	}
	return Span{Start: quoteStart + 1, End: quoteEnd}, true
}
