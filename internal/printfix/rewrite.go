package printfix

import (
	"fmt"
	"strings"

	"srcfix/internal/scan"
)

const printCall = "print("

// Rewrite is the structured logger call that replaces one print(...) line.
type Rewrite struct {
	Line     string
	Message  string
	Level    Level
	Category Category
}

// RewriteLine turns `print("msg")` into `<receiver>.<level>("msg", category: .<cat>)`.
// Text before print( and after the first ) following the closing quote is kept,
// which means extra print arguments between the two are dropped. Lines with an
// empty or unterminated message are left alone.
func (r Rules) RewriteLine(line, path string) (Rewrite, bool) {
	if r.SourceFile != "" && strings.Contains(path, r.SourceFile) {
		return Rewrite{}, false
	}

	span, ok := scan.MessageSpan(line, printCall)
	if !ok {
		return Rewrite{}, false
	}
	message := span.Text(line)
	if message == "" {
		return Rewrite{}, false
	}

	closeParen := strings.IndexByte(line[span.End+1:], ')')
	if closeParen < 0 {
		return Rewrite{}, false
	}
	closeParen += span.End + 1
	start := strings.Index(line, printCall)

	level := r.LevelFor(message)
	category := r.CategoryFor(path)
	call := fmt.Sprintf("%s.%s(\"%s\", category: .%s)", r.Receiver, level, r.CleanMessage(message), category)

	return Rewrite{
		Line:     line[:start] + call + line[closeParen+1:],
		Message:  message,
		Level:    level,
		Category: category,
	}, true
}

// isCandidate reports whether a line still carries an unmigrated print call.
func (r Rules) isCandidate(line string) bool {
	return strings.Contains(line, printCall) && !strings.Contains(line, r.ReceiverType())
}
