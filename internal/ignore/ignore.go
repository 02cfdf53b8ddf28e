// Package ignore matches slash-separated paths against .srcfixignore patterns,
// a gitignore-style subset: globs, trailing "/" for directories, leading "/"
// to anchor at the project root, and "!" to re-include.
package ignore

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path"
	"strings"
)

// FileName is the ignore file looked up at the root of a scanned tree.
const FileName = ".srcfixignore"

type rule struct {
	glob     string
	negated  bool
	dirOnly  bool
	anchored bool
}

// Matcher evaluates paths against an ordered rule list; the last matching
// rule decides.
type Matcher struct {
	rules []rule
}

// Load reads patterns from a file, one per line.
func Load(filePath string) (*Matcher, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ParsePatterns(lines), nil
}

// LoadOptional is Load, except that a missing file yields an empty matcher.
func LoadOptional(filePath string) (*Matcher, error) {
	m, err := Load(filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return &Matcher{}, nil
	}
	return m, err
}

func ParsePatterns(lines []string) *Matcher {
	m := &Matcher{}
	m.Add(lines...)
	return m
}

// Add appends patterns after the existing ones.
func (m *Matcher) Add(lines ...string) {
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var r rule
		if strings.HasPrefix(line, "!") {
			r.negated = true
			line = line[1:]
		}
		if strings.HasSuffix(line, "/") {
			r.dirOnly = true
			line = strings.TrimSuffix(line, "/")
		}
		if strings.HasPrefix(line, "/") {
			r.anchored = true
			line = strings.TrimPrefix(line, "/")
		}
		if line == "" {
			continue
		}
		r.glob = line
		m.rules = append(m.rules, r)
	}
}

func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	return len(m.rules)
}

// Match reports whether relPath (relative to the project root) is ignored.
func (m *Matcher) Match(relPath string, isDir bool) bool {
	if m == nil || len(m.rules) == 0 {
		return false
	}

	relPath = strings.TrimPrefix(path.Clean(strings.ReplaceAll(relPath, "\\", "/")), "./")
	ignored := false
	for _, r := range m.rules {
		if r.dirOnly && !isDir {
			continue
		}
		if r.matches(relPath) {
			ignored = !r.negated
		}
	}
	return ignored
}

func (r rule) matches(relPath string) bool {
	if r.anchored || strings.Contains(r.glob, "/") {
		matched, _ := path.Match(r.glob, relPath)
		return matched
	}

	for _, part := range strings.Split(relPath, "/") {
		if matched, _ := path.Match(r.glob, part); matched {
			return true
		}
	}
	return false
}
