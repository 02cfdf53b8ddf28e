// Package loggerfix repairs logger call sites damaged by an earlier automated
// print(...) migration: trailing leftovers after a complete call and stray
// closing quotes.
package loggerfix

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"srcfix/internal/files"
	"srcfix/internal/model"
)

const (
	RuleTrailingText  = "trailing-text"
	RuleStrayQuote    = "stray-quote"
	RuleNilCoalescing = "nil-coalescing"
)

// Fix is the outcome of FixLine. NeedsReview marks damage that is detected
// but deliberately left untouched.
type Fix struct {
	Line        string
	Rule        string
	Changed     bool
	NeedsReview bool
}

type Options struct {
	Receiver string
	DryRun   bool
	Backup   bool
	Files    files.Options
	Workers  int
	Logger   *zap.Logger
}

type Fixer struct {
	marker        string
	trailingText  *regexp.Regexp
	strayQuote    *regexp.Regexp
	nilCoalescing *regexp.Regexp
	dryRun        bool
	backup        bool
	files         files.Options
	workers       int
	logger        *zap.Logger
}

var nilCoalescingPattern = regexp.MustCompile(`(\?\?\s*")[^"]*",\s*category:`)

func New(opts Options) (*Fixer, error) {
	receiver := strings.TrimSpace(opts.Receiver)
	if receiver == "" {
		return nil, fmt.Errorf("logger receiver is required")
	}
	call := `(` + regexp.QuoteMeta(receiver) + `\.\w+\("[^"]*",\s*category:\s*\.\w+\))`

	trailingText, err := regexp.Compile(call + `\s*([^;\s}].*)`)
	if err != nil {
		return nil, fmt.Errorf("compile trailing-text pattern: %w", err)
	}
	strayQuote, err := regexp.Compile(call + `"`)
	if err != nil {
		return nil, fmt.Errorf("compile stray-quote pattern: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fixer{
		marker:        receiver + ".",
		trailingText:  trailingText,
		strayQuote:    strayQuote,
		nilCoalescing: nilCoalescingPattern,
		dryRun:        opts.DryRun,
		backup:        opts.Backup,
		files:         opts.Files,
		workers:       opts.Workers,
		logger:        logger,
	}, nil
}

// Applies reports whether a line is a logger call worth inspecting.
func (f *Fixer) Applies(line string) bool {
	return strings.Contains(line, f.marker) && strings.Contains(line, "category:")
}

// FixLine truncates everything after a complete logger call when the call is
// followed by leftover text or a stray quote. Text before the call is kept and
// a trailing line comment is not treated as leftover.
//
// A message mangled around a nil-coalescing operator (`?? "...", category:`)
// cannot be rebuilt from the line alone; it is flagged and returned unchanged.
func (f *Fixer) FixLine(line string) Fix {
	if m := f.strayQuote.FindStringSubmatchIndex(line); m != nil {
		return f.truncated(line, m[3], RuleStrayQuote)
	}
	if m := f.trailingText.FindStringSubmatchIndex(line); m != nil {
		rest := line[m[4]:m[5]]
		if !strings.HasPrefix(rest, "//") {
			return f.truncated(line, m[3], RuleTrailingText)
		}
	}
	if f.nilCoalescing.MatchString(line) {
		return Fix{Line: line, Rule: RuleNilCoalescing, NeedsReview: true}
	}
	return Fix{Line: line}
}

func (f *Fixer) truncated(line string, callEnd int, rule string) Fix {
	fixed := strings.TrimRight(line[:callEnd], " \t\r\n") + "\n"
	return Fix{Line: fixed, Rule: rule, Changed: fixed != line}
}

// FixFile repairs one file, writing it back unless the fixer is in dry-run mode.
func (f *Fixer) FixFile(path string) (model.FileReport, error) {
	fileReport := model.FileReport{Path: path}
	content, err := os.ReadFile(path)
	if err != nil {
		return fileReport, fmt.Errorf("read %s: %w", path, err)
	}

	lines := files.SplitLines(string(content))
	for i, line := range lines {
		if !f.Applies(line) {
			continue
		}
		fix := f.FixLine(line)
		switch {
		case fix.NeedsReview:
			fileReport.Edits = append(fileReport.Edits, model.Edit{
				File:     path,
				Line:     i + 1,
				Rule:     fix.Rule,
				Before:   strings.TrimSpace(line),
				Skipped:  true,
				SkipNote: "nil-coalescing before category: restore from backup or fix manually",
			})
			f.logger.Warn("logger call needs manual review", zap.String("file", path), zap.Int("line", i+1))
		case fix.Changed:
			lines[i] = fix.Line
			fileReport.Edits = append(fileReport.Edits, model.Edit{
				File:   path,
				Line:   i + 1,
				Rule:   fix.Rule,
				Before: strings.TrimSpace(line),
				After:  strings.TrimSpace(fix.Line),
			})
			f.logger.Debug("logger call fixed", zap.String("file", path), zap.Int("line", i+1), zap.String("rule", fix.Rule))
		}
	}

	if f.dryRun || fileReport.Planned() == 0 {
		return fileReport, nil
	}

	updated := []byte(strings.Join(lines, ""))
	if f.backup {
		backup, err := files.WriteWithBackup(path, content, updated)
		fileReport.Backup = backup
		if err != nil {
			return fileReport, err
		}
	} else {
		info, err := os.Stat(path)
		if err != nil {
			return fileReport, err
		}
		if err := os.WriteFile(path, updated, info.Mode().Perm()); err != nil {
			return fileReport, fmt.Errorf("write %s: %w", path, err)
		}
	}

	for i := range fileReport.Edits {
		if !fileReport.Edits[i].Skipped {
			fileReport.Edits[i].Applied = true
		}
	}
	fileReport.Changed = true
	return fileReport, nil
}

// Run fixes every source file under target. Per-file failures are collected
// and returned together after the whole tree has been visited.
func (f *Fixer) Run(target string) (model.Report, error) {
	report := model.Report{Root: target, Write: !f.dryRun}

	paths, err := files.Discover(target, f.files)
	if err != nil {
		return report, err
	}
	report.ScannedFiles = len(paths)

	fileReports := make([]model.FileReport, len(paths))
	fileErrs := make([]error, len(paths))
	files.Each(paths, f.workers, func(i int, path string) {
		fileReports[i], fileErrs[i] = f.FixFile(path)
		if fileErrs[i] != nil {
			f.logger.Warn("fix failed", zap.String("file", path), zap.Error(fileErrs[i]))
		}
	})

	var errs error
	for i, fileReport := range fileReports {
		if fileErrs[i] != nil {
			fileReport.Error = fileErrs[i].Error()
			errs = multierr.Append(errs, fileErrs[i])
		}
		report.Add(fileReport)
	}

	f.logger.Info("logger fix finished",
		zap.String("root", target),
		zap.Int("files", report.ScannedFiles),
		zap.Int("planned", report.PlannedEdits),
		zap.Int("applied", report.AppliedEdits),
		zap.Int("needs_review", report.SkippedEdits),
	)
	return report, errs
}
