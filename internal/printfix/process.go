package printfix

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"srcfix/internal/files"
	"srcfix/internal/model"
)

type Options struct {
	Rules   Rules
	DryRun  bool
	Files   files.Options
	// Workers bounds how many files are processed at once; 0 means GOMAXPROCS.
	Workers int
	Logger  *zap.Logger
}

type Rewriter struct {
	rules   Rules
	dryRun  bool
	files   files.Options
	workers int
	logger  *zap.Logger
}

func New(opts Options) (*Rewriter, error) {
	if err := opts.Rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Rewriter{
		rules:   opts.Rules,
		dryRun:  opts.DryRun,
		files:   opts.Files,
		workers: opts.Workers,
		logger:  logger,
	}, nil
}

// Run rewrites every candidate file under target, which may be a directory or
// a single file. Failures on individual files are recorded in the report and
// returned combined; the remaining files are still processed.
func (rw *Rewriter) Run(target string) (model.Report, error) {
	report := model.Report{Root: target, Write: !rw.dryRun}

	paths, err := files.Discover(target, rw.files)
	if err != nil {
		return report, err
	}
	report.ScannedFiles = len(paths)

	results := make([]fileResult, len(paths))
	files.Each(paths, rw.workers, func(i int, path string) {
		results[i] = rw.runFile(target, path)
	})

	var errs error
	for _, result := range results {
		if result.skipped {
			continue
		}
		if result.err != nil {
			result.report.Error = result.err.Error()
			errs = multierr.Append(errs, result.err)
		}
		report.Add(result.report)
	}

	rw.logger.Info("print rewrite finished",
		zap.String("root", target),
		zap.Int("files", report.CandidateFiles),
		zap.Int("planned", report.PlannedEdits),
		zap.Int("applied", report.AppliedEdits),
	)
	return report, errs
}

type fileResult struct {
	report  model.FileReport
	err     error
	skipped bool
}

// runFile is the per-file step of Run; files already mentioning the logger
// type are skipped.
func (rw *Rewriter) runFile(target, path string) fileResult {
	content, err := os.ReadFile(path)
	if err != nil {
		rw.logger.Warn("read failed", zap.String("file", path), zap.Error(err))
		return fileResult{report: model.FileReport{Path: path}, err: fmt.Errorf("read %s: %w", path, err)}
	}
	if !rw.rules.isCandidate(string(content)) {
		return fileResult{skipped: true}
	}

	fileReport, err := rw.rewrite(path, categoryPath(target, path), content)
	if err != nil {
		rw.logger.Warn("rewrite failed", zap.String("file", path), zap.Error(err))
	}
	return fileResult{report: fileReport, err: err}
}

// RunFile processes one explicitly named file with ProcessFile and reports it
// the way Run does.
func (rw *Rewriter) RunFile(path string) (model.Report, error) {
	report := model.Report{Root: path, Write: !rw.dryRun, ScannedFiles: 1}
	fileReport, err := rw.ProcessFile(path)
	if err != nil {
		rw.logger.Warn("rewrite failed", zap.String("file", path), zap.Error(err))
		fileReport.Error = err.Error()
	}
	report.Add(fileReport)
	return report, err
}

// ProcessFile rewrites a single file regardless of whether it already
// mentions the logger type elsewhere.
func (rw *Rewriter) ProcessFile(path string) (model.FileReport, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return model.FileReport{Path: path}, fmt.Errorf("read %s: %w", path, err)
	}
	return rw.rewrite(path, path, content)
}

func (rw *Rewriter) rewrite(path, categoryPath string, content []byte) (model.FileReport, error) {
	fileReport := model.FileReport{Path: path}
	lines := files.SplitLines(string(content))

	for i, line := range lines {
		if !rw.rules.isCandidate(line) {
			continue
		}
		rewritten, ok := rw.rules.RewriteLine(line, categoryPath)
		if !ok || rewritten.Line == line {
			continue
		}
		lines[i] = rewritten.Line
		fileReport.Edits = append(fileReport.Edits, model.Edit{
			File:     path,
			Line:     i + 1,
			Rule:     "print",
			Before:   strings.TrimSpace(line),
			After:    strings.TrimSpace(rewritten.Line),
			Level:    string(rewritten.Level),
			Category: string(rewritten.Category),
		})
		rw.logger.Debug("print rewritten",
			zap.String("file", path),
			zap.Int("line", i+1),
			zap.String("level", string(rewritten.Level)),
			zap.String("category", string(rewritten.Category)),
		)
	}

	if rw.dryRun || len(fileReport.Edits) == 0 {
		return fileReport, nil
	}

	backup, err := files.WriteWithBackup(path, content, []byte(strings.Join(lines, "")))
	fileReport.Backup = backup
	if err != nil {
		return fileReport, err
	}
	for i := range fileReport.Edits {
		fileReport.Edits[i].Applied = true
	}
	fileReport.Changed = true
	return fileReport, nil
}

// categoryPath strips the scan root so that directory names above it do not
// influence category inference.
func categoryPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
