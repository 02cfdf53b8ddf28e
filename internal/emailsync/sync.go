// Package emailsync copies the support e-mail address from the app's
// Info.plist into the markdown legal documents that quote it.
package emailsync

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type Status string

const (
	StatusUpdated  Status = "updated"
	StatusInSync   Status = "in-sync"
	StatusNotFound Status = "not-found"
	StatusMissing  Status = "missing"
	StatusFailed   Status = "failed"
)

type DocumentResult struct {
	Path         string `json:"path"`
	Status       Status `json:"status"`
	Replacements int    `json:"replacements,omitempty"`
	Error        string `json:"error,omitempty"`
}

type Report struct {
	Plist     string           `json:"plist"`
	Key       string           `json:"key"`
	Email     string           `json:"email"`
	DryRun    bool             `json:"dry_run"`
	Updated   int              `json:"updated"`
	Total     int              `json:"total"`
	Documents []DocumentResult `json:"documents"`
}

type Options struct {
	PlistPath   string
	Key         string
	Placeholder string
	Documents   []string
	BaseDir     string
	DryRun      bool
	Logger      *zap.Logger
}

func DefaultDocuments() []string {
	return []string{"TermsOfService.md", "PrivacyPolicy.md", "UserAgreement.md", "LEGAL_SETUP.md"}
}

const (
	DefaultPlistPath   = "Hohma/Info.plist"
	DefaultKey         = "SUPPORT_EMAIL"
	DefaultPlaceholder = "xxx-zet@mail.ru"
)

// labelledEmail matches "**Email:** a@b.c", "- Email: a@b.c" and "Email: a@b.c".
var labelledEmail = regexp.MustCompile(`((?:\*\*Email:\*\*|Email:)[ \t]*)([A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,})`)

// Sync reads the address from the plist and rewrites every configured
// document. A plist that cannot be read aborts the run; document failures are
// recorded per document and returned combined.
func Sync(opts Options) (Report, error) {
	opts = withDefaults(opts)
	report := Report{Plist: opts.PlistPath, Key: opts.Key, DryRun: opts.DryRun, Total: len(opts.Documents)}

	email, err := ReadPlistValue(opts.PlistPath, opts.Key)
	if err != nil {
		return report, err
	}
	report.Email = email
	opts.Logger.Debug("support email read", zap.String("plist", opts.PlistPath), zap.String("email", email))

	var errs error
	for _, doc := range opts.Documents {
		path := doc
		if !filepath.IsAbs(path) {
			path = filepath.Join(opts.BaseDir, doc)
		}
		result, err := UpdateDocument(path, email, opts.Placeholder, opts.DryRun)
		if err != nil {
			opts.Logger.Warn("document update failed", zap.String("file", path), zap.Error(err))
			errs = multierr.Append(errs, err)
		}
		if result.Status == StatusUpdated {
			report.Updated++
		}
		report.Documents = append(report.Documents, result)
	}

	opts.Logger.Info("support email sync finished",
		zap.String("email", email),
		zap.Int("updated", report.Updated),
		zap.Int("total", report.Total),
		zap.Bool("dry_run", opts.DryRun),
	)
	return report, errs
}

// UpdateDocument replaces the placeholder address in a markdown file. When
// the placeholder is gone, addresses following an "Email:" label are
// replaced instead so that a previously synced document can be re-synced.
func UpdateDocument(path, email, placeholder string, dryRun bool) (DocumentResult, error) {
	result := DocumentResult{Path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		result.Status = StatusMissing
		return result, nil
	}
	if err != nil {
		result.Status = StatusFailed
		result.Error = err.Error()
		return result, fmt.Errorf("read %s: %w", path, err)
	}
	content := string(data)

	updated, replaced, found := replaceEmail(content, email, placeholder)
	switch {
	case !found:
		result.Status = StatusNotFound
		return result, nil
	case replaced == 0:
		result.Status = StatusInSync
		return result, nil
	}

	result.Status = StatusUpdated
	result.Replacements = replaced
	if dryRun {
		return result, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		result.Status = StatusFailed
		result.Error = err.Error()
		return result, err
	}
	if err := os.WriteFile(path, []byte(updated), info.Mode().Perm()); err != nil {
		result.Status = StatusFailed
		result.Error = err.Error()
		return result, fmt.Errorf("write %s: %w", path, err)
	}
	return result, nil
}

// replaceEmail reports the rewritten content, how many addresses changed and
// whether any address slot was found at all.
func replaceEmail(content, email, placeholder string) (string, int, bool) {
	if placeholder != "" && strings.Contains(content, placeholder) {
		if email == placeholder {
			return content, 0, true
		}
		return strings.ReplaceAll(content, placeholder, email), strings.Count(content, placeholder), true
	}

	found := false
	replaced := 0
	updated := labelledEmail.ReplaceAllStringFunc(content, func(match string) string {
		found = true
		parts := labelledEmail.FindStringSubmatch(match)
		if parts[2] == email {
			return match
		}
		replaced++
		return parts[1] + email
	})
	return updated, replaced, found
}

func withDefaults(opts Options) Options {
	if opts.PlistPath == "" {
		opts.PlistPath = DefaultPlistPath
	}
	if opts.Key == "" {
		opts.Key = DefaultKey
	}
	if opts.Placeholder == "" {
		opts.Placeholder = DefaultPlaceholder
	}
	if opts.Documents == nil {
		opts.Documents = DefaultDocuments()
	}
	if opts.BaseDir == "" {
		opts.BaseDir = "."
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return opts
}
