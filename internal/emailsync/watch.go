package emailsync

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const DefaultDebounce = 250 * time.Millisecond

// Watch re-runs Sync whenever the plist is written, created or replaced.
// Editors often save by renaming a temp file over the original, so the
// plist's directory is watched rather than the file itself. Watch returns
// nil when ctx is cancelled.
func Watch(ctx context.Context, opts Options, debounce time.Duration, onSync func(Report, error)) error {
	opts = withDefaults(opts)
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	plistPath, err := filepath.Abs(opts.PlistPath)
	if err != nil {
		return err
	}
	plistPath = filepath.Clean(plistPath)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(plistPath)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(plistPath), err)
	}
	opts.Logger.Info("watching plist", zap.String("plist", plistPath), zap.Duration("debounce", debounce))

	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != plistPath {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			opts.Logger.Debug("plist changed", zap.String("op", event.Op.String()))
			if pending && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(debounce)
			pending = true
		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			report, err := Sync(opts)
			onSync(report, err)
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return watchErr
		}
	}
}
