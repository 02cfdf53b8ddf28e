// Package files discovers source files under a project root and writes
// rewritten files next to a backup of their original content.
package files

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"srcfix/internal/ignore"
)

// BackupSuffix is appended to a file path to form its backup path. Paths
// containing it are never discovered.
const BackupSuffix = ".backup"

type Options struct {
	Extension   string
	ExcludeDirs []string
	Ignore      *ignore.Matcher
}

func DefaultExcludeDirs() []string {
	return []string{"node_modules", ".git", "build", "DerivedData", ".swiftpm"}
}

// Discover walks root and returns the sorted paths of files carrying the
// configured extension. A root that is itself a file is returned as-is.
func Discover(root string, opts Options) ([]string, error) {
	if strings.TrimSpace(root) == "" {
		root = "."
	}
	extension := opts.Extension
	if extension == "" {
		extension = ".swift"
	}
	excluded := make(map[string]bool, len(opts.ExcludeDirs))
	for _, name := range opts.ExcludeDirs {
		excluded[name] = true
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var found []string
	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == root {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if entry.IsDir() {
			if excluded[entry.Name()] || opts.Ignore.Match(relPath, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(entry.Name(), extension) {
			return nil
		}
		if strings.Contains(relPath, BackupSuffix) || opts.Ignore.Match(relPath, false) {
			return nil
		}
		found = append(found, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	sort.Strings(found)
	return found, nil
}

// WriteWithBackup stores original at path+BackupSuffix and then replaces the
// content of path. The backup path is returned.
func WriteWithBackup(path string, original, updated []byte) (string, error) {
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	backupPath := path + BackupSuffix
	if err := os.WriteFile(backupPath, original, mode); err != nil {
		return "", fmt.Errorf("write backup %s: %w", backupPath, err)
	}
	if err := os.WriteFile(path, updated, mode); err != nil {
		return backupPath, fmt.Errorf("write %s: %w", path, err)
	}
	return backupPath, nil
}

// SplitLines splits content into lines that keep their trailing newline, so
// joining the result reproduces content exactly.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.SplitAfter(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
