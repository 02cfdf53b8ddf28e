package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"srcfix/internal/model"
)

func emitJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func firstPositive(values ...int) int {
	for _, value := range values {
		if value > 0 {
			return value
		}
	}
	return 0
}

func compactLine(text string) string {
	trimmed := strings.Join(strings.Fields(strings.TrimSpace(text)), " ")
	const maxLen = 80
	if len([]rune(trimmed)) <= maxLen {
		return trimmed
	}
	return string([]rune(trimmed)[:maxLen]) + "..."
}

func printEdits(w io.Writer, report model.Report) {
	for _, file := range report.Files {
		if file.Error != "" {
			fmt.Fprintf(w, "%s error=%s\n", file.Path, file.Error)
		}
		for _, edit := range file.Edits {
			if edit.Skipped {
				fmt.Fprintf(w, "%s:%d %s skipped=%q %s\n", edit.File, edit.Line, edit.Rule, edit.SkipNote, compactLine(edit.Before))
				continue
			}
			status := "planned"
			if edit.Applied {
				status = "applied"
			}
			label := edit.Rule
			if edit.Level != "" {
				label = fmt.Sprintf("%s %s/%s", edit.Rule, edit.Level, edit.Category)
			}
			fmt.Fprintf(w, "%s:%d %s %s\n", edit.File, edit.Line, label, status)
			fmt.Fprintf(w, "  - %s\n", compactLine(edit.Before))
			fmt.Fprintf(w, "  + %s\n", compactLine(edit.After))
		}
		if file.Backup != "" {
			fmt.Fprintf(w, "%s backup=%s\n", file.Path, file.Backup)
		}
	}
}

func printSummary(w io.Writer, name string, report model.Report) {
	fmt.Fprintf(
		w,
		"%s: root=%s files=%d candidates=%d planned=%d applied=%d skipped=%d changed=%d failed=%d\n",
		name,
		report.Root,
		report.ScannedFiles,
		report.CandidateFiles,
		report.PlannedEdits,
		report.AppliedEdits,
		report.SkippedEdits,
		report.ChangedFiles,
		report.FailedFiles,
	)
	if !report.Write {
		fmt.Fprintf(w, "%s: dry-run (drop --dry-run to apply edits)\n", name)
	}
}

func pendingChangesError(name string, report model.Report) error {
	return exitCodeError{
		code: exitPendingChanges,
		err:  fmt.Errorf("%s: %d pending edits", name, report.PlannedEdits),
	}
}
