package model

import "testing"

func TestReportAdd(t *testing.T) {
	var report Report
	report.Add(FileReport{Path: "a.swift"})
	report.Add(FileReport{
		Path:    "b.swift",
		Changed: true,
		Edits: []Edit{
			{Line: 1, Applied: true},
			{Line: 2, Applied: true},
			{Line: 3, Skipped: true, SkipNote: "manual"},
		},
	})
	report.Add(FileReport{Path: "c.swift", Edits: []Edit{{Line: 4}}})
	report.Add(FileReport{Path: "d.swift", Error: "permission denied"})

	if report.CandidateFiles != 4 {
		t.Fatalf("expected 4 candidates, got %d", report.CandidateFiles)
	}
	if report.PlannedEdits != 3 || report.AppliedEdits != 2 || report.SkippedEdits != 1 {
		t.Fatalf("unexpected edit totals: %+v", report)
	}
	if report.ChangedFiles != 1 || report.FailedFiles != 1 {
		t.Fatalf("unexpected file totals: %+v", report)
	}
	if len(report.Files) != 3 {
		t.Fatalf("expected 3 file entries, got %d", len(report.Files))
	}
}

func TestFileReportPlanned(t *testing.T) {
	file := FileReport{Edits: []Edit{{}, {Skipped: true}, {Applied: true}}}
	if got := file.Planned(); got != 2 {
		t.Fatalf("expected 2 planned edits, got %d", got)
	}
}
