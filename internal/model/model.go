package model

// Edit is one planned or applied line rewrite.
type Edit struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Rule     string `json:"rule"`
	Before   string `json:"before"`
	After    string `json:"after,omitempty"`
	Level    string `json:"level,omitempty"`
	Category string `json:"category,omitempty"`
	Applied  bool   `json:"applied"`
	Skipped  bool   `json:"skipped,omitempty"`
	SkipNote string `json:"skip_note,omitempty"`
}

type FileReport struct {
	Path    string `json:"path"`
	Edits   []Edit `json:"edits,omitempty"`
	Backup  string `json:"backup,omitempty"`
	Changed bool   `json:"changed"`
	Error   string `json:"error,omitempty"`
}

// Planned counts edits that were not skipped.
func (f FileReport) Planned() int {
	n := 0
	for _, edit := range f.Edits {
		if !edit.Skipped {
			n++
		}
	}
	return n
}

type Report struct {
	Root           string       `json:"root"`
	Write          bool         `json:"write"`
	ScannedFiles   int          `json:"scanned_files"`
	CandidateFiles int          `json:"candidate_files"`
	PlannedEdits   int          `json:"planned_edits"`
	AppliedEdits   int          `json:"applied_edits"`
	SkippedEdits   int          `json:"skipped_edits"`
	ChangedFiles   int          `json:"changed_files"`
	FailedFiles    int          `json:"failed_files"`
	Files          []FileReport `json:"files,omitempty"`
}

// Add folds a file result into the totals. Files without edits or errors
// only count as candidates.
func (r *Report) Add(file FileReport) {
	r.CandidateFiles++
	for _, edit := range file.Edits {
		switch {
		case edit.Skipped:
			r.SkippedEdits++
		case edit.Applied:
			r.PlannedEdits++
			r.AppliedEdits++
		default:
			r.PlannedEdits++
		}
	}
	if file.Changed {
		r.ChangedFiles++
	}
	if file.Error != "" {
		r.FailedFiles++
	}
	if len(file.Edits) > 0 || file.Error != "" {
		r.Files = append(r.Files, file)
	}
}
