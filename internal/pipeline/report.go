package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/backmassage/photodater/internal/config"
	"github.com/backmassage/photodater/internal/planner"
)

// Report is the outcome of one invocation. It is written as JSON with
// --report.
type Report struct {
	RunID      string       `json:"run_id"`
	Stage      config.Stage `json:"stage"`
	Directory  string       `json:"directory"`
	BaseFolder string       `json:"basefolder,omitempty"`
	DryRun     bool         `json:"dry_run"`
	Provider   string       `json:"provider,omitempty"`

	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	Interrupted bool      `json:"interrupted"`

	Summary Summary      `json:"summary"`
	Files   []FileResult `json:"files"`
}

// Summary holds the counts printed at the end of a run. Processed counts
// discovered files; the other counts are per stage action, so a file that is
// renamed and then moved counts once in each.
type Summary struct {
	Processed int   `json:"processed"`
	Bytes     int64 `json:"bytes"`
	Renamed   int   `json:"renamed"`
	Moved     int   `json:"moved"`
	Planned   int   `json:"planned"`
	Unchanged int   `json:"unchanged"`
	Skipped   int   `json:"skipped"`
	Failed    int   `json:"failed"`
}

// FileResult is one plan entry as it ended up.
type FileResult struct {
	Stage     config.Stage   `json:"stage"`
	Src       string         `json:"src"`
	Dst       string         `json:"dst,omitempty"`
	Status    planner.Status `json:"status"`
	Field     string         `json:"field,omitempty"`
	Timestamp string         `json:"timestamp,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// NewReport starts a report with a fresh run ID.
func NewReport(cfg *config.Config) *Report {
	return &Report{
		RunID:      uuid.NewString(),
		Stage:      cfg.Stage,
		Directory:  cfg.Directory,
		BaseFolder: cfg.BaseFolder,
		DryRun:     cfg.DryRun,
		StartedAt:  time.Now(),
	}
}

// AddDiscovered records the files found by discovery.
func (r *Report) AddDiscovered(files []planner.MediaFile) {
	r.Summary.Processed += len(files)
	for _, f := range files {
		r.Summary.Bytes += f.Size
	}
}

// Add records the entries of an executed plan.
func (r *Report) Add(plan planner.Plan) {
	for _, e := range plan.Entries {
		fr := FileResult{
			Stage:  plan.Stage,
			Src:    e.File.Path,
			Dst:    e.Dest,
			Status: e.Status,
			Field:  e.Field,
		}
		if !e.Timestamp.IsZero() {
			fr.Timestamp = e.Timestamp.String()
		}
		if e.Err != nil {
			fr.Error = e.Err.Error()
		}
		r.Files = append(r.Files, fr)
	}
}

// Finalize stamps the finish time and computes the summary counts from Files.
func (r *Report) Finalize() {
	r.FinishedAt = time.Now().UTC()
	r.StartedAt = r.StartedAt.UTC()

	s := Summary{Processed: r.Summary.Processed, Bytes: r.Summary.Bytes}
	for _, f := range r.Files {
		switch {
		case f.Status == planner.StatusRenamed:
			s.Renamed++
		case f.Status == planner.StatusMoved:
			s.Moved++
		case f.Status.Planned():
			s.Planned++
		case f.Status == planner.StatusUnchanged:
			s.Unchanged++
		case f.Status.Skipped():
			s.Skipped++
		case f.Status.Failed():
			s.Failed++
		}
	}
	r.Summary = s
}

// Reasons returns one line per skipped or failed file.
func (r *Report) Reasons() []string {
	var out []string
	for _, f := range r.Files {
		if !f.Status.Skipped() && !f.Status.Failed() {
			continue
		}
		out = append(out, fmt.Sprintf("%s [%s] %s", f.Src, f.Status, f.Error))
	}
	return out
}

// WriteJSON writes the report to path, creating parent directories.
func (r *Report) WriteJSON(path string) error {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}
