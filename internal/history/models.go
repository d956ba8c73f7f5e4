package history

import "time"

// RunStatus is the lifecycle state of a recorded run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
	RunCancelled RunStatus = "cancelled"
)

// RunMeta describes a batch at the moment it starts.
type RunMeta struct {
	PresetKey  string `json:"preset_key" yaml:"preset_key"`
	PresetName string `json:"preset_name" yaml:"preset_name"`
	SourceDir  string `json:"source_dir" yaml:"source_dir"`
	DestDir    string `json:"dest_dir" yaml:"dest_dir"`
	Encoder    string `json:"encoder" yaml:"encoder"`
	Workers    int    `json:"workers" yaml:"workers"`
}

// Totals are the aggregate outcome of a run.
type Totals struct {
	Succeeded   int   `json:"succeeded" yaml:"succeeded"`
	Failed      int   `json:"failed" yaml:"failed"`
	Skipped     int   `json:"skipped" yaml:"skipped"`
	Cancelled   int   `json:"cancelled" yaml:"cancelled"`
	InputBytes  int64 `json:"input_bytes" yaml:"input_bytes"`
	OutputBytes int64 `json:"output_bytes" yaml:"output_bytes"`
}

// Run is a recorded batch.
type Run struct {
	ID         string     `json:"id" yaml:"id"`
	Status     RunStatus  `json:"status" yaml:"status"`
	StartedAt  time.Time  `json:"started_at" yaml:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty" yaml:"finished_at,omitempty"`
	RunMeta    `yaml:",inline"`
	Totals     `yaml:",inline"`
	Tasks      []TaskRecord `json:"tasks,omitempty" yaml:"tasks,omitempty"`
}

// ShortID returns the first eight characters of the run ID.
func (r Run) ShortID() string {
	if len(r.ID) > 8 {
		return r.ID[:8]
	}
	return r.ID
}

// Duration returns the wall time of a finished run, or 0 while running.
func (r Run) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// TaskRecord is the stored outcome of one file.
type TaskRecord struct {
	Index       int           `json:"index" yaml:"index"`
	Input       string        `json:"input" yaml:"input"`
	Output      string        `json:"output" yaml:"output"`
	Status      string        `json:"status" yaml:"status"`
	Error       string        `json:"error,omitempty" yaml:"error,omitempty"`
	Encoder     string        `json:"encoder,omitempty" yaml:"encoder,omitempty"`
	StartedAt   *time.Time    `json:"started_at,omitempty" yaml:"started_at,omitempty"`
	Duration    time.Duration `json:"duration_ns" yaml:"duration"`
	InputBytes  int64         `json:"input_bytes" yaml:"input_bytes"`
	OutputBytes int64         `json:"output_bytes" yaml:"output_bytes"`
}
