package models

import "time"

// AnalysisParams are the caller-tunable knobs of one full recomputation.
type AnalysisParams struct {
	BinCount   int     `json:"bin_count"`
	BinMode    BinMode `json:"bin_mode"`
	Resolution int     `json:"resolution"`

	// LowessBandwidth is the fraction of edges used in each local fit,
	// in (0, 1].
	LowessBandwidth float64 `json:"lowess_bandwidth"`

	// BarrierThreshold flags edges with scaled distance >= the value (> 1).
	BarrierThreshold float64 `json:"barrier_threshold"`

	// CorridorThreshold flags edges with scaled distance <= the value,
	// in (0, 1).
	CorridorThreshold float64 `json:"corridor_threshold"`
}

// JobState tracks the lifecycle of a computation request.
type JobState string

const (
	JobStateRunning   JobState = "running"
	JobStateCompleted JobState = "completed"
	JobStateFailed    JobState = "failed"
)

// JobStatus is the externally visible state of the latest computation.
type JobStatus struct {
	JobID      string         `json:"job_id"`
	State      JobState       `json:"state"`
	Params     AnalysisParams `json:"params"`
	Error      string         `json:"error,omitempty"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt *time.Time     `json:"finished_at,omitempty"`
}

// BinStats summarizes the scaled-distance distribution of one bin's edges.
// All zero when the bin has no edges.
type BinStats struct {
	MeanScaled   float64 `json:"mean_scaled"`
	MedianScaled float64 `json:"median_scaled"`
	StdDevScaled float64 `json:"stddev_scaled"`
}

// BinResult is the derived view for one time bin: the occupied cells and
// the fully classified edges between them.
type BinResult struct {
	Bin   TimeBin       `json:"bin"`
	Cells []HexCell     `json:"cells"`
	Edges []EdgeMetrics `json:"edges"`
	Stats BinStats      `json:"stats"`
}

// AnalysisResult is one complete, immutable recomputation output. A new
// result replaces the previous one wholesale; nothing is patched in place.
type AnalysisResult struct {
	JobID      string         `json:"job_id"`
	Params     AnalysisParams `json:"params"`
	Bins       []BinResult    `json:"bins"`
	ComputedAt time.Time      `json:"computed_at"`
}

// RunSummary is the persisted record of one completed recomputation.
type RunSummary struct {
	ID            int64          `json:"id" db:"id"`
	JobID         string         `json:"job_id" db:"job_id"`
	Params        AnalysisParams `json:"params"`
	BinCount      int            `json:"bin_count" db:"bin_count"`
	CellCount     int            `json:"cell_count" db:"cell_count"`
	EdgeCount     int            `json:"edge_count" db:"edge_count"`
	BarrierCount  int            `json:"barrier_count" db:"barrier_count"`
	CorridorCount int            `json:"corridor_count" db:"corridor_count"`
	DurationMs    int64          `json:"duration_ms" db:"duration_ms"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
}
