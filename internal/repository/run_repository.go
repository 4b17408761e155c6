package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/stargen/stargen-backend-go/internal/models"
)

// RunRepository handles database operations for analysis run summaries
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// InsertRun persists the summary of a completed recomputation.
func (r *RunRepository) InsertRun(summary models.RunSummary) error {
	paramsJSON, err := json.Marshal(summary.Params)
	if err != nil {
		return fmt.Errorf("failed to marshal params: %w", err)
	}

	query := `INSERT INTO analysis_runs (
			job_id, params_json, bin_count, cell_count, edge_count,
			barrier_count, corridor_count, duration_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.Exec(query,
		summary.JobID,
		string(paramsJSON),
		summary.BinCount,
		summary.CellCount,
		summary.EdgeCount,
		summary.BarrierCount,
		summary.CorridorCount,
		summary.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run summary: %w", err)
	}
	return nil
}

// GetRecentRuns returns the latest run summaries, newest first.
func (r *RunRepository) GetRecentRuns(limit int) ([]models.RunSummary, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := `SELECT id, job_id, params_json, bin_count, cell_count, edge_count,
			barrier_count, corridor_count, duration_ms, created_at
		FROM analysis_runs
		ORDER BY created_at DESC, id DESC
		LIMIT ?`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []models.RunSummary
	for rows.Next() {
		var run models.RunSummary
		var paramsJSON string
		if err := rows.Scan(&run.ID, &run.JobID, &paramsJSON, &run.BinCount,
			&run.CellCount, &run.EdgeCount, &run.BarrierCount,
			&run.CorridorCount, &run.DurationMs, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if err := json.Unmarshal([]byte(paramsJSON), &run.Params); err != nil {
			return nil, fmt.Errorf("failed to unmarshal params: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	return runs, nil
}
