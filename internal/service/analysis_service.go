package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stargen/stargen-backend-go/internal/analysis"
	"github.com/stargen/stargen-backend-go/internal/models"
	"github.com/stargen/stargen-backend-go/internal/repository"
	"github.com/stargen/stargen-backend-go/internal/store"
)

// AnalysisService owns the "current computation" state. Each recomputation
// request gets a fresh job id and runs on its own goroutine against the
// read-only sample store; the latest completed result sits in a
// single-writer, multiple-reader slot. A request issued while another job
// is in flight supersedes it: the older job keeps running only until its
// next cancellation check, and its result is discarded instead of
// published.
type AnalysisService struct {
	pipeline *analysis.Pipeline
	runs     *repository.RunRepository

	mu          sync.RWMutex
	latestJobID string
	cancelPrev  context.CancelFunc
	status      models.JobStatus
	result      *models.AnalysisResult
}

// NewAnalysisService creates the service over the given store.
func NewAnalysisService(s *store.SampleStore, runs *repository.RunRepository) *AnalysisService {
	return &AnalysisService{
		pipeline: analysis.NewPipeline(s),
		runs:     runs,
	}
}

// Recompute validates the parameters and starts a new computation,
// superseding any in-flight one. Returns the new job id.
func (s *AnalysisService) Recompute(params models.AnalysisParams) (string, error) {
	if err := params.Validate(); err != nil {
		return "", err
	}

	jobID := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	if s.cancelPrev != nil {
		s.cancelPrev()
		log.Printf("[AnalysisService] Job %s superseded by %s", s.latestJobID, jobID)
	}
	s.latestJobID = jobID
	s.cancelPrev = cancel
	s.status = models.JobStatus{
		JobID:     jobID,
		State:     models.JobStateRunning,
		Params:    params,
		StartedAt: time.Now(),
	}
	s.mu.Unlock()

	go s.run(ctx, cancel, jobID, params)
	return jobID, nil
}

// run executes one job and publishes its result unless it was superseded.
func (s *AnalysisService) run(ctx context.Context, cancel context.CancelFunc, jobID string, params models.AnalysisParams) {
	// Release the job's context once it finishes; supersession may have
	// cancelled it already, which is fine.
	defer cancel()

	started := time.Now()
	result, err := s.pipeline.Run(ctx, params)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.latestJobID != jobID {
		// A newer request won; drop this result on the floor.
		return
	}

	now := time.Now()
	s.status.FinishedAt = &now

	if err != nil {
		s.status.State = models.JobStateFailed
		s.status.Error = err.Error()
		log.Printf("[AnalysisService] Job %s failed: %v", jobID, err)
		return
	}

	result.JobID = jobID
	s.result = result
	s.status.State = models.JobStateCompleted

	summary := summarize(result, time.Since(started))
	if s.runs != nil {
		if err := s.runs.InsertRun(summary); err != nil {
			log.Printf("[AnalysisService] Failed to persist run summary: %v", err)
		}
	}
	log.Printf("[AnalysisService] Job %s completed: %d cells, %d edges (%d barriers, %d corridors)",
		jobID, summary.CellCount, summary.EdgeCount, summary.BarrierCount, summary.CorridorCount)
}

// summarize counts the classified output of one result.
func summarize(result *models.AnalysisResult, elapsed time.Duration) models.RunSummary {
	summary := models.RunSummary{
		JobID:      result.JobID,
		Params:     result.Params,
		BinCount:   len(result.Bins),
		DurationMs: elapsed.Milliseconds(),
	}
	for _, bin := range result.Bins {
		summary.CellCount += len(bin.Cells)
		summary.EdgeCount += len(bin.Edges)
		for _, e := range bin.Edges {
			switch e.Classification {
			case models.ClassificationBarrier:
				summary.BarrierCount++
			case models.ClassificationCorridor:
				summary.CorridorCount++
			}
		}
	}
	return summary
}

// Status returns the state of the latest computation request.
func (s *AnalysisService) Status() models.JobStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Result returns the latest completed result, or false if none exists yet.
func (s *AnalysisService) Result() (*models.AnalysisResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.result == nil {
		return nil, false
	}
	return s.result, true
}

// BinResult returns one bin of the latest result.
func (s *AnalysisService) BinResult(index int) (models.BinResult, error) {
	result, ok := s.Result()
	if !ok {
		return models.BinResult{}, fmt.Errorf("no completed analysis available")
	}
	if index < 0 || index >= len(result.Bins) {
		return models.BinResult{}, fmt.Errorf("bin index %d out of range [0,%d)", index, len(result.Bins))
	}
	return result.Bins[index], nil
}

// CellPolygons returns the drawable boundary rings for one bin's cells,
// split at the antimeridian where needed.
func (s *AnalysisService) CellPolygons(index int) ([]models.CellPolygon, error) {
	bin, err := s.BinResult(index)
	if err != nil {
		return nil, err
	}

	polygons := make([]models.CellPolygon, 0, len(bin.Cells))
	for _, cell := range bin.Cells {
		polygons = append(polygons, models.CellPolygon{
			CellID: cell.CellID,
			Rings:  cell.CellID.BoundaryRings(),
		})
	}
	return polygons, nil
}

// RecentRuns returns persisted run summaries.
func (s *AnalysisService) RecentRuns(limit int) ([]models.RunSummary, error) {
	if s.runs == nil {
		return nil, nil
	}
	return s.runs.GetRecentRuns(limit)
}
