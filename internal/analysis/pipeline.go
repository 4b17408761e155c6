package analysis

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/stargen/stargen-backend-go/internal/models"
	"github.com/stargen/stargen-backend-go/internal/stats"
	"github.com/stargen/stargen-backend-go/internal/store"
)

// Pipeline runs one full recomputation: time binning, hex indexing, neighbor
// graph construction, distance aggregation and barrier scoring. Each run
// allocates its own derived structures and shares only the read-only sample
// store, so concurrent or superseded runs never interfere.
type Pipeline struct {
	store  *store.SampleStore
	scorer *Scorer
}

// NewPipeline creates a pipeline over the given store using the default
// LOWESS smoother.
func NewPipeline(s *store.SampleStore) *Pipeline {
	return &Pipeline{store: s, scorer: NewScorer(stats.LowessSmoother{})}
}

// Run executes the pipeline for one parameter set. Time bins are
// independent given the read-only store, so they are processed on parallel
// workers and joined before the result is assembled. Invalid parameters and
// input inconsistencies abort the whole run; degenerate geometry inside a
// bin never does.
func (p *Pipeline) Run(ctx context.Context, params models.AnalysisParams) (*models.AnalysisResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	started := time.Now()
	samples := p.store.Samples()

	bins, assignment, err := BinSamples(samples, params.BinCount, params.BinMode)
	if err != nil {
		return nil, err
	}

	cellsPerBin := BuildCells(samples, assignment, params.BinCount, params.Resolution)

	results := make([]models.BinResult, len(bins))
	g, ctx := errgroup.WithContext(ctx)

	for i := range bins {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			binResult, err := p.runBin(bins[i], cellsPerBin[i], params)
			if err != nil {
				return fmt.Errorf("bin %d: %w", i, err)
			}
			results[i] = binResult
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var cellCount, edgeCount int
	for _, r := range results {
		cellCount += len(r.Cells)
		edgeCount += len(r.Edges)
	}
	log.Printf("[Pipeline] Computed %d bins, %d cells, %d edges in %v",
		len(results), cellCount, edgeCount, time.Since(started))

	return &models.AnalysisResult{
		Params:     params,
		Bins:       results,
		ComputedAt: time.Now(),
	}, nil
}

// runBin processes a single time bin end to end.
func (p *Pipeline) runBin(bin models.TimeBin, cells []models.HexCell, params models.AnalysisParams) (models.BinResult, error) {
	graph := BuildNeighborGraph(cells)

	metrics, err := AggregateEdges(graph, cells, p.store, bin.Index)
	if err != nil {
		return models.BinResult{}, err
	}

	NormalizeGenetic(metrics)
	p.scorer.ScoreBin(metrics, params.LowessBandwidth, params.BarrierThreshold, params.CorridorThreshold)
	ApplyIsolation(cells, metrics, params.BarrierThreshold)

	return models.BinResult{Bin: bin, Cells: cells, Edges: metrics, Stats: binStats(metrics)}, nil
}

// binStats summarizes the scaled distances of one bin's edges.
func binStats(metrics []models.EdgeMetrics) models.BinStats {
	if len(metrics) == 0 {
		return models.BinStats{}
	}

	scaled := make([]float64, len(metrics))
	for i, m := range metrics {
		scaled[i] = m.ScaledDistance
	}
	return models.BinStats{
		MeanScaled:   stats.Mean(scaled),
		MedianScaled: stats.Median(scaled),
		StdDevScaled: stats.StdDev(scaled),
	}
}
