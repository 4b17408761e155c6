package analysis

import (
	"github.com/stargen/stargen-backend-go/internal/models"
	"github.com/stargen/stargen-backend-go/internal/spatial"
	"github.com/stargen/stargen-backend-go/internal/stats"
)

// Barrier scoring normalizes each edge's genetic distance by the genetic
// distance expected at its geographic separation, then thresholds the ratio.
// Edges far above the curve are candidate barriers (restricted gene flow);
// edges far below it are candidate corridors (migration routes).

// Scorer classifies edges against a fitted distance curve. The smoother is
// pluggable; any monotone local regression honoring the Curve contract fits.
type Scorer struct {
	smoother stats.Smoother
}

// NewScorer creates a scorer backed by the given smoother.
func NewScorer(smoother stats.Smoother) *Scorer {
	return &Scorer{smoother: smoother}
}

// ScoreBin fits the expected-distance curve over one bin's edges and fills
// in ScaledDistance and Classification in place.
//
// With fewer than two edges at distinct geographic distances there is
// nothing to fit; every edge scores neutral and classifies normal, which is
// insufficient data rather than an error. The same neutral fallback applies
// per edge when the curve is undefined at the edge's distance (outside the
// training range) or evaluates to zero.
func (s *Scorer) ScoreBin(metrics []models.EdgeMetrics, bandwidth, barrierThreshold, corridorThreshold float64) {
	xs := make([]float64, len(metrics))
	ys := make([]float64, len(metrics))
	for i, m := range metrics {
		xs[i] = m.GeoDistanceKm
		ys[i] = m.GeneticDistance
	}

	curve, ok := s.smoother.Fit(xs, ys, bandwidth)

	for i := range metrics {
		scaled := 1.0
		if ok {
			if expected, defined := curve.Eval(metrics[i].GeoDistanceKm); defined && expected > 0 {
				scaled = metrics[i].GeneticDistance / expected
			}
		}

		metrics[i].ScaledDistance = scaled
		switch {
		case scaled >= barrierThreshold:
			metrics[i].Classification = models.ClassificationBarrier
		case scaled <= corridorThreshold:
			metrics[i].Classification = models.ClassificationCorridor
		default:
			metrics[i].Classification = models.ClassificationNormal
		}
	}
}

// ApplyIsolation fills each cell's isolation score: the mean scaled distance
// over its incident edges. A cell whose score reaches the barrier threshold
// is flagged isolated. Cells without edges keep the neutral score 1.
func ApplyIsolation(cells []models.HexCell, metrics []models.EdgeMetrics, barrierThreshold float64) {
	sums := make(map[spatial.CellID]float64, len(cells))
	counts := make(map[spatial.CellID]int, len(cells))
	for _, m := range metrics {
		sums[m.Edge.CellA] += m.ScaledDistance
		counts[m.Edge.CellA]++
		sums[m.Edge.CellB] += m.ScaledDistance
		counts[m.Edge.CellB]++
	}

	for i := range cells {
		score := 1.0
		if n := counts[cells[i].CellID]; n > 0 {
			score = sums[cells[i].CellID] / float64(n)
		}
		cells[i].IsolationScore = score
		cells[i].Isolated = score >= barrierThreshold
	}
}
