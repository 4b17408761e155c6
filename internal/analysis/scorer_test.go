package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stargen/stargen-backend-go/internal/models"
	"github.com/stargen/stargen-backend-go/internal/stats"
)

// fixedSmoother returns a pre-built curve regardless of the training data,
// so classification can be tested against exact expected values.
type fixedSmoother struct {
	curve *stats.Curve
}

func (f fixedSmoother) Fit(_, _ []float64, _ float64) (*stats.Curve, bool) {
	return f.curve, f.curve != nil
}

func constantCurve(t *testing.T, value float64) *stats.Curve {
	t.Helper()
	curve, ok := stats.LowessSmoother{}.Fit(
		[]float64{0, 10000}, []float64{value, value}, 1.0)
	require.True(t, ok)
	return curve
}

func TestScoreBinThresholds(t *testing.T) {
	// Expected distance is a flat 2.0, so scaled = genetic / 2.
	scorer := NewScorer(fixedSmoother{curve: constantCurve(t, 2.0)})

	metrics := []models.EdgeMetrics{
		{GeoDistanceKm: 100, GeneticDistance: 3.2}, // scaled 1.6
		{GeoDistanceKm: 200, GeneticDistance: 0.8}, // scaled 0.4
		{GeoDistanceKm: 300, GeneticDistance: 2.0}, // scaled 1.0
		{GeoDistanceKm: 400, GeneticDistance: 3.0}, // scaled 1.5, at the threshold
		{GeoDistanceKm: 500, GeneticDistance: 1.0}, // scaled 0.5, at the threshold
	}
	scorer.ScoreBin(metrics, 0.5, 1.5, 0.5)

	assert.Equal(t, models.ClassificationBarrier, metrics[0].Classification)
	assert.Equal(t, models.ClassificationCorridor, metrics[1].Classification)
	assert.Equal(t, models.ClassificationNormal, metrics[2].Classification)
	assert.Equal(t, models.ClassificationBarrier, metrics[3].Classification, "barrier threshold is inclusive")
	assert.Equal(t, models.ClassificationCorridor, metrics[4].Classification, "corridor threshold is inclusive")

	assert.InDelta(t, 1.6, metrics[0].ScaledDistance, 1e-9)
	assert.InDelta(t, 0.4, metrics[1].ScaledDistance, 1e-9)
}

func TestScoreBinNeutralOutsideCurveRange(t *testing.T) {
	scorer := NewScorer(fixedSmoother{curve: constantCurve(t, 2.0)})

	metrics := []models.EdgeMetrics{
		{GeoDistanceKm: 50000, GeneticDistance: 9.0},
	}
	scorer.ScoreBin(metrics, 0.5, 1.5, 0.5)

	assert.Equal(t, 1.0, metrics[0].ScaledDistance, "undefined curve falls back to neutral")
	assert.Equal(t, models.ClassificationNormal, metrics[0].Classification)
}

func TestScoreBinConstantDistances(t *testing.T) {
	scorer := NewScorer(stats.LowessSmoother{})

	metrics := make([]models.EdgeMetrics, 6)
	for i := range metrics {
		metrics[i] = models.EdgeMetrics{
			GeoDistanceKm:   float64(100 + i*200),
			GeneticDistance: 2.0,
		}
	}
	scorer.ScoreBin(metrics, 0.5, 1.5, 0.5)

	for i, m := range metrics {
		assert.InDelta(t, 1.0, m.ScaledDistance, 1e-9, "edge %d", i)
		assert.Equal(t, models.ClassificationNormal, m.Classification)
	}
}

func TestScoreBinOutlierIsBarrier(t *testing.T) {
	scorer := NewScorer(stats.LowessSmoother{})

	// A flat genetic baseline with one edge far above it. The local fit stays
	// near the baseline, so only the outlier crosses the barrier threshold.
	var metrics []models.EdgeMetrics
	for i := 1; i <= 20; i++ {
		metrics = append(metrics, models.EdgeMetrics{
			GeoDistanceKm:   float64(i) * 100,
			GeneticDistance: 1.0,
		})
	}
	metrics = append(metrics, models.EdgeMetrics{GeoDistanceKm: 1050, GeneticDistance: 3.0})

	scorer.ScoreBin(metrics, 1.0, 1.5, 0.5)

	outlier := metrics[len(metrics)-1]
	assert.Equal(t, models.ClassificationBarrier, outlier.Classification)
	assert.Greater(t, outlier.ScaledDistance, 2.0)

	for _, m := range metrics[:len(metrics)-1] {
		assert.Equal(t, models.ClassificationNormal, m.Classification,
			"baseline edge at %g km", m.GeoDistanceKm)
	}
}

func TestScoreBinInsufficientData(t *testing.T) {
	scorer := NewScorer(stats.LowessSmoother{})

	// A single edge, then several edges sharing one geographic distance:
	// neither can be fitted, so every edge scores neutral.
	single := []models.EdgeMetrics{{GeoDistanceKm: 500, GeneticDistance: 4.0}}
	scorer.ScoreBin(single, 0.5, 1.5, 0.5)
	assert.Equal(t, 1.0, single[0].ScaledDistance)
	assert.Equal(t, models.ClassificationNormal, single[0].Classification)

	same := []models.EdgeMetrics{
		{GeoDistanceKm: 500, GeneticDistance: 1.0},
		{GeoDistanceKm: 500, GeneticDistance: 5.0},
		{GeoDistanceKm: 500, GeneticDistance: 0.1},
	}
	scorer.ScoreBin(same, 0.5, 1.5, 0.5)
	for _, m := range same {
		assert.Equal(t, 1.0, m.ScaledDistance)
		assert.Equal(t, models.ClassificationNormal, m.Classification)
	}
}

func TestApplyIsolation(t *testing.T) {
	cells := []models.HexCell{
		{CellID: 1},
		{CellID: 2},
		{CellID: 3},
		{CellID: 4}, // no incident edges
	}
	metrics := []models.EdgeMetrics{
		{Edge: models.NeighborEdge{CellA: 1, CellB: 2}, ScaledDistance: 2.0},
		{Edge: models.NeighborEdge{CellA: 2, CellB: 3}, ScaledDistance: 0.5},
	}

	ApplyIsolation(cells, metrics, 1.5)

	assert.Equal(t, 2.0, cells[0].IsolationScore)
	assert.True(t, cells[0].Isolated)

	assert.InDelta(t, 1.25, cells[1].IsolationScore, 1e-12)
	assert.False(t, cells[1].Isolated)

	assert.Equal(t, 0.5, cells[2].IsolationScore)
	assert.False(t, cells[2].Isolated)

	assert.Equal(t, 1.0, cells[3].IsolationScore, "edgeless cell stays neutral")
	assert.False(t, cells[3].Isolated)
}
