package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stargen/stargen-backend-go/internal/models"
	"github.com/stargen/stargen-backend-go/internal/spatial"
	"github.com/stargen/stargen-backend-go/internal/store"
)

// fourSampleStore builds a store whose cross-cell distances are known:
// d(0,2)=1, d(0,3)=2, d(1,2)=3, d(1,3)=4.
func fourSampleStore(t *testing.T) *store.SampleStore {
	t.Helper()

	matrix, err := store.NewDistanceMatrix(4, []float64{
		0, 0.5, 1, 2,
		0.5, 0, 3, 4,
		1, 3, 0, 0.7,
		2, 4, 0.7, 0,
	})
	require.NoError(t, err)

	samples := []models.Sample{
		{Index: 0, Lat: 0, Lon: 0, AgeBP: 0},
		{Index: 1, Lat: 0, Lon: 0.1, AgeBP: 0},
		{Index: 2, Lat: 0, Lon: 10, AgeBP: 0},
		{Index: 3, Lat: 0, Lon: 10.1, AgeBP: 0},
	}
	s, err := store.NewSampleStore(samples, matrix)
	require.NoError(t, err)
	return s
}

func TestAggregateEdgesMeanCrossDistance(t *testing.T) {
	samples := fourSampleStore(t)

	cellA := models.HexCell{CellID: 1, CentroidLat: 0, CentroidLon: 0, MemberIndexes: []int{0, 1}}
	cellB := models.HexCell{CellID: 2, CentroidLat: 0, CentroidLon: 10, MemberIndexes: []int{2, 3}}
	graph := NeighborGraph{
		Kind:  GraphTwoPoints,
		Edges: []models.NeighborEdge{{CellA: 1, CellB: 2}},
	}

	metrics, err := AggregateEdges(graph, []models.HexCell{cellA, cellB}, samples, 0)
	require.NoError(t, err)
	require.Len(t, metrics, 1)

	// Mean over the four cross pairs (1+2+3+4)/4.
	assert.InDelta(t, 2.5, metrics[0].GeneticDistance, 1e-12)

	wantGeo := spatial.GreatCircleKm(0, 0, 0, 10)
	assert.InDelta(t, wantGeo, metrics[0].GeoDistanceKm, 1e-9)
	assert.Equal(t, 0, metrics[0].BinIndex)

	// Midpoint of an equatorial edge sits halfway along the equator.
	assert.InDelta(t, 0.0, metrics[0].MidLat, 1e-9)
	assert.InDelta(t, 5.0, metrics[0].MidLon, 1e-9)
}

func TestAggregateEdgesSymmetric(t *testing.T) {
	samples := fourSampleStore(t)

	cellA := models.HexCell{CellID: 1, CentroidLat: 0, CentroidLon: 0, MemberIndexes: []int{0, 1}}
	cellB := models.HexCell{CellID: 2, CentroidLat: 0, CentroidLon: 10, MemberIndexes: []int{2, 3}}

	// Swapping the member sets across the edge must not change the mean.
	ab, err := meanCrossDistance(&cellA, &cellB, samples)
	require.NoError(t, err)
	ba, err := meanCrossDistance(&cellB, &cellA, samples)
	require.NoError(t, err)
	assert.Equal(t, ab, ba)
}

func TestAggregateEdgesEmptyCell(t *testing.T) {
	samples := fourSampleStore(t)

	cells := []models.HexCell{
		{CellID: 1, MemberIndexes: []int{0}},
		{CellID: 2, MemberIndexes: nil},
	}
	graph := NeighborGraph{Kind: GraphTwoPoints, Edges: []models.NeighborEdge{{CellA: 1, CellB: 2}}}

	_, err := AggregateEdges(graph, cells, samples, 0)
	assert.ErrorIs(t, err, models.ErrInputInconsistency)
}

func TestAggregateEdgesBadSampleIndex(t *testing.T) {
	samples := fourSampleStore(t)

	cells := []models.HexCell{
		{CellID: 1, MemberIndexes: []int{0}},
		{CellID: 2, MemberIndexes: []int{99}},
	}
	graph := NeighborGraph{Kind: GraphTwoPoints, Edges: []models.NeighborEdge{{CellA: 1, CellB: 2}}}

	_, err := AggregateEdges(graph, cells, samples, 0)
	assert.ErrorIs(t, err, models.ErrInputInconsistency)
}

func TestAggregateEdgesMissingCell(t *testing.T) {
	samples := fourSampleStore(t)

	cells := []models.HexCell{{CellID: 1, MemberIndexes: []int{0}}}
	graph := NeighborGraph{Kind: GraphTwoPoints, Edges: []models.NeighborEdge{{CellA: 1, CellB: 42}}}

	_, err := AggregateEdges(graph, cells, samples, 3)
	assert.ErrorIs(t, err, models.ErrInputInconsistency)
}

func TestNormalizeGenetic(t *testing.T) {
	metrics := []models.EdgeMetrics{
		{GeneticDistance: 1},
		{GeneticDistance: 3},
		{GeneticDistance: 2},
	}
	NormalizeGenetic(metrics)

	assert.Equal(t, 0.0, metrics[0].NormalizedGenetic)
	assert.Equal(t, 1.0, metrics[1].NormalizedGenetic)
	assert.Equal(t, 0.5, metrics[2].NormalizedGenetic)

	// Constant bin normalizes to zero, and empty input is a no-op.
	flat := []models.EdgeMetrics{{GeneticDistance: 2}, {GeneticDistance: 2}}
	NormalizeGenetic(flat)
	assert.Equal(t, 0.0, flat[0].NormalizedGenetic)
	assert.Equal(t, 0.0, flat[1].NormalizedGenetic)
	NormalizeGenetic(nil)
}
