package analysis

import (
	"fmt"

	"github.com/stargen/stargen-backend-go/internal/models"
	"github.com/stargen/stargen-backend-go/internal/spatial"
	"github.com/stargen/stargen-backend-go/internal/stats"
	"github.com/stargen/stargen-backend-go/internal/store"
)

// Distance aggregation turns each neighbor edge into one geographic and one
// genetic distance. The genetic distance is the mean over every cross
// sample pair of the two cells, which keeps a single outlier sample inside
// a cell from dominating the edge.

// AggregateEdges computes EdgeMetrics for every edge of one bin's neighbor
// graph. Classification and scaled distance are left unset for the scorer.
// A cell with zero members, or a member index with no matching sample,
// is an upstream invariant violation and aborts with ErrInputInconsistency.
func AggregateEdges(graph NeighborGraph, cells []models.HexCell, samples *store.SampleStore, binIndex int) ([]models.EdgeMetrics, error) {
	byID := make(map[spatial.CellID]*models.HexCell, len(cells))
	for i := range cells {
		byID[cells[i].CellID] = &cells[i]
	}

	metrics := make([]models.EdgeMetrics, 0, len(graph.Edges))
	for _, edge := range graph.Edges {
		cellA, okA := byID[edge.CellA]
		cellB, okB := byID[edge.CellB]
		if !okA || !okB {
			return nil, fmt.Errorf("%w: edge %v-%v references a cell missing from bin %d",
				models.ErrInputInconsistency, edge.CellA, edge.CellB, binIndex)
		}

		genetic, err := meanCrossDistance(cellA, cellB, samples)
		if err != nil {
			return nil, err
		}

		midLat, midLon := spatial.Midpoint(
			cellA.CentroidLat, cellA.CentroidLon,
			cellB.CentroidLat, cellB.CentroidLon)

		metrics = append(metrics, models.EdgeMetrics{
			Edge:     edge,
			BinIndex: binIndex,
			GeoDistanceKm: spatial.GreatCircleKm(
				cellA.CentroidLat, cellA.CentroidLon,
				cellB.CentroidLat, cellB.CentroidLon),
			MidLat:          midLat,
			MidLon:          midLon,
			GeneticDistance: genetic,
		})
	}

	return metrics, nil
}

// meanCrossDistance averages the genetic distance over all member pairs
// (a, b) with a in cellA and b in cellB.
func meanCrossDistance(cellA, cellB *models.HexCell, samples *store.SampleStore) (float64, error) {
	if len(cellA.MemberIndexes) == 0 {
		return 0, fmt.Errorf("%w: cell %v has no member samples", models.ErrInputInconsistency, cellA.CellID)
	}
	if len(cellB.MemberIndexes) == 0 {
		return 0, fmt.Errorf("%w: cell %v has no member samples", models.ErrInputInconsistency, cellB.CellID)
	}

	var sum float64
	for _, i := range cellA.MemberIndexes {
		if !samples.ValidIndex(i) {
			return 0, fmt.Errorf("%w: cell %v references sample index %d outside table",
				models.ErrInputInconsistency, cellA.CellID, i)
		}
		for _, j := range cellB.MemberIndexes {
			if !samples.ValidIndex(j) {
				return 0, fmt.Errorf("%w: cell %v references sample index %d outside table",
					models.ErrInputInconsistency, cellB.CellID, j)
			}
			sum += samples.Distance(i, j)
		}
	}

	return sum / float64(len(cellA.MemberIndexes)*len(cellB.MemberIndexes)), nil
}

// NormalizeGenetic rescales the genetic distances of one bin's edges to
// [0, 1] for the renderer's color gradient. A bin whose edges all share one
// value normalizes to zero.
func NormalizeGenetic(metrics []models.EdgeMetrics) {
	if len(metrics) == 0 {
		return
	}

	values := make([]float64, len(metrics))
	for i, m := range metrics {
		values[i] = m.GeneticDistance
	}

	normalized := stats.Normalize(values)
	for i := range metrics {
		metrics[i].NormalizedGenetic = normalized[i]
	}
}
