package models

import "github.com/stargen/stargen-backend-go/internal/spatial"

// Classification labels a hexagon pair relative to the fitted
// genetic-vs-geographic distance curve of its time bin.
type Classification string

const (
	ClassificationNormal   Classification = "normal"
	ClassificationBarrier  Classification = "barrier"
	ClassificationCorridor Classification = "corridor"
)

// NeighborEdge is an unordered pair of occupied cells in the same time bin
// that are adjacent under the triangulation-derived relation. CellA < CellB
// by construction, so the pair is canonical.
type NeighborEdge struct {
	CellA spatial.CellID `json:"cell_a"`
	CellB spatial.CellID `json:"cell_b"`
}

// EdgeMetrics carries the aggregated distances and the classification of
// one neighbor edge.
type EdgeMetrics struct {
	Edge     NeighborEdge `json:"edge"`
	BinIndex int          `json:"bin_index"`

	// GeoDistanceKm is the great-circle distance between the two cell
	// centroids in kilometers.
	GeoDistanceKm float64 `json:"geo_distance_km"`

	// MidLat/MidLon locate the great-circle midpoint of the edge, where the
	// renderer places its labels.
	MidLat float64 `json:"mid_lat"`
	MidLon float64 `json:"mid_lon"`

	// GeneticDistance is the mean of all cross sample-pair genetic
	// distances between the two cells' members.
	GeneticDistance float64 `json:"genetic_distance"`

	// NormalizedGenetic is GeneticDistance rescaled to [0,1] within the
	// edge's time bin, for the renderer's color gradient.
	NormalizedGenetic float64 `json:"normalized_genetic"`

	// ScaledDistance is GeneticDistance divided by the expected genetic
	// distance at the same geographic separation. 1 is neutral.
	ScaledDistance float64 `json:"scaled_distance"`

	Classification Classification `json:"classification"`
}
