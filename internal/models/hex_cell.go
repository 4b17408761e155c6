package models

import "github.com/stargen/stargen-backend-go/internal/spatial"

// HexCell is an occupied hexagonal grid cell within one time bin.
// The centroid is the cell's canonical geometric center, not the centroid
// of the member samples, so geographic distances between cells depend only
// on the grid resolution.
type HexCell struct {
	CellID   spatial.CellID `json:"cell_id"`
	BinIndex int            `json:"bin_index"`

	CentroidLat float64 `json:"centroid_lat"`
	CentroidLon float64 `json:"centroid_lon"`

	// MemberIndexes are sample table row positions; never empty.
	MemberIndexes []int `json:"member_indexes"`

	// IsolationScore is the mean scaled distance over the cell's incident
	// edges. Zero until scoring has run; cells with no edges keep the
	// neutral value 1.
	IsolationScore float64 `json:"isolation_score"`
	Isolated       bool    `json:"isolated"`
}

// CellPolygon is a drawable boundary ring for a hexagon. Cells that straddle
// the antimeridian are split into two rings with longitudes shifted into a
// continuous range.
type CellPolygon struct {
	CellID spatial.CellID    `json:"cell_id"`
	Rings  [][]spatial.Point `json:"rings"`
}
