package analysis

import (
	"sort"

	"github.com/stargen/stargen-backend-go/internal/models"
	"github.com/stargen/stargen-backend-go/internal/spatial"
)

// Hex indexing buckets the samples of each time bin into hexagonal grid
// cells. Only occupied cells are materialized; a cell's centroid is the
// cell's canonical geometric center so inter-cell geography depends on the
// resolution alone, not on where the member samples happen to sit.

// BuildCells groups samples by (cell, bin) and returns the occupied cells of
// every bin, ordered by cell id for deterministic downstream processing.
// assignment holds each sample's bin index, parallel to samples.
func BuildCells(samples []models.Sample, assignment []int, binCount, resolution int) [][]models.HexCell {
	type key struct {
		bin  int
		cell spatial.CellID
	}

	groups := make(map[key][]int)
	for i, s := range samples {
		k := key{bin: assignment[i], cell: spatial.CellIDFromLatLng(s.Lat, s.Lon, resolution)}
		groups[k] = append(groups[k], i)
	}

	perBin := make([][]models.HexCell, binCount)
	for k, members := range groups {
		centroid := k.cell.Centroid()
		perBin[k.bin] = append(perBin[k.bin], models.HexCell{
			CellID:        k.cell,
			BinIndex:      k.bin,
			CentroidLat:   centroid.Lat,
			CentroidLon:   centroid.Lon,
			MemberIndexes: members,
		})
	}

	for bin := range perBin {
		sort.Slice(perBin[bin], func(a, b int) bool {
			return perBin[bin][a].CellID < perBin[bin][b].CellID
		})
	}
	return perBin
}
