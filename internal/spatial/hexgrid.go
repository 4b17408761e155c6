package spatial

import (
	"fmt"
	"math"
)

// Hexagonal grid for spatially bucketing point samples.
//
// The grid is a pointy-top axial hex tessellation laid out in plate-carree
// coordinates (x = longitude, y = latitude, in degrees). Cell assignment is a
// pure function of (lat, lon, resolution) with no external state, so repeated
// calls always yield the same cell id. Edge lengths shrink by a factor of
// sqrt(7) per resolution step, matching the aperture-7 scaling of the cell
// table the analysis resolutions were calibrated against (res 1 ~ 483 km,
// res 2 ~ 183 km, res 3 ~ 69 km, res 4 ~ 26 km at the equator).
//
// Like any cylindrical layout the cells compress east-west at high latitudes;
// the samples this system is built for sit well away from the poles, and the
// canonical centroids keep inter-cell distances resolution-deterministic
// regardless.

// Resolution bounds for the hex grid.
const (
	MinResolution = 1
	MaxResolution = 8
)

// baseEdgeKm is the hexagon edge length at resolution 0.
const baseEdgeKm = 1281.256

// kmPerDegree is the meridional kilometers per degree of latitude.
const kmPerDegree = 111.32

// CellID identifies one hexagonal cell at a given resolution. The resolution
// and the axial (q, r) coordinates are packed into a single integer so cell
// ids are cheap map keys and stable wire values.
type CellID uint64

const (
	cellCoordBits   = 26
	cellCoordOffset = 1 << (cellCoordBits - 1)
	cellCoordMask   = 1<<cellCoordBits - 1
)

// EdgeLengthKm returns the hexagon edge length in kilometers at the given
// resolution.
func EdgeLengthKm(resolution int) float64 {
	return baseEdgeKm / math.Pow(math.Sqrt(7), float64(resolution))
}

// hexSizeDeg returns the hexagon circumradius in degrees of latitude.
func hexSizeDeg(resolution int) float64 {
	return EdgeLengthKm(resolution) / kmPerDegree
}

// CellIDFromLatLng returns the cell containing the point at the given
// resolution. Points exactly on a cell boundary are resolved by cube-coordinate
// rounding (the axis with the largest rounding error is recomputed from the
// other two), which is deterministic.
func CellIDFromLatLng(lat, lon float64, resolution int) CellID {
	size := hexSizeDeg(resolution)

	// Pointy-top axial coordinates.
	q := (math.Sqrt(3)/3*lon - 1.0/3*lat) / size
	r := (2.0 / 3 * lat) / size

	qi, ri := roundAxial(q, r)
	return packCellID(resolution, qi, ri)
}

// roundAxial rounds fractional axial coordinates to the containing hexagon
// using cube-coordinate rounding.
func roundAxial(q, r float64) (int, int) {
	s := -q - r

	rq := math.Round(q)
	rr := math.Round(r)
	rs := math.Round(s)

	dq := math.Abs(rq - q)
	dr := math.Abs(rr - r)
	ds := math.Abs(rs - s)

	if dq > dr && dq > ds {
		rq = -rr - rs
	} else if dr > ds {
		rr = -rq - rs
	}

	return int(rq), int(rr)
}

func packCellID(resolution, q, r int) CellID {
	return CellID(uint64(resolution)<<(2*cellCoordBits) |
		uint64(q+cellCoordOffset)<<cellCoordBits |
		uint64(r+cellCoordOffset))
}

// Resolution returns the grid resolution the cell belongs to.
func (c CellID) Resolution() int {
	return int(c >> (2 * cellCoordBits))
}

// Axial returns the axial (q, r) grid coordinates of the cell.
func (c CellID) Axial() (q, r int) {
	q = int(c>>cellCoordBits&cellCoordMask) - cellCoordOffset
	r = int(c&cellCoordMask) - cellCoordOffset
	return q, r
}

// Centroid returns the canonical geometric center of the cell in degrees.
// The longitude is normalized into [-180, 180].
func (c CellID) Centroid() Point {
	size := hexSizeDeg(c.Resolution())
	q, r := c.Axial()

	lon := size * math.Sqrt(3) * (float64(q) + float64(r)/2)
	lat := size * 1.5 * float64(r)
	return Point{Lat: lat, Lon: normalizeLon(lon)}
}

// Boundary returns the six corner points of the cell in drawing order.
func (c CellID) Boundary() []Point {
	size := hexSizeDeg(c.Resolution())
	center := c.Centroid()

	corners := make([]Point, 0, 6)
	for k := 0; k < 6; k++ {
		angle := (60*float64(k) - 30) * math.Pi / 180
		corners = append(corners, Point{
			Lat: center.Lat + size*math.Sin(angle),
			Lon: center.Lon + size*math.Cos(angle),
		})
	}
	return corners
}

// BoundaryRings returns the cell boundary as one ring, or as two
// longitude-shifted rings when the cell straddles the antimeridian so the
// renderer can draw both halves without a line wrapping around the map.
func (c CellID) BoundaryRings() [][]Point {
	boundary := c.Boundary()

	minLon, maxLon := boundary[0].Lon, boundary[0].Lon
	for _, p := range boundary[1:] {
		if p.Lon < minLon {
			minLon = p.Lon
		}
		if p.Lon > maxLon {
			maxLon = p.Lon
		}
	}

	if maxLon-minLon <= 180 {
		return [][]Point{boundary}
	}

	east := make([]Point, 0, len(boundary))
	west := make([]Point, 0, len(boundary))
	for _, p := range boundary {
		if p.Lon <= 0 {
			east = append(east, Point{Lat: p.Lat, Lon: p.Lon + 360})
			west = append(west, p)
		} else {
			east = append(east, p)
			west = append(west, Point{Lat: p.Lat, Lon: p.Lon - 360})
		}
	}
	return [][]Point{east, west}
}

// String formats the cell as "r<resolution>:<q>:<r>".
func (c CellID) String() string {
	q, r := c.Axial()
	return fmt.Sprintf("r%d:%d:%d", c.Resolution(), q, r)
}

// normalizeLon wraps a longitude into [-180, 180].
func normalizeLon(lon float64) float64 {
	for lon > 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}
	return lon
}
