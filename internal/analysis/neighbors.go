package analysis

import (
	"math"
	"sort"

	"github.com/stargen/stargen-backend-go/internal/models"
	"github.com/stargen/stargen-backend-go/internal/spatial"
)

// Neighbor graph construction for one time bin. Occupied cells are sparse
// and irregular, so ring adjacency on the hex grid would miss most true
// neighbors; instead the cell centroids are projected to a local plane and
// triangulated, and the triangulation edges become the neighbor relation.
//
// Degenerate inputs are not forced through the triangulation. The graph is
// a tagged variant: no points and a single point produce no edges, two
// points produce the one connecting edge, collinear centroids are chained
// consecutively along the line.

// GraphKind tags how a neighbor graph was derived.
type GraphKind string

const (
	GraphEmpty        GraphKind = "empty"
	GraphSinglePoint  GraphKind = "single_point"
	GraphTwoPoints    GraphKind = "two_points"
	GraphCollinear    GraphKind = "collinear"
	GraphTriangulated GraphKind = "triangulated"
)

// NeighborGraph is the adjacency over occupied cells of one bin.
// Edges are canonical (CellA < CellB), unique, and never self-loops.
type NeighborGraph struct {
	Kind  GraphKind
	Edges []models.NeighborEdge
}

// collinearTolerance is the maximum perpendicular offset, as a fraction of
// the point-set extent, under which centroids count as collinear.
const collinearTolerance = 1e-9

// BuildNeighborGraph derives the neighbor graph for the occupied cells of
// one time bin.
func BuildNeighborGraph(cells []models.HexCell) NeighborGraph {
	switch len(cells) {
	case 0:
		return NeighborGraph{Kind: GraphEmpty}
	case 1:
		return NeighborGraph{Kind: GraphSinglePoint}
	case 2:
		return NeighborGraph{
			Kind:  GraphTwoPoints,
			Edges: []models.NeighborEdge{canonicalEdge(cells[0].CellID, cells[1].CellID)},
		}
	}

	centroids := make([]spatial.Point, len(cells))
	for i, c := range cells {
		centroids[i] = spatial.Point{Lat: c.CentroidLat, Lon: c.CentroidLon}
	}

	proj := spatial.ProjectionForPoints(centroids)
	pts := make([]planePoint, len(centroids))
	for i, p := range centroids {
		x, y := proj.Forward(p.Lat, p.Lon)
		pts[i] = planePoint{x: x, y: y, idx: i}
	}

	if order, ok := collinearOrder(pts); ok {
		edges := make([]models.NeighborEdge, 0, len(order)-1)
		for i := 1; i < len(order); i++ {
			edges = append(edges, canonicalEdge(cells[order[i-1]].CellID, cells[order[i]].CellID))
		}
		return NeighborGraph{Kind: GraphCollinear, Edges: dedupeEdges(edges)}
	}

	pairs := delaunayEdges(pts)
	if len(pairs) == 0 {
		// Numerically near-degenerate layout the tolerance missed; fall
		// back to chaining along the dominant direction.
		order := forcedLineOrder(pts)
		edges := make([]models.NeighborEdge, 0, len(order)-1)
		for i := 1; i < len(order); i++ {
			edges = append(edges, canonicalEdge(cells[order[i-1]].CellID, cells[order[i]].CellID))
		}
		return NeighborGraph{Kind: GraphCollinear, Edges: dedupeEdges(edges)}
	}

	edges := make([]models.NeighborEdge, 0, len(pairs))
	for _, p := range pairs {
		edges = append(edges, canonicalEdge(cells[p[0]].CellID, cells[p[1]].CellID))
	}
	return NeighborGraph{Kind: GraphTriangulated, Edges: dedupeEdges(edges)}
}

type planePoint struct {
	x, y float64
	idx  int
}

// collinearOrder reports whether all points lie on one line (within
// tolerance) and, if so, returns the point order along that line.
func collinearOrder(pts []planePoint) ([]int, bool) {
	// Direction of the widest axis-aligned extent.
	minX, maxX := pts[0].x, pts[0].x
	minY, maxY := pts[0].y, pts[0].y
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.x)
		maxX = math.Max(maxX, p.x)
		minY = math.Min(minY, p.y)
		maxY = math.Max(maxY, p.y)
	}
	span := math.Max(maxX-minX, maxY-minY)
	if span == 0 {
		// All centroids coincide; treat as collinear with arbitrary order.
		order := make([]int, len(pts))
		for i := range order {
			order[i] = i
		}
		return order, true
	}

	// Line through the two most separated points.
	a, b := farthestPair(pts)
	dx, dy := pts[b].x-pts[a].x, pts[b].y-pts[a].y
	norm := math.Hypot(dx, dy)

	for _, p := range pts {
		perp := math.Abs(dx*(p.y-pts[a].y)-dy*(p.x-pts[a].x)) / norm
		if perp > collinearTolerance*span {
			return nil, false
		}
	}

	return forcedLineOrder(pts), true
}

// forcedLineOrder orders all points along the direction of their farthest
// pair, regardless of how collinear they really are.
func forcedLineOrder(pts []planePoint) []int {
	a, b := farthestPair(pts)
	dx, dy := pts[b].x-pts[a].x, pts[b].y-pts[a].y

	order := make([]int, len(pts))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		pi, pj := pts[order[i]], pts[order[j]]
		ti := dx*(pi.x-pts[a].x) + dy*(pi.y-pts[a].y)
		tj := dx*(pj.x-pts[a].x) + dy*(pj.y-pts[a].y)
		return ti < tj
	})
	return order
}

func farthestPair(pts []planePoint) (int, int) {
	bestA, bestB, bestD := 0, 1, -1.0
	for i := 0; i < len(pts); i++ {
		for j := i + 1; j < len(pts); j++ {
			dx, dy := pts[j].x-pts[i].x, pts[j].y-pts[i].y
			d := dx*dx + dy*dy
			if d > bestD {
				bestA, bestB, bestD = i, j, d
			}
		}
	}
	return bestA, bestB
}

// triangle holds vertex indexes into the extended point slice plus the
// squared circumradius and circumcenter.
type triangle struct {
	a, b, c    int
	cx, cy     float64
	r2         float64
	degenerate bool
}

func newTriangle(pts []planePoint, a, b, c int) triangle {
	t := triangle{a: a, b: b, c: c}

	ax, ay := pts[a].x, pts[a].y
	bx, by := pts[b].x, pts[b].y
	cx, cy := pts[c].x, pts[c].y

	d := 2 * (ax*(by-cy) + bx*(cy-ay) + cx*(ay-by))
	if math.Abs(d) < 1e-12 {
		t.degenerate = true
		return t
	}

	a2 := ax*ax + ay*ay
	b2 := bx*bx + by*by
	c2 := cx*cx + cy*cy
	t.cx = (a2*(by-cy) + b2*(cy-ay) + c2*(ay-by)) / d
	t.cy = (a2*(cx-bx) + b2*(ax-cx) + c2*(bx-ax)) / d
	dx, dy := ax-t.cx, ay-t.cy
	t.r2 = dx*dx + dy*dy
	return t
}

func (t triangle) circumcircleContains(p planePoint) bool {
	if t.degenerate {
		return false
	}
	dx, dy := p.x-t.cx, p.y-t.cy
	return dx*dx+dy*dy <= t.r2*(1+1e-12)
}

// delaunayEdges triangulates the points with the Bowyer-Watson algorithm and
// returns the unique edges as index pairs into pts.
func delaunayEdges(pts []planePoint) [][2]int {
	n := len(pts)

	// Super-triangle comfortably enclosing every point.
	minX, maxX := pts[0].x, pts[0].x
	minY, maxY := pts[0].y, pts[0].y
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.x)
		maxX = math.Max(maxX, p.x)
		minY = math.Min(minY, p.y)
		maxY = math.Max(maxY, p.y)
	}
	span := math.Max(maxX-minX, maxY-minY)
	if span == 0 {
		span = 1
	}
	midX, midY := (minX+maxX)/2, (minY+maxY)/2

	ext := make([]planePoint, n, n+3)
	copy(ext, pts)
	ext = append(ext,
		planePoint{x: midX - 20*span, y: midY - 10*span, idx: -1},
		planePoint{x: midX + 20*span, y: midY - 10*span, idx: -1},
		planePoint{x: midX, y: midY + 20*span, idx: -1},
	)

	tris := []triangle{newTriangle(ext, n, n+1, n+2)}

	for i := 0; i < n; i++ {
		p := ext[i]

		// Triangles whose circumcircle contains the new point.
		bad := tris[:0:0]
		keep := tris[:0:0]
		for _, t := range tris {
			if t.circumcircleContains(p) {
				bad = append(bad, t)
			} else {
				keep = append(keep, t)
			}
		}

		// Boundary of the cavity: edges not shared by two bad triangles.
		edgeCount := make(map[[2]int]int)
		for _, t := range bad {
			for _, e := range [][2]int{sortedPair(t.a, t.b), sortedPair(t.b, t.c), sortedPair(t.a, t.c)} {
				edgeCount[e]++
			}
		}

		tris = keep
		for e, count := range edgeCount {
			if count == 1 {
				tris = append(tris, newTriangle(ext, e[0], e[1], i))
			}
		}
	}

	seen := make(map[[2]int]bool)
	var result [][2]int
	for _, t := range tris {
		for _, e := range [][2]int{sortedPair(t.a, t.b), sortedPair(t.b, t.c), sortedPair(t.a, t.c)} {
			if e[0] >= n || e[1] >= n {
				// Touches a super-triangle vertex.
				continue
			}
			if !seen[e] {
				seen[e] = true
				result = append(result, e)
			}
		}
	}
	return result
}

func sortedPair(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

func canonicalEdge(a, b spatial.CellID) models.NeighborEdge {
	if a > b {
		a, b = b, a
	}
	return models.NeighborEdge{CellA: a, CellB: b}
}

// dedupeEdges drops duplicate and self edges and sorts the rest for
// deterministic output.
func dedupeEdges(edges []models.NeighborEdge) []models.NeighborEdge {
	seen := make(map[models.NeighborEdge]bool, len(edges))
	out := edges[:0]
	for _, e := range edges {
		if e.CellA == e.CellB || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CellA != out[j].CellA {
			return out[i].CellA < out[j].CellA
		}
		return out[i].CellB < out[j].CellB
	})
	return out
}
