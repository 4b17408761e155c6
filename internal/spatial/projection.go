package spatial

import (
	"math"
)

// Projection maps latitude/longitude onto a local planar coordinate system
// centered on a reference point, using the azimuthal equidistant projection.
// Distances and angles are faithful near the center, which is all the
// triangulation needs; it also keeps point sets that straddle the
// antimeridian or sit near a pole in one continuous plane.
type Projection struct {
	centerLat float64 // radians
	centerLon float64 // radians
	sinLat    float64
	cosLat    float64
}

// NewProjection creates a projection centered on the given point (degrees).
func NewProjection(centerLat, centerLon float64) *Projection {
	latRad := centerLat * math.Pi / 180
	return &Projection{
		centerLat: latRad,
		centerLon: centerLon * math.Pi / 180,
		sinLat:    math.Sin(latRad),
		cosLat:    math.Cos(latRad),
	}
}

// ProjectionForPoints centers a projection on the arithmetic mean of the
// points, with longitudes averaged on the unit circle so a set that spans
// the antimeridian still gets a sensible center.
func ProjectionForPoints(points []Point) *Projection {
	if len(points) == 0 {
		return NewProjection(0, 0)
	}

	var sumLat, sumSin, sumCos float64
	for _, p := range points {
		sumLat += p.Lat
		lonRad := p.Lon * math.Pi / 180
		sumSin += math.Sin(lonRad)
		sumCos += math.Cos(lonRad)
	}

	centerLat := sumLat / float64(len(points))
	centerLon := math.Atan2(sumSin, sumCos) * 180 / math.Pi
	return NewProjection(centerLat, centerLon)
}

// Forward projects a point (degrees) to planar coordinates in kilometers.
// X grows eastward, Y northward.
func (p *Projection) Forward(lat, lon float64) (x, y float64) {
	latRad := lat * math.Pi / 180
	lonDiff := lon*math.Pi/180 - p.centerLon

	sinLat := math.Sin(latRad)
	cosLat := math.Cos(latRad)
	cosLonDiff := math.Cos(lonDiff)

	// Angular distance from the projection center.
	cosC := p.sinLat*sinLat + p.cosLat*cosLat*cosLonDiff
	if cosC > 1 {
		cosC = 1
	}
	if cosC < -1 {
		cosC = -1
	}
	c := math.Acos(cosC)

	if c == 0 {
		return 0, 0
	}

	k := c / math.Sin(c) * EarthRadiusKm
	x = k * cosLat * math.Sin(lonDiff)
	y = k * (p.cosLat*sinLat - p.sinLat*cosLat*cosLonDiff)
	return x, y
}
