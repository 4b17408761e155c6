package stats

import (
	"math"
	"sort"
)

// Locally weighted regression (LOWESS) with a monotone correction.
//
// Fit produces a smooth expected-value curve from scattered (x, y)
// observations without assuming a global functional form. Each training
// point gets a local linear fit over its nearest neighbors, tricube-weighted
// by distance; the fitted values are then made non-decreasing with the
// pool-adjacent-violators algorithm, since the curves smoothed here
// (genetic distance over geographic distance) are expected-monotone and
// local fits on sparse data can dip.
//
// The whole procedure is deterministic: identical inputs produce identical
// curves.

// Curve is a fitted smooth curve that can be evaluated inside its training
// x-range.
type Curve struct {
	xs     []float64 // strictly increasing
	fitted []float64
}

// Smoother is the pluggable fitting capability: given training (x, y) pairs
// and a bandwidth fraction, produce a Curve or report that the data is
// insufficient (fewer than two distinct x values).
type Smoother interface {
	Fit(xs, ys []float64, bandwidth float64) (*Curve, bool)
}

// LowessSmoother implements Smoother with tricube-weighted local linear
// regression.
type LowessSmoother struct{}

type sortablePairs struct {
	xs []float64
	ys []float64
}

func (p sortablePairs) Len() int           { return len(p.xs) }
func (p sortablePairs) Less(i, j int) bool { return p.xs[i] < p.xs[j] }
func (p sortablePairs) Swap(i, j int) {
	p.xs[i], p.xs[j] = p.xs[j], p.xs[i]
	p.ys[i], p.ys[j] = p.ys[j], p.ys[i]
}

// Fit fits the curve over the training pairs. The bandwidth is the fraction
// of points entering each local fit, clamped to keep at least two points.
// Returns false if fewer than two distinct x values are present.
func (LowessSmoother) Fit(xs, ys []float64, bandwidth float64) (*Curve, bool) {
	if len(xs) != len(ys) || len(xs) < 2 {
		return nil, false
	}

	sx := make([]float64, len(xs))
	sy := make([]float64, len(ys))
	copy(sx, xs)
	copy(sy, ys)
	sort.Stable(sortablePairs{xs: sx, ys: sy})

	if sx[0] == sx[len(sx)-1] {
		return nil, false
	}

	if bandwidth > 1 {
		bandwidth = 1
	}
	window := int(math.Ceil(bandwidth * float64(len(sx))))
	if window < 2 {
		window = 2
	}

	smoothed := make([]float64, len(sx))
	for i := range sx {
		smoothed[i] = localFit(sx, sy, i, window)
	}

	ux, uy := collapseDuplicateX(sx, smoothed)
	if len(ux) < 2 {
		return nil, false
	}

	isotonic(uy)
	return &Curve{xs: ux, fitted: uy}, true
}

// localFit computes the tricube-weighted linear fit at sx[i] over the window
// nearest points.
func localFit(sx, sy []float64, i, window int) float64 {
	lo, hi := nearestWindow(sx, i, window)

	x0 := sx[i]
	maxDist := math.Max(math.Abs(sx[hi-1]-x0), math.Abs(sx[lo]-x0))

	// All window points coincide with x0; fall back to their mean.
	if maxDist == 0 {
		return Mean(sy[lo:hi])
	}

	var sw, swx, swy, swxx, swxy float64
	for j := lo; j < hi; j++ {
		w := tricube(math.Abs(sx[j]-x0) / maxDist)
		sw += w
		swx += w * sx[j]
		swy += w * sy[j]
		swxx += w * sx[j] * sx[j]
		swxy += w * sx[j] * sy[j]
	}

	denom := sw*swxx - swx*swx
	if math.Abs(denom) < 1e-12 {
		if sw == 0 {
			return Mean(sy[lo:hi])
		}
		return swy / sw
	}

	slope := (sw*swxy - swx*swy) / denom
	intercept := (swy - slope*swx) / sw
	return intercept + slope*x0
}

// nearestWindow returns the half-open index range of the window points
// closest to sx[i] in x.
func nearestWindow(sx []float64, i, window int) (lo, hi int) {
	lo, hi = i, i+1
	for hi-lo < window {
		switch {
		case lo == 0:
			hi++
		case hi == len(sx):
			lo--
		case sx[i]-sx[lo-1] <= sx[hi]-sx[i]:
			lo--
		default:
			hi++
		}
	}
	return lo, hi
}

// tricube is the standard LOWESS kernel, (1-|u|^3)^3 on [0,1).
func tricube(u float64) float64 {
	if u >= 1 {
		return 0
	}
	t := 1 - u*u*u
	return t * t * t
}

// collapseDuplicateX averages fitted values sharing the same x so the curve
// has strictly increasing knots.
func collapseDuplicateX(sx, fitted []float64) ([]float64, []float64) {
	ux := make([]float64, 0, len(sx))
	uy := make([]float64, 0, len(sx))

	for i := 0; i < len(sx); {
		j := i
		var sum float64
		for j < len(sx) && sx[j] == sx[i] {
			sum += fitted[j]
			j++
		}
		ux = append(ux, sx[i])
		uy = append(uy, sum/float64(j-i))
		i = j
	}
	return ux, uy
}

// isotonic applies pool-adjacent-violators in place, producing the closest
// non-decreasing sequence in least squares.
func isotonic(ys []float64) {
	n := len(ys)

	// Blocks of pooled values; merge backwards whenever ordering breaks.
	vals := make([]float64, 0, n)
	wts := make([]float64, 0, n)
	sizes := make([]int, 0, n)

	for i := 0; i < n; i++ {
		vals = append(vals, ys[i])
		wts = append(wts, 1)
		sizes = append(sizes, 1)

		for len(vals) > 1 && vals[len(vals)-2] > vals[len(vals)-1] {
			last := len(vals) - 1
			totalW := wts[last-1] + wts[last]
			vals[last-1] = (vals[last-1]*wts[last-1] + vals[last]*wts[last]) / totalW
			wts[last-1] = totalW
			sizes[last-1] += sizes[last]
			vals = vals[:last]
			wts = wts[:last]
			sizes = sizes[:last]
		}
	}

	idx := 0
	for b, v := range vals {
		for k := 0; k < sizes[b]; k++ {
			ys[idx] = v
			idx++
		}
	}
}

// Eval evaluates the curve at x by linear interpolation between knots.
// Returns false for x outside the training range (no extrapolation).
func (c *Curve) Eval(x float64) (float64, bool) {
	if x < c.xs[0] || x > c.xs[len(c.xs)-1] {
		return 0, false
	}

	i := sort.SearchFloat64s(c.xs, x)
	if i < len(c.xs) && c.xs[i] == x {
		return c.fitted[i], true
	}

	// x is strictly between xs[i-1] and xs[i].
	t := (x - c.xs[i-1]) / (c.xs[i] - c.xs[i-1])
	return c.fitted[i-1] + t*(c.fitted[i]-c.fitted[i-1]), true
}

// MinX returns the smallest training x.
func (c *Curve) MinX() float64 { return c.xs[0] }

// MaxX returns the largest training x.
func (c *Curve) MaxX() float64 { return c.xs[len(c.xs)-1] }
