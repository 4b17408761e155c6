package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLowessConstantData(t *testing.T) {
	xs := []float64{100, 200, 300, 400, 500}
	ys := []float64{1, 1, 1, 1, 1}

	curve, ok := LowessSmoother{}.Fit(xs, ys, 1.0)
	require.True(t, ok)

	for _, x := range []float64{100, 250, 500} {
		v, defined := curve.Eval(x)
		require.True(t, defined)
		assert.InDelta(t, 1.0, v, 1e-9)
	}
}

func TestLowessLinearData(t *testing.T) {
	var xs, ys []float64
	for i := 1; i <= 20; i++ {
		xs = append(xs, float64(i)*50)
		ys = append(ys, float64(i)*0.1)
	}

	curve, ok := LowessSmoother{}.Fit(xs, ys, 0.5)
	require.True(t, ok)

	// Local linear fits recover a line exactly (up to float noise).
	v, defined := curve.Eval(500)
	require.True(t, defined)
	assert.InDelta(t, 1.0, v, 1e-6)
}

func TestLowessMonotoneOutput(t *testing.T) {
	// Noisy but increasing trend; fitted knots must never decrease.
	xs := []float64{10, 20, 30, 40, 50, 60, 70, 80}
	ys := []float64{1.0, 1.4, 1.1, 1.8, 1.5, 2.2, 2.0, 2.6}

	curve, ok := LowessSmoother{}.Fit(xs, ys, 0.6)
	require.True(t, ok)

	prev := -1.0
	for _, x := range xs {
		v, defined := curve.Eval(x)
		require.True(t, defined)
		assert.GreaterOrEqual(t, v, prev)
		prev = v
	}
}

func TestLowessInsufficientData(t *testing.T) {
	_, ok := LowessSmoother{}.Fit([]float64{5}, []float64{1}, 0.5)
	assert.False(t, ok, "single point cannot be fitted")

	_, ok = LowessSmoother{}.Fit([]float64{5, 5, 5}, []float64{1, 2, 3}, 0.5)
	assert.False(t, ok, "identical x values cannot be fitted")

	_, ok = LowessSmoother{}.Fit(nil, nil, 0.5)
	assert.False(t, ok)
}

func TestLowessNoExtrapolation(t *testing.T) {
	curve, ok := LowessSmoother{}.Fit([]float64{10, 20, 30}, []float64{1, 2, 3}, 1.0)
	require.True(t, ok)

	_, defined := curve.Eval(5)
	assert.False(t, defined)
	_, defined = curve.Eval(35)
	assert.False(t, defined)

	assert.InDelta(t, 10.0, curve.MinX(), 1e-12)
	assert.InDelta(t, 30.0, curve.MaxX(), 1e-12)
}

func TestLowessDeterministic(t *testing.T) {
	xs := []float64{3, 1, 4, 1.5, 9, 2.6, 5.3}
	ys := []float64{0.3, 0.1, 0.45, 0.12, 0.9, 0.3, 0.5}

	c1, ok1 := LowessSmoother{}.Fit(xs, ys, 0.7)
	c2, ok2 := LowessSmoother{}.Fit(xs, ys, 0.7)
	require.True(t, ok1)
	require.True(t, ok2)

	for _, x := range []float64{1, 2, 4.7, 9} {
		v1, d1 := c1.Eval(x)
		v2, d2 := c2.Eval(x)
		assert.Equal(t, d1, d2)
		assert.Equal(t, v1, v2)
	}
}

func TestLowessDuplicateXCollapsed(t *testing.T) {
	// Duplicate x values are legal training input as long as two distinct
	// x values exist.
	xs := []float64{10, 10, 20, 20, 30}
	ys := []float64{1, 1.2, 2, 2.2, 3}

	curve, ok := LowessSmoother{}.Fit(xs, ys, 1.0)
	require.True(t, ok)

	v, defined := curve.Eval(20)
	require.True(t, defined)
	assert.Greater(t, v, 1.0)
	assert.Less(t, v, 3.0)
}

func TestIsotonic(t *testing.T) {
	ys := []float64{1, 3, 2, 4}
	isotonic(ys)
	assert.Equal(t, []float64{1, 2.5, 2.5, 4}, ys)

	flat := []float64{2, 2, 2}
	isotonic(flat)
	assert.Equal(t, []float64{2, 2, 2}, flat)

	desc := []float64{3, 2, 1}
	isotonic(desc)
	assert.Equal(t, []float64{2, 2, 2}, desc)
}
