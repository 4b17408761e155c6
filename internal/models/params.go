package models

import (
	"fmt"

	"github.com/stargen/stargen-backend-go/internal/spatial"
)

// DefaultAnalysisParams mirrors the defaults of the interactive tool:
// 14 equal-width bins at resolution 3.
func DefaultAnalysisParams() AnalysisParams {
	return AnalysisParams{
		BinCount:          14,
		BinMode:           BinModeEqualWidth,
		Resolution:        3,
		LowessBandwidth:   0.5,
		BarrierThreshold:  1.5,
		CorridorThreshold: 0.5,
	}
}

// Validate checks every parameter against its documented domain. Violations
// wrap ErrInvalidConfig and are rejected before any computation begins.
func (p AnalysisParams) Validate() error {
	if p.BinCount < 1 {
		return fmt.Errorf("%w: bin_count must be >= 1, got %d", ErrInvalidConfig, p.BinCount)
	}
	switch p.BinMode {
	case BinModeEqualWidth, BinModeEqualCount:
	default:
		return fmt.Errorf("%w: unknown bin_mode %q", ErrInvalidConfig, p.BinMode)
	}
	if p.Resolution < spatial.MinResolution || p.Resolution > spatial.MaxResolution {
		return fmt.Errorf("%w: resolution must be in [%d,%d], got %d",
			ErrInvalidConfig, spatial.MinResolution, spatial.MaxResolution, p.Resolution)
	}
	if !(p.LowessBandwidth > 0 && p.LowessBandwidth <= 1) {
		return fmt.Errorf("%w: lowess_bandwidth must be in (0,1], got %g", ErrInvalidConfig, p.LowessBandwidth)
	}
	if !(p.BarrierThreshold > 1) {
		return fmt.Errorf("%w: barrier_threshold must be > 1, got %g", ErrInvalidConfig, p.BarrierThreshold)
	}
	if !(p.CorridorThreshold > 0 && p.CorridorThreshold < 1) {
		return fmt.Errorf("%w: corridor_threshold must be in (0,1), got %g", ErrInvalidConfig, p.CorridorThreshold)
	}
	return nil
}
