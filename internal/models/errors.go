package models

import "errors"

// Error categories shared across the pipeline. Wrap with fmt.Errorf("%w: ...")
// so callers can classify with errors.Is.
var (
	// ErrInputInconsistency marks a mismatch between the sample table and
	// the distance matrix, or a cell referencing samples that do not exist.
	// Fatal for the current computation; no partial results are returned.
	ErrInputInconsistency = errors.New("input inconsistency")

	// ErrInvalidConfig marks analysis parameters outside their documented
	// domains. Rejected before any computation begins.
	ErrInvalidConfig = errors.New("invalid configuration")
)
