package store

import (
	"fmt"

	"github.com/stargen/stargen-backend-go/internal/models"
)

// SampleStore is the immutable in-memory sample table together with the
// pairwise genetic-distance matrix. Both are loaded once at startup and
// shared read-only by all computations, so concurrent recomputations never
// need locks around them.
type SampleStore struct {
	samples []models.Sample
	matrix  *DistanceMatrix
}

// NewSampleStore validates that the matrix dimensions match the sample table
// and returns the store. Sample indexes are normalized to row positions.
func NewSampleStore(samples []models.Sample, matrix *DistanceMatrix) (*SampleStore, error) {
	if matrix.Len() != len(samples) {
		return nil, fmt.Errorf("%w: distance matrix is %dx%d but sample table has %d rows",
			models.ErrInputInconsistency, matrix.Len(), matrix.Len(), len(samples))
	}

	owned := make([]models.Sample, len(samples))
	copy(owned, samples)
	for i := range owned {
		owned[i].Index = i
	}

	return &SampleStore{samples: owned, matrix: matrix}, nil
}

// Len returns the number of samples.
func (s *SampleStore) Len() int {
	return len(s.samples)
}

// Sample returns the sample at row position i.
func (s *SampleStore) Sample(i int) models.Sample {
	return s.samples[i]
}

// Samples returns the full sample table. Callers must treat it as read-only.
func (s *SampleStore) Samples() []models.Sample {
	return s.samples
}

// Distance returns the genetic distance between samples i and j.
func (s *SampleStore) Distance(i, j int) float64 {
	return s.matrix.At(i, j)
}

// ValidIndex reports whether i is a valid sample row position.
func (s *SampleStore) ValidIndex(i int) bool {
	return i >= 0 && i < len(s.samples)
}

// AgeRange returns the minimum and maximum sample age in years BP.
// Both are zero when the store is empty.
func (s *SampleStore) AgeRange() (minAge, maxAge int64) {
	if len(s.samples) == 0 {
		return 0, 0
	}

	minAge, maxAge = s.samples[0].AgeBP, s.samples[0].AgeBP
	for _, sample := range s.samples[1:] {
		if sample.AgeBP < minAge {
			minAge = sample.AgeBP
		}
		if sample.AgeBP > maxAge {
			maxAge = sample.AgeBP
		}
	}
	return minAge, maxAge
}
