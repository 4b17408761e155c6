package store

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/stargen/stargen-backend-go/internal/models"
)

// DistanceMatrix is the precomputed symmetric pairwise genetic-distance
// matrix over the sample table, indexed by sample row position. It is loaded
// once and read-only for the process lifetime. The triangle inequality is
// not assumed to hold.
type DistanceMatrix struct {
	n    int
	data []float64
}

// symmetryTolerance bounds the allowed |d(i,j)-d(j,i)| drift from the
// ingestion step's float serialization.
const symmetryTolerance = 1e-9

// maxMatrixSamples caps the sample count accepted from a matrix file header.
// Far above any real sample table, but it keeps a corrupt header from
// demanding an n*n allocation that would take the process down.
const maxMatrixSamples = 1 << 15

// NewDistanceMatrix builds a matrix from row-major data and validates the
// distance-matrix invariants: square shape, zero diagonal, symmetry and
// non-negative entries. Violations are reported with the offending indices.
func NewDistanceMatrix(n int, data []float64) (*DistanceMatrix, error) {
	if n < 0 || len(data) != n*n {
		return nil, fmt.Errorf("%w: matrix has %d values, expected %d for %d samples",
			models.ErrInputInconsistency, len(data), n*n, n)
	}

	for i := 0; i < n; i++ {
		if d := data[i*n+i]; d != 0 {
			return nil, fmt.Errorf("%w: nonzero diagonal %g at sample %d",
				models.ErrInputInconsistency, d, i)
		}
		for j := i + 1; j < n; j++ {
			dij, dji := data[i*n+j], data[j*n+i]
			if dij < 0 || math.IsNaN(dij) {
				return nil, fmt.Errorf("%w: invalid distance %g at (%d,%d)",
					models.ErrInputInconsistency, dij, i, j)
			}
			if math.Abs(dij-dji) > symmetryTolerance {
				return nil, fmt.Errorf("%w: asymmetric distances at (%d,%d): %g vs %g",
					models.ErrInputInconsistency, i, j, dij, dji)
			}
		}
	}

	return &DistanceMatrix{n: n, data: data}, nil
}

// Len returns the number of samples the matrix covers.
func (m *DistanceMatrix) Len() int {
	return m.n
}

// At returns the genetic distance between samples i and j.
func (m *DistanceMatrix) At(i, j int) float64 {
	return m.data[i*m.n+j]
}

// ReadMatrix reads a serialized distance matrix: a little-endian uint32
// sample count followed by count*count float64 values in row order. The
// format is produced by the ingestion collaborator.
func ReadMatrix(r io.Reader) (*DistanceMatrix, error) {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("failed to read matrix header: %w", err)
	}
	if count > maxMatrixSamples {
		return nil, fmt.Errorf("%w: matrix header declares %d samples, limit is %d",
			models.ErrInputInconsistency, count, maxMatrixSamples)
	}

	n := int(count)
	data := make([]float64, n*n)
	if err := binary.Read(r, binary.LittleEndian, data); err != nil {
		return nil, fmt.Errorf("failed to read matrix values: %w", err)
	}

	return NewDistanceMatrix(n, data)
}

// ReadMatrixFile reads a serialized distance matrix from disk.
func ReadMatrixFile(path string) (*DistanceMatrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open matrix file: %w", err)
	}
	defer f.Close()

	m, err := ReadMatrix(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("failed to read matrix file %s: %w", path, err)
	}
	return m, nil
}
