package repository

import (
	"database/sql"
	"fmt"

	"github.com/stargen/stargen-backend-go/internal/models"
)

// SampleRepository handles database operations for the sample table
type SampleRepository struct {
	db *sql.DB
}

// NewSampleRepository creates a new sample repository
func NewSampleRepository(db *sql.DB) *SampleRepository {
	return &SampleRepository{db: db}
}

// GetAllSamples loads the full sample table in row order. The ingestion
// collaborator has already filtered out rows with missing coordinates.
func (r *SampleRepository) GetAllSamples() ([]models.Sample, error) {
	query := `SELECT idx, id, COALESCE(country, ''), lat, lon, age_bp
		FROM samples
		ORDER BY idx`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer rows.Close()

	var samples []models.Sample
	for rows.Next() {
		var s models.Sample
		if err := rows.Scan(&s.Index, &s.ID, &s.Country, &s.Lat, &s.Lon, &s.AgeBP); err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		samples = append(samples, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate samples: %w", err)
	}

	return samples, nil
}
