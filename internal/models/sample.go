package models

// Sample represents a single geolocated ancient-DNA sample.
// Samples are loaded once at startup and never mutated afterwards.
type Sample struct {
	// Index is the row position in the sample table; the distance matrix
	// is indexed consistently with it.
	Index int `json:"index" db:"idx"`

	ID      string `json:"id" db:"id"`
	Country string `json:"country,omitempty" db:"country"`

	Lat float64 `json:"lat" db:"lat"`
	Lon float64 `json:"lon" db:"lon"`

	// AgeBP is the sample age in years before 1950 CE (radiocarbon epoch).
	AgeBP int64 `json:"age_bp" db:"age_bp"`
}
