package models

// BinMode selects how samples are partitioned into time bins.
type BinMode string

const (
	// BinModeEqualWidth splits the observed age range into bins of equal
	// year width. Sparse or empty bins are possible and tolerated.
	BinModeEqualWidth BinMode = "equal_width"

	// BinModeEqualCount puts (nearly) the same number of samples into each
	// bin, so bin widths vary with sampling density.
	BinModeEqualCount BinMode = "equal_count"
)

// TimeBin describes one age interval of the partition.
// The interval is [AgeMin, AgeMax); the last bin is closed on both ends.
type TimeBin struct {
	Index  int   `json:"index"`
	AgeMin int64 `json:"age_min"`
	AgeMax int64 `json:"age_max"`

	// Label is a human-readable name using the 1950 CE epoch,
	// e.g. "3050 BC - 1050 BC".
	Label string `json:"label"`

	SampleCount int `json:"sample_count"`
}
