package analysis

import (
	"fmt"
	"sort"

	"github.com/stargen/stargen-backend-go/internal/models"
)

// Time binning partitions samples by age. Every sample lands in exactly one
// bin; the union of bins covers the full sample set. Empty bins are valid
// and flow through the rest of the pipeline as "no cells, no edges, no fit".

// BinSamples assigns each sample to one of count bins and returns the bin
// descriptors plus the per-sample bin index (parallel to samples).
//
// Equal-width mode splits [min age, max age] into count intervals of equal
// year width; bins are left-inclusive/right-exclusive except the last, which
// is closed on both ends. Sparse bins are kept as-is, never rebalanced.
// Equal-count mode instead slices the age-sorted sample list into count
// nearly equal chunks, so bin widths follow sampling density.
func BinSamples(samples []models.Sample, count int, mode models.BinMode) ([]models.TimeBin, []int, error) {
	if count < 1 {
		return nil, nil, fmt.Errorf("%w: bin count must be >= 1, got %d", models.ErrInvalidConfig, count)
	}

	switch mode {
	case models.BinModeEqualCount:
		return binEqualCount(samples, count)
	case models.BinModeEqualWidth, "":
		return binEqualWidth(samples, count)
	default:
		return nil, nil, fmt.Errorf("%w: unknown bin mode %q", models.ErrInvalidConfig, mode)
	}
}

func binEqualWidth(samples []models.Sample, count int) ([]models.TimeBin, []int, error) {
	bins := make([]models.TimeBin, count)
	assignment := make([]int, len(samples))

	if len(samples) == 0 {
		for i := range bins {
			bins[i] = models.TimeBin{Index: i, Label: FormatBinLabel(0, 0)}
		}
		return bins, assignment, nil
	}

	minAge, maxAge := samples[0].AgeBP, samples[0].AgeBP
	for _, s := range samples[1:] {
		if s.AgeBP < minAge {
			minAge = s.AgeBP
		}
		if s.AgeBP > maxAge {
			maxAge = s.AgeBP
		}
	}

	// Edges are truncated to whole years once and shared between the bin
	// descriptors and the assignment, so a sample's age always lies inside
	// its published interval.
	width := float64(maxAge-minAge) / float64(count)
	edges := make([]int64, count+1)
	for i := range edges {
		edges[i] = minAge + int64(float64(i)*width)
	}
	edges[count] = maxAge

	for i := range bins {
		bins[i] = models.TimeBin{
			Index:  i,
			AgeMin: edges[i],
			AgeMax: edges[i+1],
			Label:  FormatBinLabel(edges[i], edges[i+1]),
		}
	}

	for i, s := range samples {
		idx := 0
		if width > 0 {
			// First bin whose upper edge lies beyond the age; the max-age
			// sample falls into the closed last bin.
			idx = sort.Search(count, func(b int) bool { return edges[b+1] > s.AgeBP })
			if idx >= count {
				idx = count - 1
			}
		}
		assignment[i] = idx
		bins[idx].SampleCount++
	}

	return bins, assignment, nil
}

func binEqualCount(samples []models.Sample, count int) ([]models.TimeBin, []int, error) {
	bins := make([]models.TimeBin, count)
	assignment := make([]int, len(samples))

	// Sort row positions by age, ties broken by row order for determinism.
	order := make([]int, len(samples))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return samples[order[a]].AgeBP < samples[order[b]].AgeBP
	})

	perBin, remainder := len(samples)/count, len(samples)%count

	start := 0
	for b := 0; b < count; b++ {
		size := perBin
		if b < remainder {
			size++
		}
		end := start + size

		bin := models.TimeBin{Index: b, SampleCount: size}
		if size > 0 {
			bin.AgeMin = samples[order[start]].AgeBP
			bin.AgeMax = samples[order[end-1]].AgeBP
		}
		bin.Label = FormatBinLabel(bin.AgeMin, bin.AgeMax)
		bins[b] = bin

		for i := start; i < end; i++ {
			assignment[order[i]] = b
		}
		start = end
	}

	return bins, assignment, nil
}

// FormatBinLabel renders an age interval in calendar years. Sample ages are
// measured in years before 1950 CE, so 3000 BP reads as "1050 BC" and
// 500 BP as "1450 AD".
func FormatBinLabel(ageMin, ageMax int64) string {
	return formatYear(ageMin) + " - " + formatYear(ageMax)
}

func formatYear(ageBP int64) string {
	if ageBP < 1950 {
		return fmt.Sprintf("%d AD", 1950-ageBP)
	}
	return fmt.Sprintf("%d BC", ageBP-1950)
}
