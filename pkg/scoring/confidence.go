package scoring

import (
	"fmt"
	"math"

	"github.com/dukex/flowcheck/pkg/models"
)

// Confidence bands.
const (
	BandVeryLow  = "Very Low"
	BandLow      = "Low"
	BandMedium   = "Medium"
	BandHigh     = "High"
	BandVeryHigh = "Very High"
)

// ScoreConfidence rates a proposed fact from its weighted factors. The value is
// the matched share of the total weight, rounded to two decimals. Negative
// weights count as zero and a zero total yields zero.
func ScoreConfidence(factors []models.ConfidenceFactor) models.ConfidenceScore {
	var total, matchedWeight float64

	matched := 0

	for _, factor := range factors {
		weight := max(factor.Weight, 0)
		total += weight

		if factor.Matched {
			matched++
			matchedWeight += weight
		}
	}

	value := 0.0
	if total > 0 {
		value = math.Round(matchedWeight/total*100) / 100
	}

	band := Band(value)

	out := make([]models.ConfidenceFactor, len(factors))
	copy(out, factors)

	return models.ConfidenceScore{
		Value:   value,
		Band:    band,
		Reason:  fmt.Sprintf("%s confidence: %d of %d factors matched", band, matched, len(factors)),
		Factors: out,
	}
}

// Band classifies a confidence value. Low stops at 0.5 rather than 0.6 so that an
// even split between matched and unmatched weight reads as Medium.
func Band(value float64) string {
	switch {
	case value < 0.4:
		return BandVeryLow
	case value < 0.5:
		return BandLow
	case value < 0.8:
		return BandMedium
	case value < 0.9:
		return BandHigh
	default:
		return BandVeryHigh
	}
}
