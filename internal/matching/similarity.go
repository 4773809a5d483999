// Package matching implements similarity scoring, profile/job text
// synthesis, and embedding-based ranking of candidates against jobs.
package matching

import "math"

// Affine transform constants mapping cosine similarity to a 0-100 match
// score. Raw cosine values for this embedding space cluster in a narrow
// high band, so the score is spread with a 1.2 scale and -10 offset, then
// clamped. These values are tunable for other embedding models, but any
// change breaks compatibility with historically displayed scores.
const (
	scoreScale  = 1.2
	scoreOffset = -10.0
)

// CosineSimilarity computes the cosine of the angle between two vectors.
// Returns exactly 0 when either vector has zero magnitude. Fails with
// DimensionMismatchError when lengths differ.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, &DimensionMismatchError{LenA: len(a), LenB: len(b)}
	}

	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}

	magA = math.Sqrt(magA)
	magB = math.Sqrt(magB)

	if magA == 0 || magB == 0 {
		return 0, nil
	}

	return dot / (magA * magB), nil
}

// MatchScore maps a cosine similarity to an integer percentage:
// clamp(0, 100, round(similarity*100*1.2 - 10)). Not a probability; it
// saturates at the ends for similarities outside the expected band.
func MatchScore(similarity float64) int {
	adjusted := similarity*100*scoreScale + scoreOffset
	if adjusted < 0 {
		return 0
	}
	if adjusted > 100 {
		return 100
	}
	return int(math.Round(adjusted))
}

// Level describes a match score bucket for display.
type Level struct {
	Level       string `json:"level"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// MatchLevel buckets a match score into one of four display levels.
func MatchLevel(score int) Level {
	switch {
	case score >= 80:
		return Level{Level: "Excellent", Color: "green", Description: "Highly recommended match"}
	case score >= 65:
		return Level{Level: "Good", Color: "blue", Description: "Strong potential match"}
	case score >= 50:
		return Level{Level: "Fair", Color: "yellow", Description: "Moderate match"}
	default:
		return Level{Level: "Low", Color: "gray", Description: "Limited alignment"}
	}
}
