// Package similarity implements duplicate detection for maintenance issues:
// a weighted multi-factor scorer and a candidate finder over a pool of open
// issues. Both are pure functions of their inputs and perform no I/O.
package similarity

import (
	"fmt"
	"math"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"github.com/hostelcare/hostelcare/internal/database"
)

// Factor weights. They sum to 1.0, so the combined score is always in [0,1].
const (
	weightTitle       = 0.30
	weightDescription = 0.25
	weightCategory    = 0.15
	weightLocation    = 0.20
	weightTime        = 0.10
)

// Per-factor thresholds above which a factor contributes a human-readable
// match reason.
const (
	reasonTitleThreshold       = 0.7
	reasonDescriptionThreshold = 0.6
	reasonLocationThreshold    = 0.5
	reasonTimeThreshold        = 0.5
)

// diceMetric is the shared Sørensen–Dice bigram metric. Comparison is
// case-insensitive; the metric itself is symmetric and bounded to [0,1].
var diceMetric = newDiceMetric()

func newDiceMetric() *metrics.SorensenDice {
	m := metrics.NewSorensenDice()
	m.CaseSensitive = false
	m.NgramSize = 2
	return m
}

// textSimilarity returns the fuzzy similarity of two strings in [0,1].
func textSimilarity(a, b string) float64 {
	return strutil.Similarity(a, b, diceMetric)
}

// locationSimilarity scores how closely two issue locations match.
// Hostel carries the most weight; block and room split the remainder.
func locationSimilarity(a, b *database.Issue) float64 {
	score := 0.0
	if a.Hostel == b.Hostel {
		score += 0.4
	}
	if a.Block == b.Block {
		score += 0.3
	}
	if a.Room == b.Room {
		score += 0.3
	}
	return score
}

// dayDifference returns the absolute difference between two creation
// timestamps in fractional days.
func dayDifference(a, b *database.Issue) float64 {
	return math.Abs(a.CreatedAt.Sub(b.CreatedAt).Hours()) / 24
}

// timeProximity scores how close together two issues were reported.
// Issues reported within a week of each other score noticeably higher.
func timeProximity(days float64) float64 {
	switch {
	case days <= 1:
		return 1.0
	case days <= 3:
		return 0.7
	case days <= 7:
		return 0.4
	default:
		return 0.1
	}
}

// Score computes the weighted similarity between two issues and the list of
// human-readable match reasons. It is deterministic and symmetric in its
// arguments, has no side effects, and assumes nothing about the issues'
// merge state (callers filter before scoring).
func Score(a, b *database.Issue) (float64, []string) {
	var reasons []string
	total := 0.0

	titleSim := textSimilarity(a.Title, b.Title)
	total += titleSim * weightTitle
	if titleSim > reasonTitleThreshold {
		reasons = append(reasons, fmt.Sprintf("Similar titles (%d%% match)", int(math.Round(titleSim*100))))
	}

	descSim := textSimilarity(a.Description, b.Description)
	total += descSim * weightDescription
	if descSim > reasonDescriptionThreshold {
		reasons = append(reasons, fmt.Sprintf("Similar descriptions (%d%% match)", int(math.Round(descSim*100))))
	}

	if a.Category == b.Category {
		total += weightCategory
		reasons = append(reasons, fmt.Sprintf("Same category: %s", a.Category))
	}

	locSim := locationSimilarity(a, b)
	total += locSim * weightLocation
	if locSim > reasonLocationThreshold {
		reasons = append(reasons, fmt.Sprintf("Similar location (%d%% match)", int(math.Round(locSim*100))))
	}

	days := dayDifference(a, b)
	timeSim := timeProximity(days)
	total += timeSim * weightTime
	if timeSim > reasonTimeThreshold {
		reasons = append(reasons, fmt.Sprintf("Reported within %d day(s)", int(math.Ceil(days))))
	}

	return total, reasons
}
