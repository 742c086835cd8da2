package similarity

import (
	"sort"

	"github.com/hostelcare/hostelcare/internal/database"
)

// Matching thresholds. The auto-merge threshold is strictly higher than the
// reporting threshold, so every auto-merged pair is also discoverable via
// FindSimilar.
const (
	// ReportingThreshold is the minimum score for a pair to be surfaced to
	// staff as a possible duplicate.
	ReportingThreshold = 0.70

	// AutoMergeThreshold is the minimum score required to merge a newly
	// created issue automatically, without staff confirmation.
	AutoMergeThreshold = 0.80
)

// Result is one candidate issue scored against a target. It is transient:
// created per comparison and discarded by the caller after display or an
// auto-merge decision.
type Result struct {
	Issue        *database.Issue `json:"issue"`
	Score        float64         `json:"similarity_score"`
	MatchReasons []string        `json:"match_reasons"`
}

// FindSimilar scores the target against every eligible candidate in the pool
// and returns matches at or above the reporting threshold, ordered by
// descending score. Ties keep the pool's original relative order, which
// determines the match chosen when auto-merge picks the best result.
//
// Candidates are filtered before scoring: the target itself, issues already
// folded into another issue, and resolved or closed issues are skipped. A
// target that is itself merged is not eligible to seek further matches and
// yields no results. Read-only and safe to call concurrently.
func FindSimilar(target *database.Issue, pool []database.Issue) []Result {
	if target.IsMerged() {
		return nil
	}

	var results []Result
	for i := range pool {
		candidate := &pool[i]

		if candidate.UUID == target.UUID {
			continue
		}
		if candidate.IsMerged() {
			continue
		}
		if candidate.Status == database.IssueStatusResolved || candidate.Status == database.IssueStatusClosed {
			continue
		}

		score, reasons := Score(target, candidate)
		if score >= ReportingThreshold {
			results = append(results, Result{
				Issue:        candidate,
				Score:        score,
				MatchReasons: reasons,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results
}
