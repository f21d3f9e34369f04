// README: Candidate ranking by total score.
package dispatch

import (
	"sort"
	"time"

	"ryde/internal/modules/partner"
)

// Candidate is a partner under consideration for one trip, enriched with
// the routed travel estimate.
type Candidate struct {
	Partner        partner.Partner
	DistanceMeters int
	TravelTime     time.Duration
	// Score is filled in by Rank.
	Score float64
}

// Rank orders candidates by descending total score, computing each
// partner's idle duration against now. The sort is stable: candidates
// with equal scores keep their input order; no secondary key breaks
// ties, so the input order decides who is offered first.
func Rank(candidates []Candidate, now time.Time) []Candidate {
	ranked := make([]Candidate, len(candidates))
	copy(ranked, candidates)
	for i := range ranked {
		p := ranked[i].Partner
		ranked[i].Score = TotalScore(ranked[i].DistanceMeters, now.Sub(p.IdleSince), p.Rating)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// TopK returns the first k ranked candidates (all of them when fewer).
func TopK(candidates []Candidate, k int) []Candidate {
	if k < 0 {
		k = 0
	}
	if k > len(candidates) {
		k = len(candidates)
	}
	return candidates[:k]
}
