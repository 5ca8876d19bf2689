package analytics

import (
	"sort"

	"github.com/lorrc/coordination-backend/internal/core/domain"
)

// Score breakpoints for duplicate tiers. Lower bounds are inclusive.
const (
	CriticalScoreThreshold = 0.85
	HighScoreThreshold     = 0.75
)

// ClassifyTier buckets a similarity score into a review tier.
func ClassifyTier(score float64) domain.DuplicateTier {
	switch {
	case score >= CriticalScoreThreshold:
		return domain.TierCritical
	case score >= HighScoreThreshold:
		return domain.TierHigh
	default:
		return domain.TierPossible
	}
}

// FilterVisible returns the candidates whose two work items both belong to
// selected teams and that have not been dismissed, highest score first.
// Equal scores keep their input order.
func FilterVisible(candidates []domain.DuplicateCandidate, sel domain.TeamSelection, dismissed domain.DismissedSet) []domain.DuplicateCandidate {
	visible := make([]domain.DuplicateCandidate, 0, len(candidates))
	for _, c := range candidates {
		if !sel.Contains(c.IssueA.TeamID) || !sel.Contains(c.IssueB.TeamID) {
			continue
		}
		if dismissed.Has(c.ID) {
			continue
		}
		visible = append(visible, c)
	}

	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].Score > visible[j].Score
	})

	return visible
}

// DuplicateSummary counts visible candidates per tier.
type DuplicateSummary struct {
	Critical int
	High     int
	Possible int
	Total    int
}

// Summarize counts candidates per tier.
func Summarize(visible []domain.DuplicateCandidate) DuplicateSummary {
	var s DuplicateSummary
	for _, c := range visible {
		switch ClassifyTier(c.Score) {
		case domain.TierCritical:
			s.Critical++
		case domain.TierHigh:
			s.High++
		default:
			s.Possible++
		}
	}
	s.Total = len(visible)
	return s
}

// RankedCandidate is a visible candidate annotated with its tier.
type RankedCandidate struct {
	domain.DuplicateCandidate
	Tier      domain.DuplicateTier
	CrossTeam bool
}

// DuplicateReport is the ranked review queue for a selection.
type DuplicateReport struct {
	Candidates []RankedCandidate
	Summary    DuplicateSummary
	// Reviewed counts dismissed candidates that would otherwise be visible.
	Reviewed int
}

// RankDuplicates filters, ranks and tiers the snapshot's candidates.
func RankDuplicates(snap *domain.Snapshot, sel domain.TeamSelection, dismissed domain.DismissedSet) DuplicateReport {
	all := snap.Duplicates()
	visible := FilterVisible(all, sel, dismissed)

	report := DuplicateReport{
		Candidates: make([]RankedCandidate, 0, len(visible)),
		Summary:    Summarize(visible),
		Reviewed:   len(FilterVisible(all, sel, nil)) - len(visible),
	}
	for _, c := range visible {
		report.Candidates = append(report.Candidates, RankedCandidate{
			DuplicateCandidate: c,
			Tier:               ClassifyTier(c.Score),
			CrossTeam:          c.IsCrossTeam(),
		})
	}

	return report
}
