// Package analytics derives coordination signals from a domain.Snapshot:
// feature coverage, duplicate-work ranking, shared-dependency risk and sprint
// load. Every function is pure and returns freshly allocated results, so a
// single snapshot can serve concurrent callers with different selections.
package analytics

import "github.com/lorrc/coordination-backend/internal/core/domain"

// FeatureCoverage describes which selected teams have work on a feature.
type FeatureCoverage struct {
	Feature       domain.Feature
	CoveringTeams []domain.TeamID
	GapTeams      []domain.TeamID
	Entries       []domain.AlignmentEntry
	IsMultiTeam   bool
	IssueCount    int
	StoryPoints   int
	OffTrackCount int
}

// AlignmentReport is the feature-by-team coverage matrix for a selection.
type AlignmentReport struct {
	Teams             []domain.TeamID
	Features          []FeatureCoverage
	TotalSlots        int
	FilledSlots       int
	GapCount          int
	OffTrackCount     int
	MultiTeamFeatures int
}

// CoverageRatio is FilledSlots / TotalSlots, or 0 when there are no slots.
func (r AlignmentReport) CoverageRatio() float64 {
	if r.TotalSlots == 0 {
		return 0
	}
	return float64(r.FilledSlots) / float64(r.TotalSlots)
}

// AnalyzeAlignment computes coverage for every feature in snapshot order.
// An empty selection yields zero slots and zero gaps.
func AnalyzeAlignment(snap *domain.Snapshot, sel domain.TeamSelection) AlignmentReport {
	teams := snap.SelectedTeams(sel)
	features := snap.Features()

	report := AlignmentReport{
		Teams:      teamIDs(teams),
		Features:   make([]FeatureCoverage, 0, len(features)),
		TotalSlots: len(teams) * len(features),
	}

	for _, f := range features {
		cov := coverFeature(snap, f, teams)
		report.Features = append(report.Features, cov)
		report.FilledSlots += len(cov.CoveringTeams)
		report.OffTrackCount += cov.OffTrackCount
		if cov.IsMultiTeam {
			report.MultiTeamFeatures++
		}
	}
	report.GapCount = report.TotalSlots - report.FilledSlots

	return report
}

// FeatureDetail computes coverage for a single feature.
func FeatureDetail(snap *domain.Snapshot, featureID domain.FeatureID, sel domain.TeamSelection) (FeatureCoverage, bool) {
	f, ok := snap.Feature(featureID)
	if !ok {
		return FeatureCoverage{}, false
	}
	return coverFeature(snap, f, snap.SelectedTeams(sel)), true
}

func coverFeature(snap *domain.Snapshot, f domain.Feature, teams []domain.Team) FeatureCoverage {
	cov := FeatureCoverage{
		Feature:       f,
		CoveringTeams: make([]domain.TeamID, 0, len(teams)),
		GapTeams:      make([]domain.TeamID, 0, len(teams)),
		Entries:       make([]domain.AlignmentEntry, 0, len(teams)),
	}

	for _, t := range teams {
		entry, ok := snap.Entry(t.ID, f.ID)
		if !ok {
			cov.GapTeams = append(cov.GapTeams, t.ID)
			continue
		}
		cov.CoveringTeams = append(cov.CoveringTeams, t.ID)
		cov.Entries = append(cov.Entries, entry)
		cov.IssueCount += entry.IssueCount
		cov.StoryPoints += entry.StoryPoints
		if entry.Status.IsOffTrack() {
			cov.OffTrackCount++
		}
	}
	cov.IsMultiTeam = len(cov.CoveringTeams) > 1

	return cov
}

func teamIDs(teams []domain.Team) []domain.TeamID {
	ids := make([]domain.TeamID, 0, len(teams))
	for _, t := range teams {
		ids = append(ids, t.ID)
	}
	return ids
}
