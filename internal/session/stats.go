// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"sort"

	"github.com/pdiddy/litreview/pkg/types"
)

// VenueCount pairs a venue name with how many papers appeared there.
type VenueCount struct {
	Venue string
	Count int
}

// Stats summarizes a set of papers for the stats panel.
type Stats struct {
	TotalPapers    int
	MeanYear       float64
	TotalCitations int
	PapersPerYear  map[int]int
	TopVenues      []VenueCount
}

// topVenueLimit caps the venue ranking length.
const topVenueLimit = 5

// ComputeStats aggregates counts over papers. Papers with an unknown year
// (zero) are excluded from the year statistics; papers with no venue are
// excluded from the venue ranking.
func ComputeStats(papers []types.PaperRecord) Stats {
	stats := Stats{
		TotalPapers:   len(papers),
		PapersPerYear: make(map[int]int),
	}

	yearSum := 0
	yearCount := 0
	venues := make(map[string]int)

	for _, p := range papers {
		stats.TotalCitations += p.CitationCount
		if p.Year > 0 {
			stats.PapersPerYear[p.Year]++
			yearSum += p.Year
			yearCount++
		}
		if p.Venue != "" {
			venues[p.Venue]++
		}
	}

	if yearCount > 0 {
		stats.MeanYear = float64(yearSum) / float64(yearCount)
	}

	for venue, count := range venues {
		stats.TopVenues = append(stats.TopVenues, VenueCount{Venue: venue, Count: count})
	}
	sort.Slice(stats.TopVenues, func(i, j int) bool {
		if stats.TopVenues[i].Count != stats.TopVenues[j].Count {
			return stats.TopVenues[i].Count > stats.TopVenues[j].Count
		}
		return stats.TopVenues[i].Venue < stats.TopVenues[j].Venue
	})
	if len(stats.TopVenues) > topVenueLimit {
		stats.TopVenues = stats.TopVenues[:topVenueLimit]
	}

	return stats
}
