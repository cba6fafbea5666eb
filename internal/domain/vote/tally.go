package vote

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Standing is one row of a ranking
type Standing struct {
	OptionID uuid.UUID `json:"option_id"`
	Label    string    `json:"label"`
	Count    int       `json:"count"`
	Rank     int       `json:"rank"`
}

// Count returns how many participants currently vote for optionID.
// Counts are always derived from the ballots, never stored.
func Count(agg *Aggregate, optionID uuid.UUID, category Category) int {
	if agg == nil {
		return 0
	}
	n := 0
	for _, b := range agg.Participants {
		if b.Votes(category, optionID) {
			n++
		}
	}
	return n
}

// Rank orders every option of category by descending count. Ties keep the
// aggregate order: date order for time slots, creation order for venues.
// Tied options share a rank.
func Rank(agg *Aggregate, category Category) []Standing {
	if agg == nil {
		return []Standing{}
	}

	counts := countAll(agg, category)

	var standings []Standing
	switch category {
	case CategoryTimeSlot:
		standings = make([]Standing, 0, len(agg.TimeSlots))
		for _, s := range agg.TimeSlots {
			standings = append(standings, Standing{
				OptionID: s.ID,
				Label:    s.DateTime.UTC().Format(time.RFC3339),
				Count:    counts[s.ID],
			})
		}
	case CategoryVenue:
		standings = make([]Standing, 0, len(agg.Venues))
		for _, v := range agg.Venues {
			standings = append(standings, Standing{
				OptionID: v.ID,
				Label:    v.Name,
				Count:    counts[v.ID],
			})
		}
	default:
		return []Standing{}
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Count > standings[j].Count
	})

	for i := range standings {
		if i > 0 && standings[i].Count == standings[i-1].Count {
			standings[i].Rank = standings[i-1].Rank
		} else {
			standings[i].Rank = i + 1
		}
	}

	return standings
}

func countAll(agg *Aggregate, category Category) map[uuid.UUID]int {
	counts := make(map[uuid.UUID]int)
	for _, b := range agg.Participants {
		switch category {
		case CategoryTimeSlot:
			for _, v := range b.TimeSlotVotes {
				counts[v.TimeSlotID]++
			}
		case CategoryVenue:
			for _, v := range b.VenueVotes {
				counts[v.VenueID]++
			}
		}
	}
	return counts
}
