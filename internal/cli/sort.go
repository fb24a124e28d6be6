package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/extramurs/matchday/internal/match"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByDate     SortOrder = "date"
	SortByRound    SortOrder = "round"
	SortByOpponent SortOrder = "opponent"
)

// ParseSortOrder validates a --sort value.
func ParseSortOrder(s string) (SortOrder, error) {
	switch order := SortOrder(strings.ToLower(strings.TrimSpace(s))); order {
	case SortByDate, SortByRound, SortByOpponent:
		return order, nil
	case "":
		return SortByDate, nil
	default:
		return "", fmt.Errorf("invalid sort order: %s (must be 'date', 'round' or 'opponent')", s)
	}
}

// SortFixtures sorts fixtures in place. The sort is stable, so ties keep
// document order.
func SortFixtures(fixtures []match.Fixture, order SortOrder) {
	switch order {
	case SortByDate:
		sort.SliceStable(fixtures, func(i, j int) bool {
			return compareByDate(fixtures[i], fixtures[j])
		})
	case SortByRound:
		sort.SliceStable(fixtures, func(i, j int) bool {
			ri, rj := fixtures[i].Round, fixtures[j].Round
			if ri != nil && rj != nil && *ri != *rj {
				return *ri < *rj
			}
			if (ri == nil) != (rj == nil) {
				return ri != nil
			}
			return compareByDate(fixtures[i], fixtures[j])
		})
	case SortByOpponent:
		sort.SliceStable(fixtures, func(i, j int) bool {
			oi, oj := strings.ToLower(opponent(fixtures[i])), strings.ToLower(opponent(fixtures[j]))
			if oi != oj {
				return oi < oj
			}
			return compareByDate(fixtures[i], fixtures[j])
		})
	}
}

// compareByDate reports whether i kicks off before j. Fixtures without a date
// go last.
func compareByDate(i, j match.Fixture) bool {
	if i.Date == "" || j.Date == "" {
		return i.Date != "" && j.Date == ""
	}
	if i.Date != j.Date {
		return i.Date < j.Date
	}
	return i.Time < j.Time
}

func opponent(f match.Fixture) string {
	if f.IsHome {
		return f.Away
	}
	return f.Home
}
