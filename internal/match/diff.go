package match

import (
	"sort"
)

// Change types reported by DetectChanges
const (
	ChangeNew    = "new"
	ChangeResult = "result"
	ChangeDate   = "date"
	ChangeTime   = "time"
	ChangeVenue  = "venue"
)

// FixtureChange represents a change detected in a fixture between two runs
type FixtureChange struct {
	Key        string  `json:"key"`
	ChangeType string  `json:"change_type"`
	OldValue   string  `json:"old_value"`
	NewValue   string  `json:"new_value"`
	Fixture    Fixture `json:"fixture"`
}

// DiffResult contains the results of comparing two fixture lists
type DiffResult struct {
	NewResults  []Fixture       // fixtures that gained a score since the previous run
	Rescheduled []FixtureChange // date, time or venue changes
	Added       []Fixture       // fixtures not present in the previous run
}

// HasChanges reports whether anything worth announcing changed.
func (d *DiffResult) HasChanges() bool {
	return len(d.NewResults) > 0 || len(d.Rescheduled) > 0 || len(d.Added) > 0
}

// DetectChanges compares two versions of the same fixture. previous may be nil.
func DetectChanges(previous *Fixture, current Fixture) []FixtureChange {
	key := current.Key()

	if previous == nil {
		return []FixtureChange{{Key: key, ChangeType: ChangeNew, NewValue: current.Home + " - " + current.Away, Fixture: current}}
	}

	var changes []FixtureChange
	add := func(kind, oldValue, newValue string) {
		if oldValue != newValue {
			changes = append(changes, FixtureChange{Key: key, ChangeType: kind, OldValue: oldValue, NewValue: newValue, Fixture: current})
		}
	}

	if !previous.HasScore() && current.HasScore() {
		add(ChangeResult, "", current.Score)
	}
	// An unset date or time on the new side is a scrape gap, not a reschedule.
	if current.Date != "" {
		add(ChangeDate, previous.Date, current.Date)
	}
	if current.Time != "" {
		add(ChangeTime, previous.Time, current.Time)
	}
	if current.Venue != "" {
		add(ChangeVenue, previous.Venue, current.Venue)
	}

	return changes
}

// Diff compares the current fixtures against the previous run's fixtures.
func Diff(previous, current []Fixture) *DiffResult {
	result := &DiffResult{}

	prevByKey := make(map[string]Fixture, len(previous))
	for _, f := range previous {
		prevByKey[f.Key()] = f
	}

	for _, cur := range current {
		var prev *Fixture
		if p, ok := prevByKey[cur.Key()]; ok {
			prev = &p
		}

		for _, change := range DetectChanges(prev, cur) {
			switch change.ChangeType {
			case ChangeNew:
				result.Added = append(result.Added, cur)
			case ChangeResult:
				result.NewResults = append(result.NewResults, cur)
			default:
				// Only unplayed fixtures count as rescheduled.
				if !cur.HasScore() {
					result.Rescheduled = append(result.Rescheduled, change)
				}
			}
		}
	}

	// Sort results by date for consistent output
	sort.SliceStable(result.NewResults, func(i, j int) bool {
		return result.NewResults[i].Date < result.NewResults[j].Date
	})

	return result
}
