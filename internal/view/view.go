package view

import (
	"sort"
	"strings"
	"time"

	"github.com/extramurs/matchday/internal/match"
)

const (
	// MaxLastResults bounds LastResults and Streak.
	MaxLastResults = 5
	// UrgentWithin is how close the next kickoff must be to flag it.
	UrgentWithin = 24 * time.Hour
	// LastPlaceMessage is shown while the team is bottom of the table.
	LastPlaceMessage = "¡Cada partido es una oportunidad para mejorar! 💪 La temporada recién empieza."
)

// View holds the derived fields rendered on the team page
type View struct {
	NextFixture         *match.Fixture  `json:"nextFixture"`
	PlayedFixtures      []match.Fixture `json:"playedFixtures"`
	LastResults         []match.Fixture `json:"lastResults"`
	Streak              []string        `json:"streak"`
	Rank                *int            `json:"rank"`
	TotalTeams          int             `json:"totalTeams"`
	MotivationalMessage *string         `json:"motivationalMessage"`
	IsUrgent            bool            `json:"isUrgent"`
}

// Options identifies the team and the reference time
type Options struct {
	TeamName      string
	FallbackMatch string // alternate substring for finding the team in the standings
	Now           time.Time
	Location      *time.Location // kickoff times are local to this zone
}

// Build derives the View. It never fails; missing inputs yield empty fields.
func Build(fixtures []match.Fixture, standings []match.Standing, opts Options) View {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	today := now.In(loc).Format(match.DateLayout)

	v := View{
		PlayedFixtures: make([]match.Fixture, 0),
		LastResults:    make([]match.Fixture, 0),
		Streak:         make([]string, 0),
		TotalTeams:     len(standings),
	}

	v.NextFixture = nextFixture(fixtures, today)

	for _, f := range fixtures {
		if f.Date != "" && f.Date < today {
			v.PlayedFixtures = append(v.PlayedFixtures, f)
		}
	}

	v.LastResults = lastResults(v.PlayedFixtures)
	for i := len(v.LastResults) - 1; i >= 0; i-- {
		v.Streak = append(v.Streak, v.LastResults[i].Result())
	}

	v.Rank = rank(standings, opts.TeamName, opts.FallbackMatch)
	if v.Rank != nil && *v.Rank == v.TotalTeams {
		msg := LastPlaceMessage
		v.MotivationalMessage = &msg
	}

	v.IsUrgent = IsUrgent(v.NextFixture, now, loc)
	return v
}

// nextFixture is the earliest unscored fixture dated today or later.
func nextFixture(fixtures []match.Fixture, today string) *match.Fixture {
	var upcoming []match.Fixture
	for _, f := range fixtures {
		if f.Date != "" && !f.HasScore() && f.Date >= today {
			upcoming = append(upcoming, f)
		}
	}
	if len(upcoming) == 0 {
		return nil
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		if upcoming[i].Date != upcoming[j].Date {
			return upcoming[i].Date < upcoming[j].Date
		}
		return upcoming[i].Time < upcoming[j].Time
	})
	next := upcoming[0]
	return &next
}

// lastResults is the newest scored fixtures, newest first.
func lastResults(played []match.Fixture) []match.Fixture {
	scored := make([]match.Fixture, 0, len(played))
	for _, f := range played {
		if f.HasScore() {
			scored = append(scored, f)
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Date > scored[j].Date
	})
	if len(scored) > MaxLastResults {
		scored = scored[:MaxLastResults]
	}
	return scored
}

// rank is the position of the first row naming the team.
func rank(standings []match.Standing, teamName, fallback string) *int {
	for _, s := range standings {
		if (teamName != "" && strings.Contains(s.Team, teamName)) ||
			(fallback != "" && strings.Contains(s.Team, fallback)) {
			r := s.Rank
			return &r
		}
	}
	return nil
}

// IsUrgent reports whether f kicks off less than UrgentWithin after now. A
// missing fixture or unparsable kickoff is never urgent.
func IsUrgent(f *match.Fixture, now time.Time, loc *time.Location) bool {
	if f == nil {
		return false
	}
	kickoff, ok := f.Kickoff(loc)
	if !ok {
		return false
	}
	return kickoff.Sub(now) < UrgentWithin
}
