package match

import (
	"strconv"
	"strings"
	"time"
)

const (
	// DateLayout is the canonical ISO calendar date stored in Fixture.Date.
	DateLayout = "2006-01-02"
	// KickoffLayout combines Fixture.Date and Fixture.Time.
	KickoffLayout = "2006-01-02 15:04"
)

// Fixture is one scheduled or played match involving the tracked team
type Fixture struct {
	Round   *int   `json:"round"`
	MatchID string `json:"matchId,omitempty"`
	Date    string `json:"date,omitempty"`
	Time    string `json:"time,omitempty"`
	Home    string `json:"home"`
	Away    string `json:"away"`
	Venue   string `json:"venue"`
	Score   string `json:"score,omitempty"`
	IsHome  bool   `json:"isHome"`
	Won     *bool  `json:"won"`
	MapsURL string `json:"mapsUrl,omitempty"`
}

// HasScore reports whether a result was scraped for the fixture.
func (f Fixture) HasScore() bool {
	return f.Score != ""
}

// Day returns the fixture's calendar date. ok is false when Date is absent or malformed.
func (f Fixture) Day() (time.Time, bool) {
	if f.Date == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, f.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Kickoff combines Date and Time in loc. ok is false when either is missing or unparsable.
func (f Fixture) Kickoff(loc *time.Location) (time.Time, bool) {
	if f.Date == "" || f.Time == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(KickoffLayout, f.Date+" "+strings.TrimSpace(f.Time), loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Goals splits Score into home and away goals.
func (f Fixture) Goals() (home, away int, ok bool) {
	parts := strings.Split(f.Score, "-")
	if len(parts) != 2 {
		return 0, 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	a, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return h, a, true
}

// Outcome computes Won from Score and IsHome. A draw counts as not won, matching
// the federation feed, so nil only means there is no usable score.
func (f Fixture) Outcome() *bool {
	home, away, ok := f.Goals()
	if !ok {
		return nil
	}
	won := away > home
	if f.IsHome {
		won = home > away
	}
	return &won
}

// Result maps Won to a streak letter.
func (f Fixture) Result() string {
	switch {
	case f.Won == nil:
		return "D"
	case *f.Won:
		return "W"
	default:
		return "L"
	}
}

// Key identifies a fixture across runs: the match id when known, else the pairing.
func (f Fixture) Key() string {
	if f.MatchID != "" {
		return f.MatchID
	}
	return f.Home + "|" + f.Away
}

// Standing is one team's ranked record within a league table snapshot
type Standing struct {
	Rank   int    `json:"rank"`
	Team   string `json:"team"`
	Points int    `json:"points"`
	Played int    `json:"played"`
	Won    int    `json:"won"`
	Drawn  int    `json:"drawn"`
	Lost   int    `json:"lost"`
}

// Player is one roster entry
type Player struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	PhotoRef     string `json:"photoRef,omitempty"`
	JerseyNumber string `json:"jerseyNumber,omitempty"`
}
