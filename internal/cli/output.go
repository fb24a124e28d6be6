package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/extramurs/matchday/internal/calendar"
	"github.com/extramurs/matchday/internal/config"
	"github.com/extramurs/matchday/internal/match"
	"github.com/extramurs/matchday/internal/pipeline"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// Summary contains what a command reports
type Summary struct {
	CheckedAt           time.Time             `json:"checked_at"`
	Team                string                `json:"team"`
	Group               string                `json:"group,omitempty"`
	NextFixture         *match.Fixture        `json:"next_fixture"`
	IsUrgent            bool                  `json:"is_urgent"`
	Streak              []string              `json:"streak"`
	Rank                *int                  `json:"rank"`
	TotalTeams          int                   `json:"total_teams"`
	MotivationalMessage *string               `json:"motivational_message,omitempty"`
	Fixtures            []match.Fixture       `json:"fixtures"`
	Played              int                   `json:"played"`
	RosterSize          int                   `json:"roster_size"`
	JerseysAssigned     int                   `json:"jerseys_assigned"`
	NewResults          []match.Fixture       `json:"new_results,omitempty"`
	Rescheduled         []match.FixtureChange `json:"rescheduled,omitempty"`
	Added               int                   `json:"added,omitempty"`
	Files               []string              `json:"files,omitempty"`
	CalendarURL         string                `json:"calendar_url,omitempty"`
	WebcalURL           string                `json:"webcal_url,omitempty"`
	GoogleCalendarURL   string                `json:"google_calendar_url,omitempty"`
	Metrics             map[string]any        `json:"metrics,omitempty"`
}

// NewSummary summarizes a pipeline result.
func NewSummary(cfg *config.Config, r *pipeline.Result, checkedAt time.Time) *Summary {
	s := &Summary{
		CheckedAt:           checkedAt,
		Team:                cfg.Team.Name,
		Group:               cfg.Team.Group,
		NextFixture:         r.View.NextFixture,
		IsUrgent:            r.View.IsUrgent,
		Streak:              r.View.Streak,
		Rank:                r.View.Rank,
		TotalTeams:          r.View.TotalTeams,
		MotivationalMessage: r.View.MotivationalMessage,
		Fixtures:            append([]match.Fixture(nil), r.Fixtures...),
		Played:              len(r.View.PlayedFixtures),
		RosterSize:          len(r.Roster),
	}
	for _, p := range r.Roster {
		if p.JerseyNumber != "" {
			s.JerseysAssigned++
		}
	}
	if cfg.Site.BaseURL != "" {
		feed := cfg.CalendarFeedURL()
		s.CalendarURL = feed
		s.WebcalURL = calendar.WebcalURL(feed)
		s.GoogleCalendarURL = calendar.GoogleCalendarURL(feed)
	}
	return s
}

// WriteOutput writes the summary in the specified format
func WriteOutput(w io.Writer, s *Summary, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, s)
	case FormatText:
		return writeText(w, s, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs the summary as JSON
func writeJSON(w io.Writer, s *Summary) error {
	encoder := sonic.ConfigDefault.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(s)
}

// writeText outputs the summary as human-readable text
func writeText(w io.Writer, s *Summary, verbose bool) error {
	fmt.Fprintf(w, "%s", s.Team)
	if s.Group != "" {
		fmt.Fprintf(w, " (%s)", s.Group)
	}
	fmt.Fprintln(w)

	if s.Rank != nil {
		fmt.Fprintf(w, "Position: %d of %d\n", *s.Rank, s.TotalTeams)
	}
	if len(s.Streak) > 0 {
		fmt.Fprintf(w, "Streak: %s\n", strings.Join(s.Streak, " "))
	}
	if s.MotivationalMessage != nil {
		fmt.Fprintln(w, *s.MotivationalMessage)
	}

	if s.NextFixture == nil {
		fmt.Fprintln(w, "No upcoming fixture.")
	} else {
		prefix := "Next"
		if s.IsUrgent {
			prefix = "NEXT (within 24h)"
		}
		fmt.Fprintf(w, "%s: %s\n", prefix, fixtureLine(*s.NextFixture))
	}

	for _, f := range s.NewResults {
		fmt.Fprintf(w, "RESULT: %s\n", fixtureLine(f))
	}
	for _, c := range s.Rescheduled {
		fmt.Fprintf(w, "CHANGED %s: %s -> %s (%s vs %s)\n", c.ChangeType, c.OldValue, c.NewValue, c.Fixture.Home, c.Fixture.Away)
	}

	if verbose {
		fmt.Fprintln(w, "\nFixtures:")
		for _, f := range s.Fixtures {
			fmt.Fprintf(w, "  %s\n", fixtureLine(f))
		}
		if s.WebcalURL != "" {
			fmt.Fprintf(w, "\nSubscribe: %s\n", s.WebcalURL)
			fmt.Fprintf(w, "Google:    %s\n", s.GoogleCalendarURL)
		}
		for _, path := range s.Files {
			fmt.Fprintf(w, "Wrote %s\n", path)
		}
	}

	fmt.Fprintf(w, "\nTotal: %d fixtures, %d played, %d players (%d with number)\n",
		len(s.Fixtures), s.Played, s.RosterSize, s.JerseysAssigned)
	return nil
}

// fixtureLine renders one fixture on a single line.
func fixtureLine(f match.Fixture) string {
	var b strings.Builder
	if f.Round != nil {
		fmt.Fprintf(&b, "J%d ", *f.Round)
	}
	when := f.Date
	if when == "" {
		when = "sin fecha"
	}
	if f.Time != "" {
		when += " " + f.Time
	}
	b.WriteString(when)
	b.WriteString("  ")
	b.WriteString(f.Home)
	if f.HasScore() {
		fmt.Fprintf(&b, " %s ", f.Score)
	} else {
		b.WriteString(" - ")
	}
	b.WriteString(f.Away)
	if f.Venue != "" {
		fmt.Fprintf(&b, " @ %s", f.Venue)
	}
	return b.String()
}
