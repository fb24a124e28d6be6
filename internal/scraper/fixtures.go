package scraper

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/extramurs/matchday/internal/logger"
	"github.com/extramurs/matchday/internal/match"
	"github.com/extramurs/matchday/internal/metrics"
)

const (
	// MapsSearchURL is the map-search template; the query is appended percent-encoded.
	MapsSearchURL = "https://www.google.com/maps/search/?api=1&query="
	// MapsRegion is appended to venue names to disambiguate the search.
	MapsRegion = "Valencia, España"
)

// FixtureOptions identifies the tracked team on the fixtures page
type FixtureOptions struct {
	TeamName      string
	TeamShortName string
	SeasonYear    int
}

// ExtractFixtures returns one Fixture per table row that mentions the team, in
// document order. Rows without a two-link teams cell are skipped silently; any
// other per-row failure is logged and the row skipped.
func ExtractFixtures(html string, opts FixtureOptions) []match.Fixture {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		logger.Warn("Could not parse fixtures page", logger.Fields{"error": err.Error()})
		return []match.Fixture{}
	}

	fixtures := make([]match.Fixture, 0)
	doc.Find("tr").Each(func(i int, row *goquery.Selection) {
		if !rowMentionsTeam(row, opts.TeamName, opts.TeamShortName) {
			return
		}

		f, ok, err := extractFixtureRow(row, opts)
		if err != nil {
			metrics.IncrCounter("fixtures.rows_skipped")
			logger.Warn("Skipping fixture row", logger.Fields{"row": i, "error": err.Error()})
			return
		}
		if !ok {
			return
		}

		fixtures = append(fixtures, f)
		logger.Debug("Fixture extracted", logger.Fields{"home": f.Home, "away": f.Away, "date": f.Date, "time": f.Time})
	})

	metrics.AddCounter("fixtures.extracted", len(fixtures))
	logger.Info("Fixtures extracted", logger.Fields{"count": len(fixtures)})
	return fixtures
}

// extractFixtureRow reads one row. ok is false when the row has no teams cell.
func extractFixtureRow(row *goquery.Selection, opts FixtureOptions) (f match.Fixture, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			err = fmt.Errorf("panic reading row: %v", r)
		}
	}()

	teams := teamsCell(row)
	if teams.Length() == 0 {
		return match.Fixture{}, false, nil
	}

	links := teams.Find("a")
	f.Home = text(links.Eq(0))
	f.Away = text(links.Eq(1))

	href := links.Eq(0).AttrOr("href", "")
	if r := submatch(roundParam, href); r != "" {
		if n, convErr := strconv.Atoi(r); convErr == nil {
			f.Round = &n
		}
	}
	f.MatchID = submatch(matchIDParam, href)

	f.Score = extractScore(row)
	f.Date, f.Time = extractKickoff(row, opts.SeasonYear)

	f.Venue = collapse(venueCell(row).Text())
	f.MapsURL = MapsURL(f.Venue)

	f.IsHome = (opts.TeamName != "" && strings.Contains(f.Home, opts.TeamName)) ||
		(opts.TeamShortName != "" && strings.Contains(f.Home, opts.TeamShortName))
	f.Won = f.Outcome()

	return f, true, nil
}

// extractScore composes "home-away" from the result cell's first two spans when
// both are numeric.
func extractScore(row *goquery.Selection) string {
	spans := resultCell(row).Find("span")
	if spans.Length() < 2 {
		return ""
	}
	home := text(spans.Eq(0))
	away := text(spans.Eq(1))
	if !isDigits(home) || !isDigits(away) {
		return ""
	}
	return home + "-" + away
}

// extractKickoff reads the date and time blocks. The time is kept verbatim.
func extractKickoff(row *goquery.Selection, seasonYear int) (date, kickoff string) {
	divs := dateCell(row).Find("div")
	if divs.Length() < 2 {
		return "", ""
	}
	date = match.FormatDate(match.ParseDate(text(divs.Eq(0)), seasonYear))
	kickoff = text(divs.Eq(1))
	return date, kickoff
}

// MapsURL builds a map-search link for venue, or "" when venue is empty.
func MapsURL(venue string) string {
	if venue == "" {
		return ""
	}
	q := url.QueryEscape(venue + ", " + MapsRegion)
	return MapsSearchURL + strings.ReplaceAll(q, "+", "%20")
}
