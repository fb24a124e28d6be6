package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/extramurs/matchday/internal/calendar"
	"github.com/extramurs/matchday/internal/config"
	"github.com/extramurs/matchday/internal/jersey"
	"github.com/extramurs/matchday/internal/logger"
	"github.com/extramurs/matchday/internal/match"
	"github.com/extramurs/matchday/internal/metrics"
	"github.com/extramurs/matchday/internal/photo"
	"github.com/extramurs/matchday/internal/scraper"
	"github.com/extramurs/matchday/internal/storage"
	"github.com/extramurs/matchday/internal/view"
)

// Deps are the collaborators of a run
type Deps struct {
	Config    *config.Config
	Fetcher   scraper.Fetcher    // nil builds an HTTPFetcher from Config
	Photos    scraper.PhotoStore // nil skips photos
	Processor photo.Processor    // nil stores photos unchanged
	Now       time.Time          // zero means time.Now
}

// Result is everything a run produces
type Result struct {
	Fixtures  []match.Fixture
	Standings []match.Standing
	Roster    []match.Player
	Jerseys   *match.JerseyMap
	View      view.View
	Snapshot  *storage.Snapshot
	Calendar  string
}

// Run performs a full online scrape.
func Run(ctx context.Context, deps Deps) (*Result, error) {
	cfg := deps.Config
	if cfg == nil {
		return nil, fmt.Errorf("pipeline: config is required")
	}
	now := deps.Now
	if now.IsZero() {
		now = time.Now()
	}

	fetcher := deps.Fetcher
	if fetcher == nil {
		fetcher = scraper.NewHTTPFetcher(scraper.FetcherConfigFrom(cfg.Scraping))
	}
	s := scraper.New(cfg, fetcher, scraper.NewRosterExtractor(deps.Photos, deps.Processor))

	res := &Result{}

	logger.Info("Fetching fixtures", logger.Fields{"url": cfg.CalendarURL()})
	err := timed("pipeline.fixtures", func() (err error) {
		res.Fixtures, err = s.FetchFixtures(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Fetching standings", logger.Fields{"url": cfg.StandingsURL()})
	_ = timed("pipeline.standings", func() (err error) {
		res.Standings, err = s.FetchStandings(ctx)
		if err != nil {
			logger.Warn("Standings unavailable", logger.Fields{"error": err.Error()})
			res.Standings = []match.Standing{}
		}
		return nil
	})

	logger.Info("Fetching roster", logger.Fields{"url": cfg.RosterURL()})
	_ = timed("pipeline.roster", func() (err error) {
		res.Roster, err = s.FetchRoster(ctx)
		if err != nil {
			logger.Warn("Roster unavailable", logger.Fields{"error": err.Error()})
			res.Roster = []match.Player{}
		}
		return nil
	})

	res.Jerseys = match.NewJerseyMap()
	if cfg.URLs.Match != "" && len(res.Roster) > 0 && cfg.Scraping.JerseyMatches > 0 {
		_ = timed("pipeline.jerseys", func() error {
			g := jersey.NewGatherer(fetcher, cfg.MatchURL, cfg.Scraping.JerseyMatches, cfg.Scraping.RequestDelay)
			res.Jerseys = g.Gather(ctx, res.Fixtures)
			return nil
		})
	}

	res.derive(cfg, now)
	return res, nil
}

// Pages holds already-fetched markup for Parse. Empty pages are skipped.
type Pages struct {
	Calendar  string
	Standings string
	Roster    string
	Matches   []string // match sheets, oldest first
}

// Parse runs the extractors over local markup.
func Parse(cfg *config.Config, pages Pages, now time.Time) *Result {
	if now.IsZero() {
		now = time.Now()
	}

	res := &Result{
		Fixtures:  []match.Fixture{},
		Standings: []match.Standing{},
		Roster:    []match.Player{},
		Jerseys:   match.NewJerseyMap(),
	}
	if pages.Calendar != "" {
		res.Fixtures = scraper.ExtractFixtures(pages.Calendar, scraper.FixtureOptionsFrom(cfg))
	}
	if pages.Standings != "" {
		res.Standings = scraper.ExtractStandings(pages.Standings)
	}
	if pages.Roster != "" {
		res.Roster = scraper.NewRosterExtractor(nil, nil).Extract(context.Background(), pages.Roster)
	}
	for _, sheet := range pages.Matches {
		res.Jerseys.Merge(jersey.ExtractAnnotations(sheet))
	}

	res.derive(cfg, now)
	return res
}

// derive fills the jersey numbers, view, snapshot and calendar feed.
func (r *Result) derive(cfg *config.Config, now time.Time) {
	loc := cfg.Location()

	if r.Jerseys.Len() > 0 {
		r.Roster = jersey.Assign(r.Roster, r.Jerseys)
	}

	r.View = view.Build(r.Fixtures, r.Standings, view.Options{
		TeamName:      cfg.Team.Name,
		FallbackMatch: cfg.Team.FallbackMatch,
		Now:           now,
		Location:      loc,
	})

	r.Snapshot = &storage.Snapshot{
		Team:        cfg.Team.Name,
		Group:       cfg.Team.Group,
		LastUpdated: now.In(loc).Format(time.RFC3339),
		NextFixture: r.View.NextFixture,
		LastResults: r.View.LastResults,
		Standings:   r.Standings,
		AllFixtures: r.Fixtures,
		Roster:      r.Roster,
	}

	r.Calendar = calendar.GenerateFeed(r.Fixtures, calendar.FeedOptions{
		Name:     cfg.Team.Name,
		Location: loc,
		Now:      now,
	})

	metrics.SetGauge("fixtures.total", float64(len(r.Fixtures)))
	metrics.SetGauge("fixtures.played", float64(len(r.View.PlayedFixtures)))
	metrics.SetGauge("standings.teams", float64(len(r.Standings)))
	metrics.SetGauge("roster.players", float64(len(r.Roster)))
	if r.View.Rank != nil {
		metrics.SetGauge("standings.rank", float64(*r.View.Rank))
	}
}

func timed(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.RecordTiming(name, time.Since(start))
	return err
}
