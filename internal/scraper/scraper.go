package scraper

import (
	"context"
	"fmt"

	"github.com/extramurs/matchday/internal/config"
	"github.com/extramurs/matchday/internal/match"
)

// Scraper fetches the team's federation pages and extracts their records
type Scraper struct {
	fetcher Fetcher
	cfg     *config.Config
	roster  *RosterExtractor
}

// New creates a new Scraper. roster may be nil when the squad page is not scraped.
func New(cfg *config.Config, fetcher Fetcher, roster *RosterExtractor) *Scraper {
	if fetcher == nil {
		fetcher = NewHTTPFetcher(FetcherConfigFrom(cfg.Scraping))
	}
	if roster == nil {
		roster = NewRosterExtractor(nil, nil)
	}
	return &Scraper{fetcher: fetcher, cfg: cfg, roster: roster}
}

// FetcherConfigFrom maps the scraping section onto an HTTPFetcher configuration.
func FetcherConfigFrom(s config.Scraping) FetcherConfig {
	return FetcherConfig{
		UserAgent:    s.UserAgent,
		Timeout:      s.PageTimeout,
		MaxRetries:   s.MaxRetries,
		RetryDelay:   s.RetryDelay,
		RequestDelay: s.RequestDelay,
	}
}

// FixtureOptionsFrom identifies the configured team for ExtractFixtures.
func FixtureOptionsFrom(cfg *config.Config) FixtureOptions {
	return FixtureOptions{
		TeamName:      cfg.Team.Name,
		TeamShortName: cfg.Team.ShortName,
		SeasonYear:    cfg.SeasonYear,
	}
}

// Fetcher returns the page fetcher in use.
func (s *Scraper) Fetcher() Fetcher {
	return s.fetcher
}

// FetchFixtures fetches the calendar page and extracts the team's fixtures.
func (s *Scraper) FetchFixtures(ctx context.Context) ([]match.Fixture, error) {
	page, err := s.fetcher.Fetch(ctx, s.cfg.CalendarURL())
	if err != nil {
		return nil, fmt.Errorf("fetching calendar: %w", err)
	}
	return ExtractFixtures(page, FixtureOptionsFrom(s.cfg)), nil
}

// FetchStandings fetches the league table.
func (s *Scraper) FetchStandings(ctx context.Context) ([]match.Standing, error) {
	page, err := s.fetcher.Fetch(ctx, s.cfg.StandingsURL())
	if err != nil {
		return nil, fmt.Errorf("fetching standings: %w", err)
	}
	return ExtractStandings(page), nil
}

// FetchRoster fetches the squad page. An unconfigured roster URL yields no players.
func (s *Scraper) FetchRoster(ctx context.Context) ([]match.Player, error) {
	if s.cfg.URLs.Roster == "" {
		return []match.Player{}, nil
	}
	page, err := s.fetcher.Fetch(ctx, s.cfg.RosterURL())
	if err != nil {
		return nil, fmt.Errorf("fetching roster: %w", err)
	}
	return s.roster.Extract(ctx, page), nil
}
