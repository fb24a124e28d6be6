package jersey

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/extramurs/matchday/internal/logger"
	"github.com/extramurs/matchday/internal/match"
	"github.com/extramurs/matchday/internal/metrics"
	"golang.org/x/net/html"
	"golang.org/x/time/rate"
)

const (
	numberStyle = "color: #ffa500"

	// DefaultMaxMatches is how many played matches are sampled.
	DefaultMaxMatches = 3
	// DefaultDelay spaces match-page requests.
	DefaultDelay = 2 * time.Second
)

// Fetcher returns the markup of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// MatchURLFunc builds a match detail URL. round may be nil.
type MatchURLFunc func(matchID string, round *int) string

// ExtractAnnotations returns the name to number annotations of one match page,
// in document order. A repeated name keeps its last number.
func ExtractAnnotations(page string) *match.JerseyMap {
	numbers := match.NewJerseyMap()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		logger.Warn("Could not parse match page", logger.Fields{"error": err.Error()})
		return numbers
	}

	doc.Find("span").Each(func(_ int, span *goquery.Selection) {
		style, ok := span.Attr("style")
		if !ok || !strings.Contains(style, numberStyle) {
			return
		}
		number := strings.TrimSpace(span.Text())
		if !isDigits(number) {
			return
		}
		name := followingText(span)
		if name == "" {
			return
		}
		numbers.Set(name, number)
	})

	logger.Debug("Jersey numbers extracted", logger.Fields{"count": numbers.Len()})
	return numbers
}

// followingText returns the trimmed text node directly after sel, or "".
func followingText(sel *goquery.Selection) string {
	if len(sel.Nodes) == 0 {
		return ""
	}
	next := sel.Nodes[0].NextSibling
	if next == nil || next.Type != html.TextNode {
		return ""
	}
	return strings.TrimSpace(next.Data)
}

// Gatherer collects jersey numbers from recent match pages.
type Gatherer struct {
	fetcher    Fetcher
	matchURL   MatchURLFunc
	maxMatches int
	limiter    *rate.Limiter
}

// NewGatherer creates a Gatherer. maxMatches <= 0 uses DefaultMaxMatches and
// delay < 0 uses DefaultDelay; a zero delay disables spacing.
func NewGatherer(fetcher Fetcher, matchURL MatchURLFunc, maxMatches int, delay time.Duration) *Gatherer {
	if maxMatches <= 0 {
		maxMatches = DefaultMaxMatches
	}
	if delay < 0 {
		delay = DefaultDelay
	}
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Gatherer{
		fetcher:    fetcher,
		matchURL:   matchURL,
		maxMatches: maxMatches,
		limiter:    rate.NewLimiter(limit, 1),
	}
}

// Sample returns the fixtures whose pages are scraped: the last maxMatches
// fixtures, by input position, that have both a score and a match id.
func Sample(fixtures []match.Fixture, maxMatches int) []match.Fixture {
	var played []match.Fixture
	for _, f := range fixtures {
		if f.HasScore() && f.MatchID != "" {
			played = append(played, f)
		}
	}
	if len(played) > maxMatches {
		played = played[len(played)-maxMatches:]
	}
	return played
}

// Gather fetches the sampled match pages one at a time and merges their
// annotations; later matches overwrite earlier ones. A match that cannot be
// fetched is logged and skipped.
func (g *Gatherer) Gather(ctx context.Context, fixtures []match.Fixture) *match.JerseyMap {
	numbers := match.NewJerseyMap()
	processed := 0

	for _, f := range Sample(fixtures, g.maxMatches) {
		if err := g.limiter.Wait(ctx); err != nil {
			logger.Warn("Stopping jersey gathering", logger.Fields{"error": err.Error()})
			break
		}

		logger.Info("Scraping match sheet", logger.Fields{"match": f.MatchID, "home": f.Home, "away": f.Away})
		page, err := g.fetcher.Fetch(ctx, g.matchURL(f.MatchID, f.Round))
		if err != nil {
			metrics.IncrCounter("jersey.matches_failed")
			logger.Warn("Skipping match sheet", logger.Fields{"match": f.MatchID, "error": err.Error()})
			continue
		}

		numbers.Merge(ExtractAnnotations(page))
		processed++
	}

	metrics.SetGauge("jersey.numbers", float64(numbers.Len()))
	logger.Info("Jersey numbers gathered", logger.Fields{"matches": processed, "players": numbers.Len()})
	return numbers
}

// Assign returns a copy of roster with jersey numbers filled in. For each
// player the map is scanned in order and the first entry matching either by
// full name or by surname is taken. An entry assigns at most one player.
// Players without a match keep their current number.
func Assign(roster []match.Player, numbers *match.JerseyMap) []match.Player {
	out := make([]match.Player, len(roster))
	copy(out, roster)

	entries := numbers.Entries()
	used := make([]bool, len(entries))
	assigned := 0

	for i := range out {
		name := strings.ToUpper(strings.TrimSpace(out[i].Name))
		if name == "" {
			continue
		}
		surname := firstToken(name)

		for j, e := range entries {
			if used[j] {
				continue
			}
			raw := strings.ToUpper(strings.TrimSpace(e.Name))
			if raw == name || surname == rawSurname(raw) {
				out[i].JerseyNumber = e.Number
				used[j] = true
				assigned++
				logger.Debug("Jersey number assigned", logger.Fields{"player": out[i].Name, "raw": e.Name, "number": e.Number})
				break
			}
		}
	}

	logger.Info("Jersey numbers assigned", logger.Fields{"assigned": assigned, "players": len(out)})
	return out
}

// rawSurname is the text before the first comma, or the first word.
func rawSurname(raw string) string {
	if before, _, ok := strings.Cut(raw, ","); ok {
		return strings.TrimSpace(before)
	}
	return firstToken(raw)
}

func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
