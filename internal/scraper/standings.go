package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/extramurs/matchday/internal/logger"
	"github.com/extramurs/matchday/internal/match"
	"github.com/extramurs/matchday/internal/metrics"
)

const (
	minStandingsCells = 10
	minStatCells      = 7
)

// ExtractStandings returns one Standing per well-formed table row, in document
// order. A missing table yields an empty slice; malformed rows are logged and skipped.
func ExtractStandings(html string) []match.Standing {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		logger.Warn("Could not parse standings page", logger.Fields{"error": err.Error()})
		return []match.Standing{}
	}

	standings := make([]match.Standing, 0)

	table := standingsTable(doc)
	if table.Length() == 0 {
		logger.Warn("Standings table not found", nil)
		return standings
	}
	tbody := table.Find("tbody").First()
	if tbody.Length() == 0 {
		logger.Warn("Standings table has no body", nil)
		return standings
	}

	standingsRows(tbody).Each(func(i int, row *goquery.Selection) {
		if row.Find("td").Length() < minStandingsCells {
			return
		}

		s, err := extractStandingRow(row)
		if err != nil {
			metrics.IncrCounter("standings.rows_skipped")
			logger.Warn("Skipping standings row", logger.Fields{"row": i, "error": err.Error()})
			return
		}
		standings = append(standings, s)
	})

	metrics.AddCounter("standings.extracted", len(standings))
	logger.Info("Standings extracted", logger.Fields{"count": len(standings)})
	return standings
}

func extractStandingRow(row *goquery.Selection) (s match.Standing, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic reading row: %v", r)
		}
	}()

	rank := rankCell(row)
	if rank.Length() == 0 {
		return s, fmt.Errorf("rank cell missing")
	}
	if s.Rank, err = atoi(rank); err != nil {
		return s, fmt.Errorf("rank: %w", err)
	}

	team := teamLink(row)
	if team.Length() == 0 {
		return s, fmt.Errorf("team link missing")
	}
	s.Team = text(team)

	stats := statCells(row)
	if stats.Length() < minStatCells {
		return s, fmt.Errorf("expected %d stat cells, found %d", minStatCells, stats.Length())
	}
	for i, dst := range []*int{&s.Played, &s.Won, &s.Drawn, &s.Lost} {
		if *dst, err = statValue(stats.Eq(i)); err != nil {
			return s, err
		}
	}

	points := pointsCell(row)
	if points.Length() == 0 {
		return s, fmt.Errorf("points cell missing")
	}
	if s.Points, err = atoi(points); err != nil {
		return s, fmt.Errorf("points: %w", err)
	}

	return s, nil
}

// statValue reads the first span of a stat cell; a cell without a span counts 0.
func statValue(cell *goquery.Selection) (int, error) {
	span := cell.Find("span").First()
	if span.Length() == 0 {
		return 0, nil
	}
	n, err := atoi(span)
	if err != nil {
		return 0, fmt.Errorf("stat %q is not a number", text(span))
	}
	return n, nil
}
