package scraper

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/extramurs/matchday/internal/logger"
	"github.com/extramurs/matchday/internal/match"
	"github.com/extramurs/matchday/internal/metrics"
	"github.com/extramurs/matchday/internal/photo"
	"golang.org/x/net/html"
)

const dataURIPrefix = "data:image"

// PhotoStore persists processed player photos keyed by player id.
type PhotoStore interface {
	Exists(playerID string) bool
	Ref(playerID string) string
	Save(playerID string, data []byte) (string, error)
}

// RosterExtractor reads player cards and stores their photos. Photos already
// present in the store are never reprocessed.
type RosterExtractor struct {
	store     PhotoStore
	processor photo.Processor
}

// NewRosterExtractor creates a RosterExtractor. A nil store disables photos; a
// nil processor stores photos unchanged.
func NewRosterExtractor(store PhotoStore, processor photo.Processor) *RosterExtractor {
	if processor == nil {
		processor = photo.Noop{}
	}
	return &RosterExtractor{store: store, processor: processor}
}

// Extract returns one Player per valid card, in document order.
func (r *RosterExtractor) Extract(ctx context.Context, page string) []match.Player {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		logger.Warn("Could not parse roster page", logger.Fields{"error": err.Error()})
		return []match.Player{}
	}

	players := make([]match.Player, 0)
	rosterCards(doc).Each(func(i int, card *goquery.Selection) {
		p, err := r.extractCard(ctx, card)
		if err != nil {
			metrics.IncrCounter("roster.cards_skipped")
			logger.Warn("Skipping roster card", logger.Fields{"card": i, "error": err.Error()})
			return
		}
		players = append(players, p)
	})

	metrics.AddCounter("roster.extracted", len(players))
	logger.Info("Roster extracted", logger.Fields{"count": len(players)})
	return players
}

func (r *RosterExtractor) extractCard(ctx context.Context, card *goquery.Selection) (p match.Player, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic reading card: %v", rec)
		}
	}()

	heading := card.Find("h4").First()
	if heading.Length() == 0 {
		return p, fmt.Errorf("name heading missing")
	}
	p.Name = headingName(heading)
	if p.Name == "" {
		return p, fmt.Errorf("name heading empty")
	}

	href := card.AttrOr("href", "")
	if href == "" {
		href = card.Find("a[href]").First().AttrOr("href", "")
	}
	p.ID = submatch(playerParam, href)
	if p.ID == "" {
		return p, fmt.Errorf("player id missing from %q", href)
	}

	p.PhotoRef = r.photoRef(ctx, p, rosterPhoto(card).AttrOr("src", ""))
	return p, nil
}

// photoRef returns the stored photo reference for p, processing and saving the
// embedded photo when none exists yet.
func (r *RosterExtractor) photoRef(ctx context.Context, p match.Player, src string) string {
	if r.store == nil {
		return ""
	}
	if r.store.Exists(p.ID) {
		return r.store.Ref(p.ID)
	}
	if !strings.HasPrefix(src, dataURIPrefix) {
		return ""
	}

	raw, err := decodeDataURI(src)
	if err != nil {
		logger.Warn("Could not decode player photo", logger.Fields{"player": p.ID, "error": err.Error()})
		return ""
	}

	processed, err := r.processor.Process(ctx, raw, p.Name)
	if err != nil || len(processed) == 0 {
		processed = raw
	}

	ref, err := r.store.Save(p.ID, processed)
	if err != nil {
		logger.Warn("Could not save player photo", logger.Fields{"player": p.ID, "error": err.Error()})
		return ""
	}
	metrics.IncrCounter("photos.processed")
	return ref
}

// decodeDataURI returns the payload of a base64 data URI.
func decodeDataURI(src string) ([]byte, error) {
	_, payload, ok := strings.Cut(src, ",")
	if !ok {
		return nil, fmt.Errorf("malformed data uri")
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, fmt.Errorf("decoding base64: %w", err)
	}
	return data, nil
}

// headingName joins the heading's text nodes with single spaces, so names split
// across line breaks or inline tags read as one.
func headingName(heading *goquery.Selection) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if s := strings.TrimSpace(n.Data); s != "" {
				parts = append(parts, s)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range heading.Nodes {
		walk(n)
	}
	return collapse(strings.Join(parts, " "))
}
