package notifier

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/extramurs/matchday/internal/match"
)

// MaxPostLength is the post length limit, in characters.
const MaxPostLength = 280

// Announcement kinds
const (
	KindResult      = "result"
	KindRescheduled = "rescheduled"
	KindNext        = "next"
)

// Announcement is one post-worthy piece of news
type Announcement struct {
	Kind     string        `json:"kind"`
	Fixture  match.Fixture `json:"fixture"`
	OldValue string        `json:"oldValue,omitempty"`
	NewValue string        `json:"newValue,omitempty"`
}

// Notifier defines the interface for posting announcements
type Notifier interface {
	// Notify posts one message per announcement, in order
	Notify(ctx context.Context, announcements []Announcement) error
}

// Build turns a snapshot diff into announcements: new results first, then
// schedule changes, then the next fixture when next is non-nil.
func Build(diff *match.DiffResult, next *match.Fixture) []Announcement {
	var out []Announcement
	if diff != nil {
		for _, f := range diff.NewResults {
			out = append(out, Announcement{Kind: KindResult, Fixture: f, NewValue: f.Score})
		}
		for _, c := range diff.Rescheduled {
			out = append(out, Announcement{Kind: KindRescheduled, Fixture: c.Fixture, OldValue: c.OldValue, NewValue: c.NewValue})
		}
	}
	if next != nil {
		out = append(out, Announcement{Kind: KindNext, Fixture: *next})
	}
	return out
}

// Formatter renders announcements as posts
type Formatter struct {
	Hashtags string // appended to every post, e.g. "#Extramurs #FFCV"
}

// Format renders a as a post of at most MaxPostLength characters.
func (f Formatter) Format(a Announcement) string {
	var b strings.Builder
	fx := a.Fixture

	switch a.Kind {
	case KindResult:
		b.WriteString("⚽ Resultado final\n\n")
		fmt.Fprintf(&b, "%s %s %s\n", fx.Home, fx.Score, fx.Away)
		if verdict := verdict(fx); verdict != "" {
			fmt.Fprintf(&b, "%s\n", verdict)
		}
	case KindRescheduled:
		b.WriteString("📅 Cambio en el calendario\n\n")
		fmt.Fprintf(&b, "%s vs %s\n", fx.Home, fx.Away)
		old := a.OldValue
		if old == "" {
			old = "sin fijar"
		}
		fmt.Fprintf(&b, "Antes: %s\nAhora: %s\n", old, a.NewValue)
	case KindNext:
		b.WriteString("🔜 Próximo partido\n\n")
		fmt.Fprintf(&b, "%s vs %s\n", fx.Home, fx.Away)
		if when := strings.TrimSpace(fx.Date + " " + fx.Time); when != "" {
			fmt.Fprintf(&b, "🗓️ %s\n", when)
		}
		if fx.Venue != "" {
			fmt.Fprintf(&b, "📍 %s\n", fx.Venue)
		}
	default:
		fmt.Fprintf(&b, "%s vs %s\n", fx.Home, fx.Away)
	}

	if f.Hashtags != "" {
		b.WriteString("\n" + f.Hashtags)
	}

	return truncate(strings.TrimRight(b.String(), "\n"), MaxPostLength)
}

// verdict describes a result from the team's side.
func verdict(f match.Fixture) string {
	home, away, ok := f.Goals()
	switch {
	case !ok:
		return ""
	case home == away:
		return "🤝 Empate"
	case f.Won != nil && *f.Won:
		return "✅ Victoria"
	default:
		return "❌ Derrota"
	}
}

// truncate shortens s to max characters, ending with an ellipsis when cut.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-1]) + "…"
}
