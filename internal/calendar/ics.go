package calendar

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/extramurs/matchday/internal/logger"
	"github.com/extramurs/matchday/internal/match"
	"github.com/google/uuid"
)

const (
	ProdID          = "-//Extramurs//matchday//ES"
	EventDuration   = time.Hour
	DefaultVenue    = "Por determinar"
	GoogleSubscribe = "https://calendar.google.com/calendar/r?cid="
	maxLineOctets   = 75
)

// uidNamespace scopes event UIDs so they stay stable across regenerations.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://resultadosffcv.isquad.es/"))

// FeedOptions configures GenerateFeed
type FeedOptions struct {
	Name     string         // X-WR-CALNAME
	Location *time.Location // zone of the scraped kickoff times
	Now      time.Time      // DTSTAMP
}

// GenerateFeed generates an iCalendar document with one event per fixture.
// Fixtures without a parseable date and time are left out.
func GenerateFeed(fixtures []match.Fixture, opts FeedOptions) string {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	var ics strings.Builder

	writeLine(&ics, "BEGIN:VCALENDAR")
	writeLine(&ics, "VERSION:2.0")
	writeLine(&ics, "PRODID:"+ProdID)
	writeLine(&ics, "CALSCALE:GREGORIAN")
	writeLine(&ics, "METHOD:PUBLISH")
	if opts.Name != "" {
		writeLine(&ics, "X-WR-CALNAME:"+escapeICS(opts.Name))
	}
	writeLine(&ics, "X-WR-TIMEZONE:"+loc.String())

	written := 0
	for _, f := range fixtures {
		start, ok := f.Kickoff(loc)
		if !ok {
			logger.Warn("Leaving fixture out of calendar", logger.Fields{"home": f.Home, "away": f.Away, "date": f.Date, "time": f.Time})
			continue
		}
		writeEvent(&ics, f, start, now)
		written++
	}

	writeLine(&ics, "END:VCALENDAR")

	logger.Info("Calendar generated", logger.Fields{"events": written, "fixtures": len(fixtures)})
	return ics.String()
}

func writeEvent(ics *strings.Builder, f match.Fixture, start, now time.Time) {
	end := start.Add(EventDuration)
	tzid := start.Location().String()

	writeLine(ics, "BEGIN:VEVENT")
	writeLine(ics, "UID:"+EventUID(f))
	writeLine(ics, "DTSTAMP:"+formatICSTime(now))
	if tzid == "UTC" {
		writeLine(ics, "DTSTART:"+formatICSTime(start))
		writeLine(ics, "DTEND:"+formatICSTime(end))
	} else {
		writeLine(ics, fmt.Sprintf("DTSTART;TZID=%s:%s", tzid, formatLocalTime(start)))
		writeLine(ics, fmt.Sprintf("DTEND;TZID=%s:%s", tzid, formatLocalTime(end)))
	}
	writeLine(ics, "SUMMARY:"+escapeICS(Title(f)))
	writeLine(ics, "DESCRIPTION:"+escapeICS(Description(f)))
	writeLine(ics, "LOCATION:"+escapeICS(venue(f)))
	if f.MapsURL != "" {
		writeLine(ics, "URL:"+f.MapsURL)
	}
	writeLine(ics, "STATUS:CONFIRMED")
	writeLine(ics, "TRANSP:OPAQUE")
	writeLine(ics, "END:VEVENT")
}

// Title is "home score away" for played fixtures and "home vs away" otherwise.
func Title(f match.Fixture) string {
	var title string
	if f.HasScore() {
		title = fmt.Sprintf("%s %s %s", f.Home, f.Score, f.Away)
	} else {
		title = fmt.Sprintf("%s vs %s", f.Home, f.Away)
	}
	return flatten(title)
}

// Description lists the round and the venue.
func Description(f match.Fixture) string {
	desc := "Campo: " + venue(f)
	if f.Round != nil {
		desc = fmt.Sprintf("Jornada %d\n%s", *f.Round, desc)
	}
	if f.MapsURL != "" {
		desc += "\nMapa: " + f.MapsURL
	}
	return desc
}

// EventUID derives a stable UID from the match id, or from the pairing and date.
func EventUID(f match.Fixture) string {
	key := "partido:" + f.MatchID
	if f.MatchID == "" {
		key = "cruce:" + f.Home + "|" + f.Away + "|" + f.Date
	}
	return uuid.NewSHA1(uidNamespace, []byte(key)).String() + "@matchday"
}

func venue(f match.Fixture) string {
	if v := flatten(f.Venue); v != "" {
		return v
	}
	return DefaultVenue
}

// flatten replaces line breaks with spaces.
func flatten(s string) string {
	return strings.TrimSpace(strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s))
}

// WebcalURL rewrites an http(s) feed URL to the webcal scheme.
func WebcalURL(feedURL string) string {
	for _, prefix := range []string{"https://", "http://"} {
		if strings.HasPrefix(feedURL, prefix) {
			return "webcal://" + strings.TrimPrefix(feedURL, prefix)
		}
	}
	return feedURL
}

// GoogleCalendarURL is the Google Calendar "add by URL" link for a feed.
func GoogleCalendarURL(feedURL string) string {
	return GoogleSubscribe + url.QueryEscape(feedURL)
}

// formatICSTime formats a time.Time as an iCalendar UTC datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// formatLocalTime formats a time.Time as an iCalendar local datetime string
func formatLocalTime(t time.Time) string {
	return t.Format("20060102T150405")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\r\n", "\\n")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

// writeLine writes one content line, folded at 75 octets without splitting
// UTF-8 sequences.
func writeLine(b *strings.Builder, line string) {
	limit := maxLineOctets
	for len(line) > limit {
		cut := limit
		for cut > 0 && !isRuneStart(line[cut]) {
			cut--
		}
		b.WriteString(line[:cut])
		b.WriteString("\r\n ")
		line = line[cut:]
		limit = maxLineOctets - 1
	}
	b.WriteString(line)
	b.WriteString("\r\n")
}

func isRuneStart(c byte) bool {
	return c&0xC0 != 0x80
}
