package match

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/extramurs/matchday/internal/logger"
)

var (
	// "14-11-2025", "14-11-25"
	dashedDatePattern = regexp.MustCompile(`(\d{1,2})-(\d{1,2})-(\d{2,4})`)
	// "Sábado, 09 De Noviembre"
	spanishDatePattern = regexp.MustCompile(`(?i)(\d{1,2})\s+de\s+(\p{L}+)`)
	// "09/11/2025", "09/11"
	slashedDatePattern = regexp.MustCompile(`(\d{1,2})/(\d{1,2})(?:/(\d{4}))?`)
)

var spanishMonths = map[string]time.Month{
	"enero":      time.January,
	"febrero":    time.February,
	"marzo":      time.March,
	"abril":      time.April,
	"mayo":       time.May,
	"junio":      time.June,
	"julio":      time.July,
	"agosto":     time.August,
	"septiembre": time.September,
	"octubre":    time.October,
	"noviembre":  time.November,
	"diciembre":  time.December,
}

// ParseDate normalizes a scraped date string into a calendar date (UTC midnight).
// Returns time.Time{} (zero value) if parsing fails.
//
// Formats are tried in order and the first one whose pattern matches decides the
// result, even when its numbers do not form a valid date:
//   - "D-M-YYYY" / "D-M-YY" (two-digit years are 20YY)
//   - "<day> de <month>" with a Spanish month name; seasonYear is used as the year
//   - "D/M[/YYYY]"; seasonYear is used when the year is absent
func ParseDate(raw string, seasonYear int) time.Time {
	s := strings.TrimSpace(raw)

	if m := dashedDatePattern.FindStringSubmatch(s); m != nil {
		year := m[3]
		if len(year) == 2 {
			year = "20" + year
		}
		return buildDate(raw, year, m[2], m[1])
	}

	if m := spanishDatePattern.FindStringSubmatch(s); m != nil {
		if month, ok := spanishMonths[strings.ToLower(m[2])]; ok {
			return buildDate(raw, strconv.Itoa(seasonYear), strconv.Itoa(int(month)), m[1])
		}
	}

	if m := slashedDatePattern.FindStringSubmatch(s); m != nil {
		year := m[3]
		if year == "" {
			year = strconv.Itoa(seasonYear)
		}
		return buildDate(raw, year, m[2], m[1])
	}

	logger.Warn("Could not parse date", logger.Fields{"raw": raw})
	return time.Time{}
}

// buildDate validates the numeric parts and rejects dates time.Date would roll over.
func buildDate(raw, year, month, day string) time.Time {
	y, errY := strconv.Atoi(year)
	m, errM := strconv.Atoi(month)
	d, errD := strconv.Atoi(day)
	if errY != nil || errM != nil || errD != nil || len(year) != 4 {
		logger.Warn("Invalid date values", logger.Fields{"raw": raw, "year": year, "month": month, "day": day})
		return time.Time{}
	}

	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		logger.Warn("Invalid calendar date", logger.Fields{"raw": raw, "year": y, "month": m, "day": d})
		return time.Time{}
	}
	return t
}

// FormatDate renders a parsed date as DateLayout, or "" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
