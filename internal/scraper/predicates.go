package scraper

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Markup conventions of the federation pages. Each one is used by exactly one
// predicate below.
const (
	// fixtures page
	resultCellClass  = "centrado"
	dateCellStyle    = "font-size: 12px"
	venueCellClasses = "negrita p-t-20"

	// standings page
	standingsTableClass = "clasificacion"
	standingsRowStyle   = "background: #fbfbfb"
	rankCellClasses     = "celda_peque p-t-15"
	teamLinkClass       = "equipo_tabla-clasi"
	statCellClasses     = "centrado p-t-15"
	pointsCellClasses   = "negrita centrado p-t-15"

	// roster page
	rosterCardClass  = "card_jugador"
	rosterPhotoClass = "card_imagen_jugador"
)

var (
	roundParam   = regexp.MustCompile(`jornada=(\d+)`)
	matchIDParam = regexp.MustCompile(`id_partido=([A-Za-z0-9]+)`)
	playerParam  = regexp.MustCompile(`id_jugador=(\d+)`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// text returns the trimmed text content of sel.
func text(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.Text())
}

// collapse trims s and folds internal whitespace runs into single spaces.
func collapse(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// isDigits reports whether s is a non-empty run of ASCII digits.
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

// atoi parses trimmed text as an integer.
func atoi(sel *goquery.Selection) (int, error) {
	return strconv.Atoi(text(sel))
}

// hasExactClasses reports whether sel's class attribute is exactly the given
// space-separated class list, in any order.
func hasExactClasses(sel *goquery.Selection, classes string) bool {
	attr, ok := sel.Attr("class")
	if !ok {
		return false
	}
	got := strings.Fields(attr)
	want := strings.Fields(classes)
	if len(got) != len(want) {
		return false
	}
	seen := make(map[string]bool, len(got))
	for _, c := range got {
		seen[c] = true
	}
	for _, c := range want {
		if !seen[c] {
			return false
		}
	}
	return true
}

// styleContains reports whether sel's inline style contains marker.
func styleContains(sel *goquery.Selection, marker string) bool {
	style, ok := sel.Attr("style")
	return ok && strings.Contains(style, marker)
}

// cellsWithClasses returns the td descendants of row whose class list is exactly classes.
func cellsWithClasses(row *goquery.Selection, classes string) *goquery.Selection {
	return row.Find("td").FilterFunction(func(_ int, td *goquery.Selection) bool {
		return hasExactClasses(td, classes)
	})
}

// rowMentionsTeam: the row's full text contains either team name.
func rowMentionsTeam(row *goquery.Selection, fullName, shortName string) bool {
	t := row.Text()
	return (fullName != "" && strings.Contains(t, fullName)) ||
		(shortName != "" && strings.Contains(t, shortName))
}

// teamsCell: the first cell with at least two links.
func teamsCell(row *goquery.Selection) *goquery.Selection {
	return row.Find("td").FilterFunction(func(_ int, td *goquery.Selection) bool {
		return td.Find("a").Length() >= 2
	}).First()
}

// resultCell: the first centered cell.
func resultCell(row *goquery.Selection) *goquery.Selection {
	return row.Find("td." + resultCellClass).First()
}

// dateCell: the first cell styled with the small font marker.
func dateCell(row *goquery.Selection) *goquery.Selection {
	return row.Find("td").FilterFunction(func(_ int, td *goquery.Selection) bool {
		return styleContains(td, dateCellStyle)
	}).First()
}

// venueCell: the last bold cell with the venue padding class.
func venueCell(row *goquery.Selection) *goquery.Selection {
	return cellsWithClasses(row, venueCellClasses).Last()
}

// standingsTable: the table carrying the standings class.
func standingsTable(doc *goquery.Document) *goquery.Selection {
	return doc.Find("table." + standingsTableClass).First()
}

// standingsRows: body rows with the alternating-row background marker.
func standingsRows(tbody *goquery.Selection) *goquery.Selection {
	return tbody.Find("tr").FilterFunction(func(_ int, tr *goquery.Selection) bool {
		return styleContains(tr, standingsRowStyle)
	})
}

// rankCell: the small position cell.
func rankCell(row *goquery.Selection) *goquery.Selection {
	return cellsWithClasses(row, rankCellClasses).First()
}

// teamLink: the anchor holding the team name.
func teamLink(row *goquery.Selection) *goquery.Selection {
	return row.Find("a." + teamLinkClass).First()
}

// statCells: centered numeric cells (played, won, drawn, lost, goals...).
func statCells(row *goquery.Selection) *goquery.Selection {
	return cellsWithClasses(row, statCellClasses)
}

// pointsCell: the bold centered cell.
func pointsCell(row *goquery.Selection) *goquery.Selection {
	return cellsWithClasses(row, pointsCellClasses).First()
}

// rosterCards: every player card.
func rosterCards(doc *goquery.Document) *goquery.Selection {
	return doc.Find("." + rosterCardClass)
}

// rosterPhoto: the card's embedded photo.
func rosterPhoto(card *goquery.Selection) *goquery.Selection {
	return card.Find("img." + rosterPhotoClass).First()
}

// submatch returns the first capture group of re in s, or "".
func submatch(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}
