//go:build ignore

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/extramurs/matchday/internal/calendar"
	"github.com/extramurs/matchday/internal/match"
)

func main() {
	loc, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		loc = time.UTC
	}

	round := 7
	fixtures := []match.Fixture{{
		Round:   &round,
		MatchID: "preview-1",
		Date:    time.Now().AddDate(0, 0, 3).Format(match.DateLayout),
		Time:    "11:30",
		Home:    "C.D. Extramurs Valencia 'A'",
		Away:    "Rival CF",
		Venue:   "Campo Municipal de Benicalap",
		IsHome:  true,
		MapsURL: "https://www.google.com/maps/search/?api=1&query=Campo%20Municipal%20de%20Benicalap",
	}}

	feed := calendar.GenerateFeed(fixtures, calendar.FeedOptions{Name: "Extramurs (preview)", Location: loc})

	filename := "preview-partidos.ics"
	if err := os.WriteFile(filename, []byte(feed), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated calendar file: %s\n\n", filename)
	fmt.Println("Open it with a calendar app, or import it into Google Calendar.")
	fmt.Println("\nFile contents preview:")
	fmt.Println("---")
	fmt.Println(feed)
}
