// Package pipeline runs one scrape of the team's pages end to end.
//
// Run fetches the calendar, standings and roster pages, samples recent match
// sheets for jersey numbers, and derives the view, snapshot and calendar feed.
// Only a failure to obtain the calendar page is returned as an error; every
// other failure degrades the result. Parse does the same from markup already
// on disk, without touching the network.
package pipeline
