// Package scraper fetches the federation pages and extracts fixtures, standings
// and roster records from their markup.
//
// The pages are loosely structured tables whose only stable anchors are CSS
// classes and inline styles. Each anchor is expressed as a small named predicate
// (see predicates.go) so that a markup change touches one function. Extractors
// are total: a malformed row or card is logged and skipped, never fatal.
package scraper
