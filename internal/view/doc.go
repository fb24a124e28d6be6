// Package view derives the presentation fields of the team page from fixtures
// and standings: next match, recent form, league position and urgency.
package view
