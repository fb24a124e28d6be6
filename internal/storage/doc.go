// Package storage persists the run's outputs under a data directory.
//
// The layout mirrors what the published site expects:
//
//	data/partidos.json              snapshot of fixtures, standings and roster
//	partidos.ics                    calendar feed
//	Images/plantilla/jugador_N.png  processed roster photos
//
// The previous snapshot is read back on the next run so that changes can be
// announced. A missing snapshot is not an error.
package storage
