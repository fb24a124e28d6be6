// Package jersey resolves roster players' shirt numbers from match sheets.
//
// Match detail pages print each lineup entry as an orange number span followed
// by the player's name in "SURNAME, FIRSTNAME" form. Gather samples the most
// recent played matches and accumulates those annotations; Assign reconciles
// them with roster names, which use a different format, by exact name and then
// by surname. The surname heuristic is best-effort: players sharing a surname
// can be mismatched, and ties resolve to the first entry in map order.
package jersey
