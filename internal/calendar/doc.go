// Package calendar renders the fixture list as an iCalendar feed (RFC 5545)
// that supporters can subscribe to, plus the webcal and Google Calendar links
// shown on the site.
package calendar
