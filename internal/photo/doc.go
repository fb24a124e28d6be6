// Package photo post-processes roster photos before they are stored.
//
// A Processor receives the decoded image bytes of one player's photo and
// returns the bytes to save. Processing is best-effort: callers keep the
// original bytes when Process fails. Chain composes several processors and
// degrades step by step, so a background-removal outage still yields an
// upscaled photo.
package photo
