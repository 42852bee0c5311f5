package engine

import "errors"

// Sentinel errors of the computation engine. Callers test them with errors.Is.
var (
	// ErrInvalidCalendarDate indicates a malformed civil date or time (month 13, 31 April, 24:00...).
	// It is always raised before any ephemeris call.
	ErrInvalidCalendarDate = errors.New("invalid calendar date")
	// ErrInvalidLocation indicates an out of range latitude, longitude or UTC offset.
	ErrInvalidLocation = errors.New("invalid location")
	// ErrEphemerisUnavailable indicates the ephemeris provider could not resolve a body at an instant.
	// It is fatal for the computation: no partial chart is ever returned.
	ErrEphemerisUnavailable = errors.New("ephemeris unavailable")
	// ErrUnresolvedPlace indicates the geocoding collaborator found nothing for a place name.
	ErrUnresolvedPlace = errors.New("unresolved place")
)
