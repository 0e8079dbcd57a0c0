package app

import "time"

// TickMsg triggers a frame update for animation.
type TickMsg time.Time

// PresenceMsg reports that a hand appeared or disappeared.
type PresenceMsg struct {
	Present bool
}

// SourceErrorMsg reports a gesture source failure.
type SourceErrorMsg struct {
	Err error
}
