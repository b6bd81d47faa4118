// Package model defines the shared domain types for the activity
// ranking engine: activity records, reference locations, and the
// derived per-user status enumeration.
package model

import "time"

// ActivityStatus is the derived per-user status of an activity record.
// Exactly one value applies to a record per evaluation; there is no
// "unknown" output.
type ActivityStatus string

const (
	StatusAvailable  ActivityStatus = "available"
	StatusEnded      ActivityStatus = "ended"
	StatusRegistered ActivityStatus = "registered"
	StatusCheckedIn  ActivityStatus = "checked_in"
)

// Sign status codes as delivered by the backend. Zero (or absence)
// means no user-specific state is known.
const (
	SignStatusRegistered = -1
	SignStatusCheckedIn  = 1
)

// ActivityRecord is an event-like record as consumed by the engine.
// Start/End carry the raw server wall-clock strings alongside parsed
// instants; the engine never rewrites the raw values.
type ActivityRecord struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	AddressText  string    `json:"address_text"`
	StartRaw     string    `json:"start_raw,omitempty"`
	EndRaw       string    `json:"end_raw,omitempty"`
	StartInstant time.Time `json:"start_instant"`
	EndInstant   time.Time `json:"end_instant"`
	TimeZone     string    `json:"time_zone,omitempty"`

	// SignStatus is the per-user registration code. Nil means no
	// user-specific state is known.
	SignStatus *int `json:"sign_status,omitempty"`
}

// HasSignStatus reports whether a per-user status code is present.
func (r *ActivityRecord) HasSignStatus() bool {
	return r.SignStatus != nil
}

// ParsedTimestamp is the memoized decomposition of a raw server
// timestamp string into its wall-clock components. It carries no
// timezone semantics; both fields are byte-for-byte slices of the
// server-provided value.
type ParsedTimestamp struct {
	Date string `json:"date"` // YYYY-MM-DD
	Time string `json:"time"` // HH:MM
}
