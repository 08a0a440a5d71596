package domain

import "time"

// AttendanceStatus enumerates the per-user attendance lifecycle.
type AttendanceStatus string

const (
	AttendanceUnregistered AttendanceStatus = "UNREGISTERED"
	AttendanceWorking      AttendanceStatus = "WORKING"
	AttendanceOnBreak      AttendanceStatus = "ON_BREAK"
)

// EntryKind enumerates the typed events an attendance log can contain.
type EntryKind string

const (
	EntryWorkStart  EntryKind = "WORK_START"
	EntryWorkEnd    EntryKind = "WORK_END"
	EntryBreakStart EntryKind = "BREAK_START"
	EntryBreakEnd   EntryKind = "BREAK_END"
)

// AttendanceEntry is one append-only log row. Entries are never edited
// or deleted; the log for a user is ordered by RecordedAt ascending.
type AttendanceEntry struct {
	ID         string
	UserID     string
	Kind       EntryKind
	RecordedAt time.Time
	CreatedAt  time.Time
}

// AttendanceState pairs a user's current status with their ordered log.
type AttendanceState struct {
	Status  AttendanceStatus
	Entries []AttendanceEntry
}

// LastEntry returns the chronologically last log entry, or nil when the
// log is empty.
func (s *AttendanceState) LastEntry() *AttendanceEntry {
	if len(s.Entries) == 0 {
		return nil
	}
	return &s.Entries[len(s.Entries)-1]
}
