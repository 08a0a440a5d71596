package attendance

import (
	"errors"
	"time"

	"github.com/spec-kit/attendance-service/internal/domain"
)

// ErrNotWorking is returned when clock-out is requested while the user
// has no open work cycle. No log entry is produced in that case.
var ErrNotWorking = errors.New("not currently working")

// Stamp applies the single cycling trigger to the current status and
// returns the next status together with the log entry kind to append.
func Stamp(status domain.AttendanceStatus) (domain.AttendanceStatus, domain.EntryKind) {
	switch status {
	case domain.AttendanceWorking:
		return domain.AttendanceOnBreak, domain.EntryBreakStart
	case domain.AttendanceOnBreak:
		return domain.AttendanceWorking, domain.EntryBreakEnd
	default:
		return domain.AttendanceWorking, domain.EntryWorkStart
	}
}

// ClockOut closes the current work cycle. Valid only from Working or
// OnBreak; from Unregistered it returns ErrNotWorking.
func ClockOut(status domain.AttendanceStatus) (domain.AttendanceStatus, domain.EntryKind, error) {
	switch status {
	case domain.AttendanceWorking, domain.AttendanceOnBreak:
		return domain.AttendanceUnregistered, domain.EntryWorkEnd, nil
	default:
		return domain.AttendanceUnregistered, "", ErrNotWorking
	}
}

// Reconciliation describes the correction Reconcile decided on. Entry is
// non-nil only when a synthetic WorkStart must be appended to the log.
type Reconciliation struct {
	Status  domain.AttendanceStatus
	Entry   *domain.AttendanceEntry
	Changed bool
}

// Reconcile restores the status/log invariant when real time has crossed
// a logical-day boundary since the last recorded entry. With an open
// status (Working or OnBreak) it synthesizes a single WorkStart at the
// reset-hour boundary of the current logical day, collapsing any multi-day
// gap into one entry, and resumes as Working. With no entries, or when the
// last entry still falls on today's logical day, nothing changes.
func Reconcile(status domain.AttendanceStatus, last *domain.AttendanceEntry, now time.Time, resetHour int) Reconciliation {
	if last == nil || SameLogicalDay(last.RecordedAt, now, resetHour) {
		return Reconciliation{Status: status}
	}

	switch status {
	case domain.AttendanceWorking, domain.AttendanceOnBreak:
		entry := &domain.AttendanceEntry{
			Kind:       domain.EntryWorkStart,
			RecordedAt: DayStart(LogicalDayOf(now, resetHour), resetHour),
		}
		return Reconciliation{Status: domain.AttendanceWorking, Entry: entry, Changed: true}
	default:
		// Covers stores that cannot distinguish "never stamped" from an
		// explicit reset; reasserting Unregistered appends nothing.
		return Reconciliation{Status: domain.AttendanceUnregistered, Changed: status != domain.AttendanceUnregistered}
	}
}
