package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/attendance-service/internal/domain"
)

func TestStamp_CyclesThroughLifecycle(t *testing.T) {
	status := domain.AttendanceUnregistered

	status, kind := Stamp(status)
	require.Equal(t, domain.AttendanceWorking, status)
	require.Equal(t, domain.EntryWorkStart, kind)

	status, kind = Stamp(status)
	require.Equal(t, domain.AttendanceOnBreak, status)
	require.Equal(t, domain.EntryBreakStart, kind)

	status, kind = Stamp(status)
	require.Equal(t, domain.AttendanceWorking, status)
	require.Equal(t, domain.EntryBreakEnd, kind)
}

func TestClockOut_FromWorking(t *testing.T) {
	status, kind, err := ClockOut(domain.AttendanceWorking)
	require.NoError(t, err)
	require.Equal(t, domain.AttendanceUnregistered, status)
	require.Equal(t, domain.EntryWorkEnd, kind)
}

func TestClockOut_FromBreak(t *testing.T) {
	status, kind, err := ClockOut(domain.AttendanceOnBreak)
	require.NoError(t, err)
	require.Equal(t, domain.AttendanceUnregistered, status)
	require.Equal(t, domain.EntryWorkEnd, kind)
}

func TestClockOut_WhileUnregisteredFails(t *testing.T) {
	_, _, err := ClockOut(domain.AttendanceUnregistered)
	require.ErrorIs(t, err, ErrNotWorking)
}

func TestReconcile_EmptyLogIsNoop(t *testing.T) {
	rec := Reconcile(domain.AttendanceUnregistered, nil, date(2024, time.March, 12, 9, 0), 5)
	require.False(t, rec.Changed)
	require.Nil(t, rec.Entry)
	require.Equal(t, domain.AttendanceUnregistered, rec.Status)
}

func TestReconcile_SameLogicalDayIsNoop(t *testing.T) {
	last := &domain.AttendanceEntry{Kind: domain.EntryWorkStart, RecordedAt: date(2024, time.March, 11, 23, 0)}
	// 04:00 next calendar day is still logical day March 11 under reset hour 5.
	rec := Reconcile(domain.AttendanceWorking, last, date(2024, time.March, 12, 4, 0), 5)
	require.False(t, rec.Changed)
	require.Nil(t, rec.Entry)
	require.Equal(t, domain.AttendanceWorking, rec.Status)
}

func TestReconcile_OpenWorkAcrossBoundary(t *testing.T) {
	last := &domain.AttendanceEntry{Kind: domain.EntryWorkStart, RecordedAt: date(2024, time.March, 11, 23, 0)}
	rec := Reconcile(domain.AttendanceWorking, last, date(2024, time.March, 12, 6, 0), 5)

	require.True(t, rec.Changed)
	require.Equal(t, domain.AttendanceWorking, rec.Status)
	require.NotNil(t, rec.Entry)
	require.Equal(t, domain.EntryWorkStart, rec.Entry.Kind)
	require.Equal(t, date(2024, time.March, 12, 5, 0), rec.Entry.RecordedAt)
}

func TestReconcile_OpenBreakAcrossBoundaryResumesWorking(t *testing.T) {
	last := &domain.AttendanceEntry{Kind: domain.EntryBreakStart, RecordedAt: date(2024, time.March, 11, 22, 0)}
	rec := Reconcile(domain.AttendanceOnBreak, last, date(2024, time.March, 12, 9, 0), 5)

	require.True(t, rec.Changed)
	require.Equal(t, domain.AttendanceWorking, rec.Status)
	require.NotNil(t, rec.Entry)
	require.Equal(t, domain.EntryWorkStart, rec.Entry.Kind)
}

func TestReconcile_MultiDayGapCollapsesToSingleBoundary(t *testing.T) {
	last := &domain.AttendanceEntry{Kind: domain.EntryWorkStart, RecordedAt: date(2024, time.March, 8, 10, 0)}
	rec := Reconcile(domain.AttendanceWorking, last, date(2024, time.March, 12, 9, 30), 5)

	require.NotNil(t, rec.Entry)
	require.Equal(t, date(2024, time.March, 12, 5, 0), rec.Entry.RecordedAt)
}

func TestReconcile_UnregisteredAcrossBoundaryAppendsNothing(t *testing.T) {
	last := &domain.AttendanceEntry{Kind: domain.EntryWorkEnd, RecordedAt: date(2024, time.March, 11, 18, 0)}
	rec := Reconcile(domain.AttendanceUnregistered, last, date(2024, time.March, 12, 9, 0), 5)

	require.False(t, rec.Changed)
	require.Nil(t, rec.Entry)
	require.Equal(t, domain.AttendanceUnregistered, rec.Status)
}

func TestReconcile_IdempotentForFixedNow(t *testing.T) {
	now := date(2024, time.March, 12, 6, 0)
	last := &domain.AttendanceEntry{Kind: domain.EntryWorkStart, RecordedAt: date(2024, time.March, 11, 23, 0)}

	first := Reconcile(domain.AttendanceWorking, last, now, 5)
	require.NotNil(t, first.Entry)

	// After appending the synthetic entry, a second pass must be a no-op.
	second := Reconcile(first.Status, first.Entry, now, 5)
	require.False(t, second.Changed)
	require.Nil(t, second.Entry)
}
