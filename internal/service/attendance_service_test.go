package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/attendance-service/internal/config"
	"github.com/spec-kit/attendance-service/internal/domain"
	"github.com/spec-kit/attendance-service/internal/events"
)

type fakeUserRepo struct {
	users map[string]*domain.User
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeAttendanceRepo struct {
	status    map[string]domain.AttendanceStatus
	entries   map[string][]domain.AttendanceEntry
	saveCalls int
	failSave  bool
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{
		status:  make(map[string]domain.AttendanceStatus),
		entries: make(map[string][]domain.AttendanceEntry),
	}
}

func (r *fakeAttendanceRepo) GetState(_ context.Context, userID string) (*domain.AttendanceState, error) {
	status, ok := r.status[userID]
	if !ok {
		status = domain.AttendanceUnregistered
	}
	entries := append([]domain.AttendanceEntry{}, r.entries[userID]...)
	return &domain.AttendanceState{Status: status, Entries: entries}, nil
}

func (r *fakeAttendanceRepo) SaveState(_ context.Context, userID string, status domain.AttendanceStatus, newEntries []domain.AttendanceEntry) error {
	if r.failSave {
		return errors.New("connection refused")
	}
	r.saveCalls++
	r.status[userID] = status
	r.entries[userID] = append(r.entries[userID], newEntries...)
	return nil
}

func (r *fakeAttendanceRepo) ListEntries(_ context.Context, userID string) ([]domain.AttendanceEntry, error) {
	return append([]domain.AttendanceEntry{}, r.entries[userID]...), nil
}

type fakeDispatcher struct {
	published []events.Event
}

func (d *fakeDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *fakeDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *fakeDispatcher) ofType(t events.EventType) []events.Event {
	var out []events.Event
	for _, e := range d.published {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

const testUserID = "user-1"

func newTestService(t *testing.T) (*AttendanceService, *fakeAttendanceRepo, *fakeDispatcher) {
	t.Helper()

	users := &fakeUserRepo{users: map[string]*domain.User{
		testUserID: {ID: testUserID, Name: "Aki", Email: "aki@example.com", Status: domain.UserStatusActive},
	}}
	repo := newFakeAttendanceRepo()
	dispatcher := &fakeDispatcher{}

	svc, err := NewAttendanceService(
		config.AttendanceConfig{ResetHour: 5, Timezone: "UTC"},
		AttendanceDependencies{
			UserRepo:       users,
			AttendanceRepo: repo,
			Dispatcher:     dispatcher,
			Logger:         zap.NewNop(),
		})
	require.NoError(t, err)
	return svc, repo, dispatcher
}

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestStamp_CyclesAndAppendsEntries(t *testing.T) {
	svc, repo, dispatcher := newTestService(t)
	ctx := context.Background()
	now := at(2024, time.March, 12, 9, 0)

	result, err := svc.Stamp(ctx, testUserID, now)
	require.NoError(t, err)
	require.Equal(t, domain.AttendanceWorking, result.Status)

	result, err = svc.Stamp(ctx, testUserID, now.Add(3*time.Hour))
	require.NoError(t, err)
	require.Equal(t, domain.AttendanceOnBreak, result.Status)

	result, err = svc.Stamp(ctx, testUserID, now.Add(4*time.Hour))
	require.NoError(t, err)
	require.Equal(t, domain.AttendanceWorking, result.Status)

	entries := repo.entries[testUserID]
	require.Len(t, entries, 3)
	require.Equal(t, domain.EntryWorkStart, entries[0].Kind)
	require.Equal(t, domain.EntryBreakStart, entries[1].Kind)
	require.Equal(t, domain.EntryBreakEnd, entries[2].Kind)
	require.Len(t, dispatcher.ofType(events.EventStamped), 3)
}

func TestClockOut_ReportsWorkedDuration(t *testing.T) {
	svc, repo, dispatcher := newTestService(t)
	ctx := context.Background()

	_, err := svc.Stamp(ctx, testUserID, at(2024, time.March, 12, 9, 0))
	require.NoError(t, err)

	result, err := svc.ClockOut(ctx, testUserID, at(2024, time.March, 12, 17, 0))
	require.NoError(t, err)
	require.Equal(t, domain.AttendanceUnregistered, result.Status)
	require.Contains(t, result.Message, "8h00m")

	entries := repo.entries[testUserID]
	require.Equal(t, domain.EntryWorkEnd, entries[len(entries)-1].Kind)

	published := dispatcher.ofType(events.EventClockedOut)
	require.Len(t, published, 1)
	payload, ok := published[0].Payload.(events.ClockedOutPayload)
	require.True(t, ok)
	require.Equal(t, 8*time.Hour, payload.WorkedToday)
}

func TestClockOut_WhileUnregisteredIsRejectedWithoutWrites(t *testing.T) {
	svc, repo, _ := newTestService(t)

	_, err := svc.ClockOut(context.Background(), testUserID, at(2024, time.March, 12, 9, 0))
	require.Error(t, err)
	require.Contains(t, err.Error(), "clock out")
	require.Zero(t, repo.saveCalls)
	require.Empty(t, repo.entries[testUserID])
}

func TestUnknownActorIsRejected(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.GetStatus(context.Background(), "nobody", at(2024, time.March, 12, 9, 0))
	require.Error(t, err)
	require.Contains(t, err.Error(), "actor not found")
}

func TestGetStatus_ReconcilesAcrossDayBoundary(t *testing.T) {
	svc, repo, dispatcher := newTestService(t)
	ctx := context.Background()

	_, err := svc.Stamp(ctx, testUserID, at(2024, time.March, 11, 23, 0))
	require.NoError(t, err)

	now := at(2024, time.March, 12, 6, 0)
	result, err := svc.GetStatus(ctx, testUserID, now)
	require.NoError(t, err)
	require.Equal(t, domain.AttendanceWorking, result.Status)

	entries := repo.entries[testUserID]
	require.Len(t, entries, 2)
	require.Equal(t, domain.EntryWorkStart, entries[1].Kind)
	require.Equal(t, at(2024, time.March, 12, 5, 0), entries[1].RecordedAt)
	require.Len(t, dispatcher.ofType(events.EventDayRolledOver), 1)

	// Same clock again: no duplicate synthetic entry.
	_, err = svc.GetStatus(ctx, testUserID, now)
	require.NoError(t, err)
	require.Len(t, repo.entries[testUserID], 2)
}

func TestClockOut_AfterOvernightSplitsDays(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Stamp(ctx, testUserID, at(2024, time.March, 11, 23, 0))
	require.NoError(t, err)

	result, err := svc.ClockOut(ctx, testUserID, at(2024, time.March, 12, 6, 0))
	require.NoError(t, err)
	// Only the hour since the 05:00 boundary counts toward the new day.
	require.Contains(t, result.Message, "1h00m")

	report, err := svc.Summarize(ctx, testUserID, at(2024, time.March, 12, 7, 0), false)
	require.NoError(t, err)
	require.Len(t, report.Daily, 2)
	require.Equal(t, 6*time.Hour, report.Daily[0].Total)
	require.Equal(t, 1*time.Hour, report.Daily[1].Total)
	require.Equal(t, 7*time.Hour, report.Total)

	entries := repo.entries[testUserID]
	require.Len(t, entries, 3) // work start, synthetic anchor, work end
}

func TestSummarize_AsOfNowIncludesOpenInterval(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Stamp(ctx, testUserID, at(2024, time.March, 12, 9, 0))
	require.NoError(t, err)

	closed, err := svc.Summarize(ctx, testUserID, at(2024, time.March, 12, 11, 0), false)
	require.NoError(t, err)
	require.Zero(t, closed.Total)

	open, err := svc.Summarize(ctx, testUserID, at(2024, time.March, 12, 11, 0), true)
	require.NoError(t, err)
	require.Equal(t, 2*time.Hour, open.Total)
}

func TestStamp_PersistenceFailureAbortsOperation(t *testing.T) {
	svc, repo, dispatcher := newTestService(t)
	repo.failSave = true

	_, err := svc.Stamp(context.Background(), testUserID, at(2024, time.March, 12, 9, 0))
	require.Error(t, err)
	require.Contains(t, err.Error(), "persistence failure")
	require.Empty(t, repo.entries[testUserID])
	require.Empty(t, dispatcher.ofType(events.EventStamped))
}
