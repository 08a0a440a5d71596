package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/attendance-service/internal/attendance"
	"github.com/spec-kit/attendance-service/internal/config"
	"github.com/spec-kit/attendance-service/internal/domain"
	"github.com/spec-kit/attendance-service/internal/events"
	"github.com/spec-kit/attendance-service/internal/repository"
	apperrors "github.com/spec-kit/attendance-service/pkg/util"
)

// AttendanceService coordinates the attendance lifecycle: every call
// serializes on a per-user lock, reconciles stale state across logical-day
// boundaries, applies the transition and commits status plus appended log
// entries in one transaction.
type AttendanceService struct {
	users      repository.UserRepository
	log        repository.AttendanceRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	resetHour  int
	location   *time.Location
	locks      actorLocks
}

// AttendanceDependencies bundles collaborator requirements.
type AttendanceDependencies struct {
	UserRepo       repository.UserRepository
	AttendanceRepo repository.AttendanceRepository
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// ActionResult is returned by the mutating attendance operations.
type ActionResult struct {
	Message string
	Status  domain.AttendanceStatus
}

// StatusResult is returned by GetStatus.
type StatusResult struct {
	Status     domain.AttendanceStatus
	EntryCount int
	LastEntry  *domain.AttendanceEntry
}

// NewAttendanceService constructs the service.
func NewAttendanceService(cfg config.AttendanceConfig, deps AttendanceDependencies) (*AttendanceService, error) {
	location, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("resolve attendance timezone: %w", err)
	}
	return &AttendanceService{
		users:      deps.UserRepo,
		log:        deps.AttendanceRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		resetHour:  cfg.ResetHour,
		location:   location,
	}, nil
}

// GetStatus returns the reconciled current status. Reconciliation side
// effects are persisted so repeated reads with the same clock are
// idempotent.
func (s *AttendanceService) GetStatus(ctx context.Context, userID string, now time.Time) (*StatusResult, error) {
	unlock := s.locks.acquire(userID)
	defer unlock()

	now = now.In(s.location)
	state, appended, err := s.loadReconciled(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	if len(appended) > 0 {
		if err := s.log.SaveState(ctx, userID, state.Status, appended); err != nil {
			return nil, apperrors.NewPersistenceFailure(err)
		}
	}

	return &StatusResult{
		Status:     state.Status,
		EntryCount: len(state.Entries),
		LastEntry:  state.LastEntry(),
	}, nil
}

// Stamp applies the cycling trigger: start work, start break, end break.
func (s *AttendanceService) Stamp(ctx context.Context, userID string, now time.Time) (*ActionResult, error) {
	unlock := s.locks.acquire(userID)
	defer unlock()

	now = now.In(s.location)
	state, appended, err := s.loadReconciled(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	next, kind := attendance.Stamp(state.Status)
	appended = append(appended, domain.AttendanceEntry{UserID: userID, Kind: kind, RecordedAt: now})

	if err := s.log.SaveState(ctx, userID, next, appended); err != nil {
		return nil, apperrors.NewPersistenceFailure(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventStamped,
		UserID:  userID,
		Payload: events.StampedPayload{Kind: kind, NewStatus: next},
	})

	return &ActionResult{Message: stampMessage(kind), Status: next}, nil
}

// ClockOut ends the current work cycle and reports the day's worked
// duration. Invalid while unregistered; nothing is written in that case.
func (s *AttendanceService) ClockOut(ctx context.Context, userID string, now time.Time) (*ActionResult, error) {
	unlock := s.locks.acquire(userID)
	defer unlock()

	now = now.In(s.location)
	state, appended, err := s.loadReconciled(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	next, kind, err := attendance.ClockOut(state.Status)
	if err != nil {
		return nil, apperrors.NewInvalidTransition("cannot clock out while not working")
	}

	entry := domain.AttendanceEntry{UserID: userID, Kind: kind, RecordedAt: now}
	appended = append(appended, entry)
	state.Entries = append(state.Entries, entry)

	if err := s.log.SaveState(ctx, userID, next, appended); err != nil {
		return nil, apperrors.NewPersistenceFailure(err)
	}

	worked := s.workedOn(state.Entries, now)
	summary := fmt.Sprintf("Clocked out. Worked %s today.", formatDuration(worked))

	s.publishEvent(ctx, events.Event{
		Type:    events.EventClockedOut,
		UserID:  userID,
		Payload: events.ClockedOutPayload{WorkedToday: worked, Summary: summary},
	})

	return &ActionResult{Message: summary, Status: next}, nil
}

// Summarize replays the reconciled log into daily, weekly and monthly
// worked totals. With includeOpen the currently accruing interval is
// credited as of now.
func (s *AttendanceService) Summarize(ctx context.Context, userID string, now time.Time, includeOpen bool) (*attendance.Report, error) {
	unlock := s.locks.acquire(userID)
	defer unlock()

	now = now.In(s.location)
	state, appended, err := s.loadReconciled(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	if len(appended) > 0 {
		if err := s.log.SaveState(ctx, userID, state.Status, appended); err != nil {
			return nil, apperrors.NewPersistenceFailure(err)
		}
	}

	opts := attendance.Options{ResetHour: s.resetHour}
	if includeOpen {
		opts.AsOf = &now
	}
	report := attendance.Summarize(state.Entries, opts)
	if report.Anomalies > 0 {
		s.logger.Warn("attendance log contains malformed entries",
			zap.String("user_id", userID),
			zap.Int("anomalies", report.Anomalies))
	}
	return &report, nil
}

// loadReconciled fetches the user's state and applies day-rollover
// reconciliation in memory. Appended entries still need to be saved by
// the caller together with the resulting status.
func (s *AttendanceService) loadReconciled(ctx context.Context, userID string, now time.Time) (*domain.AttendanceState, []domain.AttendanceEntry, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil, apperrors.NewActorNotFound(userID)
		}
		return nil, nil, apperrors.NewPersistenceFailure(err)
	}

	state, err := s.log.GetState(ctx, userID)
	if err != nil {
		return nil, nil, apperrors.NewPersistenceFailure(err)
	}

	rec := attendance.Reconcile(state.Status, state.LastEntry(), now, s.resetHour)
	state.Status = rec.Status

	var appended []domain.AttendanceEntry
	if rec.Entry != nil {
		entry := *rec.Entry
		entry.UserID = userID
		state.Entries = append(state.Entries, entry)
		appended = append(appended, entry)

		s.publishEvent(ctx, events.Event{
			Type:    events.EventDayRolledOver,
			UserID:  userID,
			Payload: events.DayRolledOverPayload{SyntheticStart: entry.RecordedAt},
		})
	}
	return state, appended, nil
}

// workedOn computes the closed-interval total credited to now's logical day.
func (s *AttendanceService) workedOn(entries []domain.AttendanceEntry, now time.Time) time.Duration {
	report := attendance.Summarize(entries, attendance.Options{ResetHour: s.resetHour})
	key := attendance.DayKey(attendance.LogicalDayOf(now, s.resetHour))
	for _, bucket := range report.Daily {
		if bucket.Key == key {
			return bucket.Total
		}
	}
	return 0
}

func (s *AttendanceService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", zap.String("type", string(event.Type)), zap.Error(err))
	}
}

func stampMessage(kind domain.EntryKind) string {
	switch kind {
	case domain.EntryWorkStart:
		return "Started working."
	case domain.EntryBreakStart:
		return "Break started."
	case domain.EntryBreakEnd:
		return "Break ended, back to work."
	default:
		return "Stamped."
	}
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	hours := int(d / time.Hour)
	minutes := int(d % time.Hour / time.Minute)
	return fmt.Sprintf("%dh%02dm", hours, minutes)
}

// actorLocks serializes operations per user so reconciliation, the
// transition and the log append are observed atomically.
type actorLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (l *actorLocks) acquire(userID string) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*sync.Mutex)
	}
	lock, ok := l.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[userID] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
