// Package timer is the per-user study timer. Each transition restores the last
// snapshot from a Store, applies the change, and saves the result before returning.
package timer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/studyflow-backend/internal/domain"
	"github.com/yungbote/studyflow-backend/internal/platform/apierr"
)

type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateOnBreak State = "on_break"
)

var ErrInvalidTransition = fmt.Errorf("%w: invalid timer transition", apierr.ErrConflict)

type BreakRecord struct {
	Type            string    `json:"type"`
	StartedAt       time.Time `json:"started_at"`
	DurationSeconds int       `json:"duration_seconds"`
}

// Snapshot is the serialized timer. The zero value is idle.
type Snapshot struct {
	State          State         `json:"state"`
	SubjectID      *uuid.UUID    `json:"subject_id,omitempty"`
	StartedAt      *time.Time    `json:"started_at,omitempty"`
	BreakType      string        `json:"break_type,omitempty"`
	BreakStartedAt *time.Time    `json:"break_started_at,omitempty"`
	Breaks         []BreakRecord `json:"breaks,omitempty"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

func (s Snapshot) current() State {
	if s.State == "" {
		return StateIdle
	}
	return s.State
}

// Elapsed is the net study time so far, excluding breaks.
func (s Snapshot) Elapsed(now time.Time) time.Duration {
	if s.StartedAt == nil {
		return 0
	}
	span := now.Sub(*s.StartedAt)
	net := span - s.breakTotal(now)
	if net < 0 {
		return 0
	}
	return net
}

func (s Snapshot) breakTotal(now time.Time) time.Duration {
	var total time.Duration
	for _, b := range s.Breaks {
		total += time.Duration(b.DurationSeconds) * time.Second
	}
	if s.BreakStartedAt != nil {
		total += now.Sub(*s.BreakStartedAt)
	}
	return total
}

// Store persists snapshots per user.
type Store interface {
	Load(ctx context.Context, userID uuid.UUID) (Snapshot, error)
	Save(ctx context.Context, userID uuid.UUID, snap Snapshot) error
}

// Completed is a finished timer run, ready to be written to the store.
type Completed struct {
	Session *types.Session
	Breaks  []*types.Break
}

type Timer struct {
	store Store
	now   func() time.Time
	mu    sync.Mutex
}

func New(store Store, now func() time.Time) *Timer {
	if now == nil {
		now = time.Now
	}
	return &Timer{store: store, now: now}
}

func (t *Timer) Current(ctx context.Context, userID uuid.UUID) (Snapshot, error) {
	snap, err := t.store.Load(ctx, userID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load timer: %w", err)
	}
	if snap.State == "" {
		snap.State = StateIdle
	}
	return snap, nil
}

func (t *Timer) Start(ctx context.Context, userID, subjectID uuid.UUID) (Snapshot, error) {
	return t.transition(ctx, userID, func(s Snapshot, now time.Time) (Snapshot, error) {
		if s.current() != StateIdle {
			return s, ErrInvalidTransition
		}
		sid := subjectID
		return Snapshot{State: StateRunning, SubjectID: &sid, StartedAt: &now}, nil
	})
}

func (t *Timer) BeginBreak(ctx context.Context, userID uuid.UUID, breakType string) (Snapshot, error) {
	if !types.ValidBreakType(breakType) {
		return Snapshot{}, apierr.Invalid("unknown break type %q", breakType)
	}
	return t.transition(ctx, userID, func(s Snapshot, now time.Time) (Snapshot, error) {
		if s.current() != StateRunning {
			return s, ErrInvalidTransition
		}
		s.State = StateOnBreak
		s.BreakType = breakType
		s.BreakStartedAt = &now
		return s, nil
	})
}

func (t *Timer) EndBreak(ctx context.Context, userID uuid.UUID) (Snapshot, error) {
	return t.transition(ctx, userID, func(s Snapshot, now time.Time) (Snapshot, error) {
		if s.current() != StateOnBreak {
			return s, ErrInvalidTransition
		}
		return closeBreak(s, now), nil
	})
}

// Stop ends the run from running or on_break and returns the completed session.
// The session duration is the wall span minus breaks, never negative.
func (t *Timer) Stop(ctx context.Context, userID uuid.UUID) (Completed, error) {
	var done Completed
	_, err := t.transition(ctx, userID, func(s Snapshot, now time.Time) (Snapshot, error) {
		st := s.current()
		if st != StateRunning && st != StateOnBreak {
			return s, ErrInvalidTransition
		}
		if st == StateOnBreak {
			s = closeBreak(s, now)
		}
		done = complete(userID, s, now)
		return Snapshot{State: StateIdle}, nil
	})
	if err != nil {
		return Completed{}, err
	}
	return done, nil
}

func (t *Timer) transition(ctx context.Context, userID uuid.UUID, fn func(Snapshot, time.Time) (Snapshot, error)) (Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap, err := t.store.Load(ctx, userID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load timer: %w", err)
	}
	now := t.now().UTC()
	next, err := fn(snap, now)
	if err != nil {
		return snap, err
	}
	next.UpdatedAt = now
	if err := t.store.Save(ctx, userID, next); err != nil {
		return snap, fmt.Errorf("save timer: %w", err)
	}
	return next, nil
}

func closeBreak(s Snapshot, now time.Time) Snapshot {
	if s.BreakStartedAt != nil {
		secs := int(now.Sub(*s.BreakStartedAt) / time.Second)
		if secs < 0 {
			secs = 0
		}
		s.Breaks = append(s.Breaks, BreakRecord{Type: s.BreakType, StartedAt: *s.BreakStartedAt, DurationSeconds: secs})
	}
	s.State = StateRunning
	s.BreakType = ""
	s.BreakStartedAt = nil
	return s
}

func complete(userID uuid.UUID, s Snapshot, now time.Time) Completed {
	start := now
	if s.StartedAt != nil {
		start = *s.StartedAt
	}
	span := int(now.Sub(start) / time.Second)
	if span < 0 {
		span = 0
	}

	session := &types.Session{
		ID:        uuid.New(),
		UserID:    userID,
		StartedAt: start,
		EndedAt:   now,
		Status:    types.SessionStatusCompleted,
		Source:    types.SessionSourceTimer,
	}
	if s.SubjectID != nil {
		session.SubjectID = *s.SubjectID
	}

	breaks := make([]*types.Break, 0, len(s.Breaks))
	remaining := span
	for _, b := range s.Breaks {
		// total break time never exceeds the session span
		d := min(b.DurationSeconds, remaining)
		remaining -= d
		breaks = append(breaks, &types.Break{
			ID:              uuid.New(),
			UserID:          userID,
			SessionID:       session.ID,
			Type:            b.Type,
			StartedAt:       b.StartedAt,
			DurationSeconds: d,
		})
	}
	session.DurationSeconds = remaining
	return Completed{Session: session, Breaks: breaks}
}
