package timer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/studyflow-backend/internal/platform/apierr"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestTimerLifecycle(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	store := NewMemoryStore()
	tm := New(store, clock.now)
	user, subject := uuid.New(), uuid.New()

	if snap, err := tm.Current(ctx, user); err != nil || snap.State != StateIdle {
		t.Fatalf("Current=%v,%v want idle", snap.State, err)
	}
	if _, err := tm.Start(ctx, user, subject); err != nil {
		t.Fatalf("Start: %v", err)
	}
	clock.advance(30 * time.Minute)
	if _, err := tm.BeginBreak(ctx, user, "prayer"); err != nil {
		t.Fatalf("BeginBreak: %v", err)
	}
	clock.advance(10 * time.Minute)
	if snap, err := tm.EndBreak(ctx, user); err != nil || snap.State != StateRunning || len(snap.Breaks) != 1 {
		t.Fatalf("EndBreak=%+v,%v", snap, err)
	}
	clock.advance(20 * time.Minute)
	if _, err := tm.BeginBreak(ctx, user, "meal"); err != nil {
		t.Fatalf("BeginBreak(meal): %v", err)
	}
	clock.advance(5 * time.Minute)

	done, err := tm.Stop(ctx, user)
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if done.Session.DurationSeconds != 50*60 {
		t.Fatalf("session duration=%d, want %d", done.Session.DurationSeconds, 50*60)
	}
	if done.Session.SubjectID != subject || done.Session.Source != "timer" {
		t.Fatalf("session=%+v", done.Session)
	}
	if len(done.Breaks) != 2 || done.Breaks[0].DurationSeconds != 600 || done.Breaks[1].Type != "meal" || done.Breaks[1].DurationSeconds != 300 {
		t.Fatalf("breaks=%+v", done.Breaks)
	}
	for _, b := range done.Breaks {
		if b.SessionID != done.Session.ID {
			t.Fatalf("break not linked to session")
		}
	}
	if snap, _ := tm.Current(ctx, user); snap.State != StateIdle {
		t.Fatalf("after Stop state=%s", snap.State)
	}
	// start, break, resume, break, stop
	if store.Saves() != 5 {
		t.Fatalf("Saves=%d, want 5", store.Saves())
	}
}

func TestTimerInvalidTransitions(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	tm := New(store, nil)
	user := uuid.New()

	if _, err := tm.BeginBreak(ctx, user, "rest"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("BeginBreak from idle err=%v", err)
	}
	if _, err := tm.EndBreak(ctx, user); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("EndBreak from idle err=%v", err)
	}
	if _, err := tm.Stop(ctx, user); !errors.Is(err, ErrInvalidTransition) || !errors.Is(err, apierr.ErrConflict) {
		t.Fatalf("Stop from idle err=%v", err)
	}
	if _, err := tm.Start(ctx, user, uuid.New()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := tm.Start(ctx, user, uuid.New()); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Start twice err=%v", err)
	}
	if _, err := tm.BeginBreak(ctx, user, "nap"); !errors.Is(err, apierr.ErrInvalidArgument) {
		t.Fatalf("BeginBreak(nap) err=%v", err)
	}
	if snap, _ := tm.Current(ctx, user); snap.State != StateRunning {
		t.Fatalf("state changed by rejected transitions: %s", snap.State)
	}
	if store.Saves() != 1 {
		t.Fatalf("Saves=%d, want 1", store.Saves())
	}
}

func TestTimerRestoresAcrossInstances(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)}
	store := NewMemoryStore()
	user := uuid.New()

	if _, err := New(store, clock.now).Start(ctx, user, uuid.New()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	clock.advance(45 * time.Minute)
	done, err := New(store, clock.now).Stop(ctx, user)
	if err != nil || done.Session.DurationSeconds != 45*60 {
		t.Fatalf("Stop from fresh instance: %v %+v", err, done.Session)
	}
}
