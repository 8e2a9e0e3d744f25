package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/studyflow-backend/internal/data/repos"
	"github.com/yungbote/studyflow-backend/internal/data/repos/testutil"
	types "github.com/yungbote/studyflow-backend/internal/domain"
	"github.com/yungbote/studyflow-backend/internal/modules/timer"
	"github.com/yungbote/studyflow-backend/internal/platform/apierr"
	"github.com/yungbote/studyflow-backend/internal/platform/dbctx"
)

func TestTimerServiceRecordsSession(t *testing.T) {
	e := newEnv(t)
	sub := testutil.SeedSubject(t, e.ctx, e.db, e.userID, "Physics")

	view, err := e.timer.Start(e.ctx, sub.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if view.State != timer.StateRunning || view.ElapsedSeconds != 0 {
		t.Fatalf("after start=%+v", view)
	}

	e.clock.Advance(30 * time.Minute)
	if _, err := e.timer.BeginBreak(e.ctx, types.BreakTypePrayer); err != nil {
		t.Fatalf("BeginBreak: %v", err)
	}
	e.clock.Advance(10 * time.Minute)
	view, err = e.timer.EndBreak(e.ctx)
	if err != nil {
		t.Fatalf("EndBreak: %v", err)
	}
	if view.ElapsedSeconds != 1800 {
		t.Fatalf("elapsed after break=%d, want 1800", view.ElapsedSeconds)
	}
	e.clock.Advance(20 * time.Minute)

	res, err := e.timer.Stop(e.ctx)
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if res.Session.DurationSeconds != 3000 || res.Session.SubjectID != sub.ID {
		t.Fatalf("session=%+v, want 3000s of Physics", res.Session)
	}
	if len(res.Breaks) != 1 || res.Breaks[0].DurationSeconds != 600 || res.Breaks[0].Type != types.BreakTypePrayer {
		t.Fatalf("breaks=%+v", res.Breaks)
	}

	stored, err := repos.NewSessionRepo(e.db, testutil.Logger(t)).ListByRange(dbctx.Context{Ctx: e.ctx}, e.userID, testNow.Add(-time.Hour), testNow.Add(2*time.Hour))
	if err != nil || len(stored) != 1 {
		t.Fatalf("stored sessions=%d,%v, want 1", len(stored), err)
	}
	cur, _ := e.timer.Current(e.ctx)
	if cur.State != timer.StateIdle {
		t.Fatalf("state after stop=%s, want idle", cur.State)
	}
}

func TestTimerServiceTransitions(t *testing.T) {
	e := newEnv(t)
	sub := testutil.SeedSubject(t, e.ctx, e.db, e.userID, "Physics")

	if _, err := e.timer.Start(e.ctx, uuid.New()); !errors.Is(err, apierr.ErrNotFound) {
		t.Fatalf("Start(unknown subject) err=%v, want ErrNotFound", err)
	}
	if _, err := e.timer.Stop(e.ctx); !errors.Is(err, apierr.ErrConflict) {
		t.Fatalf("Stop(idle) err=%v, want ErrConflict", err)
	}
	if _, err := e.timer.Start(e.ctx, sub.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := e.timer.Start(e.ctx, sub.ID); !errors.Is(err, apierr.ErrConflict) {
		t.Fatalf("second Start err=%v, want ErrConflict", err)
	}
	if _, err := e.timer.BeginBreak(e.ctx, "nap"); !errors.Is(err, apierr.ErrInvalidArgument) {
		t.Fatalf("BeginBreak(nap) err=%v, want ErrInvalidArgument", err)
	}
	if _, err := e.timer.EndBreak(e.ctx); !errors.Is(err, apierr.ErrConflict) {
		t.Fatalf("EndBreak(running) err=%v, want ErrConflict", err)
	}
}

func TestTimerServiceRestoresOnWriteFailure(t *testing.T) {
	e := newEnv(t)
	sub := testutil.SeedSubject(t, e.ctx, e.db, e.userID, "Physics")
	if _, err := e.timer.Start(e.ctx, sub.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	e.clock.Advance(time.Hour)
	if err := e.db.Migrator().DropTable(&types.Session{}); err != nil {
		t.Fatalf("drop sessions: %v", err)
	}

	if _, err := e.timer.Stop(e.ctx); err == nil {
		t.Fatalf("Stop should fail without a sessions table")
	}
	cur, err := e.timer.Current(e.ctx)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if cur.State != timer.StateRunning || cur.SubjectID == nil || *cur.SubjectID != sub.ID {
		t.Fatalf("state after failed stop=%+v, want the running snapshot back", cur)
	}
}

func TestDBTimerStore(t *testing.T) {
	db := testutil.FreshDB(t)
	log := testutil.Logger(t)
	store := NewDBTimerStore(log, repos.NewTimerStateRepo(db, log))
	userID := uuid.New()
	ctx := t.Context()

	snap, err := store.Load(ctx, userID)
	if err != nil || snap.State != timer.StateIdle {
		t.Fatalf("Load(empty)=%+v,%v, want idle", snap, err)
	}

	sub := uuid.New()
	started := testNow.Add(-15 * time.Minute)
	want := timer.Snapshot{State: timer.StateRunning, SubjectID: &sub, StartedAt: &started, UpdatedAt: testNow}
	if err := store.Save(ctx, userID, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	want.State = timer.StateOnBreak
	want.BreakType = types.BreakTypeMeal
	if err := store.Save(ctx, userID, want); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, err := store.Load(ctx, userID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.State != timer.StateOnBreak || got.BreakType != types.BreakTypeMeal || got.SubjectID == nil || *got.SubjectID != sub {
		t.Fatalf("Load()=%+v", got)
	}
	if !got.StartedAt.Equal(started) {
		t.Fatalf("StartedAt=%v, want %v", got.StartedAt, started)
	}
}
