package study

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/studyflow-backend/internal/data/repos/testutil"
	types "github.com/yungbote/studyflow-backend/internal/domain"
	"github.com/yungbote/studyflow-backend/internal/platform/dbctx"
)

func TestSubjectRepoUpsert(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewSubjectRepo(db, testutil.Logger(t))
	userID := uuid.New()

	first, err := repo.Upsert(dbc, &types.Subject{UserID: userID, Name: "Organic Chemistry", Color: "#111111", Active: true})
	if err != nil || first == nil {
		t.Fatalf("Upsert: err=%v row=%v", err, first)
	}
	again, err := repo.Upsert(dbc, &types.Subject{UserID: userID, Name: "  organic   CHEMISTRY ", Color: "#222222", Active: true})
	if err != nil || again == nil {
		t.Fatalf("Upsert again: err=%v row=%v", err, again)
	}
	if again.ID != first.ID || again.Color != "#111111" {
		t.Fatalf("Upsert again: got id=%s color=%s, want id=%s color=#111111", again.ID, again.Color, first.ID)
	}

	if err := repo.UpdateFields(dbc, userID, first.ID, map[string]any{"active": false}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	if rows, err := repo.GetByUserID(dbc, userID, true); err != nil || len(rows) != 0 {
		t.Fatalf("GetByUserID(active): err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.GetByUserID(dbc, userID, false); err != nil || len(rows) != 1 {
		t.Fatalf("GetByUserID(all): err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.GetByIDs(dbc, uuid.New(), []uuid.UUID{first.ID}); err != nil || len(rows) != 0 {
		t.Fatalf("GetByIDs(other user): err=%v len=%d", err, len(rows))
	}
}

func TestSessionRepoRangesAndLatest(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	log := testutil.Logger(t)
	sessions := NewSessionRepo(db, log)
	breaks := NewBreakRepo(db, log)

	userID := uuid.New()
	math := testutil.SeedSubject(t, ctx, tx, userID, "Math")
	bio := testutil.SeedSubject(t, ctx, tx, userID, "Biology")

	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	s1 := testutil.SeedSession(t, ctx, tx, userID, math.ID, base, time.Hour)
	testutil.SeedSession(t, ctx, tx, userID, math.ID, base.Add(48*time.Hour), 30*time.Minute)
	testutil.SeedSession(t, ctx, tx, userID, bio.ID, base.Add(-72*time.Hour), 45*time.Minute)
	testutil.SeedBreak(t, ctx, tx, userID, s1.ID, types.BreakTypeRest, base.Add(20*time.Minute), 5*time.Minute)

	rows, err := sessions.ListByRange(dbc, userID, base, base.Add(72*time.Hour))
	if err != nil || len(rows) != 2 {
		t.Fatalf("ListByRange: err=%v len=%d", err, len(rows))
	}
	if !rows[0].StartedAt.Equal(base) {
		t.Fatalf("ListByRange order: first=%v want %v", rows[0].StartedAt, base)
	}
	if n, err := sessions.CountByRange(dbc, userID, base.Add(-96*time.Hour), base); err != nil || n != 1 {
		t.Fatalf("CountByRange: err=%v n=%d", err, n)
	}

	latest, err := sessions.LatestBySubject(dbc, userID, []uuid.UUID{math.ID, bio.ID, uuid.New()})
	if err != nil {
		t.Fatalf("LatestBySubject: %v", err)
	}
	if got := latest[math.ID]; !got.Equal(base.Add(48 * time.Hour)) {
		t.Fatalf("LatestBySubject(math)=%v want %v", got, base.Add(48*time.Hour))
	}
	if len(latest) != 2 {
		t.Fatalf("LatestBySubject len=%d want 2", len(latest))
	}

	if bs, err := breaks.ListBySessionIDs(dbc, userID, []uuid.UUID{s1.ID}); err != nil || len(bs) != 1 {
		t.Fatalf("ListBySessionIDs: err=%v len=%d", err, len(bs))
	}
	if bs, err := breaks.ListByRange(dbc, userID, base, base.Add(time.Hour)); err != nil || len(bs) != 1 {
		t.Fatalf("Breaks ListByRange: err=%v len=%d", err, len(bs))
	}
}

func TestPlanAndTaskRepos(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	log := testutil.Logger(t)
	plans := NewStudyPlanRepo(db, log)
	tasks := NewPlanTaskRepo(db, log)
	userID := uuid.New()

	old := testutil.SeedPlan(t, ctx, tx, userID, "2026-01-01", "2026-01-31")
	plan, err := plans.Create(dbc, &types.StudyPlan{UserID: userID, Title: "exam", StartDate: "2026-02-01", EndDate: "2026-02-20"})
	if err != nil {
		t.Fatalf("Create plan: %v", err)
	}
	if err := plans.ArchiveOthers(dbc, userID, plan.ID); err != nil {
		t.Fatalf("ArchiveOthers: %v", err)
	}
	active, err := plans.GetActive(dbc, userID)
	if err != nil || active == nil || active.ID != plan.ID {
		t.Fatalf("GetActive: err=%v row=%v", err, active)
	}
	if row, _ := plans.GetByID(dbc, userID, old.ID); row == nil || row.Status != types.PlanStatusArchived {
		t.Fatalf("old plan status=%v want archived", row)
	}

	created, err := tasks.CreateBatch(dbc, []*types.PlanTask{
		{UserID: userID, PlanID: plan.ID, Title: "a", ScheduledDate: "2026-02-01", DurationMinutes: 60, OrderIndex: 0},
		{UserID: userID, PlanID: plan.ID, Title: "b", ScheduledDate: "2026-02-01", DurationMinutes: 60, OrderIndex: 1},
		{UserID: userID, PlanID: plan.ID, Title: "c", ScheduledDate: "2026-02-03", DurationMinutes: 45, OrderIndex: 0, Status: types.TaskStatusCompleted},
	})
	if err != nil || len(created) != 3 {
		t.Fatalf("CreateBatch: err=%v len=%d", err, len(created))
	}

	pending, err := tasks.List(dbc, userID, TaskFilter{Before: "2026-02-03", Statuses: []string{types.TaskStatusPending}})
	if err != nil || len(pending) != 2 || pending[0].Title != "a" {
		t.Fatalf("List(overdue): err=%v len=%d", err, len(pending))
	}
	if n, err := tasks.Count(dbc, userID, TaskFilter{From: "2026-02-01", To: "2026-02-03", ExcludeSt: []string{types.TaskStatusCompleted}}); err != nil || n != 2 {
		t.Fatalf("Count: err=%v n=%d", err, n)
	}

	if err := tasks.UpdateFields(dbc, userID, created[0].ID, map[string]any{"scheduled_date": "2026-02-05"}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	if row, _ := tasks.GetByID(dbc, userID, created[0].ID); row == nil || row.ScheduledDate != "2026-02-05" {
		t.Fatalf("GetByID after update: %v", row)
	}
	if err := tasks.Delete(dbc, userID, created[1].ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if row, _ := tasks.GetByID(dbc, userID, created[1].ID); row != nil {
		t.Fatalf("GetByID after delete: %v", row)
	}
}

func TestGoalSleepAndTimerRepos(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	log := testutil.Logger(t)
	userID := uuid.New()

	goals := NewGoalRepo(db, log)
	g1 := testutil.SeedGoal(t, ctx, tx, userID, "2026-05-01", 2)
	g2, err := goals.Create(dbc, &types.Goal{UserID: userID, Title: "finals", TargetDate: "2026-06-01", HoursPerDay: 3, Active: true})
	if err != nil {
		t.Fatalf("Create goal: %v", err)
	}
	if err := goals.DeactivateOthers(dbc, userID, g2.ID); err != nil {
		t.Fatalf("DeactivateOthers: %v", err)
	}
	if got, err := goals.GetActive(dbc, userID); err != nil || got == nil || got.ID != g2.ID {
		t.Fatalf("GetActive: err=%v got=%v (old=%s)", err, got, g1.ID)
	}

	sleep := NewSleepLogRepo(db, log)
	if err := sleep.Upsert(dbc, &types.SleepLog{UserID: userID, Date: "2026-03-01", Hours: 5}); err != nil {
		t.Fatalf("Upsert sleep: %v", err)
	}
	if err := sleep.Upsert(dbc, &types.SleepLog{UserID: userID, Date: "2026-03-01", Hours: 7.5}); err != nil {
		t.Fatalf("Upsert sleep again: %v", err)
	}
	logs, err := sleep.ListByRange(dbc, userID, "2026-03-01", "2026-03-07")
	if err != nil || len(logs) != 1 || logs[0].Hours != 7.5 {
		t.Fatalf("ListByRange: err=%v logs=%v", err, logs)
	}

	timers := NewTimerStateRepo(db, log)
	if row, err := timers.Get(dbc, userID); err != nil || row != nil {
		t.Fatalf("Get(empty): err=%v row=%v", err, row)
	}
	if err := timers.Put(dbc, &types.TimerState{UserID: userID, Payload: []byte(`{"state":"running"}`)}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := timers.Put(dbc, &types.TimerState{UserID: userID, Payload: []byte(`{"state":"on_break"}`)}); err != nil {
		t.Fatalf("Put again: %v", err)
	}
	row, err := timers.Get(dbc, userID)
	if err != nil || row == nil || string(row.Payload) != `{"state":"on_break"}` {
		t.Fatalf("Get: err=%v row=%v", err, row)
	}
	if err := timers.Delete(dbc, userID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestPracticeAttemptRepoListGraded(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewPracticeAttemptRepo(db, testutil.Logger(t))
	userID := uuid.New()
	grade := 42.0

	_, err := repo.Create(dbc, []*types.PracticeAttempt{
		{UserID: userID, SubjectName: "math", GradePct: &grade, StartedAt: time.Now()},
		{UserID: userID, SubjectName: "math", StartedAt: time.Now()},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	rows, err := repo.ListGraded(dbc, userID)
	if err != nil || len(rows) != 1 || *rows[0].GradePct != 42 {
		t.Fatalf("ListGraded: err=%v len=%d", err, len(rows))
	}
}
