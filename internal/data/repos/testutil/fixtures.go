package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/studyflow-backend/internal/domain"
)

func SeedSubject(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, name string) *types.Subject {
	tb.Helper()
	s := &types.Subject{
		ID:     uuid.New(),
		UserID: userID,
		Name:   name,
		Color:  "#3B82F6",
		Active: true,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed subject: %v", err)
	}
	return s
}

// SeedSession records a completed session of the given net length starting at start.
func SeedSession(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, subjectID uuid.UUID, start time.Time, length time.Duration) *types.Session {
	tb.Helper()
	s := &types.Session{
		ID:              uuid.New(),
		UserID:          userID,
		SubjectID:       subjectID,
		StartedAt:       start,
		EndedAt:         start.Add(length),
		DurationSeconds: int(length / time.Second),
		Status:          types.SessionStatusCompleted,
		Source:          types.SessionSourceManual,
	}
	if err := tx.WithContext(ctx).Omit("Subject").Create(s).Error; err != nil {
		tb.Fatalf("seed session: %v", err)
	}
	return s
}

func SeedBreak(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, sessionID uuid.UUID, kind string, start time.Time, length time.Duration) *types.Break {
	tb.Helper()
	b := &types.Break{
		ID:              uuid.New(),
		UserID:          userID,
		SessionID:       sessionID,
		Type:            kind,
		StartedAt:       start,
		DurationSeconds: int(length / time.Second),
	}
	if err := tx.WithContext(ctx).Omit("Session").Create(b).Error; err != nil {
		tb.Fatalf("seed break: %v", err)
	}
	return b
}

func SeedPlan(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, start, end string) *types.StudyPlan {
	tb.Helper()
	p := &types.StudyPlan{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     "plan",
		StartDate: start,
		EndDate:   end,
		Status:    types.PlanStatusActive,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed plan: %v", err)
	}
	return p
}

func SeedTask(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, planID uuid.UUID, subjectID *uuid.UUID, day, status string, order int) *types.PlanTask {
	tb.Helper()
	t := &types.PlanTask{
		ID:              uuid.New(),
		UserID:          userID,
		PlanID:          planID,
		SubjectID:       subjectID,
		Title:           "task",
		ScheduledDate:   day,
		DurationMinutes: 60,
		Status:          status,
		OrderIndex:      order,
	}
	if err := tx.WithContext(ctx).Omit("Plan", "Subject").Create(t).Error; err != nil {
		tb.Fatalf("seed task: %v", err)
	}
	return t
}

func SeedGoal(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, target string, hours float64) *types.Goal {
	tb.Helper()
	g := &types.Goal{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       "goal",
		TargetDate:  target,
		HoursPerDay: hours,
		Active:      true,
	}
	if err := tx.WithContext(ctx).Create(g).Error; err != nil {
		tb.Fatalf("seed goal: %v", err)
	}
	return g
}
