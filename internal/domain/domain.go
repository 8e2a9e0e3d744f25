package domain

import "github.com/yungbote/studyflow-backend/internal/domain/study"

type Subject = study.Subject
type Session = study.Session
type Break = study.Break
type PlanTask = study.PlanTask
type StudyPlan = study.StudyPlan
type Goal = study.Goal
type PracticeAttempt = study.PracticeAttempt
type SleepLog = study.SleepLog
type TimerState = study.TimerState

const (
	TaskStatusPending    = study.TaskStatusPending
	TaskStatusCompleted  = study.TaskStatusCompleted
	TaskStatusSkipped    = study.TaskStatusSkipped
	TaskStatusInProgress = study.TaskStatusInProgress

	PlanStatusActive   = study.PlanStatusActive
	PlanStatusArchived = study.PlanStatusArchived

	SessionStatusCompleted = study.SessionStatusCompleted
	SessionSourceTimer     = study.SessionSourceTimer
	SessionSourceManual    = study.SessionSourceManual

	BreakTypePrayer = study.BreakTypePrayer
	BreakTypeMeal   = study.BreakTypeMeal
	BreakTypeRest   = study.BreakTypeRest
)

var (
	SubjectKey       = study.SubjectKey
	ValidTaskStatus  = study.ValidTaskStatus
	ValidBreakType   = study.ValidBreakType
	EncodeSubjectIDs = study.EncodeSubjectIDs
)

// AllModels lists every table for automigration.
func AllModels() []any {
	return []any{
		&Subject{},
		&Session{},
		&Break{},
		&StudyPlan{},
		&PlanTask{},
		&Goal{},
		&PracticeAttempt{},
		&SleepLog{},
		&TimerState{},
	}
}
