package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/studyflow-backend/internal/data/repos/study"
	"github.com/yungbote/studyflow-backend/internal/platform/logger"
)

type SubjectRepo = study.SubjectRepo
type SessionRepo = study.SessionRepo
type BreakRepo = study.BreakRepo
type StudyPlanRepo = study.StudyPlanRepo
type PlanTaskRepo = study.PlanTaskRepo
type GoalRepo = study.GoalRepo
type PracticeAttemptRepo = study.PracticeAttemptRepo
type SleepLogRepo = study.SleepLogRepo
type TimerStateRepo = study.TimerStateRepo

type TaskFilter = study.TaskFilter

func NewSubjectRepo(db *gorm.DB, baseLog *logger.Logger) SubjectRepo {
	return study.NewSubjectRepo(db, baseLog)
}
func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return study.NewSessionRepo(db, baseLog)
}
func NewBreakRepo(db *gorm.DB, baseLog *logger.Logger) BreakRepo {
	return study.NewBreakRepo(db, baseLog)
}
func NewStudyPlanRepo(db *gorm.DB, baseLog *logger.Logger) StudyPlanRepo {
	return study.NewStudyPlanRepo(db, baseLog)
}
func NewPlanTaskRepo(db *gorm.DB, baseLog *logger.Logger) PlanTaskRepo {
	return study.NewPlanTaskRepo(db, baseLog)
}
func NewGoalRepo(db *gorm.DB, baseLog *logger.Logger) GoalRepo {
	return study.NewGoalRepo(db, baseLog)
}
func NewPracticeAttemptRepo(db *gorm.DB, baseLog *logger.Logger) PracticeAttemptRepo {
	return study.NewPracticeAttemptRepo(db, baseLog)
}
func NewSleepLogRepo(db *gorm.DB, baseLog *logger.Logger) SleepLogRepo {
	return study.NewSleepLogRepo(db, baseLog)
}
func NewTimerStateRepo(db *gorm.DB, baseLog *logger.Logger) TimerStateRepo {
	return study.NewTimerStateRepo(db, baseLog)
}
