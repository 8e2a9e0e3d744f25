package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/studyflow-backend/internal/data/repos"
	"github.com/yungbote/studyflow-backend/internal/platform/logger"
)

type Repos struct {
	Subject    repos.SubjectRepo
	Session    repos.SessionRepo
	Break      repos.BreakRepo
	StudyPlan  repos.StudyPlanRepo
	PlanTask   repos.PlanTaskRepo
	Goal       repos.GoalRepo
	Practice   repos.PracticeAttemptRepo
	SleepLog   repos.SleepLogRepo
	TimerState repos.TimerStateRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Subject:    repos.NewSubjectRepo(db, log),
		Session:    repos.NewSessionRepo(db, log),
		Break:      repos.NewBreakRepo(db, log),
		StudyPlan:  repos.NewStudyPlanRepo(db, log),
		PlanTask:   repos.NewPlanTaskRepo(db, log),
		Goal:       repos.NewGoalRepo(db, log),
		Practice:   repos.NewPracticeAttemptRepo(db, log),
		SleepLog:   repos.NewSleepLogRepo(db, log),
		TimerState: repos.NewTimerStateRepo(db, log),
	}
}
