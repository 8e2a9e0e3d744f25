package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/studyflow-backend/internal/data/repos"
	types "github.com/yungbote/studyflow-backend/internal/domain"
	"github.com/yungbote/studyflow-backend/internal/platform/apierr"
	"github.com/yungbote/studyflow-backend/internal/platform/dateutil"
	"github.com/yungbote/studyflow-backend/internal/platform/dbctx"
	"github.com/yungbote/studyflow-backend/internal/platform/logger"
)

type PracticeInput struct {
	SubjectName     string    `json:"subject_name"`
	GradePct        *float64  `json:"grade_pct"`
	StartedAt       time.Time `json:"started_at"`
	DurationSeconds int       `json:"duration_seconds"`
}

// SignalService ingests the side signals the analytics read: sleep and practice grades.
type SignalService interface {
	// LogSleep records the hours slept on date, replacing any earlier entry for that date.
	LogSleep(ctx context.Context, date string, hours float64) (*types.SleepLog, error)
	RecordPractice(ctx context.Context, in PracticeInput) (*types.PracticeAttempt, error)
}

type signalService struct {
	db           *gorm.DB
	log          *logger.Logger
	sleepRepo    repos.SleepLogRepo
	practiceRepo repos.PracticeAttemptRepo
	calendar     Calendar
}

func NewSignalService(db *gorm.DB, log *logger.Logger, sleepRepo repos.SleepLogRepo, practiceRepo repos.PracticeAttemptRepo, cal Calendar) SignalService {
	return &signalService{
		db:           db,
		log:          log.With("service", "SignalService"),
		sleepRepo:    sleepRepo,
		practiceRepo: practiceRepo,
		calendar:     cal,
	}
}

func (s *signalService) LogSleep(ctx context.Context, date string, hours float64) (*types.SleepLog, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	date = strings.TrimSpace(date)
	if date == "" {
		date = s.calendar.Today()
	}
	if !dateutil.Valid(date) {
		return nil, apierr.Invalid("date must be YYYY-MM-DD")
	}
	if hours < 0 || hours > 24 {
		return nil, apierr.Invalid("hours must be between 0 and 24")
	}
	row := &types.SleepLog{UserID: userID, Date: date, Hours: hours}
	if err := s.sleepRepo.Upsert(dbctx.Context{Ctx: ctx}, row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *signalService) RecordPractice(ctx context.Context, in PracticeInput) (*types.PracticeAttempt, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.SubjectName)
	if name == "" {
		return nil, apierr.Invalid("subject_name is required")
	}
	if in.GradePct != nil && (*in.GradePct < 0 || *in.GradePct > 100) {
		return nil, apierr.Invalid("grade_pct must be between 0 and 100")
	}
	if in.DurationSeconds < 0 {
		return nil, apierr.Invalid("duration_seconds cannot be negative")
	}
	started := in.StartedAt
	if started.IsZero() {
		started = s.calendar.Now()
	}
	row := &types.PracticeAttempt{
		UserID:          userID,
		SubjectName:     name,
		GradePct:        in.GradePct,
		StartedAt:       started,
		DurationSeconds: in.DurationSeconds,
	}
	if _, err := s.practiceRepo.Create(dbctx.Context{Ctx: ctx}, []*types.PracticeAttempt{row}); err != nil {
		return nil, err
	}
	return row, nil
}
