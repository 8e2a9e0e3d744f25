package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/studyflow-backend/internal/data/repos"
	types "github.com/yungbote/studyflow-backend/internal/domain"
	"github.com/yungbote/studyflow-backend/internal/modules/analytics"
	"github.com/yungbote/studyflow-backend/internal/modules/narrative"
	"github.com/yungbote/studyflow-backend/internal/observability"
	"github.com/yungbote/studyflow-backend/internal/platform/apierr"
	"github.com/yungbote/studyflow-backend/internal/platform/dateutil"
	"github.com/yungbote/studyflow-backend/internal/platform/dbctx"
	"github.com/yungbote/studyflow-backend/internal/platform/logger"
)

const unassignedSubject = "General"

type AnalyticsService interface {
	Profile(ctx context.Context, windowDays int) (analytics.Profile, error)
	Scores(ctx context.Context) (analytics.Scores, error)
	WeakAreas(ctx context.Context) ([]analytics.WeakArea, error)
	// Readiness computes the deterministic report and then lets the enhancer
	// refine the narrative fields it can validate.
	Readiness(ctx context.Context) (analytics.ReadinessReport, error)
	Compare(ctx context.Context, date string) (analytics.Comparison, error)
	// Signals bundles what the scheduler reads: the default-window profile, the
	// weak areas derived from it and the active subjects.
	Signals(ctx context.Context) (Signals, error)
}

type Signals struct {
	Profile   analytics.Profile
	WeakAreas []analytics.WeakArea
	Subjects  []*types.Subject
}

type AnalyticsDeps struct {
	Subjects repos.SubjectRepo
	Sessions repos.SessionRepo
	Breaks   repos.BreakRepo
	Plans    repos.StudyPlanRepo
	Tasks    repos.PlanTaskRepo
	Goals    repos.GoalRepo
	Practice repos.PracticeAttemptRepo
	Sleep    repos.SleepLogRepo
	Enhancer narrative.Enhancer
	Calendar Calendar
	Metrics  *observability.Metrics
}

type analyticsService struct {
	db   *gorm.DB
	log  *logger.Logger
	deps AnalyticsDeps
}

func NewAnalyticsService(db *gorm.DB, log *logger.Logger, deps AnalyticsDeps) AnalyticsService {
	if deps.Enhancer == nil {
		deps.Enhancer = narrative.Disabled()
	}
	return &analyticsService{db: db, log: log.With("service", "AnalyticsService"), deps: deps}
}

type profileData struct {
	profile  analytics.Profile
	subjects []*types.Subject
}

// loadProfile reads the window's history in parallel and builds the profile.
func (s *analyticsService) loadProfile(ctx context.Context, userID uuid.UUID, today string, window int) (profileData, error) {
	if window <= 0 {
		window = analytics.DefaultWindowDays
	}
	loc := s.deps.Calendar.Loc
	fromDay := analytics.WindowStart(today, window)
	from, to := dateutil.Span(fromDay, today, loc)

	var (
		sessions []*types.Session
		breaks   []*types.Break
		subjects []*types.Subject
		sleep    []*types.SleepLog
	)
	g, gctx := errgroup.WithContext(ctx)
	gdbc := dbctx.Context{Ctx: gctx}
	g.Go(func() (err error) {
		sessions, err = s.deps.Sessions.ListByRange(gdbc, userID, from, to)
		return err
	})
	g.Go(func() (err error) {
		breaks, err = s.deps.Breaks.ListByRange(gdbc, userID, from, to)
		return err
	})
	g.Go(func() (err error) {
		subjects, err = s.deps.Subjects.GetByUserID(gdbc, userID, false)
		return err
	})
	g.Go(func() (err error) {
		sleep, err = s.deps.Sleep.ListByRange(gdbc, userID, fromDay, today)
		return err
	})
	if err := g.Wait(); err != nil {
		return profileData{}, fmt.Errorf("load history: %w", err)
	}

	p := analytics.BuildProfile(analytics.ProfileInput{
		Today:      today,
		WindowDays: window,
		Loc:        loc,
		Sessions:   sessions,
		Breaks:     breaks,
		Subjects:   subjects,
		SleepLogs:  sleep,
	})
	return profileData{profile: p, subjects: subjects}, nil
}

func (s *analyticsService) Profile(ctx context.Context, windowDays int) (analytics.Profile, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return analytics.Profile{}, err
	}
	if windowDays < 0 || windowDays > 365 {
		return analytics.Profile{}, apierr.Invalid("window must be between 1 and 365 days")
	}
	ctx, run := startPipeline(ctx, s.deps.Metrics, "profile", userID)
	pd, err := s.loadProfile(ctx, userID, s.deps.Calendar.Today(), windowDays)
	run.end(err)
	return pd.profile, err
}

func (s *analyticsService) Scores(ctx context.Context) (out analytics.Scores, err error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return analytics.Scores{}, err
	}
	ctx, run := startPipeline(ctx, s.deps.Metrics, "scores", userID)
	defer func() { run.end(err) }()

	today := s.deps.Calendar.Today()
	fromDay := dateutil.AddDays(today, -(analytics.ScoreWindowDays - 1))
	loc := s.deps.Calendar.Loc
	from, to := dateutil.Span(fromDay, today, loc)

	var (
		sessions        []*types.Session
		breaks          []*types.Break
		total, finished int64
	)
	g, gctx := errgroup.WithContext(ctx)
	dbc := dbctx.Context{Ctx: gctx}
	g.Go(func() (err error) {
		sessions, err = s.deps.Sessions.ListByRange(dbc, userID, from, to)
		return err
	})
	g.Go(func() (err error) {
		breaks, err = s.deps.Breaks.ListByRange(dbc, userID, from, to)
		return err
	})
	g.Go(func() (err error) {
		total, err = s.deps.Tasks.Count(dbc, userID, repos.TaskFilter{From: fromDay, To: today})
		return err
	})
	g.Go(func() (err error) {
		finished, err = s.deps.Tasks.Count(dbc, userID, repos.TaskFilter{
			From: fromDay, To: today, Statuses: []string{types.TaskStatusCompleted},
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return analytics.Scores{}, fmt.Errorf("load score window: %w", err)
	}

	in := analytics.ScoreInput{TasksTotal: int(total), TasksCompleted: int(finished)}
	days := map[string]bool{}
	for _, ss := range sessions {
		in.StudySeconds += ss.DurationSeconds
		days[dateutil.Day(ss.StartedAt, loc)] = true
	}
	for _, b := range breaks {
		in.BreakSeconds += b.DurationSeconds
	}
	in.StudyDays = len(days)
	return analytics.ComputeScores(in), nil
}

func (s *analyticsService) WeakAreas(ctx context.Context) (out []analytics.WeakArea, err error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	ctx, run := startPipeline(ctx, s.deps.Metrics, "weak_areas", userID)
	defer func() { run.end(err) }()
	areas, _, err := s.detectWeakAreas(ctx, userID, s.deps.Calendar.Today())
	return areas, err
}

func (s *analyticsService) detectWeakAreas(ctx context.Context, userID uuid.UUID, today string) ([]analytics.WeakArea, profileData, error) {
	var (
		pd       profileData
		practice []*types.PracticeAttempt
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		pd, err = s.loadProfile(gctx, userID, today, analytics.DefaultWindowDays)
		return err
	})
	g.Go(func() (err error) {
		practice, err = s.deps.Practice.ListGraded(dbctx.Context{Ctx: gctx}, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, profileData{}, err
	}
	areas := analytics.DetectWeakAreas(analytics.WeakAreaInput{
		Today:    today,
		Profile:  pd.profile,
		Subjects: activeSubjects(pd.subjects),
		Practice: practice,
	})
	return areas, pd, nil
}

func (s *analyticsService) Signals(ctx context.Context) (Signals, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return Signals{}, err
	}
	areas, pd, err := s.detectWeakAreas(ctx, userID, s.deps.Calendar.Today())
	if err != nil {
		return Signals{}, err
	}
	return Signals{Profile: pd.profile, WeakAreas: areas, Subjects: activeSubjects(pd.subjects)}, nil
}

func activeSubjects(all []*types.Subject) []*types.Subject {
	out := make([]*types.Subject, 0, len(all))
	for _, sub := range all {
		if sub != nil && sub.Active {
			out = append(out, sub)
		}
	}
	return out
}

func (s *analyticsService) Readiness(ctx context.Context) (rep analytics.ReadinessReport, err error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return analytics.ReadinessReport{}, err
	}
	ctx, run := startPipeline(ctx, s.deps.Metrics, "readiness", userID)
	defer func() { run.end(err) }()

	today := s.deps.Calendar.Today()
	sleepFrom := analytics.WindowStart(today, analytics.DefaultWindowDays)

	var (
		goal     *types.Goal
		plan     *types.StudyPlan
		subjects []*types.Subject
		sleep    []*types.SleepLog
	)
	g, gctx := errgroup.WithContext(ctx)
	dbc := dbctx.Context{Ctx: gctx}
	g.Go(func() (err error) {
		goal, err = s.deps.Goals.GetActive(dbc, userID)
		return err
	})
	g.Go(func() (err error) {
		plan, err = s.deps.Plans.GetActive(dbc, userID)
		return err
	})
	g.Go(func() (err error) {
		subjects, err = s.deps.Subjects.GetByUserID(dbc, userID, false)
		return err
	})
	g.Go(func() (err error) {
		sleep, err = s.deps.Sleep.ListByRange(dbc, userID, sleepFrom, today)
		return err
	})
	if err := g.Wait(); err != nil {
		return analytics.ReadinessReport{}, fmt.Errorf("load readiness inputs: %w", err)
	}

	deadline := ""
	filter := repos.TaskFilter{}
	switch {
	case goal != nil:
		deadline = goal.TargetDate
	case plan != nil:
		deadline = plan.EndDate
	}
	if plan != nil {
		filter.PlanID = &plan.ID
	} else if deadline != "" {
		filter.To = deadline
	}

	var tasks []*types.PlanTask
	if deadline != "" {
		tasks, err = s.deps.Tasks.List(dbctx.Context{Ctx: ctx}, userID, filter)
		if err != nil {
			return analytics.ReadinessReport{}, fmt.Errorf("load tasks: %w", err)
		}
	}
	groups := groupTasks(tasks, subjects)
	ids := make([]uuid.UUID, 0, len(groups))
	for _, grp := range groups {
		if grp.SubjectID != nil {
			ids = append(ids, *grp.SubjectID)
		}
	}
	latest, err := s.deps.Sessions.LatestBySubject(dbctx.Context{Ctx: ctx}, userID, ids)
	if err != nil {
		return analytics.ReadinessReport{}, fmt.Errorf("load last studied: %w", err)
	}
	for i := range groups {
		if id := groups[i].SubjectID; id != nil {
			if t, ok := latest[*id]; ok {
				groups[i].LastStudied = dateutil.Day(t, s.deps.Calendar.Loc)
			}
		}
	}

	rep = analytics.EstimateReadiness(analytics.ReadinessInput{
		Today:         today,
		Deadline:      deadline,
		Subjects:      groups,
		AvgSleepHours: analytics.AvgSleep(sleep),
	})
	rep = narrative.EnhanceReadiness(ctx, s.deps.Enhancer, s.log, rep)
	switch {
	case rep.Indeterminate:
		s.deps.Metrics.IncEnhancer("skipped")
	case rep.Enhanced:
		s.deps.Metrics.IncEnhancer("applied")
	default:
		s.deps.Metrics.IncEnhancer("fallback")
	}
	return rep, nil
}

// groupTasks buckets tasks per subject in subject catalog order; tasks without a
// subject collapse into one "General" bucket at the end.
func groupTasks(tasks []*types.PlanTask, subjects []*types.Subject) []analytics.SubjectTasks {
	byID := map[uuid.UUID]*analytics.SubjectTasks{}
	var general *analytics.SubjectTasks
	for _, t := range tasks {
		var bucket *analytics.SubjectTasks
		if t.SubjectID == nil {
			if general == nil {
				general = &analytics.SubjectTasks{Name: unassignedSubject}
			}
			bucket = general
		} else {
			bucket = byID[*t.SubjectID]
			if bucket == nil {
				id := *t.SubjectID
				bucket = &analytics.SubjectTasks{SubjectID: &id}
				byID[id] = bucket
			}
		}
		bucket.Total++
		if t.Status == types.TaskStatusCompleted {
			bucket.Completed++
		}
	}

	out := make([]analytics.SubjectTasks, 0, len(byID)+1)
	for _, sub := range subjects {
		if b, ok := byID[sub.ID]; ok {
			b.Name = sub.Name
			out = append(out, *b)
			delete(byID, sub.ID)
		}
	}
	// subjects deleted since the tasks were scheduled
	for _, b := range byID {
		b.Name = unassignedSubject
		b.SubjectID = nil
		if general == nil {
			general = &analytics.SubjectTasks{Name: unassignedSubject}
		}
		general.Total += b.Total
		general.Completed += b.Completed
	}
	if general != nil {
		out = append(out, *general)
	}
	return out
}

func (s *analyticsService) Compare(ctx context.Context, date string) (out analytics.Comparison, err error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return analytics.Comparison{}, err
	}
	if date == "" {
		date = s.deps.Calendar.Today()
	}
	if !dateutil.Valid(date) {
		return analytics.Comparison{}, apierr.Invalid("date must be YYYY-MM-DD")
	}
	ctx, run := startPipeline(ctx, s.deps.Metrics, "compare", userID)
	defer func() { run.end(err) }()

	from, to := dateutil.Span(date, date, s.deps.Calendar.Loc)
	var (
		tasks    []*types.PlanTask
		sessions []*types.Session
		subjects []*types.Subject
	)
	g, gctx := errgroup.WithContext(ctx)
	dbc := dbctx.Context{Ctx: gctx}
	g.Go(func() (err error) {
		tasks, err = s.deps.Tasks.List(dbc, userID, repos.TaskFilter{From: date, To: date})
		return err
	})
	g.Go(func() (err error) {
		sessions, err = s.deps.Sessions.ListByRange(dbc, userID, from, to)
		return err
	})
	g.Go(func() (err error) {
		subjects, err = s.deps.Subjects.GetByUserID(dbc, userID, false)
		return err
	})
	if err := g.Wait(); err != nil {
		return analytics.Comparison{}, fmt.Errorf("load day: %w", err)
	}
	names := make(map[uuid.UUID]string, len(subjects))
	for _, sub := range subjects {
		names[sub.ID] = sub.Name
	}
	return analytics.ComparePlanActual(analytics.CompareInput{
		Date:     date,
		Tasks:    tasks,
		Sessions: sessions,
		Names:    names,
	}), nil
}
