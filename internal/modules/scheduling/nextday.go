package scheduling

import (
	"math"
	"sort"

	"github.com/google/uuid"

	types "github.com/yungbote/studyflow-backend/internal/domain"
)

const defaultNextDayTasks = 2

type NextDayInput struct {
	Date string
	// Subjects are the active subjects.
	Subjects []*types.Subject
	// WeakIDs are weak subjects in severity order.
	WeakIDs []uuid.UUID
	// Shares is each subject's percentage of recent study time.
	Shares map[uuid.UUID]float64
	// GoalHoursPerDay sizes the day when a goal is active.
	GoalHoursPerDay *float64
	Existing        []*types.PlanTask
	StartHour       int
}

// NextDayTaskCount is ceil(goal minutes / default session), clamped to [1, max per day].
func NextDayTaskCount(goalHours *float64, cfg Config) int {
	if goalHours == nil || *goalHours <= 0 {
		return min(defaultNextDayTasks, cfg.MaxTasksPerDay)
	}
	n := int(math.Ceil(*goalHours * 60 / float64(cfg.DefaultSessionMinutes)))
	return min(max(n, 1), cfg.MaxTasksPerDay)
}

// NextDay fills one day up to its task count: weak subjects first, then the
// least-studied ones. A day already at capacity gets nothing.
func NextDay(in NextDayInput, cfg Config) []Slot {
	perDay := NextDayTaskCount(in.GoalHoursPerDay, cfg)
	load := LoadFromTasks(in.Existing, in.Date)
	free := perDay - load.Count[in.Date]
	if free <= 0 || len(in.Subjects) == 0 {
		return []Slot{}
	}

	byID := make(map[uuid.UUID]*types.Subject, len(in.Subjects))
	for _, s := range in.Subjects {
		if s != nil {
			byID[s.ID] = s
		}
	}

	picked := map[uuid.UUID]bool{}
	entries := make([]Entry, 0, free)
	add := func(s *types.Subject, weak bool) {
		dur := cfg.DefaultSessionMinutes
		if weak {
			dur += cfg.WeakBoostMinutes
		}
		id := s.ID
		entries = append(entries, Entry{SubjectID: &id, Subject: s.Name, DurationMinutes: dur, Seq: 1})
		picked[s.ID] = true
	}

	for _, id := range in.WeakIDs {
		if len(entries) >= free {
			break
		}
		if s, ok := byID[id]; ok && !picked[id] {
			add(s, true)
		}
	}

	rest := make([]*types.Subject, 0, len(in.Subjects))
	for _, s := range in.Subjects {
		if s != nil && !picked[s.ID] {
			rest = append(rest, s)
		}
	}
	sort.SliceStable(rest, func(i, j int) bool {
		a, b := in.Shares[rest[i].ID], in.Shares[rest[j].ID]
		if a != b {
			return a < b
		}
		return rest[i].Name < rest[j].Name
	})
	for _, s := range rest {
		if len(entries) >= free {
			break
		}
		add(s, false)
	}

	hour := in.StartHour
	if hour < 0 || hour > 23 {
		hour = cfg.DefaultStartHour
	}
	slots, _ := Distribute(DistributeInput{
		Entries:      entries,
		StartDate:    in.Date,
		TasksPerDay:  perDay,
		StartMinutes: hour * 60,
		GapMinutes:   cfg.GapMinutes,
		Load:         load,
		LastDate:     in.Date,
	})
	return slots
}
