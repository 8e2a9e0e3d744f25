package scheduling

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	types "github.com/yungbote/studyflow-backend/internal/domain"
	"github.com/yungbote/studyflow-backend/internal/platform/apierr"
	"github.com/yungbote/studyflow-backend/internal/platform/dateutil"
)

const minutesPerDay = 24 * 60

// SubjectRequest asks for Sessions sessions of one subject.
type SubjectRequest struct {
	SubjectID       *uuid.UUID
	Name            string
	Sessions        int
	DurationMinutes int
	Weak            bool
}

type Entry struct {
	SubjectID       *uuid.UUID
	Subject         string
	DurationMinutes int
	IsReview        bool
	// Seq is the 1-based position within the subject's queue.
	Seq int
}

func (e Entry) Title() string {
	if e.IsReview {
		return fmt.Sprintf("%s review %d", e.Subject, e.Seq)
	}
	return fmt.Sprintf("%s session %d", e.Subject, e.Seq)
}

// Slot is an entry placed on a calendar day.
type Slot struct {
	Entry
	Date       string
	StartTime  *string
	OrderIndex int
}

// ReviewCount is the number of review entries appended for a weak subject.
func ReviewCount(sessions int) int {
	return max(1, sessions/3)
}

// BuildQueues creates one FIFO queue per request, in request order. Weak subjects
// get longer sessions plus trailing reviews at a reduced duration.
func BuildQueues(reqs []SubjectRequest, cfg Config) [][]Entry {
	queues := make([][]Entry, 0, len(reqs))
	for _, r := range reqs {
		if r.Sessions <= 0 {
			continue
		}
		dur := r.DurationMinutes
		if dur <= 0 {
			dur = cfg.DefaultSessionMinutes
		}
		normal := dur
		if r.Weak {
			normal += cfg.WeakBoostMinutes
		}
		q := make([]Entry, 0, r.Sessions+ReviewCount(r.Sessions))
		for i := 0; i < r.Sessions; i++ {
			q = append(q, Entry{SubjectID: r.SubjectID, Subject: r.Name, DurationMinutes: normal, Seq: i + 1})
		}
		if r.Weak {
			reviewDur := max(1, int(math.Round(float64(dur)*cfg.ReviewRatio)))
			for i := 0; i < ReviewCount(r.Sessions); i++ {
				q = append(q, Entry{SubjectID: r.SubjectID, Subject: r.Name, DurationMinutes: reviewDur, IsReview: true, Seq: i + 1})
			}
		}
		queues = append(queues, q)
	}
	return queues
}

// Interleave pops one entry from each non-empty queue per round, in queue order,
// until every queue is drained.
func Interleave(queues [][]Entry) []Entry {
	total := 0
	for _, q := range queues {
		total += len(q)
	}
	out := make([]Entry, 0, total)
	for round := 0; len(out) < total; round++ {
		for _, q := range queues {
			if round < len(q) {
				out = append(out, q[round])
			}
		}
	}
	return out
}

// DayLoad is the pre-existing occupancy of scheduled days.
type DayLoad struct {
	Count map[string]int
	// EndMinutes is the latest end of a timed task on the day, in minutes since midnight.
	EndMinutes map[string]int
}

// LoadFromTasks seeds a DayLoad from existing non-completed tasks on or after from.
func LoadFromTasks(tasks []*types.PlanTask, from string) DayLoad {
	load := DayLoad{Count: map[string]int{}, EndMinutes: map[string]int{}}
	for _, t := range tasks {
		if t == nil || t.Status == types.TaskStatusCompleted || t.ScheduledDate < from {
			continue
		}
		load.Count[t.ScheduledDate]++
		if t.StartTime == nil {
			continue
		}
		start, err := dateutil.ParseClock(*t.StartTime)
		if err != nil {
			continue
		}
		if end := start + t.DurationMinutes; end > load.EndMinutes[t.ScheduledDate] {
			load.EndMinutes[t.ScheduledDate] = end
		}
	}
	return load
}

type DistributeInput struct {
	Entries     []Entry
	StartDate   string
	TasksPerDay int
	// StartMinutes is when the first task of a day may begin.
	StartMinutes int
	GapMinutes   int
	Load         DayLoad
	// LastDate stops placement; entries that do not fit before it are returned unplaced. Empty means no limit.
	LastDate string
}

// Distribute walks entries in order with a monotonic day cursor, placing each on the
// first day whose load is under TasksPerDay. Pre-existing load counts toward the cap.
func Distribute(in DistributeInput) (placed []Slot, unplaced []Entry) {
	perDay := max(1, in.TasksPerDay)
	count := make(map[string]int, len(in.Load.Count))
	for d, n := range in.Load.Count {
		count[d] = n
	}
	clock := map[string]int{}

	day := in.StartDate
	placed = make([]Slot, 0, len(in.Entries))
	for i, e := range in.Entries {
		for count[day] >= perDay {
			day = dateutil.AddDays(day, 1)
		}
		if in.LastDate != "" && day > in.LastDate {
			unplaced = append(unplaced, in.Entries[i:]...)
			break
		}

		cur, ok := clock[day]
		if !ok {
			cur = in.StartMinutes
			if end, has := in.Load.EndMinutes[day]; has && end+in.GapMinutes > cur {
				cur = end + in.GapMinutes
			}
		}
		slot := Slot{Entry: e, Date: day, OrderIndex: count[day]}
		if cur+e.DurationMinutes <= minutesPerDay {
			st := dateutil.Clock(cur)
			slot.StartTime = &st
		}
		clock[day] = cur + e.DurationMinutes + in.GapMinutes
		count[day]++
		placed = append(placed, slot)
	}
	return placed, unplaced
}

type PlanInput struct {
	Today     string
	Deadline  string
	StartDate string
	Requests  []SubjectRequest
	Existing  []*types.PlanTask
	// StartHour overrides the configured default start hour when set.
	StartHour *int
}

type Schedule struct {
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Deadline      string `json:"deadline"`
	AvailableDays int    `json:"available_days"`
	TasksPerDay   int    `json:"tasks_per_day"`
	Slots         []Slot `json:"slots"`
}

// Plan runs capacity derivation, queue construction, interleaving and distribution.
// Capacity counts requested sessions only, not the appended reviews. Requests over
// the configured session limits are rejected before anything is allocated.
func Plan(in PlanInput, cfg Config) (Schedule, error) {
	start := in.StartDate
	if start == "" {
		start = dateutil.AddDays(in.Today, 1)
	}
	deadline := in.Deadline
	if deadline == "" {
		deadline = dateutil.AddDays(in.Today, cfg.DefaultHorizonDays)
	}
	perSubject, perPlan := sessionLimit(cfg.MaxSessionsPerSubject), cfg.MaxPlanSessions
	if perPlan < 1 {
		perPlan = DefaultConfig().MaxPlanSessions
	}
	total := 0
	for _, r := range in.Requests {
		if r.Sessions <= 0 {
			continue
		}
		if r.Sessions > perSubject {
			return Schedule{}, apierr.Invalid("%s: %d sessions exceeds the limit of %d", r.Name, r.Sessions, perSubject)
		}
		if r.DurationMinutes > minutesPerDay {
			return Schedule{}, apierr.Invalid("%s: a session cannot last %d minutes", r.Name, r.DurationMinutes)
		}
		total += r.Sessions
		if total > perPlan {
			return Schedule{}, apierr.Invalid("plan asks for more than %d sessions", perPlan)
		}
	}
	available, perDay := Capacity(in.Today, deadline, total, cfg)

	hour := cfg.DefaultStartHour
	if in.StartHour != nil && *in.StartHour >= 0 && *in.StartHour <= 23 {
		hour = *in.StartHour
	}
	slots, _ := Distribute(DistributeInput{
		Entries:      Interleave(BuildQueues(in.Requests, cfg)),
		StartDate:    start,
		TasksPerDay:  perDay,
		StartMinutes: hour * 60,
		GapMinutes:   cfg.GapMinutes,
		Load:         LoadFromTasks(in.Existing, start),
	})

	sched := Schedule{
		StartDate:     start,
		EndDate:       start,
		Deadline:      deadline,
		AvailableDays: available,
		TasksPerDay:   perDay,
		Slots:         slots,
	}
	for _, s := range slots {
		if s.Date > sched.EndDate {
			sched.EndDate = s.Date
		}
	}
	return sched, nil
}
