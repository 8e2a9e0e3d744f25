package scheduling

import (
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"

	types "github.com/yungbote/studyflow-backend/internal/domain"
	"github.com/yungbote/studyflow-backend/internal/platform/apierr"
)

func TestInterleaveRoundRobin(t *testing.T) {
	cfg := DefaultConfig()
	queues := BuildQueues([]SubjectRequest{
		{Name: "A", Sessions: 5},
		{Name: "B", Sessions: 3},
	}, cfg)
	got := Interleave(queues)
	want := []string{"A", "B", "A", "B", "A", "B", "A", "A"}
	if len(got) != len(want) {
		t.Fatalf("Interleave len=%d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Subject != want[i] {
			t.Fatalf("Interleave[%d]=%s, want %s", i, got[i].Subject, want[i])
		}
	}
}

func TestBuildQueuesWeakSubject(t *testing.T) {
	cfg := DefaultConfig()
	queues := BuildQueues([]SubjectRequest{{Name: "Physics", Sessions: 10, DurationMinutes: 50, Weak: true}}, cfg)
	if len(queues) != 1 || len(queues[0]) != 13 {
		t.Fatalf("queue len=%d, want 13", len(queues[0]))
	}
	reviews := 0
	for _, e := range queues[0] {
		if e.IsReview {
			reviews++
			if e.DurationMinutes != 30 {
				t.Fatalf("review duration=%d, want 30", e.DurationMinutes)
			}
		} else if e.DurationMinutes != 65 {
			t.Fatalf("weak session duration=%d, want 65", e.DurationMinutes)
		}
	}
	if reviews != 3 {
		t.Fatalf("reviews=%d, want 3", reviews)
	}
	if ReviewCount(2) != 1 {
		t.Fatalf("ReviewCount(2)=%d, want 1", ReviewCount(2))
	}
}

func TestDistributeNeverExceedsCapacity(t *testing.T) {
	cfg := DefaultConfig()
	for _, perDay := range []int{1, 2, 3} {
		for _, n := range []int{1, 4, 9, 17} {
			existing := []*types.PlanTask{
				{ScheduledDate: "2026-02-01", Status: types.TaskStatusPending},
				{ScheduledDate: "2026-02-02", Status: types.TaskStatusInProgress},
				{ScheduledDate: "2026-02-02", Status: types.TaskStatusCompleted},
				{ScheduledDate: "2026-01-20", Status: types.TaskStatusPending},
			}
			load := LoadFromTasks(existing, "2026-02-01")
			entries := Interleave(BuildQueues([]SubjectRequest{{Name: "A", Sessions: n}, {Name: "B", Sessions: n / 2}}, cfg))
			slots, unplaced := Distribute(DistributeInput{
				Entries:      entries,
				StartDate:    "2026-02-01",
				TasksPerDay:  perDay,
				StartMinutes: 9 * 60,
				GapMinutes:   15,
				Load:         load,
			})
			if len(unplaced) != 0 || len(slots) != len(entries) {
				t.Fatalf("perDay=%d n=%d: placed=%d unplaced=%d", perDay, n, len(slots), len(unplaced))
			}
			counts := map[string]int{}
			for d, c := range load.Count {
				counts[d] = c
			}
			prev := ""
			for _, s := range slots {
				counts[s.Date]++
				if s.Date < prev {
					t.Fatalf("day cursor moved backwards: %s after %s", s.Date, prev)
				}
				prev = s.Date
			}
			for d, c := range counts {
				if c > perDay {
					t.Fatalf("perDay=%d n=%d: day %s has %d tasks", perDay, n, d, c)
				}
			}
		}
	}
}

func TestDistributeTimes(t *testing.T) {
	existingStart := "10:00"
	load := LoadFromTasks([]*types.PlanTask{
		{ScheduledDate: "2026-02-01", StartTime: &existingStart, DurationMinutes: 60, Status: types.TaskStatusPending},
	}, "2026-02-01")
	entries := []Entry{
		{Subject: "A", DurationMinutes: 50, Seq: 1},
		{Subject: "B", DurationMinutes: 90, Seq: 1},
		{Subject: "A", DurationMinutes: 50, Seq: 2},
	}
	slots, _ := Distribute(DistributeInput{
		Entries:      entries,
		StartDate:    "2026-02-01",
		TasksPerDay:  3,
		StartMinutes: 9 * 60,
		GapMinutes:   15,
		Load:         load,
	})
	want := []struct {
		date  string
		start string
		order int
	}{
		{"2026-02-01", "11:15", 1},
		{"2026-02-01", "12:20", 2},
		{"2026-02-02", "09:00", 0},
	}
	for i, w := range want {
		s := slots[i]
		if s.Date != w.date || s.StartTime == nil || *s.StartTime != w.start || s.OrderIndex != w.order {
			t.Fatalf("slot[%d]=%s %v order=%d, want %s %s order=%d", i, s.Date, s.StartTime, s.OrderIndex, w.date, w.start, w.order)
		}
	}
}

func TestDistributeLateClockLeavesTimeUnset(t *testing.T) {
	slots, _ := Distribute(DistributeInput{
		Entries:      []Entry{{Subject: "A", DurationMinutes: 120}, {Subject: "A", DurationMinutes: 120}},
		StartDate:    "2026-02-01",
		TasksPerDay:  2,
		StartMinutes: 21 * 60,
		GapMinutes:   15,
	})
	if slots[0].StartTime == nil || *slots[0].StartTime != "21:00" {
		t.Fatalf("first slot start=%v", slots[0].StartTime)
	}
	if slots[1].StartTime != nil {
		t.Fatalf("second slot crosses midnight, start=%v", *slots[1].StartTime)
	}
}

func TestPlanEndToEnd(t *testing.T) {
	cfg := DefaultConfig()
	id := uuid.New()
	hour := 18
	sched, err := Plan(PlanInput{
		Today:    "2026-01-01",
		Deadline: "2026-01-15",
		Requests: []SubjectRequest{
			{SubjectID: &id, Name: "Physics", Sessions: 9, Weak: true},
			{Name: "Chemistry", Sessions: 6},
		},
		StartHour: &hour,
	}, cfg)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if sched.AvailableDays != 11 || sched.TasksPerDay != 2 {
		t.Fatalf("capacity=%d,%d want 11,2", sched.AvailableDays, sched.TasksPerDay)
	}
	if sched.StartDate != "2026-01-02" {
		t.Fatalf("StartDate=%s", sched.StartDate)
	}
	if len(sched.Slots) != 18 {
		t.Fatalf("slots=%d, want 18 (15 sessions + 3 reviews)", len(sched.Slots))
	}
	if sched.EndDate != "2026-01-10" {
		t.Fatalf("EndDate=%s", sched.EndDate)
	}
	if s := sched.Slots[0]; s.StartTime == nil || *s.StartTime != "18:00" || s.SubjectID == nil || *s.SubjectID != id {
		t.Fatalf("first slot=%+v", s)
	}
}

func TestNextDay(t *testing.T) {
	cfg := DefaultConfig()
	a := &types.Subject{ID: uuid.New(), Name: "A"}
	b := &types.Subject{ID: uuid.New(), Name: "B"}
	c := &types.Subject{ID: uuid.New(), Name: "C"}
	hours := 2.5

	slots := NextDay(NextDayInput{
		Date:            "2026-02-10",
		Subjects:        []*types.Subject{a, b, c},
		WeakIDs:         []uuid.UUID{c.ID},
		Shares:          map[uuid.UUID]float64{a.ID: 60, b.ID: 10, c.ID: 30},
		GoalHoursPerDay: &hours,
		StartHour:       14,
	}, cfg)
	if len(slots) != 3 {
		t.Fatalf("NextDay len=%d, want 3", len(slots))
	}
	if slots[0].Subject != "C" || slots[0].DurationMinutes != 75 || slots[1].Subject != "B" || slots[2].Subject != "A" {
		t.Fatalf("NextDay order=%s,%s,%s", slots[0].Subject, slots[1].Subject, slots[2].Subject)
	}
	if *slots[0].StartTime != "14:00" {
		t.Fatalf("NextDay start=%s", *slots[0].StartTime)
	}

	full := NextDay(NextDayInput{
		Date:     "2026-02-10",
		Subjects: []*types.Subject{a},
		Existing: []*types.PlanTask{
			{ScheduledDate: "2026-02-10", Status: types.TaskStatusPending},
			{ScheduledDate: "2026-02-10", Status: types.TaskStatusPending},
		},
	}, cfg)
	if len(full) != 0 {
		t.Fatalf("NextDay on a full day=%d tasks", len(full))
	}
}

func TestNextDayTaskCount(t *testing.T) {
	cfg := DefaultConfig()
	h := func(v float64) *float64 { return &v }
	cases := []struct {
		hours *float64
		want  int
	}{{nil, 2}, {h(0.5), 1}, {h(1), 1}, {h(1.5), 2}, {h(8), 3}}
	for _, tc := range cases {
		if got := NextDayTaskCount(tc.hours, cfg); got != tc.want {
			t.Fatalf("NextDayTaskCount(%v)=%d, want %d", tc.hours, got, tc.want)
		}
	}
}

func TestPlanRejectsOversizedRequests(t *testing.T) {
	cfg := DefaultConfig()
	cases := []struct {
		name string
		reqs []SubjectRequest
	}{
		{"max int", []SubjectRequest{{Name: "Physics", Sessions: math.MaxInt}}},
		{"over subject limit", []SubjectRequest{{Name: "Physics", Sessions: cfg.MaxSessionsPerSubject + 1}}},
		{"over plan limit", []SubjectRequest{
			{Name: "Physics", Sessions: cfg.MaxSessionsPerSubject},
			{Name: "Chemistry", Sessions: cfg.MaxSessionsPerSubject},
			{Name: "Biology", Sessions: cfg.MaxSessionsPerSubject},
			{Name: "History", Sessions: cfg.MaxSessionsPerSubject},
			{Name: "Latin", Sessions: cfg.MaxSessionsPerSubject},
			{Name: "Art", Sessions: 1},
		}},
		{"day long session", []SubjectRequest{{Name: "Physics", Sessions: 2, DurationMinutes: 2000}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Plan(PlanInput{Today: "2026-01-01", Requests: tc.reqs}, cfg)
			if !errors.Is(err, apierr.ErrInvalidArgument) {
				t.Fatalf("Plan(%s) err=%v, want ErrInvalidArgument", tc.name, err)
			}
		})
	}
}
