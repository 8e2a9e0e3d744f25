package analytics

import (
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/studyflow-backend/internal/domain"
)

func session(subject uuid.UUID, start time.Time, minutes int) *types.Session {
	return &types.Session{
		ID:              uuid.New(),
		SubjectID:       subject,
		StartedAt:       start,
		EndedAt:         start.Add(time.Duration(minutes) * time.Minute),
		DurationSeconds: minutes * 60,
	}
}

func TestStreaks(t *testing.T) {
	cases := []struct {
		name        string
		days        []string
		today       string
		wantCurrent int
		wantLongest int
	}{
		{"empty", nil, "2026-01-05", 0, 0},
		{"gap of two days", []string{"2026-01-01", "2026-01-02", "2026-01-03"}, "2026-01-05", 0, 3},
		{"ends yesterday", []string{"2026-01-01", "2026-01-02", "2026-01-04"}, "2026-01-05", 1, 2},
		{"ends today", []string{"2026-01-03", "2026-01-04", "2026-01-05"}, "2026-01-05", 3, 3},
		{"broken then longer", []string{"2026-01-01", "2026-01-03", "2026-01-04", "2026-01-05", "2026-01-06"}, "2026-01-06", 4, 4},
	}
	for _, tc := range cases {
		cur, long := Streaks(tc.days, tc.today)
		if cur != tc.wantCurrent || long != tc.wantLongest {
			t.Fatalf("%s: Streaks=%d,%d want %d,%d", tc.name, cur, long, tc.wantCurrent, tc.wantLongest)
		}
	}
}

func TestBuildProfileEmptyHistory(t *testing.T) {
	p := BuildProfile(ProfileInput{Today: "2026-03-10", WindowDays: 14})
	if p.HasData || p.PeakHour != DefaultPeakHour || p.TotalStudySeconds != 0 || p.ConsistencyScore != 0 {
		t.Fatalf("empty profile=%+v", p)
	}
	if p.Subjects == nil {
		t.Fatalf("empty profile subjects should be non-nil")
	}
}

func TestBuildProfileAggregates(t *testing.T) {
	math := &types.Subject{ID: uuid.New(), Name: "Math"}
	bio := &types.Subject{ID: uuid.New(), Name: "Biology"}
	day := func(d, h int) time.Time { return time.Date(2026, 3, d, h, 0, 0, 0, time.UTC) }

	in := ProfileInput{
		Today:      "2026-03-10",
		WindowDays: 10,
		Subjects:   []*types.Subject{math, bio},
		Sessions: []*types.Session{
			session(math.ID, day(8, 14), 90),
			session(math.ID, day(9, 14), 60),
			session(bio.ID, day(9, 8), 30),
			session(bio.ID, day(10, 8), 60),
			// outside the window
			session(bio.ID, time.Date(2026, 2, 20, 8, 0, 0, 0, time.UTC), 600),
		},
		Breaks: []*types.Break{
			{StartedAt: day(8, 15), DurationSeconds: 600},
		},
		SleepLogs: []*types.SleepLog{{Hours: 6}, {Hours: 7}},
	}
	p := BuildProfile(in)

	if p.TotalStudySeconds != 240*60 {
		t.Fatalf("TotalStudySeconds=%d, want %d", p.TotalStudySeconds, 240*60)
	}
	if p.AvgDailySeconds != 240*60/10 {
		t.Fatalf("AvgDailySeconds=%d", p.AvgDailySeconds)
	}
	if p.PeakHour != 14 {
		t.Fatalf("PeakHour=%d, want 14", p.PeakHour)
	}
	if p.ConsistencyScore != 30 {
		t.Fatalf("ConsistencyScore=%d, want 30", p.ConsistencyScore)
	}
	if p.CurrentStreak != 3 || p.LongestStreak != 3 {
		t.Fatalf("streaks=%d,%d want 3,3", p.CurrentStreak, p.LongestStreak)
	}
	if p.TotalBreakSeconds != 600 {
		t.Fatalf("TotalBreakSeconds=%d", p.TotalBreakSeconds)
	}
	if p.AvgSleepHours != 6.5 {
		t.Fatalf("AvgSleepHours=%v", p.AvgSleepHours)
	}
	if len(p.Subjects) != 2 || p.Subjects[0].Name != "Math" {
		t.Fatalf("Subjects=%+v", p.Subjects)
	}
	m := p.Subjects[0]
	if m.SessionCount != 2 || m.Percentage != 62.5 || m.AvgSessionSeconds != 75*60 || m.LastStudied != "2026-03-09" {
		t.Fatalf("math stat=%+v", m)
	}
}

func TestBuildProfilePeakHourTieLowest(t *testing.T) {
	id := uuid.New()
	p := BuildProfile(ProfileInput{
		Today:      "2026-03-10",
		WindowDays: 7,
		Sessions: []*types.Session{
			session(id, time.Date(2026, 3, 9, 20, 0, 0, 0, time.UTC), 60),
			session(id, time.Date(2026, 3, 9, 7, 0, 0, 0, time.UTC), 60),
		},
	})
	if p.PeakHour != 7 {
		t.Fatalf("PeakHour=%d, want 7", p.PeakHour)
	}
}

func TestAvgSleep(t *testing.T) {
	cases := []struct {
		logs []*types.SleepLog
		want float64
	}{
		{nil, 0},
		{[]*types.SleepLog{{Hours: 0}, nil}, 0},
		{[]*types.SleepLog{{Hours: 0}, {Hours: 7}, {Hours: 8}}, 7.5},
		{[]*types.SleepLog{{Hours: 5}, {Hours: 6}, {Hours: 6}}, 5.7},
	}
	for _, tc := range cases {
		if got := AvgSleep(tc.logs); got != tc.want {
			t.Fatalf("AvgSleep(%d logs)=%v, want %v", len(tc.logs), got, tc.want)
		}
	}
}
