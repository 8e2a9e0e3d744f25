package analytics

import (
	"strings"
	"testing"
)

func TestCoverageStatus(t *testing.T) {
	cases := []struct {
		coverage float64
		daysLeft int
		want     string
	}{
		{100, 3, CoverageDone},
		{30, 20, CoverageBehind},
		{29, 20, CoverageDanger},
		{29.9, 20, CoverageDanger},
		{55, 20, CoverageOnTrack},
		{54.9, 20, CoverageBehind},
		{69, 7, CoverageDanger},
		{70, 7, CoverageOnTrack},
		{69, 8, CoverageOnTrack},
	}
	for _, tc := range cases {
		if got := CoverageStatus(tc.coverage, tc.daysLeft); got != tc.want {
			t.Fatalf("CoverageStatus(%v, %d)=%q, want %q", tc.coverage, tc.daysLeft, got, tc.want)
		}
	}
}

func TestRiskTierFor(t *testing.T) {
	cases := map[float64]string{100: RiskLow, 70: RiskLow, 69.9: RiskMedium, 45: RiskMedium, 44: RiskHigh, 25: RiskHigh, 24.9: RiskCritical, 0: RiskCritical}
	for p, want := range cases {
		if got := RiskTierFor(p); got != want {
			t.Fatalf("RiskTierFor(%v)=%q, want %q", p, got, want)
		}
	}
}

func TestEstimateReadinessIndeterminate(t *testing.T) {
	rep := EstimateReadiness(ReadinessInput{Today: "2026-03-01"})
	if !rep.Indeterminate || rep.RiskTier != RiskUnknown || rep.Summary == "" {
		t.Fatalf("report=%+v", rep)
	}
	rep = EstimateReadiness(ReadinessInput{Today: "2026-03-01", Deadline: "2026-03-20", Subjects: []SubjectTasks{{Name: "A"}}})
	if !rep.Indeterminate || rep.DaysLeft != 19 {
		t.Fatalf("report without tasks=%+v", rep)
	}
}

func TestEstimateReadinessHealthy(t *testing.T) {
	rep := EstimateReadiness(ReadinessInput{
		Today:    "2026-03-01",
		Deadline: "2026-04-01",
		Subjects: []SubjectTasks{
			{Name: "Math", Total: 10, Completed: 8, LastStudied: "2026-02-28"},
			{Name: "Bio", Total: 10, Completed: 6, LastStudied: "2026-03-01"},
		},
	})
	// 70% * 0.6 + 15 (more than two weeks) + 10 (no warnings)
	if rep.OverallPct != 70 || rep.Probability != 67 || rep.RiskTier != RiskMedium {
		t.Fatalf("report=%+v", rep)
	}
	if len(rep.Warnings) != 0 || len(rep.RiskFactors) != 0 {
		t.Fatalf("warnings=%v", rep.Warnings)
	}
	if rep.Subjects[0].Status != CoverageOnTrack || rep.Subjects[1].Status != CoverageOnTrack {
		t.Fatalf("subjects=%+v", rep.Subjects)
	}
}

func TestEstimateReadinessWarnings(t *testing.T) {
	rep := EstimateReadiness(ReadinessInput{
		Today:    "2026-03-10",
		Deadline: "2026-03-15",
		Subjects: []SubjectTasks{
			{Name: "Math", Total: 10, Completed: 2, LastStudied: "2026-03-01"},
			{Name: "Bio", Total: 4, Completed: 4, LastStudied: "2026-02-01"},
			{Name: "Art", Total: 6, Completed: 3},
		},
		AvgSleepHours: 5.2,
	})
	if rep.DaysLeft != 5 {
		t.Fatalf("DaysLeft=%d", rep.DaysLeft)
	}
	// Math danger + Math stale, Art danger + Art never studied, overall < 80 within a week
	if len(rep.Warnings) != 5 {
		t.Fatalf("warnings=%v", rep.Warnings)
	}
	if len(rep.RiskFactors) != 3 {
		t.Fatalf("risk factors=%v", rep.RiskFactors)
	}
	// 45% * 0.6 = 27
	if rep.Probability != 27 || rep.RiskTier != RiskHigh {
		t.Fatalf("probability=%v tier=%s", rep.Probability, rep.RiskTier)
	}
	joined := strings.Join(rep.Recommendations, " | ")
	for _, want := range []string{"Prioritize Math, Art", "review sessions", "Revisit Math, Art", "sleep"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("recommendations %q missing %q", joined, want)
		}
	}
}

func TestEstimateReadinessIdempotent(t *testing.T) {
	in := ReadinessInput{Today: "2026-03-10", Deadline: "2026-04-15", Subjects: []SubjectTasks{{Name: "A", Total: 3, Completed: 1, LastStudied: "2026-03-02"}}}
	a, b := EstimateReadiness(in), EstimateReadiness(in)
	if a.OverallPct != b.OverallPct || a.Probability != b.Probability || a.RiskTier != b.RiskTier || len(a.Warnings) != len(b.Warnings) {
		t.Fatalf("not stable: %+v vs %+v", a, b)
	}
}
