package analytics

import "testing"

func TestComputeScores(t *testing.T) {
	cases := []struct {
		name string
		in   ScoreInput
		want Scores
	}{
		{
			name: "no time recorded",
			in:   ScoreInput{},
			want: Scores{Adherence: 0, Productivity: 0, Focus: 75, Overall: 19, Trend: TrendDeclining},
		},
		{
			name: "plan based",
			in:   ScoreInput{StudySeconds: 7 * 4 * 3600, BreakSeconds: 0, StudyDays: 7, TasksTotal: 10, TasksCompleted: 8},
			want: Scores{Adherence: 80, Productivity: 100, Focus: 100, Overall: 92, Trend: TrendImproving, PlanBased: true},
		},
		{
			name: "consistency fallback",
			in:   ScoreInput{StudySeconds: 7 * 2 * 3600, BreakSeconds: 7 * 3600, StudyDays: 4},
			want: Scores{Adherence: 57, Productivity: 50, Focus: 67, Overall: 57, Trend: TrendStable},
		},
		{
			name: "productivity capped",
			in:   ScoreInput{StudySeconds: 7 * 10 * 3600, StudyDays: 7},
			want: Scores{Adherence: 100, Productivity: 100, Focus: 100, Overall: 100, Trend: TrendImproving},
		},
	}
	for _, tc := range cases {
		got := ComputeScores(tc.in)
		if got.Adherence != tc.want.Adherence || got.Productivity != tc.want.Productivity ||
			got.Focus != tc.want.Focus || got.Overall != tc.want.Overall || got.Trend != tc.want.Trend ||
			got.PlanBased != tc.want.PlanBased {
			t.Fatalf("%s: ComputeScores=%+v, want %+v", tc.name, got, tc.want)
		}
	}
}

func TestComputeScoresIdempotent(t *testing.T) {
	in := ScoreInput{StudySeconds: 12345, BreakSeconds: 999, StudyDays: 3, TasksTotal: 7, TasksCompleted: 2}
	a, b := ComputeScores(in), ComputeScores(in)
	if a.Overall != b.Overall || a.Adherence != b.Adherence || a.Focus != b.Focus || a.Productivity != b.Productivity {
		t.Fatalf("ComputeScores not stable: %+v vs %+v", a, b)
	}
}

func TestLabel(t *testing.T) {
	cases := map[int]string{100: "Excellent", 90: "Excellent", 89: "Good", 75: "Good", 74: "Fair", 60: "Fair", 59: "Needs Work", 40: "Needs Work", 39: "Low", 0: "Low"}
	for score, want := range cases {
		if got := Label(score); got != want {
			t.Fatalf("Label(%d)=%q, want %q", score, got, want)
		}
	}
}
