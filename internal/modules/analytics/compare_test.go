package analytics

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/studyflow-backend/internal/domain"
)

func TestComparePlanActual(t *testing.T) {
	math, bio := uuid.New(), uuid.New()
	names := map[uuid.UUID]string{math: "Math", bio: "Biology"}
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		tasks     []*types.PlanTask
		sessions  []*types.Session
		adherence int
		missed    []string
		surplus   bool
	}{
		{"nothing", nil, nil, 0, []string{}, false},
		{"unplanned study", nil, []*types.Session{session(math, start, 30)}, 100, []string{}, true},
		{
			"partial",
			[]*types.PlanTask{{SubjectID: &math, DurationMinutes: 60}, {SubjectID: &bio, DurationMinutes: 60}},
			[]*types.Session{session(math, start, 45)},
			38, []string{"Biology"}, false,
		},
		{
			"surplus",
			[]*types.PlanTask{{SubjectID: &math, DurationMinutes: 60}},
			[]*types.Session{session(math, start, 80)},
			100, []string{}, true,
		},
	}
	for _, tc := range cases {
		got := ComparePlanActual(CompareInput{Date: "2026-03-01", Tasks: tc.tasks, Sessions: tc.sessions, Names: names})
		if got.AdherenceScore != tc.adherence || got.Surplus != tc.surplus || !reflect.DeepEqual(got.MissedSubjects, tc.missed) {
			t.Fatalf("%s: ComparePlanActual=%+v", tc.name, got)
		}
	}
}
