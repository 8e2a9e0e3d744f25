package analytics

import (
	"math"

	"github.com/google/uuid"

	types "github.com/yungbote/studyflow-backend/internal/domain"
)

type CompareInput struct {
	Date     string
	Tasks    []*types.PlanTask
	Sessions []*types.Session
	// Names resolves task subject ids to display names.
	Names map[uuid.UUID]string
}

type Comparison struct {
	Date           string   `json:"date"`
	PlannedMinutes int      `json:"planned_minutes"`
	ActualMinutes  int      `json:"actual_minutes"`
	AdherenceScore int      `json:"adherence_score"`
	MissedSubjects []string `json:"missed_subjects"`
	Surplus        bool     `json:"surplus"`
}

// ComparePlanActual contrasts one day's plan with what was studied. Tasks and
// sessions are expected to already be filtered to Date.
func ComparePlanActual(in CompareInput) Comparison {
	out := Comparison{Date: in.Date, MissedSubjects: []string{}}

	studied := map[uuid.UUID]bool{}
	actualSeconds := 0
	for _, s := range in.Sessions {
		if s == nil {
			continue
		}
		actualSeconds += s.DurationSeconds
		studied[s.SubjectID] = true
	}
	out.ActualMinutes = actualSeconds / 60

	seen := map[uuid.UUID]bool{}
	for _, t := range in.Tasks {
		if t == nil {
			continue
		}
		out.PlannedMinutes += t.DurationMinutes
		if t.SubjectID == nil || studied[*t.SubjectID] || seen[*t.SubjectID] {
			continue
		}
		seen[*t.SubjectID] = true
		name := in.Names[*t.SubjectID]
		if name == "" {
			name = t.Title
		}
		out.MissedSubjects = append(out.MissedSubjects, name)
	}

	switch {
	case out.PlannedMinutes > 0:
		out.AdherenceScore = min(100, int(math.Round(float64(out.ActualMinutes)/float64(out.PlannedMinutes)*100)))
	case out.ActualMinutes > 0:
		out.AdherenceScore = 100
	}
	out.Surplus = float64(out.ActualMinutes) > 1.2*float64(out.PlannedMinutes)
	return out
}
