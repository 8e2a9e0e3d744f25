package analytics

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	types "github.com/yungbote/studyflow-backend/internal/domain"
	"github.com/yungbote/studyflow-backend/internal/platform/dateutil"
)

const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"

	ReasonNoSessions     = "no sessions recorded"
	ReasonStale          = "not studied recently"
	ReasonUnderrepresent = "underrepresented"
	ReasonLowPractice    = "low practice score"
)

func severityRank(s string) int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	default:
		return 2
	}
}

type WeakArea struct {
	SubjectID        uuid.UUID `json:"subject_id"`
	Subject          string    `json:"subject"`
	Severity         string    `json:"severity"`
	Reason           string    `json:"reason"`
	Recommendation   string    `json:"recommendation"`
	DaysSinceStudied *int      `json:"days_since_studied,omitempty"`
	SharePct         float64   `json:"share_pct"`
	PracticeAvg      *float64  `json:"practice_avg,omitempty"`
}

type WeakAreaInput struct {
	Today   string
	Profile Profile
	// Subjects are the active subjects in display order.
	Subjects []*types.Subject
	Practice []*types.PracticeAttempt
}

func DetectWeakAreas(in WeakAreaInput) []WeakArea {
	grades := map[string][]float64{}
	for _, a := range in.Practice {
		if a == nil || a.GradePct == nil {
			continue
		}
		key := types.SubjectKey(a.SubjectName)
		grades[key] = append(grades[key], *a.GradePct)
	}

	tracked := 0
	for _, s := range in.Subjects {
		if s != nil {
			tracked++
		}
	}

	out := []WeakArea{}
	for _, s := range in.Subjects {
		if s == nil {
			continue
		}
		stat, studied := in.Profile.Subject(s.ID)
		switch {
		case !studied:
			out = append(out, weakArea(s, SeverityHigh, ReasonNoSessions, stat, nil))
		default:
			days := dateutil.DaysBetween(stat.LastStudied, in.Today)
			if days > 14 {
				out = append(out, weakArea(s, SeverityHigh, ReasonStale, stat, &days))
			} else if days > 7 {
				out = append(out, weakArea(s, SeverityMedium, ReasonStale, stat, &days))
			} else if tracked >= 3 && stat.Percentage < 10 {
				out = append(out, weakArea(s, SeverityMedium, ReasonUnderrepresent, stat, &days))
			}
		}

		key := s.NameKey
		if key == "" {
			key = types.SubjectKey(s.Name)
		}
		if g := grades[key]; len(g) >= 2 {
			avg := mean(g)
			if avg < 65 {
				sev := SeverityMedium
				if avg < 50 {
					sev = SeverityHigh
				}
				wa := weakArea(s, sev, ReasonLowPractice, stat, nil)
				rounded := round1(avg)
				wa.PracticeAvg = &rounded
				wa.Recommendation = recommend(s.Name, ReasonLowPractice, &rounded, nil)
				out = append(out, wa)
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return severityRank(out[i].Severity) < severityRank(out[j].Severity)
	})
	return out
}

// WeakSubjectIDs returns subject ids in severity order, each at most once.
func WeakSubjectIDs(areas []WeakArea) []uuid.UUID {
	seen := map[uuid.UUID]bool{}
	out := make([]uuid.UUID, 0, len(areas))
	for _, a := range areas {
		if seen[a.SubjectID] {
			continue
		}
		seen[a.SubjectID] = true
		out = append(out, a.SubjectID)
	}
	return out
}

func weakArea(s *types.Subject, severity, reason string, stat SubjectStat, days *int) WeakArea {
	return WeakArea{
		SubjectID:        s.ID,
		Subject:          s.Name,
		Severity:         severity,
		Reason:           reason,
		Recommendation:   recommend(s.Name, reason, nil, days),
		DaysSinceStudied: days,
		SharePct:         stat.Percentage,
	}
}

func recommend(name, reason string, avg *float64, days *int) string {
	switch reason {
	case ReasonNoSessions:
		return fmt.Sprintf("Schedule a first session of %s this week.", name)
	case ReasonStale:
		if days != nil {
			return fmt.Sprintf("%s was last studied %d days ago; add a review session in the next two days.", name, *days)
		}
		return fmt.Sprintf("Add a review session of %s in the next two days.", name)
	case ReasonUnderrepresent:
		return fmt.Sprintf("%s gets less than 10%% of your study time; give it an extra session.", name)
	case ReasonLowPractice:
		if avg != nil {
			return fmt.Sprintf("Practice scores in %s average %.1f%%; revisit the fundamentals before new material.", name, *avg)
		}
		return fmt.Sprintf("Revisit the fundamentals of %s before new material.", name)
	}
	return ""
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	total := 0.0
	for _, x := range xs {
		total += x
	}
	return total / float64(len(xs))
}
