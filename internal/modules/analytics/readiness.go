package analytics

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/studyflow-backend/internal/platform/dateutil"
)

const (
	CoverageDone    = "done"
	CoverageDanger  = "danger"
	CoverageBehind  = "behind"
	CoverageOnTrack = "on_track"

	RiskLow      = "low"
	RiskMedium   = "medium"
	RiskHigh     = "high"
	RiskCritical = "critical"
	RiskUnknown  = "unknown"

	maxRiskFactors = 3
)

// ValidRiskTier reports whether tier is one of the four ranked tiers.
func ValidRiskTier(tier string) bool {
	switch tier {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return true
	}
	return false
}

type SubjectTasks struct {
	SubjectID *uuid.UUID
	Name      string
	Total     int
	Completed int
	// LastStudied is the most recent study day, empty when never studied.
	LastStudied string
}

type SubjectCoverage struct {
	SubjectID        *uuid.UUID `json:"subject_id,omitempty"`
	Name             string     `json:"name"`
	Total            int        `json:"total"`
	Completed        int        `json:"completed"`
	CoveragePct      float64    `json:"coverage_pct"`
	Status           string     `json:"status"`
	LastStudied      string     `json:"last_studied,omitempty"`
	DaysSinceStudied *int       `json:"days_since_studied,omitempty"`
}

type ReadinessInput struct {
	Today    string
	Deadline string
	Subjects []SubjectTasks
	// AvgSleepHours is 0 when no sleep was logged.
	AvgSleepHours float64
}

type ReadinessReport struct {
	Deadline        string            `json:"deadline,omitempty"`
	DaysLeft        int               `json:"days_left"`
	OverallPct      float64           `json:"overall_pct"`
	Probability     float64           `json:"probability"`
	RiskTier        string            `json:"risk_tier"`
	Subjects        []SubjectCoverage `json:"subjects"`
	Warnings        []string          `json:"warnings"`
	Recommendations []string          `json:"recommendations"`
	RiskFactors     []string          `json:"risk_factors"`
	Summary         string            `json:"summary"`
	Indeterminate   bool              `json:"indeterminate"`
	Enhanced        bool              `json:"enhanced"`
}

// CoverageStatus classifies one subject. Coverage exactly 30% with more than a
// week left is not danger.
func CoverageStatus(coverage float64, daysLeft int) string {
	switch {
	case coverage >= 100:
		return CoverageDone
	case coverage < 30 || (daysLeft <= 7 && coverage < 70):
		return CoverageDanger
	case coverage < 55:
		return CoverageBehind
	default:
		return CoverageOnTrack
	}
}

func RiskTierFor(probability float64) string {
	switch {
	case probability >= 70:
		return RiskLow
	case probability >= 45:
		return RiskMedium
	case probability >= 25:
		return RiskHigh
	default:
		return RiskCritical
	}
}

// EstimateReadiness computes the deterministic report. The caller may layer a
// validated narrative override on top of Summary, Probability, RiskTier and RiskFactors.
func EstimateReadiness(in ReadinessInput) ReadinessReport {
	rep := ReadinessReport{
		Deadline:        in.Deadline,
		Subjects:        []SubjectCoverage{},
		Warnings:        []string{},
		Recommendations: []string{},
		RiskFactors:     []string{},
	}

	total, completed := 0, 0
	for _, s := range in.Subjects {
		total += s.Total
		completed += min(s.Completed, s.Total)
	}
	if in.Deadline == "" || total == 0 {
		rep.Indeterminate = true
		rep.RiskTier = RiskUnknown
		rep.Summary = "Not enough data yet: add a goal or plan with scheduled tasks to estimate readiness."
		if in.Deadline != "" {
			rep.DaysLeft = dateutil.DaysBetween(in.Today, in.Deadline)
		}
		return rep
	}

	rep.DaysLeft = dateutil.DaysBetween(in.Today, in.Deadline)
	rep.OverallPct = round1(clampFloat(float64(completed)/float64(total)*100, 0, 100))

	var behind, stale5 []string
	for _, s := range in.Subjects {
		cov := 0.0
		if s.Total > 0 {
			cov = clampFloat(float64(s.Completed)/float64(s.Total)*100, 0, 100)
		}
		sc := SubjectCoverage{
			SubjectID:   s.SubjectID,
			Name:        s.Name,
			Total:       s.Total,
			Completed:   s.Completed,
			CoveragePct: round1(cov),
			Status:      CoverageStatus(cov, rep.DaysLeft),
			LastStudied: s.LastStudied,
		}
		// never studied counts as stale
		since := math.MaxInt32
		if s.LastStudied != "" {
			since = dateutil.DaysBetween(s.LastStudied, in.Today)
			d := since
			sc.DaysSinceStudied = &d
		}
		rep.Subjects = append(rep.Subjects, sc)

		if sc.Status == CoverageDanger {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("%s is in danger at %.0f%% coverage", s.Name, cov))
		}
		if since >= 7 && cov < 100 {
			if s.LastStudied == "" {
				rep.Warnings = append(rep.Warnings, fmt.Sprintf("%s has not been studied yet", s.Name))
			} else {
				rep.Warnings = append(rep.Warnings, fmt.Sprintf("%s has not been studied for %d days", s.Name, since))
			}
		}
		if sc.Status == CoverageDanger || sc.Status == CoverageBehind {
			behind = append(behind, s.Name)
		}
		if since >= 5 && cov < 100 {
			stale5 = append(stale5, s.Name)
		}
	}
	if rep.OverallPct < 80 && rep.DaysLeft <= 7 {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("only %.0f%% complete with %d days left", rep.OverallPct, rep.DaysLeft))
	}

	prob := rep.OverallPct * 0.6
	if rep.DaysLeft > 14 {
		prob += 15
	}
	if len(rep.Warnings) == 0 {
		prob += 10
	}
	rep.Probability = round1(clampFloat(prob, 0, 100))
	rep.RiskTier = RiskTierFor(rep.Probability)

	if len(behind) > 0 {
		rep.Recommendations = append(rep.Recommendations, "Prioritize "+strings.Join(behind, ", ")+".")
	}
	if rep.DaysLeft < 14 {
		rep.Recommendations = append(rep.Recommendations, "Switch to review sessions and practice exams for the remaining days.")
	}
	if len(stale5) > 0 {
		rep.Recommendations = append(rep.Recommendations, "Revisit "+strings.Join(stale5, ", ")+": not studied in 5 or more days.")
	}
	if in.AvgSleepHours > 0 && in.AvgSleepHours < 6 {
		rep.Recommendations = append(rep.Recommendations, fmt.Sprintf("You are averaging %.1f hours of sleep; aim for at least 7 before the exam.", in.AvgSleepHours))
	}

	for i := 0; i < len(rep.Warnings) && i < maxRiskFactors; i++ {
		rep.RiskFactors = append(rep.RiskFactors, rep.Warnings[i])
	}
	rep.Summary = fmt.Sprintf("%.0f%% of planned sessions complete with %d days left; estimated completion probability %.0f%% (%s risk).",
		rep.OverallPct, rep.DaysLeft, rep.Probability, rep.RiskTier)
	return rep
}
