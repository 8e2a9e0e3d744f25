package analytics

import "math"

const (
	ScoreWindowDays = 7
	// productivity baseline: four study hours per day
	productivityTargetSeconds = 4 * 3600
	defaultFocus              = 75

	TrendImproving = "improving"
	TrendStable    = "stable"
	TrendDeclining = "declining"
)

type ScoreInput struct {
	StudySeconds   int
	BreakSeconds   int
	StudyDays      int
	TasksTotal     int
	TasksCompleted int
}

type Scores struct {
	Adherence    int               `json:"adherence"`
	Productivity int               `json:"productivity"`
	Focus        int               `json:"focus"`
	Overall      int               `json:"overall"`
	Trend        string            `json:"trend"`
	Labels       map[string]string `json:"labels"`
	PlanBased    bool              `json:"plan_based"`
}

// ComputeScores reduces the trailing seven days to composite scores. Without plan
// tasks in range adherence falls back to the share of days studied.
func ComputeScores(in ScoreInput) Scores {
	var out Scores

	if in.TasksTotal > 0 {
		out.PlanBased = true
		out.Adherence = pct(float64(in.TasksCompleted), float64(in.TasksTotal))
	} else {
		out.Adherence = pct(float64(in.StudyDays), ScoreWindowDays)
	}

	avgDaily := float64(in.StudySeconds) / ScoreWindowDays
	out.Productivity = min(100, int(math.Round(avgDaily/productivityTargetSeconds*100)))

	if in.StudySeconds+in.BreakSeconds <= 0 {
		out.Focus = defaultFocus
	} else {
		out.Focus = pct(float64(in.StudySeconds), float64(in.StudySeconds+in.BreakSeconds))
	}

	out.Overall = int(math.Round(0.4*float64(out.Adherence) + 0.35*float64(out.Productivity) + 0.25*float64(out.Focus)))
	out.Trend = TrendFor(out.Overall)
	out.Labels = map[string]string{
		"adherence":    Label(out.Adherence),
		"productivity": Label(out.Productivity),
		"focus":        Label(out.Focus),
		"overall":      Label(out.Overall),
	}
	return out
}

func TrendFor(overall int) string {
	switch {
	case overall >= 75:
		return TrendImproving
	case overall <= 45:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// Label maps a 0-100 score to its qualitative band.
func Label(score int) string {
	switch {
	case score >= 90:
		return "Excellent"
	case score >= 75:
		return "Good"
	case score >= 60:
		return "Fair"
	case score >= 40:
		return "Needs Work"
	default:
		return "Low"
	}
}

func pct(part, whole float64) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(clampFloat(part/whole*100, 0, 100)))
}
