// Package analytics derives behavior profiles, scores, weak areas, readiness and
// plan-vs-actual comparisons from raw study history. Every function here is pure;
// callers load history from the store and pass it in.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/studyflow-backend/internal/domain"
	"github.com/yungbote/studyflow-backend/internal/platform/dateutil"
)

const (
	DefaultWindowDays = 14
	DefaultPeakHour   = 9
)

type SubjectStat struct {
	SubjectID         uuid.UUID `json:"subject_id"`
	Name              string    `json:"name"`
	TotalSeconds      int       `json:"total_seconds"`
	Percentage        float64   `json:"percentage"`
	SessionCount      int       `json:"session_count"`
	AvgSessionSeconds int       `json:"avg_session_seconds"`
	LastStudied       string    `json:"last_studied"`
}

type Profile struct {
	Today             string        `json:"today"`
	WindowDays        int           `json:"window_days"`
	TotalStudySeconds int           `json:"total_study_seconds"`
	TotalBreakSeconds int           `json:"total_break_seconds"`
	AvgDailySeconds   int           `json:"avg_daily_seconds"`
	PeakHour          int           `json:"peak_hour"`
	ConsistencyScore  int           `json:"consistency_score"`
	StudyDays         int           `json:"study_days"`
	CurrentStreak     int           `json:"current_streak"`
	LongestStreak     int           `json:"longest_streak"`
	Subjects          []SubjectStat `json:"subjects"`
	WeekdayAvgSeconds [7]float64    `json:"weekday_avg_seconds"`
	AvgSleepHours     float64       `json:"avg_sleep_hours"`
	HasData           bool          `json:"has_data"`
}

// Subject returns the breakdown entry for id, if the subject was studied in the window.
func (p Profile) Subject(id uuid.UUID) (SubjectStat, bool) {
	for _, s := range p.Subjects {
		if s.SubjectID == id {
			return s, true
		}
	}
	return SubjectStat{}, false
}

type ProfileInput struct {
	Today      string
	WindowDays int
	// Loc places session timestamps on calendar days and hours. UTC when nil.
	Loc       *time.Location
	Sessions  []*types.Session
	Breaks    []*types.Break
	Subjects  []*types.Subject
	SleepLogs []*types.SleepLog
}

// WindowStart is the first calendar day read for a profile ending today.
func WindowStart(today string, window int) string {
	if window <= 0 {
		window = DefaultWindowDays
	}
	return dateutil.AddDays(today, -window)
}

// DefaultProfile is the "no data yet" reply.
func DefaultProfile(today string, window int) Profile {
	if window <= 0 {
		window = DefaultWindowDays
	}
	return Profile{
		Today:      today,
		WindowDays: window,
		PeakHour:   DefaultPeakHour,
		Subjects:   []SubjectStat{},
	}
}

func BuildProfile(in ProfileInput) Profile {
	window := in.WindowDays
	if window <= 0 {
		window = DefaultWindowDays
	}
	p := DefaultProfile(in.Today, window)
	p.AvgSleepHours = AvgSleep(in.SleepLogs)

	loc := in.Loc
	if loc == nil {
		loc = time.UTC
	}
	from := WindowStart(in.Today, window)

	names := make(map[uuid.UUID]string, len(in.Subjects))
	for _, s := range in.Subjects {
		if s != nil {
			names[s.ID] = s.Name
		}
	}

	var hours [24]int
	daySeconds := map[string]int{}
	bySubject := map[uuid.UUID]*SubjectStat{}
	order := []uuid.UUID{}

	for _, s := range in.Sessions {
		if s == nil || s.DurationSeconds <= 0 {
			continue
		}
		day := dateutil.Day(s.StartedAt, loc)
		if day < from || day > in.Today {
			continue
		}
		p.TotalStudySeconds += s.DurationSeconds
		hours[s.StartedAt.In(loc).Hour()] += s.DurationSeconds
		daySeconds[day] += s.DurationSeconds

		st := bySubject[s.SubjectID]
		if st == nil {
			st = &SubjectStat{SubjectID: s.SubjectID, Name: names[s.SubjectID]}
			bySubject[s.SubjectID] = st
			order = append(order, s.SubjectID)
		}
		st.TotalSeconds += s.DurationSeconds
		st.SessionCount++
		if day > st.LastStudied {
			st.LastStudied = day
		}
	}
	for _, b := range in.Breaks {
		if b == nil {
			continue
		}
		day := dateutil.Day(b.StartedAt, loc)
		if day < from || day > in.Today {
			continue
		}
		p.TotalBreakSeconds += b.DurationSeconds
	}

	if p.TotalStudySeconds == 0 {
		return p
	}
	p.HasData = true
	p.AvgDailySeconds = int(math.Round(float64(p.TotalStudySeconds) / float64(window)))

	peak := 0
	for h := 1; h < 24; h++ {
		if hours[h] > hours[peak] {
			peak = h
		}
	}
	p.PeakHour = peak

	days := make([]string, 0, len(daySeconds))
	for d := range daySeconds {
		days = append(days, d)
	}
	sort.Strings(days)
	p.StudyDays = len(days)
	p.ConsistencyScore = min(100, int(math.Round(float64(len(days))/float64(window)*100)))
	p.CurrentStreak, p.LongestStreak = Streaks(days, in.Today)

	var weekdayTotals [7]int
	for d, secs := range daySeconds {
		weekdayTotals[dateutil.WeekdayIndex(d)] += secs
	}
	var weekdayCounts [7]int
	for _, d := range dateutil.Range(from, in.Today) {
		weekdayCounts[dateutil.WeekdayIndex(d)]++
	}
	for i := 0; i < 7; i++ {
		if weekdayCounts[i] > 0 {
			p.WeekdayAvgSeconds[i] = round1(float64(weekdayTotals[i]) / float64(weekdayCounts[i]))
		}
	}

	p.Subjects = make([]SubjectStat, 0, len(order))
	for _, id := range order {
		st := bySubject[id]
		st.Percentage = round1(float64(st.TotalSeconds) / float64(p.TotalStudySeconds) * 100)
		st.AvgSessionSeconds = int(math.Round(float64(st.TotalSeconds) / float64(st.SessionCount)))
		p.Subjects = append(p.Subjects, *st)
	}
	sort.SliceStable(p.Subjects, func(i, j int) bool {
		return p.Subjects[i].TotalSeconds > p.Subjects[j].TotalSeconds
	})
	return p
}

// Streaks walks sorted, unique study days. The current streak only counts when the
// most recent day is today or yesterday.
func Streaks(days []string, today string) (current, longest int) {
	if len(days) == 0 {
		return 0, 0
	}
	run := 1
	longest = 1
	for i := 1; i < len(days); i++ {
		if dateutil.DaysBetween(days[i-1], days[i]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	last := days[len(days)-1]
	if gap := dateutil.DaysBetween(last, today); gap == 0 || gap == 1 {
		current = run
	}
	return current, longest
}

// AvgSleep is the mean of logged nights, ignoring empty or non-positive entries,
// rounded to one decimal. It is 0 when nothing usable was logged.
func AvgSleep(logs []*types.SleepLog) float64 {
	total, n := 0.0, 0
	for _, l := range logs {
		if l == nil || l.Hours <= 0 {
			continue
		}
		total += l.Hours
		n++
	}
	if n == 0 {
		return 0
	}
	return round1(total / float64(n))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
