package scheduling

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/yungbote/studyflow-backend/internal/platform/apierr"
	"github.com/yungbote/studyflow-backend/internal/platform/dateutil"
)

// ExamDescription is the structured form of a free-text exam brief.
type ExamDescription struct {
	Title    string           `json:"title"`
	Deadline string           `json:"deadline,omitempty"`
	Subjects []SubjectRequest `json:"-"`
	// AdvisoryTasksPerDay is recorded as given and never used for capacity.
	AdvisoryTasksPerDay int `json:"advisory_tasks_per_day,omitempty"`
}

var (
	reDate        = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	reDeadlineKey = regexp.MustCompile(`(?i)\b(exam|deadline|due|test)\b`)
	rePerDay      = regexp.MustCompile(`(?i)(\d+)\s*(tasks?|sessions?)\s*(per|a|/)\s*day`)
	reTitle       = regexp.MustCompile(`(?i)^\s*(title|plan)\s*:\s*(.+)$`)
	reWeak        = regexp.MustCompile(`(?i)\(\s*weak\s*\)|\bweak\b`)
	reMinutes     = regexp.MustCompile(`(?i)(\d+)\s*(min|mins|minutes)\b`)
	reColonCount  = regexp.MustCompile(`(?i)^\s*([^:]+?)\s*:\s*(\d+)\s*(sessions?)?\b`)
	reTimesCount  = regexp.MustCompile(`(?i)^\s*(.+?)\s*[x×]\s*(\d+)\b`)
	reCountOf     = regexp.MustCompile(`(?i)^\s*(\d+)\s*sessions?\s+(of\s+)?(.+?)\s*$`)
	reBullet      = regexp.MustCompile(`^\s*([-*•]|\d+[.)])\s+`)
)

// ParseExamDescription reads one directive per line or comma/semicolon separated
// chunk, for example "Physics: 6 sessions", "Chemistry x4 (weak)" or
// "exam on 2026-11-20". Unrecognized chunks are ignored. A subject whose total
// exceeds maxSessions is rejected; values below 1 use the compiled-in default.
func ParseExamDescription(text string, maxSessions int) (ExamDescription, error) {
	maxSessions = sessionLimit(maxSessions)
	var out ExamDescription
	index := map[string]int{}

	for _, line := range splitDirectives(text) {
		line = reBullet.ReplaceAllString(line, "")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if m := reTitle.FindStringSubmatch(line); m != nil {
			out.Title = strings.TrimSpace(m[2])
			continue
		}
		if m := rePerDay.FindStringSubmatch(line); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				out.AdvisoryTasksPerDay = n
			}
			continue
		}
		if m := reDate.FindStringSubmatch(line); m != nil && reDeadlineKey.MatchString(line) {
			if !dateutil.Valid(m[1]) {
				return ExamDescription{}, apierr.Invalid("invalid exam date %q", m[1])
			}
			out.Deadline = m[1]
			continue
		}

		name, count, ok := subjectDirective(line)
		if !ok {
			continue
		}
		if count > maxSessions {
			return ExamDescription{}, apierr.Invalid("%q asks for %d sessions, the limit is %d", strings.TrimSpace(line), count, maxSessions)
		}
		weak := reWeak.MatchString(line)
		name = strings.TrimSpace(reWeak.ReplaceAllString(name, ""))
		name = strings.Trim(name, " -:,")
		if name == "" || count <= 0 {
			continue
		}
		dur := 0
		if m := reMinutes.FindStringSubmatch(line); m != nil {
			dur = atoiSaturating(m[1])
			if dur > minutesPerDay {
				return ExamDescription{}, apierr.Invalid("%s: a session cannot last %d minutes", name, dur)
			}
		}

		key := strings.ToLower(name)
		if i, seen := index[key]; seen {
			if out.Subjects[i].Sessions+count > maxSessions {
				return ExamDescription{}, apierr.Invalid("%s totals more than %d sessions", out.Subjects[i].Name, maxSessions)
			}
			out.Subjects[i].Sessions += count
			out.Subjects[i].Weak = out.Subjects[i].Weak || weak
			continue
		}
		index[key] = len(out.Subjects)
		out.Subjects = append(out.Subjects, SubjectRequest{Name: name, Sessions: count, DurationMinutes: dur, Weak: weak})
	}

	if len(out.Subjects) == 0 {
		return ExamDescription{}, apierr.Invalid("no subjects with session counts found in description")
	}
	if out.Title == "" {
		out.Title = "Exam preparation"
	}
	return out, nil
}

func splitDirectives(text string) []string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		for _, part := range strings.FieldsFunc(line, func(r rune) bool { return r == ';' || r == ',' }) {
			out = append(out, part)
		}
	}
	return out
}

func subjectDirective(line string) (string, int, bool) {
	if m := reCountOf.FindStringSubmatch(line); m != nil {
		return m[3], atoiSaturating(m[1]), true
	}
	if m := reColonCount.FindStringSubmatch(line); m != nil {
		return m[1], atoiSaturating(m[2]), true
	}
	if m := reTimesCount.FindStringSubmatch(line); m != nil {
		return m[1], atoiSaturating(m[2]), true
	}
	return "", 0, false
}

// atoiSaturating parses a run of digits, returning math.MaxInt when it overflows.
func atoiSaturating(digits string) int {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return math.MaxInt
	}
	return n
}
