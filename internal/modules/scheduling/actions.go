package scheduling

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/studyflow-backend/internal/platform/apierr"
	"github.com/yungbote/studyflow-backend/internal/platform/dateutil"
)

const (
	ActionAddSessions  = "add_sessions"
	ActionReschedule   = "reschedule"
	ActionUpdateTask   = "update_task"
	ActionDeleteTask   = "delete_task"
	ActionSplitTask    = "split_task"
	ActionCompleteTask = "complete_task"
)

// Action is one task mutation. The concrete types below are the only variants.
type Action interface {
	Kind() string
	isAction()
}

type AddSessions struct {
	Subject         string
	Count           int
	DurationMinutes int
	Deadline        string
}

type Reschedule struct {
	TaskID    uuid.UUID
	Date      string
	StartTime *string
}

type UpdateTask struct {
	TaskID          uuid.UUID
	Title           *string
	DurationMinutes *int
	Priority        *int
}

type DeleteTask struct {
	TaskID uuid.UUID
}

type SplitTask struct {
	TaskID uuid.UUID
	Parts  int
}

type CompleteTask struct {
	TaskID uuid.UUID
}

func (AddSessions) Kind() string  { return ActionAddSessions }
func (Reschedule) Kind() string   { return ActionReschedule }
func (UpdateTask) Kind() string   { return ActionUpdateTask }
func (DeleteTask) Kind() string   { return ActionDeleteTask }
func (SplitTask) Kind() string    { return ActionSplitTask }
func (CompleteTask) Kind() string { return ActionCompleteTask }

func (AddSessions) isAction()  {}
func (Reschedule) isAction()   {}
func (UpdateTask) isAction()   {}
func (DeleteTask) isAction()   {}
func (SplitTask) isAction()    {}
func (CompleteTask) isAction() {}

type actionEnvelope struct {
	Action          string  `json:"action"`
	Subject         string  `json:"subject"`
	Count           *int    `json:"count"`
	DurationMinutes *int    `json:"duration_minutes"`
	Deadline        string  `json:"deadline"`
	TaskID          string  `json:"task_id"`
	Date            string  `json:"date"`
	StartTime       *string `json:"start_time"`
	Title           *string `json:"title"`
	Priority        *int    `json:"priority"`
	Parts           *int    `json:"parts"`
}

// ParseAction decodes {"action": "<tag>", ...} and rejects unknown tags or missing
// required fields with apierr.ErrInvalidArgument. maxSessions caps add_sessions
// counts; values below 1 use the compiled-in default.
func ParseAction(raw []byte, maxSessions int) (Action, error) {
	maxSessions = sessionLimit(maxSessions)
	var env actionEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, apierr.Invalid("malformed action: %v", err)
	}
	tag := strings.ToLower(strings.TrimSpace(env.Action))

	switch tag {
	case ActionAddSessions:
		subject := strings.TrimSpace(env.Subject)
		if subject == "" {
			return nil, apierr.Invalid("%s: subject is required", tag)
		}
		if env.Count == nil || *env.Count < 1 {
			return nil, apierr.Invalid("%s: count must be at least 1", tag)
		}
		if *env.Count > maxSessions {
			return nil, apierr.Invalid("%s: count %d exceeds the limit of %d", tag, *env.Count, maxSessions)
		}
		a := AddSessions{Subject: subject, Count: *env.Count}
		if env.DurationMinutes != nil {
			if *env.DurationMinutes <= 0 || *env.DurationMinutes > minutesPerDay {
				return nil, apierr.Invalid("%s: duration_minutes must be between 1 and %d", tag, minutesPerDay)
			}
			a.DurationMinutes = *env.DurationMinutes
		}
		if env.Deadline != "" {
			if !dateutil.Valid(env.Deadline) {
				return nil, apierr.Invalid("%s: invalid deadline %q", tag, env.Deadline)
			}
			a.Deadline = env.Deadline
		}
		return a, nil
	case ActionReschedule:
		id, err := parseTaskID(tag, env.TaskID)
		if err != nil {
			return nil, err
		}
		if !dateutil.Valid(env.Date) {
			return nil, apierr.Invalid("%s: date is required as YYYY-MM-DD", tag)
		}
		a := Reschedule{TaskID: id, Date: env.Date}
		if env.StartTime != nil {
			if _, err := dateutil.ParseClock(*env.StartTime); err != nil {
				return nil, apierr.Invalid("%s: %v", tag, err)
			}
			st := strings.TrimSpace(*env.StartTime)
			a.StartTime = &st
		}
		return a, nil
	case ActionUpdateTask:
		id, err := parseTaskID(tag, env.TaskID)
		if err != nil {
			return nil, err
		}
		if env.Title == nil && env.DurationMinutes == nil && env.Priority == nil {
			return nil, apierr.Invalid("%s: nothing to update", tag)
		}
		if env.Title != nil && strings.TrimSpace(*env.Title) == "" {
			return nil, apierr.Invalid("%s: title cannot be empty", tag)
		}
		if env.DurationMinutes != nil && (*env.DurationMinutes <= 0 || *env.DurationMinutes > minutesPerDay) {
			return nil, apierr.Invalid("%s: duration_minutes must be between 1 and %d", tag, minutesPerDay)
		}
		return UpdateTask{TaskID: id, Title: env.Title, DurationMinutes: env.DurationMinutes, Priority: env.Priority}, nil
	case ActionDeleteTask:
		id, err := parseTaskID(tag, env.TaskID)
		if err != nil {
			return nil, err
		}
		return DeleteTask{TaskID: id}, nil
	case ActionSplitTask:
		id, err := parseTaskID(tag, env.TaskID)
		if err != nil {
			return nil, err
		}
		if env.Parts == nil || *env.Parts < 2 {
			return nil, apierr.Invalid("%s: parts must be at least 2", tag)
		}
		return SplitTask{TaskID: id, Parts: *env.Parts}, nil
	case ActionCompleteTask:
		id, err := parseTaskID(tag, env.TaskID)
		if err != nil {
			return nil, err
		}
		return CompleteTask{TaskID: id}, nil
	case "":
		return nil, apierr.Invalid("action is required")
	default:
		return nil, apierr.Invalid("unknown action %q", env.Action)
	}
}

func sessionLimit(n int) int {
	if n < 1 {
		return DefaultConfig().MaxSessionsPerSubject
	}
	return n
}

func parseTaskID(tag, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, apierr.Invalid("%s: task_id is required", tag)
	}
	return id, nil
}

// SplitDurations divides total minutes into parts, remainder on the first part.
// Every part must be at least minMinutes long.
func SplitDurations(total, parts, minMinutes int) ([]int, error) {
	if parts < 2 {
		return nil, apierr.Invalid("split needs at least 2 parts, got %d", parts)
	}
	base := total / parts
	if base < minMinutes {
		return nil, apierr.Invalid("cannot split %d minutes into %d parts of at least %d minutes", total, parts, minMinutes)
	}
	out := make([]int, parts)
	for i := range out {
		out[i] = base
	}
	out[0] += total - base*parts
	return out, nil
}
