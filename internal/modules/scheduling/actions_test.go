package scheduling

import (
	"errors"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/studyflow-backend/internal/platform/apierr"
)

func TestParseAction(t *testing.T) {
	id := uuid.New()
	cases := []struct {
		name string
		raw  string
		kind string
	}{
		{"add", `{"action":"add_sessions","subject":"Physics","count":4,"duration_minutes":45,"deadline":"2026-11-20"}`, ActionAddSessions},
		{"reschedule", `{"action":"reschedule","task_id":"` + id.String() + `","date":"2026-03-02","start_time":"14:30"}`, ActionReschedule},
		{"update", `{"action":"update_task","task_id":"` + id.String() + `","title":"Read ch. 3"}`, ActionUpdateTask},
		{"delete", `{"action":"delete_task","task_id":"` + id.String() + `"}`, ActionDeleteTask},
		{"split", `{"action":"split_task","task_id":"` + id.String() + `","parts":3}`, ActionSplitTask},
		{"complete", `{"action":" Complete_Task ","task_id":"` + id.String() + `"}`, ActionCompleteTask},
	}
	for _, tc := range cases {
		a, err := ParseAction([]byte(tc.raw), 0)
		if err != nil {
			t.Fatalf("%s: ParseAction err=%v", tc.name, err)
		}
		if a.Kind() != tc.kind {
			t.Fatalf("%s: Kind=%s, want %s", tc.name, a.Kind(), tc.kind)
		}
	}

	a, _ := ParseAction([]byte(`{"action":"add_sessions","subject":" Physics ","count":4}`), 0)
	if got := a.(AddSessions); got.Subject != "Physics" || got.Count != 4 || got.DurationMinutes != 0 {
		t.Fatalf("AddSessions=%+v", got)
	}
}

func TestParseActionRejects(t *testing.T) {
	id := uuid.New().String()
	cases := []string{
		`not json`,
		`{}`,
		`{"action":"teleport"}`,
		`{"action":"add_sessions","count":2}`,
		`{"action":"add_sessions","subject":"Math","count":0}`,
		`{"action":"add_sessions","subject":"Math","count":2,"deadline":"soon"}`,
		`{"action":"add_sessions","subject":"Math","count":201}`,
		`{"action":"add_sessions","subject":"Math","count":9223372036854775807}`,
		`{"action":"add_sessions","subject":"Math","count":2,"duration_minutes":1441}`,
		`{"action":"reschedule","task_id":"` + id + `"}`,
		`{"action":"reschedule","task_id":"` + id + `","date":"2026-03-02","start_time":"25:99"}`,
		`{"action":"update_task","task_id":"` + id + `"}`,
		`{"action":"update_task","task_id":"` + id + `","duration_minutes":-5}`,
		`{"action":"update_task","task_id":"` + id + `","duration_minutes":100000}`,
		`{"action":"delete_task","task_id":"nope"}`,
		`{"action":"split_task","task_id":"` + id + `","parts":1}`,
		`{"action":"complete_task"}`,
	}
	for _, raw := range cases {
		if _, err := ParseAction([]byte(raw), 0); !errors.Is(err, apierr.ErrInvalidArgument) {
			t.Fatalf("ParseAction(%s) err=%v, want ErrInvalidArgument", raw, err)
		}
	}
}

func TestParseActionSessionLimit(t *testing.T) {
	raw := []byte(`{"action":"add_sessions","subject":"Math","count":12}`)
	if _, err := ParseAction(raw, 12); err != nil {
		t.Fatalf("ParseAction(count=12, max=12) err=%v, want nil", err)
	}
	if _, err := ParseAction(raw, 11); !errors.Is(err, apierr.ErrInvalidArgument) {
		t.Fatalf("ParseAction(count=12, max=11) err=%v, want ErrInvalidArgument", err)
	}
}

func TestSplitDurations(t *testing.T) {
	cases := []struct {
		total, parts int
		want         []int
		wantErr      bool
	}{
		{60, 2, []int{30, 30}, false},
		{62, 3, []int{22, 20, 20}, false},
		{10, 2, []int{5, 5}, false},
		{9, 2, nil, true},
		{60, 1, nil, true},
	}
	for _, tc := range cases {
		got, err := SplitDurations(tc.total, tc.parts, 5)
		if (err != nil) != tc.wantErr || !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("SplitDurations(%d, %d)=%v,%v want %v (err=%v)", tc.total, tc.parts, got, err, tc.want, tc.wantErr)
		}
	}
}
