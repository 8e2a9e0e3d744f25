package scheduling

import "testing"

func TestCapacity(t *testing.T) {
	cfg := DefaultConfig()
	cases := []struct {
		name          string
		today         string
		deadline      string
		total         int
		wantAvailable int
		wantPerDay    int
	}{
		{"21 days out, 17 sessions", "2026-01-01", "2026-01-22", 17, 18, 1},
		{"14 days out, 15 sessions", "2026-01-01", "2026-01-15", 15, 11, 2},
		{"tomorrow floors at three days", "2026-01-01", "2026-01-02", 5, 3, 2},
		{"past deadline", "2026-01-10", "2026-01-01", 30, 3, 3},
		{"clamped to three", "2026-01-01", "2026-01-11", 100, 7, 3},
		{"nothing requested", "2026-01-01", "2026-01-11", 0, 7, 1},
	}
	for _, tc := range cases {
		avail, perDay := Capacity(tc.today, tc.deadline, tc.total, cfg)
		if avail != tc.wantAvailable || perDay != tc.wantPerDay {
			t.Fatalf("%s: Capacity=%d,%d want %d,%d", tc.name, avail, perDay, tc.wantAvailable, tc.wantPerDay)
		}
	}
}

func TestColorForDeterministic(t *testing.T) {
	palette := DefaultConfig().Palette
	a := ColorFor("Organic Chemistry", palette)
	for i := 0; i < 5; i++ {
		if got := ColorFor("Organic Chemistry", palette); got != a {
			t.Fatalf("ColorFor changed between calls: %s vs %s", got, a)
		}
	}
	if got := ColorFor("  organic chemistry ", palette); got != a {
		t.Fatalf("ColorFor(normalized)=%s, want %s", got, a)
	}
	found := false
	for _, c := range palette {
		if c == a {
			found = true
		}
	}
	if !found {
		t.Fatalf("ColorFor returned %s, not in palette", a)
	}
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte("engine: studyflow_scheduler\ngap_minutes: 30\n"))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.GapMinutes != 15 || cfg.MaxTasksPerDay != 3 {
		t.Fatalf("ParseConfig clamp/defaults: %+v", cfg)
	}
	if _, err := ParseConfig([]byte("engine: other\n")); err == nil {
		t.Fatalf("ParseConfig(wrong engine) expected error")
	}
	if _, err := ParseConfig([]byte("engine: [\n")); err == nil {
		t.Fatalf("ParseConfig(bad yaml) expected error")
	}
	embedded, err := loadConfig()
	if err != nil {
		t.Fatalf("embedded engine.yaml: %v", err)
	}
	if len(embedded.Palette) != len(DefaultConfig().Palette) {
		t.Fatalf("embedded palette len=%d", len(embedded.Palette))
	}
	if embedded.MaxSessionsPerSubject != 200 || embedded.MaxPlanSessions != 1000 {
		t.Fatalf("embedded session limits=%d,%d want 200,1000", embedded.MaxSessionsPerSubject, embedded.MaxPlanSessions)
	}
	for _, doc := range []string{
		"engine: studyflow_scheduler\nmax_sessions_per_subject: 0\n",
		"engine: studyflow_scheduler\nmax_sessions_per_subject: 50\nmax_plan_sessions: 10\n",
	} {
		if _, err := ParseConfig([]byte(doc)); err == nil {
			t.Fatalf("ParseConfig(%q) expected error", doc)
		}
	}
}
