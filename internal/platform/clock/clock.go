package clock

import (
	"sync"
	"time"

	"github.com/yungbote/studyflow-backend/internal/platform/dateutil"
)

// Clock abstracts time so pipelines stay deterministic in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// Fixed is a manually advanced clock.
type Fixed struct {
	mu sync.Mutex
	t  time.Time
}

func NewFixed(t time.Time) *Fixed { return &Fixed{t: t.UTC()} }

func (f *Fixed) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

// Today is the calendar day of c.Now() in loc.
func Today(c Clock, loc *time.Location) string {
	return dateutil.Day(c.Now(), loc)
}
