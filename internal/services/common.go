package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/studyflow-backend/internal/observability"
	"github.com/yungbote/studyflow-backend/internal/platform/apierr"
	"github.com/yungbote/studyflow-backend/internal/platform/clock"
	"github.com/yungbote/studyflow-backend/internal/platform/ctxutil"
)

// Calendar fixes "today" for every pipeline: a clock plus the engine timezone.
type Calendar struct {
	Clock clock.Clock
	Loc   *time.Location
}

func NewCalendar(c clock.Clock, loc *time.Location) Calendar {
	if c == nil {
		c = clock.SystemClock{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{Clock: c, Loc: loc}
}

func (c Calendar) Today() string { return clock.Today(c.Clock, c.Loc) }

func (c Calendar) Now() time.Time { return c.Clock.Now() }

func requireUser(ctx context.Context) (uuid.UUID, error) {
	id := ctxutil.UserID(ctx)
	if id == uuid.Nil {
		return uuid.Nil, apierr.ErrUnauthorized
	}
	return id, nil
}

// pipeline wraps one engine run with a span and a metrics observation.
type pipeline struct {
	name    string
	start   time.Time
	span    trace.Span
	metrics *observability.Metrics
}

func startPipeline(ctx context.Context, m *observability.Metrics, name string, userID uuid.UUID) (context.Context, *pipeline) {
	ctx, span := observability.StartSpan(ctx, "pipeline."+name, attribute.String("user.id", userID.String()))
	return ctx, &pipeline{name: name, start: time.Now(), span: span, metrics: m}
}

func (p *pipeline) end(err error) {
	p.metrics.ObservePipeline(p.name, err, time.Since(p.start))
	observability.EndSpan(p.span, err)
}
