package observability

import (
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/yungbote/studyflow-backend/internal/platform/envutil"
	"github.com/yungbote/studyflow-backend/internal/platform/logger"
)

// Metrics holds the process-wide counters exposed on /metrics.
type Metrics struct {
	apiRequests  *CounterVec
	apiLatency   *HistogramVec
	apiInflight  *Gauge
	pipelineRuns *CounterVec
	pipelineTime *HistogramVec
	tasksPlaced  *CounterVec
	enhancer     *CounterVec
	timerChanges *CounterVec
}

var (
	initOnce sync.Once
	instance *Metrics
)

func NewMetrics() *Metrics {
	return &Metrics{
		apiRequests:  NewCounterVec("studyflow_api_requests_total", "HTTP requests by route and status.", "method", "route", "status"),
		apiLatency:   NewHistogramVec("studyflow_api_request_seconds", "HTTP request latency.", nil, "method", "route"),
		apiInflight:  NewGauge("studyflow_api_inflight_requests", "HTTP requests in flight."),
		pipelineRuns: NewCounterVec("studyflow_pipeline_runs_total", "Engine pipeline runs by outcome.", "pipeline", "status"),
		pipelineTime: NewHistogramVec("studyflow_pipeline_seconds", "Engine pipeline latency.", nil, "pipeline"),
		tasksPlaced:  NewCounterVec("studyflow_tasks_placed_total", "Tasks written by the distributor.", "pipeline"),
		enhancer:     NewCounterVec("studyflow_enhancer_results_total", "Narrative enhancer outcomes.", "outcome"),
		timerChanges: NewCounterVec("studyflow_timer_transitions_total", "Timer transitions by target state.", "state"),
	}
}

// Init returns the shared Metrics when METRICS_ENABLED is set, nil otherwise.
// Every method is nil-safe so callers never branch on it.
func Init(log *logger.Logger) *Metrics {
	if !envutil.Bool("METRICS_ENABLED", false, log) {
		return nil
	}
	initOnce.Do(func() {
		instance = NewMetrics()
		log.Info("metrics enabled")
	})
	return instance
}

func Current() *Metrics { return instance }

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route)
}

func (m *Metrics) APIInflightInc() {
	if m != nil {
		m.apiInflight.Inc()
	}
}

func (m *Metrics) APIInflightDec() {
	if m != nil {
		m.apiInflight.Dec()
	}
}

// ObservePipeline records one run of a named engine pipeline.
func (m *Metrics) ObservePipeline(pipeline string, err error, dur time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.pipelineRuns.Inc(pipeline, status)
	m.pipelineTime.Observe(dur.Seconds(), pipeline)
}

func (m *Metrics) AddTasksPlaced(pipeline string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.tasksPlaced.Add(float64(n), pipeline)
}

// IncEnhancer counts one enhancer attempt: applied, rejected, failed or disabled.
func (m *Metrics) IncEnhancer(outcome string) {
	if m != nil {
		m.enhancer.Inc(outcome)
	}
}

func (m *Metrics) IncTimerTransition(state string) {
	if m != nil {
		m.timerChanges.Inc(state)
	}
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	writers := []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.pipelineRuns, m.pipelineTime, m.tasksPlaced,
		m.enhancer, m.timerChanges,
	}
	for _, wr := range writers {
		if err := wr.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	if err := m.WritePrometheus(w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
