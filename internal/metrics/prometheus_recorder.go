package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stepDuration  *prom.HistogramVec
	stepResults   *prom.CounterVec
	prerequisites *prom.CounterVec
	spawns        *prom.CounterVec
	terminations  *prom.CounterVec
	processUp     *prom.GaugeVec
}

// NewPrometheusRecorder constructs and registers the launcher metrics.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stepDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "branchlaunch",
			Name:      "setup_step_duration_seconds",
			Help:      "Duration of environment setup steps",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		}, []string{"step"}),
		stepResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "branchlaunch",
			Name:      "setup_step_results_total",
			Help:      "Setup step outcomes (success, failed, skipped)",
		}, []string{"step", "result"}),
		prerequisites: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "branchlaunch",
			Name:      "prerequisite_checks_total",
			Help:      "Prerequisite tool lookups by result",
		}, []string{"tool", "result"}),
		spawns: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "branchlaunch",
			Name:      "process_spawns_total",
			Help:      "Subsystem spawn attempts by result",
		}, []string{"process", "result"}),
		terminations: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "branchlaunch",
			Name:      "process_terminations_total",
			Help:      "Termination requests issued at shutdown by result",
		}, []string{"process", "result"}),
		processUp: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: "branchlaunch",
			Name:      "process_up",
			Help:      "Whether a managed subsystem process is running (1) or exited (0)",
		}, []string{"process"}),
	}
	reg.MustRegister(pr.stepDuration, pr.stepResults, pr.prerequisites, pr.spawns, pr.terminations, pr.processUp)
	return pr
}

func (p *PrometheusRecorder) ObserveStepDuration(step string, d time.Duration) {
	if p == nil {
		return
	}
	p.stepDuration.WithLabelValues(step).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStepResult(step string, result ResultLabel) {
	if p == nil {
		return
	}
	p.stepResults.WithLabelValues(step, string(result)).Inc()
}

func (p *PrometheusRecorder) IncPrerequisiteResult(tool string, found bool) {
	if p == nil {
		return
	}
	p.prerequisites.WithLabelValues(tool, boolResult(found, "found", "missing")).Inc()
}

func (p *PrometheusRecorder) IncSpawn(process string, success bool) {
	if p == nil {
		return
	}
	p.spawns.WithLabelValues(process, boolResult(success, "success", "failed")).Inc()
}

func (p *PrometheusRecorder) IncTermination(process string, result TerminationLabel) {
	if p == nil {
		return
	}
	p.terminations.WithLabelValues(process, string(result)).Inc()
}

func (p *PrometheusRecorder) SetProcessUp(process string, up bool) {
	if p == nil {
		return
	}
	v := 0.0
	if up {
		v = 1
	}
	p.processUp.WithLabelValues(process).Set(v)
}

func boolResult(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}
