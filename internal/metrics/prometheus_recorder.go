package metrics

import (
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus counters.
type PrometheusRecorder struct {
	reg             *prom.Registry
	probes          *prom.CounterVec
	classifications *prom.CounterVec
	initializations *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the counters on reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		probes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "freshstart",
			Name:      "probes_total",
			Help:      "Schema and option probes made while classifying the install",
		}, []string{"kind"}),
		classifications: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "freshstart",
			Name:      "classifications_total",
			Help:      "Install classifications by state and whether they came from the cache",
		}, []string{"state", "source"}),
		initializations: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "freshstart",
			Name:      "initializations_total",
			Help:      "Fresh-install initialization attempts by outcome",
		}, []string{"outcome"}),
	}
	reg.MustRegister(pr.probes, pr.classifications, pr.initializations)
	return pr
}

func (p *PrometheusRecorder) IncProbe(kind ProbeKind) {
	p.probes.WithLabelValues(string(kind)).Inc()
}

func (p *PrometheusRecorder) IncClassification(state, source string) {
	p.classifications.WithLabelValues(state, source).Inc()
}

func (p *PrometheusRecorder) IncInitialization(outcome InitOutcome) {
	p.initializations.WithLabelValues(string(outcome)).Inc()
}

// Handler exposes the recorder's registry for scraping.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{})
}
