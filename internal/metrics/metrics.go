package metrics

import (
	"github.com/guttosm/fxtrades/internal/domain/models"
	"github.com/prometheus/client_golang/prometheus"
)

// Ingest holds the counters exposed for the trade pipeline.
type Ingest struct {
	LinesReceived   prometheus.Counter
	LinesSkipped    prometheus.Counter
	TradesPersisted prometheus.Counter
	Failures        prometheus.Counter
}

// NewIngest creates the pipeline counters and registers them on reg.
// A nil reg leaves them unregistered.
func NewIngest(reg prometheus.Registerer) *Ingest {
	m := &Ingest{
		LinesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fxtrades",
			Name:      "lines_received_total",
			Help:      "Trade lines received for ingestion.",
		}),
		LinesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fxtrades",
			Name:      "lines_skipped_total",
			Help:      "Trade lines rejected by validation.",
		}),
		TradesPersisted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fxtrades",
			Name:      "trades_persisted_total",
			Help:      "Trade records handed to storage in successful runs.",
		}),
		Failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fxtrades",
			Name:      "ingest_failures_total",
			Help:      "Pipeline runs aborted by a provider or storage error.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.LinesReceived, m.LinesSkipped, m.TradesPersisted, m.Failures)
	}
	return m
}

// Observe records the outcome of one pipeline run.
func (m *Ingest) Observe(summary models.IngestSummary, err error) {
	m.LinesReceived.Add(float64(summary.Lines))
	m.LinesSkipped.Add(float64(summary.Skipped))
	if err != nil {
		m.Failures.Inc()
		return
	}
	m.TradesPersisted.Add(float64(summary.Persisted))
}
