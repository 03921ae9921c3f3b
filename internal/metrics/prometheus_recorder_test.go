package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	pr := NewPrometheusRecorder(prom.NewRegistry())

	pr.IncProbe(ProbeTableExists)
	pr.IncProbe(ProbeTableExists)
	pr.IncProbe(ProbeOption)
	pr.IncClassification("fresh", SourceDetected)
	pr.IncInitialization(InitCompleted)

	assert.Equal(t, 2.0, testutil.ToFloat64(pr.probes.WithLabelValues(string(ProbeTableExists))))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.probes.WithLabelValues(string(ProbeOption))))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.classifications.WithLabelValues("fresh", SourceDetected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.initializations.WithLabelValues(string(InitCompleted))))
}

func TestPrometheusRecorderHandler(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncInitialization(InitNoCreator)

	rec := httptest.NewRecorder()
	pr.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `freshstart_initializations_total{outcome="no_creator"} 1`)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.IncProbe(ProbeRowCount)
	r.IncClassification("existing", SourceCached)
	r.IncInitialization(InitFailed)
}
