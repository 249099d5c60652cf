package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polybars/internal/model"
)

func TestPrometheusRecorder(t *testing.T) {
	p := NewPrometheus()
	g := model.Granularity{Timespan: model.Minute, Multiplier: 1}

	p.ObserveChunk(g, "ok", 120, 300*time.Millisecond)
	p.ObserveChunk(g, "failed", 0, 50*time.Millisecond)
	p.ObserveFailure(model.Unauthorized)
	p.ObserveWait(12 * time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(p.chunks.WithLabelValues("minute", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.chunks.WithLabelValues("minute", "failed")))
	assert.Equal(t, 120.0, testutil.ToFloat64(p.bars.WithLabelValues("minute")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.failures.WithLabelValues("unauthorized")))
}

func TestWriteTextfile(t *testing.T) {
	p := NewPrometheus()
	p.ObserveFailure(model.RateLimited)
	path := filepath.Join(t.TempDir(), "polybars.prom")

	require.NoError(t, p.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `polybars_chunk_failures_total{kind="rate_limited"} 1`)
}

func TestNopSatisfiesRecorder(t *testing.T) {
	var r Recorder = Nop{}
	r.ObserveChunk(model.Granularity{}, "ok", 1, time.Second)
	r.ObserveFailure(model.Unknown)
	r.ObserveWait(time.Second)
}
