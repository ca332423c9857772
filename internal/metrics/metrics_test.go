package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := New()
	r.ObserveInvocation("chat", "success", 2*time.Second)
	r.ObserveInvocation("chat", "success", time.Second)
	r.ObserveInvocation("market", "timeout", 3*time.Minute)
	r.ResolutionEmpty("kie")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.invocations.WithLabelValues("chat", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.invocations.WithLabelValues("market", "timeout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.resolutionEmpty.WithLabelValues("kie")))

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `abilityctl_invocations_total{family="chat",outcome="success"} 2`)
	assert.Contains(t, string(body), "abilityctl_invocation_duration_seconds_bucket")
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.ObserveInvocation("chat", "failed", time.Second)
		r.ResolutionEmpty("baidu")
	})
	assert.NotNil(t, r.Handler())
}
