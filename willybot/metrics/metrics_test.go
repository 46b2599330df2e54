package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_ObserveJob(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.ObserveJob("TASK:BACKUP", time.Second, nil)
	c.ObserveJob("TASK:BACKUP", time.Second, errors.New("disk full"))
	c.ObserveJob("TASK:USERS", time.Millisecond, nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.jobRuns.WithLabelValues("TASK:BACKUP")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.jobFailures.WithLabelValues("TASK:BACKUP")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.jobFailures.WithLabelValues("TASK:USERS")))
}

func TestCollector_CommandsAndXP(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.ObserveCommand("profile", "success")
	c.ObserveCommand("profile", "success")
	c.ObserveCommand("profile", "cooldown")
	c.AddXP(4)
	c.AddXP(0)
	c.AddXP(-3)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.commands.WithLabelValues("profile", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.commands.WithLabelValues("profile", "cooldown")))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.xpGranted))
}

func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.ObserveJob("TASK:QUESTS", time.Second, nil)

	srv := httptest.NewServer(NewServer("", reg).Handler)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `willybot_job_runs_total{job="TASK:QUESTS"} 1`))
}
