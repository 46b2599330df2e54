// Package metrics exposes bot activity to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector counts maintenance runs, commands and granted xp.
type Collector struct {
	jobRuns     *prometheus.CounterVec
	jobFailures *prometheus.CounterVec
	jobDuration *prometheus.HistogramVec
	commands    *prometheus.CounterVec
	xpGranted   prometheus.Counter
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "willybot_job_runs_total",
			Help: "Maintenance job runs by job code",
		}, []string{"job"}),
		jobFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "willybot_job_failures_total",
			Help: "Failed maintenance job runs by job code",
		}, []string{"job"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "willybot_job_duration_seconds",
			Help:    "Maintenance job run time",
			Buckets: prometheus.DefBuckets,
		}, []string{"job"}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "willybot_commands_total",
			Help: "Commands handled by name and outcome",
		}, []string{"command", "status"}),
		xpGranted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "willybot_xp_granted_total",
			Help: "Message xp granted to users",
		}),
	}

	reg.MustRegister(
		c.jobRuns,
		c.jobFailures,
		c.jobDuration,
		c.commands,
		c.xpGranted,
	)

	return c
}

// ObserveJob records one maintenance run.
func (c *Collector) ObserveJob(code string, took time.Duration, err error) {
	c.jobRuns.WithLabelValues(code).Inc()
	c.jobDuration.WithLabelValues(code).Observe(took.Seconds())
	if err != nil {
		c.jobFailures.WithLabelValues(code).Inc()
	}
}

// ObserveCommand records a handled command. status is one of "success",
// "failed", "timeout" or "cooldown".
func (c *Collector) ObserveCommand(command, status string) {
	c.commands.WithLabelValues(command, status).Inc()
}

func (c *Collector) AddXP(amount int64) {
	if amount > 0 {
		c.xpGranted.Add(float64(amount))
	}
}

// Handler serves the gatherer in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// NewServer mounts Handler on /metrics.
func NewServer(addr string, gatherer prometheus.Gatherer) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
