package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "goaltracker"

// PrometheusRecorder exports metrics through a Prometheus registry.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	usersRegistered prometheus.Counter
	usersDeleted    prometheus.Counter
	loginAttempts   *prometheus.CounterVec
	authCache       *prometheus.CounterVec
	goalEvents      *prometheus.CounterVec
	minutesLogged   prometheus.Histogram
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// NewPrometheus registers the application collectors, plus Go runtime and
// process collectors, on a fresh registry.
func NewPrometheus() *PrometheusRecorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	p := &PrometheusRecorder{
		registry: reg,
		usersRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_registered_total",
			Help:      "Accounts created.",
		}),
		usersDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_deleted_total",
			Help:      "Accounts deleted.",
		}),
		loginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Login attempts by result.",
		}, []string{"result"}),
		authCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_cache_lookups_total",
			Help:      "Resolved-user cache lookups by outcome.",
		}, []string{"outcome"}),
		goalEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "goal_events_total",
			Help:      "Goal mutations by action.",
		}, []string{"action"}),
		minutesLogged: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "time_entry_minutes",
			Help:      "Minutes per logged time entry.",
			Buckets:   []float64{5, 15, 30, 60, 120, 240, 480},
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		p.usersRegistered,
		p.usersDeleted,
		p.loginAttempts,
		p.authCache,
		p.goalEvents,
		p.minutesLogged,
		p.httpRequests,
		p.httpDuration,
	)
	return p
}

// Handler serves the registry in the Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

func (p *PrometheusRecorder) IncUserRegistered() { p.usersRegistered.Inc() }

func (p *PrometheusRecorder) IncUserDeleted() { p.usersDeleted.Inc() }

func (p *PrometheusRecorder) IncLoginAttempt(result string) {
	p.loginAttempts.WithLabelValues(result).Inc()
}

func (p *PrometheusRecorder) IncAuthCacheHit() { p.authCache.WithLabelValues("hit").Inc() }

func (p *PrometheusRecorder) IncAuthCacheMiss() { p.authCache.WithLabelValues("miss").Inc() }

func (p *PrometheusRecorder) IncGoalCreated() { p.goalEvents.WithLabelValues("created").Inc() }

func (p *PrometheusRecorder) IncGoalUpdated() { p.goalEvents.WithLabelValues("updated").Inc() }

func (p *PrometheusRecorder) IncGoalDeleted() { p.goalEvents.WithLabelValues("deleted").Inc() }

func (p *PrometheusRecorder) ObserveTimeLogged(minutes int) {
	p.minutesLogged.Observe(float64(minutes))
}

func (p *PrometheusRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	p.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
