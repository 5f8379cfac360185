package apiclient

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts and times upstream API calls.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sambo_admin",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Backend API requests by method, endpoint and status code.",
		}, []string{"method", "endpoint", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sambo_admin",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Backend API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

var (
	uuidSegment  = regexp.MustCompile(`/[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)
	dateSegment  = regexp.MustCompile(`/\d{4}-\d{2}-\d{2}`)
	digitSegment = regexp.MustCompile(`/\d+`)
)

// endpointLabel collapses ids and dates so the label set stays small.
func endpointLabel(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	path = uuidSegment.ReplaceAllString(path, "/:id")
	path = dateSegment.ReplaceAllString(path, "/:date")
	return digitSegment.ReplaceAllString(path, "/:n")
}

func (m *Metrics) observe(method, path string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	endpoint := endpointLabel(path)
	m.requests.WithLabelValues(method, endpoint, strconv.Itoa(code)).Inc()
	m.duration.WithLabelValues(method, endpoint).Observe(elapsed.Seconds())
}
