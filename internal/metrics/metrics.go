// Package metrics exposes the service's Prometheus counters.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Admin resolution outcomes.
const (
	OutcomeAdmin    = "admin"
	OutcomeNonAdmin = "non_admin"
	OutcomeError    = "error"
	OutcomeTimeout  = "timeout"
)

// Recorder is the narrow interface the domain packages record through.
type Recorder interface {
	RecordAdImpression(slot string)
	RecordConsentDecision(outcome string)
	RecordAdminResolution(outcome string)
	RecordEventDropped()
	RecordHTTPStatus(statusCode int)
}

type Collector struct {
	adImpressions    *prometheus.CounterVec
	consentDecisions *prometheus.CounterVec
	adminResolutions *prometheus.CounterVec
	eventsDropped    prometheus.Counter
	httpResponses    *prometheus.CounterVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		adImpressions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contenthub_ad_impressions_total",
			Help: "Показы рекламы по позициям",
		}, []string{"slot"}),
		consentDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contenthub_consent_decisions_total",
			Help: "Решения зрителей по согласию на просмотр",
		}, []string{"outcome"}),
		adminResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contenthub_admin_resolutions_total",
			Help: "Результаты проверки прав администратора",
		}, []string{"outcome"}),
		eventsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "contenthub_analytics_events_dropped_total",
			Help: "События аналитики, отброшенные из-за переполнения очереди",
		}),
		httpResponses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contenthub_http_responses_total",
			Help: "HTTP ответы по классу статуса",
		}, []string{"class"}),
	}

	reg.MustRegister(
		c.adImpressions,
		c.consentDecisions,
		c.adminResolutions,
		c.eventsDropped,
		c.httpResponses,
	)

	return c
}

func (c *Collector) RecordAdImpression(slot string) {
	c.adImpressions.WithLabelValues(slot).Inc()
}

func (c *Collector) RecordConsentDecision(outcome string) {
	c.consentDecisions.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordAdminResolution(outcome string) {
	c.adminResolutions.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordEventDropped() {
	c.eventsDropped.Inc()
}

// RecordHTTPStatus groups codes into 2xx/3xx/4xx/5xx to keep cardinality low.
func (c *Collector) RecordHTTPStatus(statusCode int) {
	class := "other"
	switch {
	case statusCode >= 500:
		class = "5xx"
	case statusCode >= 400:
		class = "4xx"
	case statusCode >= 300:
		class = "3xx"
	case statusCode >= 200:
		class = "2xx"
	}
	c.httpResponses.WithLabelValues(class).Inc()
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordAdImpression(string)    {}
func (Nop) RecordConsentDecision(string) {}
func (Nop) RecordAdminResolution(string) {}
func (Nop) RecordEventDropped()          {}
func (Nop) RecordHTTPStatus(int)         {}

func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
