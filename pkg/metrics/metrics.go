package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ScrapesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "arkdex", Name: "scrapes_total", Help: "Number of completed wiki scrapes by page kind."},
		[]string{"kind"},
	)
	ScrapesFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "arkdex", Name: "scrapes_failed_total", Help: "Number of failed wiki scrapes by page kind."},
		[]string{"kind"},
	)
	DocumentsServed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "arkdex", Name: "documents_served_total", Help: "Number of trivia documents served by source (store or cache)."},
		[]string{"source"},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "arkdex", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "arkdex", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(ScrapesTotal)
	reg.MustRegister(ScrapesFailed)
	reg.MustRegister(DocumentsServed)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
