package albjbot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "albj_bot"

// Metrics holds the bot's prometheus collectors. Each Bot has its own
// registry, so multiple bots (tests) don't collide.
type Metrics struct {
	Registry            *prometheus.Registry
	Commands            *prometheus.CounterVec
	CheckIns            *prometheus.CounterVec
	NotificationToggles *prometheus.CounterVec
	DailyUpdatesSent    *prometheus.CounterVec
	DailyUpdateDuration prometheus.Histogram
	GatewayConnects     prometheus.Counter
	GatewayDisconnects  prometheus.Counter
	Panics              *prometheus.CounterVec
}

func newMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		Commands: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "commands_total",
				Help:      "Slash commands handled, by command and outcome",
			},
			[]string{"command", "outcome"},
		),
		CheckIns: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "checkins_total",
				Help:      "Daily check-ins, by outcome",
			},
			[]string{"outcome"},
		),
		NotificationToggles: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "notification_toggles_total",
				Help:      "Notification preference toggles, by kind and new state",
			},
			[]string{"kind", "enabled"},
		),
		DailyUpdatesSent: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "daily_updates_sent_total",
				Help:      "Daily update messages sent, by kind, target and result",
			},
			[]string{"kind", "target", "result"},
		),
		DailyUpdateDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "daily_update_duration_seconds",
				Help:      "Time taken to fan out a daily update",
				Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
			},
		),
		GatewayConnects: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "gateway_connects_total",
				Help:      "Discord gateway connect events",
			},
		),
		GatewayDisconnects: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "gateway_disconnects_total",
				Help:      "Discord gateway disconnect events",
			},
		),
		Panics: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "panics_recovered_total",
				Help:      "Recovered panics, by source",
			},
			[]string{"source"},
		),
	}
}
