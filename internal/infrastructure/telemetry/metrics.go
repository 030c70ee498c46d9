// Package telemetry registra las métricas Prometheus del bot.
package telemetry

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	CommandsResolved *prometheus.CounterVec
	FillerFired      *prometheus.CounterVec
	RepliesFailed    *prometheus.CounterVec
	EventsReceived   *prometheus.CounterVec
)

// Init registra las métricas (idempotente).
func Init() {
	once.Do(func() {
		CommandsResolved = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chatbot_commands_resolved_total",
			Help: "Chat commands resolved, by route",
		}, []string{"route"})
		FillerFired = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chatbot_filler_fired_total",
			Help: "Unsolicited filler responses sent, by kind",
		}, []string{"kind"})
		RepliesFailed = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chatbot_replies_failed_total",
			Help: "Outbound chat replies that returned an error, by platform",
		}, []string{"platform"})
		EventsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chatbot_events_received_total",
			Help: "Inbound platform events, by platform and kind",
		}, []string{"platform", "kind"})
	})
}

func Handler() http.Handler {
	Init()
	return promhttp.Handler()
}

func ObserveCommand(route string) {
	if CommandsResolved != nil {
		CommandsResolved.WithLabelValues(route).Inc()
	}
}

func ObserveFiller(kind string) {
	if FillerFired != nil {
		FillerFired.WithLabelValues(kind).Inc()
	}
}

func ObserveReplyFailure(platform string) {
	if RepliesFailed != nil {
		RepliesFailed.WithLabelValues(platform).Inc()
	}
}

func ObserveEvent(platform, kind string) {
	if EventsReceived != nil {
		EventsReceived.WithLabelValues(platform, kind).Inc()
	}
}
