// Package metrics exposes Prometheus collectors for the listing service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Auth event names.
const (
	EventLogin            = "login"
	EventRegister         = "register"
	EventProfileUpdate    = "profile_update"
	EventInvitationCreate = "invitation_create"
	EventInvitationAccept = "invitation_accept"
	EventLogout           = "logout"
)

// Results recorded with auth events.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// BackendInfo is 1 for the resolved backend and mode.
var BackendInfo = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "estate_backend_info",
		Help: "Resolved persistence backend (value is always 1)",
	},
	[]string{"backend", "mode"},
)

// AuthEvents counts authentication outcomes.
var AuthEvents = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "estate_auth_events_total",
		Help: "Total number of authentication events by event and result",
	},
	[]string{"event", "result"},
)

// RegisterMetrics registers the package collectors plus Go and process
// collectors with reg. Panics if registration fails.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(BackendInfo)
	reg.MustRegister(AuthEvents)
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

// NewRegistry returns a registry with RegisterMetrics applied.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	RegisterMetrics(reg)
	return reg
}

// Handler serves the metrics gathered by reg.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// SetBackend records the resolved backend.
func SetBackend(name, mode string) {
	BackendInfo.Reset()
	BackendInfo.WithLabelValues(name, mode).Set(1)
}

// RecordAuthEvent counts one auth event, classed by whether err is nil.
func RecordAuthEvent(event string, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	AuthEvents.WithLabelValues(event, result).Inc()
}
