package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RoomsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "typewar_rooms_active",
		Help: "Number of live rooms.",
	})
	ClientsConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "typewar_clients_connected",
		Help: "Number of open WebSocket connections.",
	})
	RacesStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "typewar_races_started_total",
		Help: "Races started across all rooms.",
	})
	RacesFinished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "typewar_races_finished_total",
		Help: "Races that reached the finished state.",
	})
	ProgressUpdates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "typewar_progress_updates_total",
		Help: "Accepted progress reports.",
	})
)

// Handler exposes the default registry for the /metrics route.
func Handler() http.Handler {
	return promhttp.Handler()
}
