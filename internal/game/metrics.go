package game

import "github.com/prometheus/client_golang/prometheus"

var (
	roomsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "matchpairs_rooms_active",
		Help: "Number of live rooms in the registry",
	})
	gamesStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "matchpairs_games_started_total",
		Help: "Games dealt and started",
	})
	gamesCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "matchpairs_games_completed_total",
		Help: "Games played to the last pair",
	})
	pairsMatched = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "matchpairs_pairs_matched_total",
		Help: "Card pairs matched across all rooms",
	})
)

func init() {
	prometheus.MustRegister(roomsActive, gamesStarted, gamesCompleted, pairsMatched)
}
