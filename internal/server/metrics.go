package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	gamesStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "minesweeper_games_started_total",
			Help: "Total games started, including restarts",
		},
	)
	gamesFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minesweeper_games_finished_total",
			Help: "Total games finished, by result",
		},
		[]string{"result"},
	)
	activeSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "minesweeper_active_sessions",
			Help: "Sessions currently held in memory",
		},
	)
)

func init() {
	prometheus.MustRegister(gamesStarted)
	prometheus.MustRegister(gamesFinished)
	prometheus.MustRegister(activeSessions)
}
