package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	compatRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compatibility_requests_total",
			Help: "Total number of pairwise compatibility computations",
		},
		[]string{"outcome"},
	)

	feedDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "feed_build_duration_seconds",
			Help: "Time spent scoring and ranking a discovery feed",
		},
	)

	feedCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feed_candidates_scored",
			Help:    "Number of candidate profiles scored per feed request",
			Buckets: prometheus.ExponentialBuckets(1, 4, 6),
		},
	)

	swipesRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swipes_recorded_total",
			Help: "Total number of swipes recorded",
		},
		[]string{"direction"},
	)

	matchesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matches_created_total",
			Help: "Total number of mutual-like matches created",
		},
	)

	chatClientsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_clients_active",
			Help: "Number of websocket chat clients currently connected",
		},
	)

	chatMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_messages_sent_total",
			Help: "Total number of chat messages persisted and relayed",
		},
	)
)
