package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GenerationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "copysmith_generations_total",
		Help: "Total ad generation requests by outcome.",
	}, []string{"status"})

	GenerationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "copysmith_generation_duration_seconds",
		Help:    "Time from generation request receipt to provider response.",
		Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	})

	LikesSavedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "copysmith_likes_saved_total",
		Help: "Headlines newly saved to the liked store.",
	})

	LikesDuplicateTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "copysmith_likes_duplicate_total",
		Help: "Like requests that matched an already-saved headline.",
	})

	GenerationRecordErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "copysmith_generation_record_errors_total",
		Help: "Generation history insert failures.",
	})

	RateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "copysmith_rate_limited_total",
		Help: "Requests rejected by the rate limiter.",
	})
)
