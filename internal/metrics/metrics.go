package metrics

import (
	"strconv"
	"time"

	"learning-service/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	answersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learning_answers_total",
			Help: "Total number of submitted answers",
		},
		[]string{"category", "result"}, // result: correct/wrong
	)

	achievementsAwarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learning_achievements_awarded_total",
			Help: "Total number of achievements awarded",
		},
		[]string{"kind"},
	)

	levelTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learning_level_transitions_total",
			Help: "Level state transitions",
		},
		[]string{"transition"}, // completed/unlocked
	)

	batchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "learning_question_batch_size",
			Help:    "Number of questions served per batch",
			Buckets: []float64{0, 1, 5, 10, 20, 50},
		},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "learning_http_request_duration_seconds",
			Help:    "Time spent serving HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

func ObserveAnswer(category models.Category, correct bool) {
	result := "wrong"
	if correct {
		result = "correct"
	}
	answersTotal.WithLabelValues(string(category), result).Inc()
}

func ObserveAchievement(kind models.AchievementKind) {
	achievementsAwarded.WithLabelValues(string(kind)).Inc()
}

func ObserveLevelCompleted() {
	levelTransitions.WithLabelValues("completed").Inc()
}

func ObserveLevelUnlocked() {
	levelTransitions.WithLabelValues("unlocked").Inc()
}

func ObserveBatch(size int) {
	batchSize.Observe(float64(size))
}

// Middleware records request latency by matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		requestDuration.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
