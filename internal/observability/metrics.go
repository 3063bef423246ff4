package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vibella_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// ScoreRecomputes counts weekly score recomputations by outcome.
	ScoreRecomputes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vibella_score_recomputes_total",
		Help: "Total number of weekly score recomputations by outcome",
	}, []string{"outcome"})

	// ChallengePropagationLatency records the time spent propagating habit
	// metrics into joined challenges.
	ChallengePropagationLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "vibella_challenge_propagation_latency_seconds",
		Help:    "Latency of challenge progress propagation in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// ChallengePropagations counts challenge progress updates by goal type.
	ChallengePropagations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vibella_challenge_propagations_total",
		Help: "Total number of challenge progress updates by goal type",
	}, []string{"goal_type"})

	// AssistantReplies counts chat assistant replies by source (llm or canned).
	AssistantReplies = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vibella_assistant_replies_total",
		Help: "Total number of assistant replies by source",
	}, []string{"source"})

	// AvatarUploads counts avatar uploads by result.
	AvatarUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vibella_avatar_uploads_total",
		Help: "Total number of avatar uploads by result",
	}, []string{"result"})
)

type queryStartKey struct{}

// RegisterDatabaseMetrics installs gorm callbacks that record query latency
// per operation and table into DatabaseQueryLatency.
func RegisterDatabaseMetrics(db *gorm.DB) error {
	before := func(tx *gorm.DB) {
		tx.Set("obs:start", time.Now())
	}
	after := func(operation string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			v, ok := tx.Get("obs:start")
			if !ok {
				return
			}
			start, ok := v.(time.Time)
			if !ok {
				return
			}
			table := tx.Statement.Table
			if table == "" {
				table = "unknown"
			}
			DatabaseQueryLatency.WithLabelValues(operation, table).
				Observe(time.Since(start).Seconds())
		}
	}

	if err := db.Callback().Create().Before("gorm:create").Register("obs:before_create", before); err != nil {
		return err
	}
	if err := db.Callback().Create().After("gorm:create").Register("obs:after_create", after("create")); err != nil {
		return err
	}
	if err := db.Callback().Query().Before("gorm:query").Register("obs:before_query", before); err != nil {
		return err
	}
	if err := db.Callback().Query().After("gorm:query").Register("obs:after_query", after("query")); err != nil {
		return err
	}
	if err := db.Callback().Update().Before("gorm:update").Register("obs:before_update", before); err != nil {
		return err
	}
	if err := db.Callback().Update().After("gorm:update").Register("obs:after_update", after("update")); err != nil {
		return err
	}
	if err := db.Callback().Delete().Before("gorm:delete").Register("obs:before_delete", before); err != nil {
		return err
	}
	if err := db.Callback().Delete().After("gorm:delete").Register("obs:after_delete", after("delete")); err != nil {
		return err
	}
	if err := db.Callback().Raw().Before("gorm:raw").Register("obs:before_raw", before); err != nil {
		return err
	}
	return db.Callback().Raw().After("gorm:raw").Register("obs:after_raw", after("raw"))
}

// ObservePropagation records one propagation pass.
func ObservePropagation(start time.Time) {
	ChallengePropagationLatency.Observe(time.Since(start).Seconds())
}
