// Package metrics exposes the bot's Prometheus instruments.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	botCommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_commands_total",
			Help: "Total number of bot commands received labeled by command and status",
		},
		[]string{"command", "status"},
	)
	commandDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "command_duration_seconds",
			Help:    "Duration of bot commands in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)
	triviaTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trivia_transitions_total",
			Help: "Total number of trivia session state transitions",
		},
		[]string{"from", "to"},
	)
	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors split by type and severity",
		},
		[]string{"type", "severity"},
	)
	profilesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "profiles",
			Help: "Number of user profiles held in memory",
		},
	)
	coinsGrantedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "coins_granted_total",
			Help: "Total coins credited to users",
		},
	)
	xpGrantedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "xp_granted_total",
			Help: "Total experience points awarded",
		},
	)
	levelUpsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "level_ups_total",
			Help: "Total number of level ups",
		},
	)
	pendingWaits = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pending_waits",
			Help: "Number of registrations waiting for a follow-up message",
		},
	)
	activeTriviaSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_trivia_sessions",
			Help: "Number of trivia sessions awaiting an answer",
		},
	)
	chatCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_calls_total",
			Help: "Total chat completion calls by status",
		},
		[]string{"status"},
	)
	chatCallDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chat_call_duration_seconds",
			Help:    "Latency of chat completion calls",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
		},
	)
)

// RecordCommand increments command counters and records duration.
func RecordCommand(command, status string, duration time.Duration) {
	if command == "" {
		command = "unknown"
	}
	if status == "" {
		status = "unknown"
	}

	botCommandsTotal.WithLabelValues(command, status).Inc()
	commandDurationSeconds.WithLabelValues(command).Observe(duration.Seconds())
}

// RecordStateTransition tracks trivia session transitions.
func RecordStateTransition(from, to string) {
	if from == "" {
		from = "unknown"
	}
	if to == "" {
		to = "unknown"
	}

	triviaTransitionsTotal.WithLabelValues(from, to).Inc()
}

// RecordError increments error counters with metadata.
func RecordError(errType, severity string) {
	if errType == "" {
		errType = "unknown"
	}
	if severity == "" {
		severity = "unknown"
	}

	errorsTotal.WithLabelValues(errType, severity).Inc()
}

// SetProfiles updates the profile count gauge.
func SetProfiles(count int) {
	profilesTotal.Set(float64(count))
}

// RecordCoins adds a positive coin grant to the total.
func RecordCoins(amount int64) {
	if amount > 0 {
		coinsGrantedTotal.Add(float64(amount))
	}
}

// RecordXP adds awarded experience to the total.
func RecordXP(amount int64) {
	if amount > 0 {
		xpGrantedTotal.Add(float64(amount))
	}
}

// RecordLevelUp counts one level up.
func RecordLevelUp() {
	levelUpsTotal.Inc()
}

// SetPendingWaits updates the pending wait gauge.
func SetPendingWaits(count int) {
	pendingWaits.Set(float64(count))
}

// RecordChatCall counts a chat completion call and its latency.
func RecordChatCall(status string, duration time.Duration) {
	if status == "" {
		status = "unknown"
	}

	chatCallsTotal.WithLabelValues(status).Inc()
	chatCallDurationSeconds.Observe(duration.Seconds())
}

// SessionCounter reports live trivia sessions.
type SessionCounter interface {
	ActiveSessions() int
}

// SessionCollector periodically samples the number of live trivia sessions.
type SessionCollector struct {
	sessions SessionCounter
	interval time.Duration
}

// NewSessionCollector builds a collector bound to sessions.
func NewSessionCollector(sessions SessionCounter) *SessionCollector {
	return &SessionCollector{sessions: sessions, interval: 10 * time.Second}
}

// Run samples every 10 seconds until ctx is cancelled.
func (c *SessionCollector) Run(ctx context.Context) {
	if c == nil || c.sessions == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		activeTriviaSessions.Set(float64(c.sessions.ActiveSessions()))

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
