package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Game Metrics
var (
	TapsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameTapsTotal,
			Help: HelpTextTapsTotal,
		},
	)

	CatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCatchesTotal,
			Help: HelpTextCatchesTotal,
		},
		[]string{LabelRarity},
	)

	ChestsClaimed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameChestsClaimed,
			Help: HelpTextChestsClaimed,
		},
	)

	PassiveClaims = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePassiveClaims,
			Help: HelpTextPassiveClaims,
		},
	)

	CrystalsEarned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCrystalsEarned,
			Help: HelpTextCrystalsEarned,
		},
		[]string{LabelSource},
	)

	XPPenalties = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameXPPenalties,
			Help: HelpTextXPPenalties,
		},
	)

	ItemsUnlocked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameItemsUnlocked,
			Help: HelpTextItemsUnlocked,
		},
		[]string{LabelType},
	)

	RewardsClaimed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRewardsClaimed,
			Help: HelpTextRewardsClaimed,
		},
		[]string{LabelType},
	)

	QuestsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameQuestsCompleted,
			Help: HelpTextQuestsCompleted,
		},
		[]string{LabelEpochKind},
	)

	LootboxesPurchased = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameLootboxesPurchased,
			Help: HelpTextLootboxesPurchased,
		},
	)

	LootboxesOpened = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameLootboxesOpened,
			Help: HelpTextLootboxesOpened,
		},
		[]string{LabelRarity},
	)

	ConcurrencyRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameConcurrencyRetries,
			Help: HelpTextConcurrencyRetries,
		},
		[]string{LabelOperation},
	)
)
