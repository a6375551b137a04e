package metrics

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Game metric names
const (
	MetricNameTapsTotal           = "taps_total"
	MetricNameCatchesTotal        = "catches_total"
	MetricNameChestsClaimed       = "chests_claimed_total"
	MetricNamePassiveClaims       = "passive_claims_total"
	MetricNameCrystalsEarned      = "crystals_earned_total"
	MetricNameXPPenalties         = "xp_penalties_total"
	MetricNameItemsUnlocked       = "items_unlocked_total"
	MetricNameRewardsClaimed      = "rewards_claimed_total"
	MetricNameQuestsCompleted     = "quests_completed_total"
	MetricNameLootboxesPurchased  = "lootboxes_purchased_total"
	MetricNameLootboxesOpened     = "lootboxes_opened_total"
	MetricNameConcurrencyRetries  = "claim_concurrency_retries_total"
)

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Game metric help text
const (
	HelpTextTapsTotal          = "Total number of taps processed"
	HelpTextCatchesTotal       = "Total number of pets caught, by rarity"
	HelpTextChestsClaimed      = "Total number of daily chests claimed"
	HelpTextPassiveClaims      = "Total number of passive income claims"
	HelpTextCrystalsEarned     = "Total crystals credited, by source"
	HelpTextXPPenalties        = "Total XP deducted by neglect penalties"
	HelpTextItemsUnlocked      = "Total catalog items unlocked, by type"
	HelpTextRewardsClaimed     = "Total unlock rewards claimed, by type"
	HelpTextQuestsCompleted    = "Total quest completions, by epoch kind"
	HelpTextLootboxesPurchased = "Total lootboxes purchased"
	HelpTextLootboxesOpened    = "Total lootboxes opened, by reward rarity"
	HelpTextConcurrencyRetries = "Total conditional-claim retries after a lost race"
)

// Label names
const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelType      = "type"
	LabelSource    = "source"
	LabelRarity    = "rarity"
	LabelEpochKind = "epoch_kind"
	LabelOperation = "operation"
)

// HTTPLatencyBuckets covers the expected latency range of game endpoints
var HTTPLatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}
