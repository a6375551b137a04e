package metrics

import (
	"context"

	"github.com/pettycoon/backend/internal/event"
)

// EventMetricsCollector subscribes to engine events and records counters so
// dashboards don't need a second instrumentation path in the services.
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to every engine event type
func (e *EventMetricsCollector) Register(bus event.Bus) {
	eventTypes := []event.Type{
		event.ProfileLeveledUp,
		event.AchievementUnlocked,
		event.TitleUnlocked,
		event.RankAttained,
		event.TitleEquipped,
		event.RewardClaimed,
		event.QuestCompleted,
		event.QuestRewardClaimed,
		event.ChestClaimed,
		event.PassiveClaimed,
		event.LootboxPurchased,
		event.LootboxOpened,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}
}

// HandleEvent counts every published event by type
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()
	return nil
}
