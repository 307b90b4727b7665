package events

import "github.com/rs/zerolog"

// Publisher wraps a Broker with the application's fan-out rules: every
// tenant event goes to the tenant's own topic and to the owners topic, so
// owner dashboards see all hostels without joining each room.
type Publisher struct {
	broker Broker
	logger zerolog.Logger
}

// NewPublisher creates a Publisher on top of broker.
func NewPublisher(broker Broker, logger zerolog.Logger) *Publisher {
	return &Publisher{broker: broker, logger: logger}
}

// Tenant publishes a hostel-scoped event to the tenant topic and the
// owners topic.
func (p *Publisher) Tenant(hostelID int64, eventType, actor string, payload map[string]interface{}) {
	event := NewEvent(eventType, actor, &hostelID, payload)
	p.broker.Publish(TenantTopic(hostelID), event)
	p.broker.Publish(TopicOwners, event)
	p.logger.Debug().
		Str("event", eventType).
		Int64("hostelID", hostelID).
		Str("actor", actor).
		Msg("Event published")
}

// Owners publishes an owner-only event (no tenant stream sees it).
func (p *Publisher) Owners(eventType, actor string, payload map[string]interface{}) {
	p.broker.Publish(TopicOwners, NewEvent(eventType, actor, nil, payload))
}

// Global publishes a system broadcast to every connected client.
func (p *Publisher) Global(eventType, actor string, payload map[string]interface{}) {
	p.broker.Publish(TopicGlobal, NewEvent(eventType, actor, nil, payload))
}
