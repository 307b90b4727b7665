package events

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Topic naming convention: one topic per tenant plus a role topic for
// owners and a global topic for system broadcasts.
const (
	// TopicOwners receives every tenant event plus owner-only notices.
	TopicOwners = "owners"
	// TopicGlobal carries system broadcasts addressed to everyone.
	TopicGlobal = "global"
)

// TenantTopic returns the topic name for a hostel's event stream.
func TenantTopic(hostelID int64) string {
	return fmt.Sprintf("hostel.%d", hostelID)
}

// SystemActor attributes events produced by background jobs.
const SystemActor = "System"

// Event types published by the application. The set extends per entity;
// dashboards subscribe by topic, not by type.
const (
	TypeStudentAdded        = "student_added"
	TypeStudentUpdated      = "student_updated"
	TypeStudentDeleted      = "student_deleted"
	TypeStudentRoomTransfer = "student_room_transfer"

	TypeRoomAdded         = "room_added"
	TypeRoomStatusChanged = "room_status_changed"
	TypeRoomDeleted       = "room_deleted"
	TypeRoomsBulkUpdated  = "rooms_bulk_updated"

	TypeFeeAdded   = "fee_added"
	TypeFeeUpdated = "fee_updated"
	TypeFeePaid    = "fee_paid"
	TypeFeeDeleted = "fee_deleted"
	TypeFeesSwept  = "fees_marked_overdue"

	TypeComplaintAdded   = "complaint_added"
	TypeComplaintUpdated = "complaint_updated"
	TypeComplaintDeleted = "complaint_deleted"

	TypeExpenseAdded   = "expense_added"
	TypeExpenseUpdated = "expense_updated"
	TypeExpenseDeleted = "expense_deleted"

	TypeDashboardStatsUpdated = "dashboard_stats_updated"
	TypeSystemBroadcast       = "system_broadcast"
)

// Event is the wire envelope delivered to subscribers.
type Event struct {
	ID        string                 `json:"id"`
	Event     string                 `json:"event"`
	HostelID  *int64                 `json:"hostel_id"`
	Actor     string                 `json:"actor"`
	Timestamp time.Time              `json:"timestamp"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
}

// NewEvent builds an envelope with a fresh id and timestamp.
func NewEvent(eventType, actor string, hostelID *int64, payload map[string]interface{}) Event {
	return Event{
		ID:        uuid.New().String(),
		Event:     eventType,
		HostelID:  hostelID,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// Broker fans events out to subscribers grouped by topic.
//
// Publish is fire-and-forget: it never blocks the caller and never reports
// delivery failure. The store write is the source of truth and the event is
// a notification side-channel only. Within one topic, subscribers observe
// events in publish order.
type Broker interface {
	// Publish enqueues an event for every subscriber of the topic.
	Publish(topic string, event Event)
	// Subscribe registers a new subscriber and returns its delivery channel
	// together with a cancel function. The channel is closed on cancel and
	// on broker shutdown.
	Subscribe(topic string) (<-chan Event, func())
	// Close stops dispatching and closes all subscriber channels.
	Close()
}
