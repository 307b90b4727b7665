package events

import (
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, ch <-chan Event, n int) []Event {
	t.Helper()
	got := make([]Event, 0, n)
	timeout := time.After(2 * time.Second)
	for len(got) < n {
		select {
		case event, ok := <-ch:
			require.True(t, ok, "channel closed before %d events arrived", n)
			got = append(got, event)
		case <-timeout:
			t.Fatalf("timed out after %d of %d events", len(got), n)
		}
	}
	return got
}

func TestMemoryBroker_PerTopicOrdering(t *testing.T) {
	broker := NewMemoryBroker(zerolog.Nop())
	defer broker.Close()

	ch, cancel := broker.Subscribe(TenantTopic(1))
	defer cancel()

	const n = 50
	for i := 0; i < n; i++ {
		broker.Publish(TenantTopic(1), NewEvent(TypeStudentUpdated, "owner", nil,
			map[string]interface{}{"seq": i}))
	}

	got := collect(t, ch, n)
	for i, event := range got {
		assert.Equal(t, i, got[i].Payload["seq"], "event %d out of order: %+v", i, event)
	}
}

func TestMemoryBroker_TopicsAreIsolated(t *testing.T) {
	broker := NewMemoryBroker(zerolog.Nop())
	defer broker.Close()

	h1, cancel1 := broker.Subscribe(TenantTopic(1))
	defer cancel1()
	h2, cancel2 := broker.Subscribe(TenantTopic(2))
	defer cancel2()

	broker.Publish(TenantTopic(1), NewEvent(TypeRoomAdded, "owner", nil, nil))

	got := collect(t, h1, 1)
	assert.Equal(t, TypeRoomAdded, got[0].Event)

	select {
	case event := <-h2:
		t.Fatalf("tenant 2 received tenant 1's event: %+v", event)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestMemoryBroker_PublishWithoutSubscribersIsSafe(t *testing.T) {
	broker := NewMemoryBroker(zerolog.Nop())
	defer broker.Close()

	// Must not block or panic.
	for i := 0; i < topicQueueSize*2; i++ {
		broker.Publish("nobody-listens", NewEvent(TypeSystemBroadcast, SystemActor, nil, nil))
	}
}

func TestMemoryBroker_MultipleSubscribersEachGetEveryEvent(t *testing.T) {
	broker := NewMemoryBroker(zerolog.Nop())
	defer broker.Close()

	a, cancelA := broker.Subscribe(TopicOwners)
	defer cancelA()
	b, cancelB := broker.Subscribe(TopicOwners)
	defer cancelB()

	for i := 0; i < 3; i++ {
		broker.Publish(TopicOwners, NewEvent(TypeFeePaid, "owner", nil,
			map[string]interface{}{"seq": i}))
	}

	assert.Len(t, collect(t, a, 3), 3)
	assert.Len(t, collect(t, b, 3), 3)
}

func TestMemoryBroker_CancelStopsDelivery(t *testing.T) {
	broker := NewMemoryBroker(zerolog.Nop())
	defer broker.Close()

	ch, cancel := broker.Subscribe(TenantTopic(1))
	cancel()
	cancel() // idempotent

	_, ok := <-ch
	assert.False(t, ok, "channel should be closed after cancel")

	// Publishing after cancel must not panic.
	broker.Publish(TenantTopic(1), NewEvent(TypeRoomDeleted, "owner", nil, nil))
}

func TestMemoryBroker_CancelAfterCloseIsSafe(t *testing.T) {
	broker := NewMemoryBroker(zerolog.Nop())

	ch, cancel := broker.Subscribe(TenantTopic(1))
	broker.Close()

	// Shutdown closes the broker while subscribers are still unwinding,
	// so a late cancel must not close the channel a second time.
	cancel()
	cancel()

	_, ok := <-ch
	assert.False(t, ok, "channel should be closed after broker Close")
}

func TestMemoryBroker_CloseAfterCancelIsSafe(t *testing.T) {
	broker := NewMemoryBroker(zerolog.Nop())

	_, cancel := broker.Subscribe(TenantTopic(1))
	cancel()
	broker.Close()
	broker.Close() // idempotent
}

func TestPublisher_TenantFansOutToOwners(t *testing.T) {
	broker := NewMemoryBroker(zerolog.Nop())
	defer broker.Close()
	publisher := NewPublisher(broker, zerolog.Nop())

	tenant, cancelT := broker.Subscribe(TenantTopic(7))
	defer cancelT()
	owners, cancelO := broker.Subscribe(TopicOwners)
	defer cancelO()

	publisher.Tenant(7, TypeStudentAdded, "manager.seven", map[string]interface{}{"id": int64(1)})

	gotTenant := collect(t, tenant, 1)[0]
	gotOwners := collect(t, owners, 1)[0]

	require.NotNil(t, gotTenant.HostelID)
	assert.Equal(t, int64(7), *gotTenant.HostelID)
	assert.Equal(t, "manager.seven", gotTenant.Actor)
	assert.Equal(t, gotTenant.ID, gotOwners.ID, "same envelope on both topics")
	assert.False(t, gotTenant.Timestamp.IsZero())
}

func TestNewEvent_Envelope(t *testing.T) {
	hostelID := int64(3)
	event := NewEvent(TypeFeesSwept, SystemActor, &hostelID, map[string]interface{}{"count": 2})

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, TypeFeesSwept, event.Event)
	assert.Equal(t, SystemActor, event.Actor)
	require.NotNil(t, event.HostelID)
	assert.Equal(t, hostelID, *event.HostelID)
	assert.WithinDuration(t, time.Now().UTC(), event.Timestamp, time.Minute)
}

func TestTenantTopic(t *testing.T) {
	assert.Equal(t, "hostel.12", TenantTopic(12))
	assert.Equal(t, fmt.Sprintf("hostel.%d", 1), TenantTopic(1))
}
