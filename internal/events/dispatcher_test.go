package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversOnlyMatchingType(t *testing.T) {
	dispatcher := NewInMemoryDispatcher(nil)

	var escalated, closed int
	dispatcher.Subscribe(EventTicketEscalated, func(context.Context, Event) error {
		escalated++
		return nil
	})
	dispatcher.Subscribe(EventTicketAutoClosed, func(context.Context, Event) error {
		closed++
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventTicketEscalated, TicketID: "t-1"}))
	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventTicketEscalated, TicketID: "t-2"}))

	assert.Equal(t, 2, escalated)
	assert.Zero(t, closed)
}

func TestDispatcherFailingHandlerDoesNotBlockOthers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher(nil)

	var delivered []string
	dispatcher.Subscribe(EventSLABreachDetected, func(context.Context, Event) error {
		delivered = append(delivered, "first")
		return errors.New("webhook down")
	})
	dispatcher.Subscribe(EventSLABreachDetected, func(context.Context, Event) error {
		delivered = append(delivered, "second")
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventSLABreachDetected, TicketID: "t-1"})
	require.NoError(t, err, "handler failures stay inside the dispatcher")
	assert.Equal(t, []string{"first", "second"}, delivered)
}
