package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Geraldo-Morris/tvriapp/internal/domain"
)

func TestPublishReachesSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var received []Event
	dispatcher.Subscribe(EventReportCreated, func(_ context.Context, e Event) error {
		received = append(received, e)
		return nil
	})

	event := Event{
		Type:     EventReportCreated,
		ReportID: "rep-1",
		Actor:    Actor{UserID: "emp-1", Role: domain.RoleEmployee},
		Payload:  ReportCreatedPayload{Title: "AC leaking", Category: domain.CategoryHardware},
	}
	require.NoError(t, dispatcher.Publish(context.Background(), event))

	require.Len(t, received, 1)
	assert.Equal(t, "rep-1", received[0].ReportID)
	assert.Equal(t, domain.RoleEmployee, received[0].Actor.Role)
}

func TestPublishIgnoresOtherEventTypes(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	called := false
	dispatcher.Subscribe(EventReportAssigned, func(context.Context, Event) error {
		called = true
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventReportCreated}))
	assert.False(t, called)
}

func TestHandlerErrorDoesNotBlockSiblings(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	secondCalled := false
	dispatcher.Subscribe(EventReportStatusChanged, func(context.Context, Event) error {
		return errors.New("handler failed")
	})
	dispatcher.Subscribe(EventReportStatusChanged, func(context.Context, Event) error {
		secondCalled = true
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventReportStatusChanged}))
	assert.True(t, secondCalled)
}
