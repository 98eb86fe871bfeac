package events_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/project-hub/internal/events"
)

func TestDispatcher(t *testing.T) {
	ctx := context.Background()
	dispatcher := events.NewInMemoryDispatcher()

	var seen []events.EventType
	dispatcher.Subscribe(events.EventInvitationSent, func(_ context.Context, e events.Event) error {
		seen = append(seen, e.Type)
		return nil
	})
	dispatcher.Subscribe(events.EventInvitationSent, func(_ context.Context, e events.Event) error {
		seen = append(seen, e.Type)
		return nil
	})

	err := dispatcher.Publish(ctx, events.Event{Type: events.EventInvitationSent})
	require.NoError(t, err)
	assert.Len(t, seen, 2)

	// no subscribers for other types
	err = dispatcher.Publish(ctx, events.Event{Type: events.EventPasswordResetCompleted})
	require.NoError(t, err)
	assert.Len(t, seen, 2)
}
