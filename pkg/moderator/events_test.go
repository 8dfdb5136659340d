package moderator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventBusDeliversInOrder(t *testing.T) {
	bus := NewEventBus()
	var got []int
	bus.On(EventAddWarn, func(any) { got = append(got, 1) })
	bus.On(EventAddWarn, func(any) { got = append(got, 2) })
	bus.On(EventAddMute, func(any) { got = append(got, 99) })

	n := bus.Emit(EventAddWarn, nil)
	assert.Equal(t, 2, n)
	assert.Equal(t, []int{1, 2}, got)
}

func TestEventBusOnce(t *testing.T) {
	bus := NewEventBus()
	calls := 0
	bus.Once(EventReady, func(any) { calls++ })

	bus.Emit(EventReady, nil)
	bus.Emit(EventReady, nil)
	assert.Equal(t, 1, calls)
	assert.Zero(t, bus.ListenerCount(EventReady))
}

func TestEventBusIsolatesPanics(t *testing.T) {
	bus := NewEventBus()
	reached := false
	bus.On(EventKick, func(any) { panic("boom") })
	bus.On(EventKick, func(any) { reached = true })

	assert.NotPanics(t, func() { bus.Emit(EventKick, PunishmentEvent{}) })
	assert.True(t, reached)
}

func TestEventBusUnsubscribe(t *testing.T) {
	bus := NewEventBus()
	calls := 0
	off := bus.On(EventBan, func(any) { calls++ })

	bus.Emit(EventBan, nil)
	off()
	bus.Emit(EventBan, nil)
	assert.Equal(t, 1, calls)
}

func TestEventBusPayload(t *testing.T) {
	bus := NewEventBus()
	var got MuteRecord
	bus.On(EventMuteEnded, func(p any) { got = p.(MuteRecord) })

	bus.Emit(EventMuteEnded, MuteRecord{UserID: "2"})
	assert.Equal(t, "2", got.UserID)
}

func TestSeparateBusesDoNotShareListeners(t *testing.T) {
	a, b := NewEventBus(), NewEventBus()
	calls := 0
	a.On(EventReady, func(any) { calls++ })

	b.Emit(EventReady, nil)
	assert.Zero(t, calls)
}
