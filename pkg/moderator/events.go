package moderator

import (
	"fmt"
	"sync"

	"github.com/PancyStudios/PancyModeratorGo/pkg/logger"
)

// Event names published on the EventBus
type Event string

const (
	EventReady       Event = "ready"
	EventAddMute     Event = "addMute"
	EventRemoveMute  Event = "removeMute"
	EventMuteEnded   Event = "muteEnded"
	EventAddWarn     Event = "addWarn"
	EventRemoveWarn  Event = "removeWarn"
	EventKick        Event = "kick"
	EventBan         Event = "ban"
	EventUnban       Event = "unban"
	EventAddBlock    Event = "addBlock"
	EventRemoveBlock Event = "removeBlock"
)

// AllEvents lists every event the managers publish
var AllEvents = []Event{
	EventReady, EventAddMute, EventRemoveMute, EventMuteEnded, EventAddWarn,
	EventRemoveWarn, EventKick, EventBan, EventUnban, EventAddBlock, EventRemoveBlock,
}

// Listener receives the payload of an event. Payload types:
//
//	addMute, removeMute, muteEnded: MuteRecord
//	addWarn: WarnRecord
//	removeWarn: WarnRemoval
//	kick, ban, unban: PunishmentEvent
//	addBlock, removeBlock: BlockRecord
//	ready: nil
type Listener func(payload any)

type subscription struct {
	id   uint64
	fn   Listener
	once bool
}

// EventBus is a synchronous publish/subscribe registry.
// Listeners run on the emitting goroutine in subscription order.
type EventBus struct {
	mu        sync.Mutex
	listeners map[Event][]*subscription
	nextID    uint64
}

// NewEventBus creates an empty EventBus
func NewEventBus() *EventBus {
	return &EventBus{listeners: make(map[Event][]*subscription)}
}

// On subscribes fn to event and returns a function that removes it
func (b *EventBus) On(event Event, fn Listener) func() {
	return b.subscribe(event, fn, false)
}

// Once subscribes fn for the next emission of event only
func (b *EventBus) Once(event Event, fn Listener) func() {
	return b.subscribe(event, fn, true)
}

func (b *EventBus) subscribe(event Event, fn Listener, once bool) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &subscription{id: b.nextID, fn: fn, once: once}
	b.listeners[event] = append(b.listeners[event], sub)

	return func() { b.remove(event, sub.id) }
}

func (b *EventBus) remove(event Event, id uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.listeners[event]
	for i, s := range subs {
		if s.id == id {
			b.listeners[event] = append(subs[:i:i], subs[i+1:]...)
			return true
		}
	}
	return false
}

// Emit delivers payload to every listener of event and returns how many ran.
// A panicking listener is logged and does not stop the others.
func (b *EventBus) Emit(event Event, payload any) int {
	b.mu.Lock()
	subs := make([]*subscription, len(b.listeners[event]))
	copy(subs, b.listeners[event])
	b.mu.Unlock()

	delivered := 0
	for _, s := range subs {
		// a once listener runs only for whoever removes it first
		if s.once && !b.remove(event, s.id) {
			continue
		}
		b.call(event, s, payload)
		delivered++
	}
	return delivered
}

func (b *EventBus) call(event Event, s *subscription, payload any) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(fmt.Sprintf("Listener de '%s' falló: %v", event, r), "EventBus")
		}
	}()
	s.fn(payload)
}

// ListenerCount returns the number of listeners subscribed to event
func (b *EventBus) ListenerCount(event Event) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners[event])
}
