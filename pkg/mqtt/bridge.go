package mqtt

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PancyStudios/PancyModeratorGo/pkg/errors"
	"github.com/PancyStudios/PancyModeratorGo/pkg/logger"
	"github.com/PancyStudios/PancyModeratorGo/pkg/moderator"
	"github.com/bwmarrin/discordgo"
)

// QueryPattern is the request topic answered by the bridge
const QueryPattern = "moderation/+"

const queryTimeout = 5 * time.Second

// publishBuffer is how many events may wait for the broker before new ones are dropped
const publishBuffer = 256

// Transport is the part of MqttCommunicator the bridge needs
type Transport interface {
	Publish(topic string, payload interface{}) error
	On(topicPattern string, callback RequestHandler)
}

// EventMessage is published for every moderator event
type EventMessage struct {
	Event     moderator.Event `json:"event"`
	Payload   any             `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// EventTopic is the topic an event is published on
func EventTopic(ev moderator.Event) string {
	return fmt.Sprintf("%s/moderation/%s", TopicPrefix, ev)
}

type outgoing struct {
	topic string
	msg   EventMessage
}

// Bridge publishes moderator events to the broker and answers read-only
// moderation queries (mutes, warns, blacklist, status). Events are published
// by a single worker in the order the bus emitted them.
type Bridge struct {
	transport Transport
	mod       *moderator.Moderator

	mu     sync.Mutex
	unsubs []func()
	done   chan struct{}
	worker sync.WaitGroup
}

// NewBridge creates a Bridge. Nothing is subscribed until Start.
func NewBridge(transport Transport, mod *moderator.Moderator) *Bridge {
	return &Bridge{transport: transport, mod: mod}
}

// Start subscribes to every bus event and registers the query handler
func (b *Bridge) Start() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.done != nil {
		return
	}

	queue := make(chan outgoing, publishBuffer)
	b.done = make(chan struct{})
	b.worker.Add(1)
	go b.run(queue, b.done)

	bus := b.mod.Bus()
	for _, ev := range moderator.AllEvents {
		ev := ev
		b.unsubs = append(b.unsubs, bus.On(ev, func(payload any) {
			item := outgoing{
				topic: EventTopic(ev),
				msg:   EventMessage{Event: ev, Payload: payload, Timestamp: time.Now().UnixMilli()},
			}
			select {
			case queue <- item:
			default:
				logger.Warn(fmt.Sprintf("Cola MQTT llena, se descarta %s", item.topic), "MQTT")
			}
		}))
	}
	b.transport.On(QueryPattern, b.handleQuery)

	logger.System(fmt.Sprintf("Puente MQTT activo en %s/moderation/#", TopicPrefix), "MQTT")
}

// Stop unsubscribes from the bus and waits for queued events to be published.
// The broker subscription is dropped with the connection.
func (b *Bridge) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.done == nil {
		return
	}
	for _, unsub := range b.unsubs {
		unsub()
	}
	b.unsubs = nil
	close(b.done)
	b.worker.Wait()
	b.done = nil
}

func (b *Bridge) run(queue <-chan outgoing, done <-chan struct{}) {
	defer b.worker.Done()
	for {
		select {
		case item := <-queue:
			b.publish(item.topic, item.msg)
		case <-done:
			for {
				select {
				case item := <-queue:
					b.publish(item.topic, item.msg)
				default:
					return
				}
			}
		}
	}
}

func (b *Bridge) publish(topic string, msg EventMessage) {
	defer errors.RecoverMiddleware()()
	if err := b.transport.Publish(topic, msg); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo publicar %s: %v", topic, err), "MQTT")
	}
}

// handleQuery answers moderation/<name> requests
func (b *Bridge) handleQuery(payload map[string]interface{}) (interface{}, error) {
	topic, _ := payload["_topic"].(string)
	name := strings.TrimPrefix(topic, "moderation/")

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	guildID, _ := payload["guildId"].(string)
	userID, _ := payload["userId"].(string)

	switch name {
	case "status":
		opts := b.mod.Options()
		return map[string]bool{
			"muteManager":      opts.MuteManager,
			"warnManager":      opts.WarnManager,
			"blacklistManager": opts.BlacklistManager,
		}, nil
	case "mutes":
		if guildID == "" {
			return nil, fmt.Errorf("guildId is required")
		}
		return b.mod.Mutes.Guild(ctx, guildID)
	case "warns":
		if guildID == "" || userID == "" {
			return nil, fmt.Errorf("guildId and userId are required")
		}
		member := &discordgo.Member{GuildID: guildID, User: &discordgo.User{ID: userID}}
		return b.mod.Warns.GetAll(ctx, member)
	case "blacklist":
		if guildID == "" {
			return nil, fmt.Errorf("guildId is required")
		}
		return b.mod.Blacklist.GetAll(ctx, guildID)
	default:
		return nil, fmt.Errorf("unknown moderation query %q", name)
	}
}
