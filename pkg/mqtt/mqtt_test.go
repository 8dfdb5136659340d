package mqtt

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/PancyStudios/PancyModeratorGo/pkg/moderator"
	"github.com/PancyStudios/PancyModeratorGo/pkg/moderator/moderatortest"
	"github.com/PancyStudios/PancyModeratorGo/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransport struct {
	mu        sync.Mutex
	published map[string][]interface{}
	order     []string
	handlers  map[string]RequestHandler
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{published: make(map[string][]interface{}), handlers: make(map[string]RequestHandler)}
}

func (f *fakeTransport) Publish(topic string, payload interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published[topic] = append(f.published[topic], payload)
	f.order = append(f.order, topic)
	return nil
}

func (f *fakeTransport) On(pattern string, cb RequestHandler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[pattern] = cb
}

func (f *fakeTransport) count(topic string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.published[topic])
}

func newBridge(t *testing.T) (*Bridge, *fakeTransport, *moderator.Moderator, *moderatortest.Host) {
	t.Helper()
	host := moderatortest.NewHost()
	mod, err := moderator.New(host, store.NewMemory(), nil, moderator.DefaultOptions())
	require.NoError(t, err)
	t.Cleanup(mod.Stop)

	transport := newFakeTransport()
	b := NewBridge(transport, mod)
	b.Start()
	t.Cleanup(b.Stop)
	return b, transport, mod, host
}

func TestTopicMatch(t *testing.T) {
	tests := []struct {
		pattern, topic string
		want           bool
	}{
		{"moderation/+", "moderation/mutes", true},
		{"moderation/+", "moderation/mutes/extra", false},
		{"moderation/#", "moderation/mutes/extra", true},
		{"moderation/#", "moderation", true},
		{"moderation/mutes", "moderation/warns", false},
		{"a/b", "a/b", true},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"->"+tt.topic, func(t *testing.T) {
			assert.Equal(t, tt.want, topicMatch(tt.pattern, tt.topic))
		})
	}
}

func TestTopics(t *testing.T) {
	assert.Equal(t, "pancy/moderation/addMute", EventTopic(moderator.EventAddMute))
	assert.Equal(t, "pancy/request/moderation/mutes", requestTopic("moderation/mutes"))
	assert.Equal(t, "pancy/response/moderation/mutes/abc", responseTopic("moderation/mutes", "abc"))
}

func TestDispatchRequest(t *testing.T) {
	echo := func(p map[string]interface{}) (interface{}, error) { return p["_topic"], nil }
	resp := dispatchRequest("moderation/status", MqttRequest{CorrelationID: "c1"}, echo)
	assert.Equal(t, "c1", resp.CorrelationID)
	assert.Equal(t, "moderation/status", resp.Data)
	assert.Empty(t, resp.Error)

	fail := func(map[string]interface{}) (interface{}, error) { return nil, assert.AnError }
	resp = dispatchRequest("moderation/status", MqttRequest{CorrelationID: "c2"}, fail)
	assert.Equal(t, assert.AnError.Error(), resp.Error)
}

func TestBridgePublishesEvents(t *testing.T) {
	_, transport, mod, _ := newBridge(t)

	_, err := mod.Blacklist.Add(context.Background(), moderatortest.GuildID, "2", "raid", "3")
	require.NoError(t, err)

	topic := EventTopic(moderator.EventAddBlock)
	require.Eventually(t, func() bool { return transport.count(topic) == 1 }, time.Second, 10*time.Millisecond)

	transport.mu.Lock()
	msg := transport.published[topic][0].(EventMessage)
	transport.mu.Unlock()
	assert.Equal(t, moderator.EventAddBlock, msg.Event)
	assert.Equal(t, "2", msg.Payload.(moderator.BlockRecord).UserID)
}

func TestBridgeQueries(t *testing.T) {
	_, transport, mod, host := newBridge(t)
	ctx := context.Background()

	handler := transport.handlers[QueryPattern]
	require.NotNil(t, handler)

	_, err := mod.Mutes.Add(ctx, host.Join("2"), "50", moderatortest.MuteRole, "spam")
	require.NoError(t, err)

	data, err := handler(map[string]interface{}{"_topic": "moderation/mutes", "guildId": moderatortest.GuildID})
	require.NoError(t, err)
	assert.Len(t, data.([]moderator.MuteRecord), 1)

	data, err = handler(map[string]interface{}{"_topic": "moderation/warns", "guildId": moderatortest.GuildID, "userId": "2"})
	require.NoError(t, err)
	assert.Equal(t, 0, data.(*moderator.WarnList).Warns)

	_, err = handler(map[string]interface{}{"_topic": "moderation/mutes"})
	assert.Error(t, err)

	_, err = handler(map[string]interface{}{"_topic": "moderation/unknown"})
	assert.Error(t, err)
}

func TestBridgeStopUnsubscribes(t *testing.T) {
	b, _, mod, _ := newBridge(t)
	require.Equal(t, 1, mod.Bus().ListenerCount(moderator.EventAddMute))
	b.Stop()
	assert.Equal(t, 0, mod.Bus().ListenerCount(moderator.EventAddMute))
}

func TestBridgeKeepsEventOrder(t *testing.T) {
	b, transport, mod, _ := newBridge(t)

	events := []moderator.Event{moderator.EventAddMute, moderator.EventRemoveMute, moderator.EventAddWarn, moderator.EventRemoveWarn}
	var want []string
	for i := 0; i < 100; i++ {
		ev := events[i%len(events)]
		mod.Bus().Emit(ev, i)
		want = append(want, EventTopic(ev))
	}

	// Stop drains the queue before returning
	b.Stop()

	transport.mu.Lock()
	defer transport.mu.Unlock()
	assert.Equal(t, want, transport.order)
	for i, payload := range transport.published[EventTopic(moderator.EventAddMute)] {
		assert.Equal(t, i*len(events), payload.(EventMessage).Payload)
	}
}
