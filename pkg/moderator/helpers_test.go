package moderator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/PancyStudios/PancyModeratorGo/pkg/store"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
)

const (
	testGuild    = "100"
	testBot      = "1"
	testUser     = "2"
	testMod      = "3"
	testChannel  = "50"
	botRole      = "10"
	modRole      = "11"
	muteRole     = "12"
	highRole     = "13"
	botRank      = 10
	modRank      = 8
	muteRoleRank = 5
)

const botPerms = discordgo.PermissionManageRoles | discordgo.PermissionKickMembers | discordgo.PermissionBanMembers

var errRemote = errors.New("discord: 500 internal server error")

// fakeHost is an in-memory guild
type fakeHost struct {
	mu      sync.Mutex
	roles   map[string]*discordgo.Role
	members map[string]*discordgo.Member

	kicked   []string
	banned   []string
	unbanned []string

	addRoleErr    error
	removeRoleErr error
	kickErr       error

	// beforeRemoveRole runs once, outside the lock, on the next RemoveRole
	beforeRemoveRole func()
}

func newFakeHost() *fakeHost {
	h := &fakeHost{
		roles: map[string]*discordgo.Role{
			testGuild: {ID: testGuild, Name: "@everyone", Position: 0},
			botRole:   {ID: botRole, Name: "Bot", Position: botRank, Permissions: botPerms},
			modRole:   {ID: modRole, Name: "Mods", Position: modRank, Permissions: discordgo.PermissionKickMembers},
			muteRole:  {ID: muteRole, Name: "Muted", Position: muteRoleRank},
			highRole:  {ID: highRole, Name: "Owners", Position: 20},
		},
		members: make(map[string]*discordgo.Member),
	}
	h.join(testBot, botRole)
	h.join(testUser)
	h.join(testMod, modRole)
	return h
}

func (h *fakeHost) join(userID string, roles ...string) *discordgo.Member {
	h.mu.Lock()
	defer h.mu.Unlock()
	m := &discordgo.Member{GuildID: testGuild, User: &discordgo.User{ID: userID}, Roles: roles}
	h.members[userID] = m
	return h.copyMember(m)
}

func (h *fakeHost) leave(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.members, userID)
}

func (h *fakeHost) setRank(roleID string, position int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.roles[roleID].Position = position
}

func (h *fakeHost) setPerms(roleID string, perms int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.roles[roleID].Permissions = perms
}

// member returns a snapshot of userID as the gateway would deliver it
func (h *fakeHost) member(userID string) *discordgo.Member {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.copyMember(h.members[userID])
}

func (h *fakeHost) hasRole(userID, roleID string) bool {
	return hasRole(h.member(userID), roleID)
}

func (h *fakeHost) copyMember(m *discordgo.Member) *discordgo.Member {
	if m == nil {
		return nil
	}
	c := *m
	c.Roles = append([]string(nil), m.Roles...)
	return &c
}

func (h *fakeHost) BotID() string { return testBot }

func (h *fakeHost) Member(_ context.Context, guildID, userID string) (*discordgo.Member, error) {
	if guildID != testGuild {
		return nil, nil
	}
	return h.member(userID), nil
}

func (h *fakeHost) Roles(_ context.Context, guildID string) ([]*discordgo.Role, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*discordgo.Role, 0, len(h.roles))
	for _, r := range h.roles {
		c := *r
		out = append(out, &c)
	}
	return out, nil
}

func (h *fakeHost) AddRole(_ context.Context, _, userID, roleID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.addRoleErr != nil {
		return h.addRoleErr
	}
	if m, ok := h.members[userID]; ok && !hasRole(m, roleID) {
		m.Roles = append(m.Roles, roleID)
	}
	return nil
}

func (h *fakeHost) RemoveRole(_ context.Context, _, userID, roleID string) error {
	h.mu.Lock()
	hook := h.beforeRemoveRole
	h.beforeRemoveRole = nil
	h.mu.Unlock()
	if hook != nil {
		hook()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.removeRoleErr != nil {
		return h.removeRoleErr
	}
	if m, ok := h.members[userID]; ok {
		kept := m.Roles[:0]
		for _, r := range m.Roles {
			if r != roleID {
				kept = append(kept, r)
			}
		}
		m.Roles = kept
	}
	return nil
}

func (h *fakeHost) Kick(_ context.Context, _, userID, _ string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.kickErr != nil {
		return h.kickErr
	}
	h.kicked = append(h.kicked, userID)
	delete(h.members, userID)
	return nil
}

func (h *fakeHost) Ban(_ context.Context, _, userID, _ string, _ int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.banned = append(h.banned, userID)
	delete(h.members, userID)
	return nil
}

func (h *fakeHost) Unban(_ context.Context, _, userID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unbanned = append(h.unbanned, userID)
	return nil
}

// fakeClock is a settable clock
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// recorder counts events by name
type recorder struct {
	mu       sync.Mutex
	payloads map[Event][]any
}

func record(bus *EventBus) *recorder {
	r := &recorder{payloads: make(map[Event][]any)}
	for _, ev := range AllEvents {
		ev := ev
		bus.On(ev, func(p any) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.payloads[ev] = append(r.payloads[ev], p)
		})
	}
	return r
}

func (r *recorder) count(ev Event) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.payloads[ev])
}

func (r *recorder) last(ev Event) any {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.payloads[ev]
	if len(p) == 0 {
		return nil
	}
	return p[len(p)-1]
}

type fixture struct {
	host   *fakeHost
	clock  *fakeClock
	mod    *Moderator
	events *recorder
	ctx    context.Context
}

func newFixture(t *testing.T, mutate ...func(*Options)) *fixture {
	t.Helper()
	return newFixtureWithStore(t, store.NewMemory(), mutate...)
}

func newFixtureWithStore(t *testing.T, st store.Store, mutate ...func(*Options)) *fixture {
	t.Helper()

	opts := DefaultOptions()
	for _, fn := range mutate {
		fn(&opts)
	}

	host := newFakeHost()
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	bus := NewEventBus()
	events := record(bus)

	mod, err := New(host, st, bus, opts, WithClock(clock.Now))
	require.NoError(t, err)
	t.Cleanup(mod.Stop)

	return &fixture{host: host, clock: clock, mod: mod, events: events, ctx: context.Background()}
}

func storeForTest() store.Store {
	return store.NewMemory()
}

// gatedStore holds the next Get of the armed key until release is closed
type gatedStore struct {
	store.Store
	mu      sync.Mutex
	key     string
	paused  chan struct{}
	release chan struct{}
}

func newGatedStore() *gatedStore {
	return &gatedStore{Store: store.NewMemory()}
}

func (s *gatedStore) arm(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.key = key
	s.paused = make(chan struct{})
	s.release = make(chan struct{})
}

func (s *gatedStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	gated := s.key != "" && key == s.key
	paused, release := s.paused, s.release
	if gated {
		s.key = ""
	}
	s.mu.Unlock()

	if gated {
		close(paused)
		<-release
	}
	return s.Store.Get(ctx, key)
}
