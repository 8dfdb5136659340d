package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/PancyStudios/PancyModeratorGo/pkg/moderator"
	"github.com/PancyStudios/PancyModeratorGo/pkg/moderator/moderatortest"
	"github.com/PancyStudios/PancyModeratorGo/pkg/store"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, withModerator bool) (*Server, *moderator.Moderator, *moderatortest.Host) {
	t.Helper()
	s := NewServer("")
	gin.SetMode(gin.TestMode)

	host := moderatortest.NewHost()
	var mod *moderator.Moderator
	if withModerator {
		var err error
		mod, err = moderator.New(host, store.NewMemory(), nil, moderator.DefaultOptions())
		require.NoError(t, err)
		t.Cleanup(mod.Stop)
		s.SetModerator(mod, "memory")
	}
	SetupAPIRoutes(s)
	return s, mod, host
}

func do(s *Server, path, host string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Host = host
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	return w
}

func TestHostFilter(t *testing.T) {
	s, _, _ := newTestServer(t, false)

	assert.Equal(t, http.StatusOK, do(s, "/api/health", "localhost:3000").Code)
	assert.Equal(t, http.StatusOK, do(s, "/api/health", "api.miau.media").Code)
	assert.Equal(t, http.StatusForbidden, do(s, "/api/health", "evil.example").Code)

	require.NoError(t, s.SetAllowedHosts(`^example\.com$`))
	assert.Equal(t, http.StatusOK, do(s, "/api/health", "example.com").Code)
	assert.Error(t, s.SetAllowedHosts("("))
}

func TestNotFound(t *testing.T) {
	s, _, _ := newTestServer(t, false)
	w := do(s, "/api/nope", "localhost")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGuildRoutesWithoutModerator(t *testing.T) {
	s, _, _ := newTestServer(t, false)
	w := do(s, "/api/guilds/100/mutes", "localhost")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestStatus(t *testing.T) {
	s, _, _ := newTestServer(t, true)
	w := do(s, "/api/status", "localhost")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Store struct {
			Backend string `json:"backend"`
		} `json:"store"`
		Moderation struct {
			MuteManager bool `json:"muteManager"`
		} `json:"moderation"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "memory", body.Store.Backend)
	assert.True(t, body.Moderation.MuteManager)
}

func TestModerationRoutes(t *testing.T) {
	s, mod, host := newTestServer(t, true)
	ctx := context.Background()

	_, err := mod.Mutes.Add(ctx, host.Join("2"), "50", moderatortest.MuteRole, "spam")
	require.NoError(t, err)
	_, err = mod.Blacklist.Add(ctx, moderatortest.GuildID, "3", "raid", "2")
	require.NoError(t, err)

	var mutes struct {
		Count int                    `json:"count"`
		Data  []moderator.MuteRecord `json:"data"`
	}
	w := do(s, "/api/guilds/100/mutes", "localhost")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mutes))
	assert.Equal(t, 1, mutes.Count)
	assert.Equal(t, "2", mutes.Data[0].UserID)

	var warns moderator.WarnList
	w = do(s, "/api/guilds/100/users/2/warns", "localhost")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &warns))
	assert.Equal(t, 0, warns.Warns)

	var blocks struct {
		Count int                     `json:"count"`
		Data  []moderator.BlockRecord `json:"data"`
	}
	w = do(s, "/api/guilds/100/blacklist", "localhost")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &blocks))
	assert.Equal(t, 1, blocks.Count)
	assert.Equal(t, "raid", blocks.Data[0].Reason)
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&moderator.Error{Kind: moderator.KindParameterMissing, Param: "guildId"}, http.StatusBadRequest},
		{&moderator.Error{Kind: moderator.KindManagerDisabled, Param: "MuteManager"}, http.StatusServiceUnavailable},
		{&moderator.Error{Kind: moderator.KindUserNotBlocked, UserID: "2"}, http.StatusNotFound},
		{&moderator.Error{Kind: moderator.KindUserAlreadyMuted, UserID: "2"}, http.StatusConflict},
		{&moderator.Error{Kind: moderator.KindMissingPermissions}, http.StatusForbidden},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		respondError(c, tt.err)
		assert.Equal(t, tt.want, w.Code, tt.err.Error())
	}
}

func TestIPLimiter(t *testing.T) {
	l := newIPLimiter(RateLimitConfig{Window: time.Minute, MaxRequests: 2})
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, l.allow("10.0.0.1", start))
	assert.True(t, l.allow("10.0.0.1", start))
	assert.False(t, l.allow("10.0.0.1", start))
	assert.True(t, l.allow("10.0.0.2", start))
	assert.Equal(t, 2, l.size())

	// idle clients are dropped once a window has passed
	later := start.Add(61 * time.Second)
	assert.True(t, l.allow("10.0.0.3", later))
	assert.Equal(t, 1, l.size())

	assert.True(t, l.allow("10.0.0.1", later))
	assert.Equal(t, 2, l.size())
}
