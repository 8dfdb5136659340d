package moderator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartEmitsReadyAndSweeps(t *testing.T) {
	f := newFixture(t, func(o *Options) { o.Mute.CheckInterval = 10 * time.Millisecond })

	_, err := f.mod.Mutes.Temp(f.ctx, f.host.member(testUser), testChannel, muteRole, "1s", "")
	require.NoError(t, err)
	f.clock.Advance(2 * time.Second)

	f.mod.Start()
	f.mod.Start()
	assert.Equal(t, 1, f.events.count(EventReady))

	assert.Eventually(t, func() bool {
		return f.events.count(EventMuteEnded) == 1
	}, time.Second, 10*time.Millisecond)

	f.mod.Stop()
	f.mod.Stop()
}
