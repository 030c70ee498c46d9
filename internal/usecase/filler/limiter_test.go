package filler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chatBot/internal/domain"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestLimiter(clock *fakeClock) *Limiter {
	l := NewLimiter(Config{
		CountThreshold: 5,
		TimeThreshold:  300000 * time.Millisecond,
		ExcludedUsers:  []string{"RyanDotTTS", "streamelements"},
	})
	l.now = clock.Now
	l.pick = func(int) int { return 0 }
	return l
}

func twitchMsg(user string) domain.Message {
	return domain.Message{Platform: domain.PlatformTwitch, ChannelID: "#chan", Username: user, Text: "hello"}
}

func TestRecordFiresAfterThresholds(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	l := newTestLimiter(clock)
	l.messageCount = 5
	l.lastTimestamp = clock.t.Add(-300001 * time.Millisecond)

	kind, fired := l.Record(twitchMsg("viewer"))
	require.True(t, fired)
	require.Equal(t, KindQuote, kind)

	count, last := l.Snapshot()
	require.Equal(t, 0, count)
	require.Equal(t, clock.t, last)

	// justo después del disparo vuelve a acumular
	_, fired = l.Record(twitchMsg("viewer"))
	require.False(t, fired)
	count, _ = l.Snapshot()
	require.Equal(t, 1, count)
}

func TestRecordNeedsBothThresholds(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	l := newTestLimiter(clock)

	l.messageCount = 5
	l.lastTimestamp = clock.t.Add(-time.Minute)
	_, fired := l.Record(twitchMsg("viewer"))
	require.False(t, fired)
	count, _ := l.Snapshot()
	require.Equal(t, 6, count)

	l.messageCount = 4
	l.lastTimestamp = clock.t.Add(-time.Hour)
	_, fired = l.Record(twitchMsg("viewer"))
	require.False(t, fired)
	count, _ = l.Snapshot()
	require.Equal(t, 5, count)
}

func TestRecordIgnoresExcludedAndYouTube(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	l := newTestLimiter(clock)
	l.messageCount = 100
	l.lastTimestamp = clock.t.Add(-24 * time.Hour)

	_, fired := l.Record(twitchMsg("ryandottts"))
	require.False(t, fired)
	_, fired = l.Record(twitchMsg("StreamElements"))
	require.False(t, fired)

	yt := domain.Message{Platform: domain.PlatformYouTube, Username: "viewer"}
	_, fired = l.Record(yt)
	require.False(t, fired)

	count, _ := l.Snapshot()
	require.Equal(t, 100, count, "ignored messages must not touch the counter")
}

func TestRecordPicksEveryKind(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	l := newTestLimiter(clock)
	l.countThreshold = 0
	l.timeThreshold = 0

	for i, want := range []Kind{KindQuote, KindCompliment, KindTimer} {
		l.pick = func(n int) int {
			require.Equal(t, 3, n)
			return i
		}
		kind, fired := l.Record(twitchMsg("viewer"))
		require.True(t, fired)
		require.Equal(t, want, kind)
	}
}
