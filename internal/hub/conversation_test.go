package hub

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/devaloi/hypechat/internal/domain"
	"github.com/devaloi/hypechat/internal/testutil"
)

var bob = domain.Endpoint{ID: "peer-bob", Name: "bob"}

func TestConversationWatchSendsHistoryAndStatus(t *testing.T) {
	t.Parallel()
	c := NewConversation(bob, testutil.NewLogger())
	for i := 0; i < 5; i++ {
		c.Store().Add(domain.NewMessage("bob", "msg"), true)
	}

	cl := testutil.NewMockClient("alice")
	c.Watch(cl)

	history := cl.Frames(domain.EvtHistory)
	require.Len(t, history, 1)
	require.Len(t, history[0]["messages"], 5)

	status := cl.Frames(domain.EvtStatus)
	require.Len(t, status, 1)
	require.Equal(t, true, status[0]["has_new"])
	require.EqualValues(t, 5, status[0]["unread_count"])
}

func TestConversationBroadcastsAppends(t *testing.T) {
	t.Parallel()
	c := NewConversation(bob, testutil.NewLogger())
	c1 := testutil.NewMockClient("alice")
	c2 := testutil.NewMockClient("alice-tablet")
	c.Watch(c1)
	c.Watch(c2)

	c.Store().Add(domain.NewMessage("bob", "hello"), true)

	for _, cl := range []*testutil.MockClient{c1, c2} {
		msgs := cl.Frames(domain.EvtMessage)
		require.Len(t, msgs, 1, "client %s", cl.Name)
		require.Equal(t, "hello", msgs[0]["message"].(map[string]any)["text"])

		status := cl.Frames(domain.EvtStatus)
		require.Len(t, status, 2)
		require.Equal(t, true, status[1]["has_new"])
	}
}

func TestConversationUnwatch(t *testing.T) {
	t.Parallel()
	c := NewConversation(bob, testutil.NewLogger())
	cl := testutil.NewMockClient("alice")
	c.Watch(cl)
	require.Equal(t, 1, c.WatcherCount())

	c.Unwatch(cl)
	require.Equal(t, 0, c.WatcherCount())

	c.Store().Add(domain.NewMessage("bob", "late"), true)
	require.Empty(t, cl.Frames(domain.EvtMessage))
}

func TestConversationMarkAllRead(t *testing.T) {
	t.Parallel()
	c := NewConversation(bob, testutil.NewLogger())
	c.Store().Add(domain.NewMessage("bob", "hi"), true)
	cl := testutil.NewMockClient("alice")
	c.Watch(cl)

	c.MarkAllRead()

	status := cl.Frames(domain.EvtStatus)
	require.Len(t, status, 2)
	require.Equal(t, false, status[1]["has_new"])
	require.False(t, c.Summary().HasNew)
}

func TestConversationSummary(t *testing.T) {
	t.Parallel()
	c := NewConversation(bob, testutil.NewLogger())
	c.Store().Add(domain.NewMessage("bob", "a"), true)
	c.Store().Add(domain.NewMessage("me", "b"), false)
	c.Watch(testutil.NewMockClient("alice"))

	s := c.Summary()
	require.Equal(t, bob, s.Endpoint)
	require.Equal(t, 2, s.MessageCount)
	require.Equal(t, 2, s.UnreadCount)
	require.True(t, s.HasNew)
	require.Equal(t, 1, s.Watchers)
}
