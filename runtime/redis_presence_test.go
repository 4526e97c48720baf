package runtime

import (
	"chat-relay/domain/chat"
	"chat-relay/domain/event"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/mama165/sdk-go/logs"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newRedisPair(t *testing.T) (*RedisPresence, *RedisPresence, *redis.Client, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	nodeA := NewRedisPresence(log, client, NewRegistry(), "node-a", time.Minute, time.Second)
	nodeB := NewRedisPresence(log, client, NewRegistry(), "node-b", time.Minute, time.Second)
	return nodeA, nodeB, client, server
}

func TestRedisPresence_Resolve_Local_And_Remote(t *testing.T) {
	req := require.New(t)
	nodeA, nodeB, _, _ := newRedisPair(t)

	// Given u1 is connected on node A
	nodeA.Connect("u1", "c1", Sink{Name: "u1"})

	// Then node A serves it locally
	_, sink, ok := nodeA.Resolve("u1")
	req.True(ok)
	req.Equal(Sink{Name: "u1"}, sink)

	// And node B reaches it through node A's relay channel
	session, sink, ok := nodeB.Resolve("u1")
	req.True(ok)
	req.Equal(chat.Session{UserID: "u1", ConnectionID: "c1"}, session)
	relay, isRelay := sink.(*relaySink)
	req.True(isRelay)
	req.Equal(RelayChannel("node-a"), relay.channel)

	req.Equal([]string{"u1"}, nodeB.Online())
}

func TestRedisPresence_Relay_Sink_Publishes_Frame(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	nodeA, nodeB, client, _ := newRedisPair(t)
	nodeA.Connect("u1", "c1", Sink{})

	sub := client.Subscribe(ctx, RelayChannel("node-a"))
	defer sub.Close()
	_, err := sub.Receive(ctx)
	req.NoError(err)

	_, sink, ok := nodeB.Resolve("u1")
	req.True(ok)
	req.NoError(sink.Consume(ctx, event.UnreadChanged{Conversation: chat.Direct("u2"), Unread: true}))

	msg, err := sub.ReceiveMessage(ctx)
	req.NoError(err)
	var frame event.RelayFrame
	req.NoError(json.Unmarshal([]byte(msg.Payload), &frame))
	req.Equal("u1", frame.UserID)
	req.Equal("c1", frame.ConnectionID)

	decoded, err := event.Decode(frame.Envelope)
	req.NoError(err)
	req.Equal(event.UnreadChanged{Conversation: chat.Direct("u2"), Unread: true}, decoded)
}

func TestRedisPresence_Stale_Disconnect_Keeps_Newer_Login(t *testing.T) {
	req := require.New(t)
	nodeA, nodeB, _, server := newRedisPair(t)

	// Given u1 connected on node A then moved to node B
	nodeA.Connect("u1", "c1", Sink{})
	nodeB.Connect("u1", "c2", Sink{})

	// When the old connection on node A closes
	req.True(nodeA.Disconnect("c1"))

	// Then the shared entry still points at node B
	value, err := server.Get(presencePrefix + "u1")
	req.NoError(err)
	req.Equal("node-b|c2", value)
	session, _, ok := nodeA.Resolve("u1")
	req.True(ok)
	req.Equal("c2", session.ConnectionID)

	// When node B's connection closes
	req.True(nodeB.Disconnect("c2"))
	req.False(server.Exists(presencePrefix + "u1"))
	_, _, ok = nodeA.Resolve("u1")
	req.False(ok)
}

func TestRedisPresence_Refresh_Extends_TTL(t *testing.T) {
	req := require.New(t)
	nodeA, _, _, server := newRedisPair(t)
	nodeA.Connect("u1", "c1", Sink{})

	server.FastForward(50 * time.Second)
	req.NoError(nodeA.Refresh(context.Background()))
	server.FastForward(50 * time.Second)

	req.True(server.Exists(presencePrefix + "u1"))
	server.FastForward(2 * time.Minute)
	req.False(server.Exists(presencePrefix + "u1"))
}

func TestRedisPresence_Refresh_Keeps_Newer_Login_On_Other_Node(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	nodeA, nodeB, client, server := newRedisPair(t)
	observer := NewRedisPresence(logs.GetLoggerFromLevel(slog.LevelDebug), client, NewRegistry(), "node-c", time.Minute, time.Second)

	// Given u1 moved from node A to node B while the old socket is still open
	nodeA.Connect("u1", "c1", Sink{})
	nodeB.Connect("u1", "c2", Sink{})

	// When both nodes run their heartbeat
	req.NoError(nodeA.Refresh(ctx))
	req.NoError(nodeB.Refresh(ctx))

	// Then the shared entry still points at the newest connection
	value, err := server.Get(presencePrefix + "u1")
	req.NoError(err)
	req.Equal("node-b|c2", value)
	session, _, ok := observer.Resolve("u1")
	req.True(ok)
	req.Equal("c2", session.ConnectionID)

	// And node A stopped serving the stale session itself
	session, sink, ok := nodeA.Resolve("u1")
	req.True(ok)
	req.Equal("c2", session.ConnectionID)
	_, isRelay := sink.(*relaySink)
	req.True(isRelay)
	req.False(nodeA.Disconnect("c1"))
	req.True(server.Exists(presencePrefix + "u1"))
}

func TestRedisPresence_Refresh_Recreates_Expired_Entry(t *testing.T) {
	req := require.New(t)
	nodeA, _, _, server := newRedisPair(t)
	nodeA.Connect("u1", "c1", Sink{})

	// When the entry expired before the heartbeat ran
	server.FastForward(2 * time.Minute)
	req.False(server.Exists(presencePrefix + "u1"))
	req.NoError(nodeA.Refresh(context.Background()))

	// Then the live session is published again
	value, err := server.Get(presencePrefix + "u1")
	req.NoError(err)
	req.Equal("node-a|c1", value)
	_, _, ok := nodeA.Resolve("u1")
	req.True(ok)
}
