package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain/chat"
	"chat-relay/domain/event"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
)

const (
	presencePrefix = "presence:"
	relayPrefix    = "relay:"
)

// releaseScript deletes the presence key only while it still points at the
// disconnecting connection, so a newer login on another node survives.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// refreshScript extends the TTL of an entry this node still owns and recreates an
// expired one. An entry owned by another connection is left alone: -1 tells the
// caller its session was superseded.
var refreshScript = redis.NewScript(`
local current = redis.call("GET", KEYS[1])
if current == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
if not current then
	redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
	return 1
end
return -1
`)

// RedisPresence shares presence between nodes. Sessions owned by this node are
// served from the local Registry, the others are reached through the relay
// channel of their owning node.
type RedisPresence struct {
	local   *Registry
	client  *redis.Client
	nodeID  string
	ttl     time.Duration
	timeout time.Duration
	log     *slog.Logger
}

func NewRedisPresence(log *slog.Logger, client *redis.Client, local *Registry,
	nodeID string, ttl, timeout time.Duration) *RedisPresence {
	return &RedisPresence{
		local:   local,
		client:  client,
		nodeID:  nodeID,
		ttl:     ttl,
		timeout: timeout,
		log:     log.With("node", nodeID),
	}
}

func RelayChannel(nodeID string) string { return relayPrefix + nodeID }

func (p *RedisPresence) Connect(userID, connectionID string, sink contract.EventSink) {
	p.local.Connect(userID, connectionID, sink)

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	if err := p.client.Set(ctx, presencePrefix+userID, p.owner(connectionID), p.ttl).Err(); err != nil {
		p.log.Warn("Unable to publish presence", "user", userID, "error", err)
	}
}

func (p *RedisPresence) Disconnect(connectionID string) bool {
	userID, ok := p.local.release(connectionID)
	if !ok {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	if err := releaseScript.Run(ctx, p.client, []string{presencePrefix + userID}, p.owner(connectionID)).Err(); err != nil {
		p.log.Warn("Unable to release presence", "user", userID, "error", err)
	}
	return true
}

// Resolve prefers the local table, then looks up the owning node in redis.
func (p *RedisPresence) Resolve(userID string) (chat.Session, contract.EventSink, bool) {
	if session, sink, ok := p.local.Resolve(userID); ok {
		return session, sink, true
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	value, err := p.client.Get(ctx, presencePrefix+userID).Result()
	if err != nil {
		if err != redis.Nil {
			p.log.Warn("Presence lookup failed", "user", userID, "error", err)
		}
		return chat.Session{}, nil, false
	}

	nodeID, connectionID, ok := strings.Cut(value, "|")
	if !ok || nodeID == p.nodeID {
		// Our own entry without a local session is a leftover from a previous run.
		return chat.Session{}, nil, false
	}
	session := chat.Session{UserID: userID, ConnectionID: connectionID}
	return session, &relaySink{client: p.client, channel: RelayChannel(nodeID), session: session}, true
}

// Online lists users connected to any node.
func (p *RedisPresence) Online() []string {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	users := p.local.Online()
	iter := p.client.Scan(ctx, 0, presencePrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		users = append(users, strings.TrimPrefix(iter.Val(), presencePrefix))
	}
	if err := iter.Err(); err != nil {
		p.log.Warn("Presence scan failed", "error", err)
	}

	users = lo.Uniq(users)
	slices.Sort(users)
	return users
}

// Refresh extends the TTL of every session owned by this node.
// A session whose user has since logged in elsewhere is dropped from the local
// table, its pushes now go to the newer connection.
func (p *RedisPresence) Refresh(ctx context.Context) error {
	sessions := p.local.snapshot()
	if len(sessions) == 0 {
		return nil
	}
	ttl := p.ttl.Milliseconds()
	cmds := make([]*redis.Cmd, len(sessions))
	_, err := p.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, s := range sessions {
			cmds[i] = refreshScript.Eval(ctx, pipe, []string{presencePrefix + s.UserID}, p.owner(s.ConnectionID), ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("refresh presence: %w", err)
	}

	superseded := 0
	for i, cmd := range cmds {
		if result, _ := cmd.Int(); result >= 0 {
			continue
		}
		if _, ok := p.local.release(sessions[i].ConnectionID); ok {
			superseded++
			p.log.Info("Session superseded by a newer login",
				"user", sessions[i].UserID, "connection", sessions[i].ConnectionID)
		}
	}
	p.log.Debug("Presence refreshed", "sessions", len(sessions), "superseded", superseded)
	return nil
}

// Local exposes the sessions owned by this node for the relay worker.
func (p *RedisPresence) Local() contract.IPresenceRegistry { return p.local }

func (p *RedisPresence) owner(connectionID string) string {
	return p.nodeID + "|" + connectionID
}

type relaySink struct {
	client  *redis.Client
	channel string
	session chat.Session
}

func (s *relaySink) Consume(ctx context.Context, e event.DomainEvent) error {
	envelope, err := event.Encode(e)
	if err != nil {
		return err
	}
	frame, err := json.Marshal(event.RelayFrame{
		UserID:       s.session.UserID,
		ConnectionID: s.session.ConnectionID,
		Envelope:     envelope,
	})
	if err != nil {
		return err
	}
	return s.client.Publish(ctx, s.channel, frame).Err()
}
