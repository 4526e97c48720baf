// Package runtime routes messages between live sessions and the durable stores.
// It orchestrates the system without containing business rules.
package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain/chat"
	"chat-relay/moderation"
	"chat-relay/observability"
	"chat-relay/projection"
	"chat-relay/runtime/workers"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Stores groups the durable collaborators of the relay.
type Stores struct {
	Conversations contract.IConversationRepository
	Groups        contract.IGroupRepository
	GroupMessages contract.IGroupMessageRepository
	Search        contract.ISearchIndex
}

type OrchestratorConfig struct {
	DeliveryTimeout  time.Duration
	FanoutBufferSize int
	MaxContentLength int
	CharReplacement  rune
}

type Orchestrator struct {
	mu         sync.Mutex
	log        *slog.Logger
	supervisor contract.ISupervisor
	presence   contract.IPresenceRegistry
	router     *Router
	tracker    *projection.UnreadTracker
	fanout     *workers.DeliveryFanout
	notifier   *Notifier
	workers    []contract.Worker
}

// NewOrchestrator loads the moderation dictionaries and assembles the router,
// the unread tracker and the group fan-out around the given presence registry.
func NewOrchestrator(log *slog.Logger, supervisor contract.ISupervisor,
	presence contract.IPresenceRegistry, stores Stores, config OrchestratorConfig) (*Orchestrator, error) {
	moderator, err := prepareModeration(log, config.CharReplacement)
	if err != nil {
		return nil, err
	}

	notifier := NewNotifier(log, presence, config.DeliveryTimeout)
	tracker := projection.NewUnreadTracker(log, stores.Conversations, stores.Groups, stores.GroupMessages, notifier)
	fanout := workers.NewDeliveryFanout(log, notifier, config.FanoutBufferSize)
	router := NewRouter(log,
		stores.Conversations, stores.Groups, stores.GroupMessages, stores.Search,
		moderator, notifier, tracker, fanout,
		RouterConfig{MaxContentLength: config.MaxContentLength})

	return &Orchestrator{
		log:        log,
		supervisor: supervisor,
		presence:   presence,
		router:     router,
		tracker:    tracker,
		fanout:     fanout,
		notifier:   notifier,
	}, nil
}

// prepareModeration loads censored words and builds the Aho-Corasick automaton.
func prepareModeration(log *slog.Logger, charReplacement rune) (moderation.Moderator, error) {
	data, err := moderation.DefaultCensoredLoader().LoadAll("censored")
	if err != nil {
		return moderation.Moderator{}, err
	}

	log.Info(fmt.Sprintf("%d censored files loaded [%s]",
		len(data.Languages), strings.Join(data.Languages, ",")))
	log.Info(fmt.Sprintf("%d unique censored words loaded", len(data.Words)))

	return moderation.NewModerator(data.Words, charReplacement, log)
}

func (o *Orchestrator) Router() *Router                   { return o.router }
func (o *Orchestrator) Tracker() *projection.UnreadTracker { return o.tracker }
func (o *Orchestrator) Presence() contract.IPresenceRegistry {
	return o.presence
}

// Stats is the routing side of the node statistics.
func (o *Orchestrator) Stats() observability.NodeStats {
	delivered, dropped := o.notifier.Counts()
	return observability.NodeStats{
		OnlineUsers:     len(o.presence.Online()),
		FanoutBacklog:   o.fanout.Backlog(),
		FanoutCapacity:  o.fanout.Capacity(),
		PushesDelivered: delivered,
		PushesDropped:   dropped,
	}
}

// Add registers extra workers (relay, heartbeat) started with the fan-out.
func (o *Orchestrator) Add(w ...contract.Worker) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.workers = append(o.workers, w...)
}

// RegisterParticipant makes the session the live representative of its user.
func (o *Orchestrator) RegisterParticipant(session chat.Session, sink contract.EventSink) {
	o.presence.Connect(session.UserID, session.ConnectionID, sink)
	o.log.Debug("Participant connected", "user", session.UserID, "connection", session.ConnectionID)
}

// UnregisterParticipant disconnects a session and forgets what it was viewing.
func (o *Orchestrator) UnregisterParticipant(session chat.Session) {
	o.tracker.Close(session)
	if !o.presence.Disconnect(session.ConnectionID) {
		o.log.Debug("Stale connection closed", "user", session.UserID, "connection", session.ConnectionID)
	}
}

// Start runs the supervised workers until ctx is canceled.
func (o *Orchestrator) Start(ctx context.Context) {
	o.mu.Lock()
	o.supervisor.Add(o.fanout)
	o.supervisor.Add(o.workers...)
	o.mu.Unlock()

	o.log.Info("Starting orchestrator and all supervised workers", "workers", len(o.workers)+1)
	o.supervisor.Run(ctx)
}

// Stop initiates a graceful shutdown of the orchestrator.
func (o *Orchestrator) Stop() {
	o.log.Info("Requesting orchestrator shutdown")
	o.supervisor.Stop()
}
