package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain/chat"
	"slices"
	"sync"
)

type presence struct {
	session chat.Session
	sink    contract.EventSink
}

// Registry is the single-node presence table.
// A user is represented by at most one connection: the latest one to connect.
type Registry struct {
	mu          sync.RWMutex
	sessions    map[string]presence // userID -> live connection
	connections map[string]string   // connectionID -> userID
}

func NewRegistry() *Registry {
	return &Registry{
		sessions:    make(map[string]presence),
		connections: make(map[string]string),
	}
}

// Connect registers or overwrites the live connection of userID.
// Calling it again with the same connection only refreshes the sink.
func (r *Registry) Connect(userID, connectionID string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if previous, ok := r.connections[connectionID]; ok && previous != userID {
		r.forget(previous, connectionID)
	}
	if current, ok := r.sessions[userID]; ok && current.session.ConnectionID != connectionID {
		delete(r.connections, current.session.ConnectionID)
	}
	r.sessions[userID] = presence{
		session: chat.Session{UserID: userID, ConnectionID: connectionID},
		sink:    sink,
	}
	r.connections[connectionID] = userID
}

// Disconnect removes the entry still owned by connectionID.
// A stale connection that was already replaced is a no-op.
func (r *Registry) Disconnect(connectionID string) bool {
	_, ok := r.release(connectionID)
	return ok
}

func (r *Registry) release(connectionID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.connections[connectionID]
	if !ok {
		return "", false
	}
	r.forget(userID, connectionID)
	return userID, true
}

// forget must be called with the lock held.
func (r *Registry) forget(userID, connectionID string) {
	delete(r.connections, connectionID)
	if current, ok := r.sessions[userID]; ok && current.session.ConnectionID == connectionID {
		delete(r.sessions, userID)
	}
}

func (r *Registry) Resolve(userID string) (chat.Session, contract.EventSink, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.sessions[userID]
	if !ok {
		return chat.Session{}, nil, false
	}
	return p.session, p.sink, true
}

// Online returns the connected user ids, sorted.
func (r *Registry) Online() []string {
	r.mu.RLock()
	users := make([]string, 0, len(r.sessions))
	for userID := range r.sessions {
		users = append(users, userID)
	}
	r.mu.RUnlock()

	slices.Sort(users)
	return users
}

func (r *Registry) snapshot() []chat.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := make([]chat.Session, 0, len(r.sessions))
	for _, p := range r.sessions {
		sessions = append(sessions, p.session)
	}
	return sessions
}
