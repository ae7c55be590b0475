package flow

import (
	"log/slog"
	"sync"
	"time"

	"github.com/MuhammetEnesDemirkol/real-estate-wp-gpt-bot/internal/models"
)

// SessionStore maps sender ids to their current conversation state. State
// lives only for the process lifetime.
//
// Concurrent webhook deliveries for the same sender are a race on the
// read-modify-write of that sender's state, so callers must hold the
// per-sender lock (Acquire) for the full handling of one delivery. Deliveries
// for different senders proceed in parallel.
//
// Senders with no active dialogue leave nothing behind: Get does not retain
// the fresh state it hands out, and sender locks are discarded once the last
// holder releases, so idle or spam traffic never grows the maps.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*models.ConversationState
	locks    map[string]*senderLock
}

// senderLock serializes one sender's deliveries. refs counts current holders
// and waiters so the entry can be dropped when it reaches zero.
type senderLock struct {
	mu   sync.Mutex
	refs int
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*models.ConversationState),
		locks:    make(map[string]*senderLock),
	}
}

// Acquire locks the sender's serialization mutex and returns the release
// function. The lock entry is reference counted: it exists only while at
// least one delivery for the sender is being handled or is waiting.
func (s *SessionStore) Acquire(sender string) func() {
	s.mu.Lock()
	lock, ok := s.locks[sender]
	if !ok {
		lock = &senderLock{}
		s.locks[sender] = lock
	}
	lock.refs++
	s.mu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()
		s.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(s.locks, sender)
		}
		s.mu.Unlock()
	}
}

// Get returns the sender's current state, or a fresh idle state when none
// exists. The fresh state is not stored; a sender only occupies an entry once
// a handler commits state with Put. The returned pointer is the live state
// for known senders; callers must hold the sender lock while reading or
// mutating it.
func (s *SessionStore) Get(sender string) *models.ConversationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state, ok := s.sessions[sender]; ok {
		return state
	}
	return models.NewConversationState()
}

// Put stores the sender's state.
func (s *SessionStore) Put(sender string, state *models.ConversationState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state.UpdatedAt = time.Now()
	s.sessions[sender] = state
}

// Delete resets the sender to idle by discarding their state.
func (s *SessionStore) Delete(sender string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sender)
	slog.Debug("SessionStore state discarded", "sender", sender)
}
