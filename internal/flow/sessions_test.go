package flow

import (
	"sync"
	"testing"

	"github.com/MuhammetEnesDemirkol/real-estate-wp-gpt-bot/internal/models"
)

func TestSessionStoreGetCreatesIdleState(t *testing.T) {
	s := NewSessionStore()
	state := s.Get("sender-1")
	if state.Phase != models.PhaseIdle {
		t.Errorf("expected idle phase for new sender, got %s", state.Phase)
	}
}

func TestSessionStorePutAndDelete(t *testing.T) {
	s := NewSessionStore()
	s.Put("sender-1", &models.ConversationState{Phase: models.PhaseAwaitingPhotos, ExpectedPhotos: 2})

	state := s.Get("sender-1")
	if state.Phase != models.PhaseAwaitingPhotos || state.ExpectedPhotos != 2 {
		t.Errorf("unexpected stored state %+v", state)
	}

	s.Delete("sender-1")
	if s.Get("sender-1").Phase != models.PhaseIdle {
		t.Error("expected idle state after delete")
	}
}

func TestSessionStoreIdleSendersLeaveNoEntries(t *testing.T) {
	s := NewSessionStore()

	// Traffic from senders with no active dialogue must not accumulate:
	// Get hands out a fresh state without retaining it, and released locks
	// are pruned.
	for _, sender := range []string{"spam-1", "spam-2", "spam-3"} {
		unlock := s.Acquire(sender)
		if s.Get(sender).Phase != models.PhaseIdle {
			t.Errorf("expected idle state for %s", sender)
		}
		unlock()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sessions) != 0 {
		t.Errorf("expected no retained sessions, got %d", len(s.sessions))
	}
	if len(s.locks) != 0 {
		t.Errorf("expected no retained locks, got %d", len(s.locks))
	}
}

func TestSessionStorePerSenderSerialization(t *testing.T) {
	s := NewSessionStore()
	const iterations = 100

	// Concurrent increments on the same sender's counter must not lose
	// updates when guarded by the sender lock.
	var wg sync.WaitGroup
	for i := 0; i < iterations; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := s.Acquire("sender-1")
			defer unlock()
			state := s.Get("sender-1")
			state.ReceivedPhotos++
			s.Put("sender-1", state)
		}()
	}
	wg.Wait()

	if got := s.Get("sender-1").ReceivedPhotos; got != iterations {
		t.Errorf("expected %d received photos, got %d (lost updates)", iterations, got)
	}
}
