package store

import (
	"sync"

	"github.com/MuhammetEnesDemirkol/real-estate-wp-gpt-bot/internal/models"
)

// InMemoryStore is a simple in-memory listing store, used in tests and when no
// database DSN is configured.
type InMemoryStore struct {
	mu       sync.Mutex
	nextID   int64
	listings []models.Listing
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{nextID: 1}
}

func (s *InMemoryStore) CreateListing(l models.Listing) (models.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.ID = s.nextID
	s.nextID++
	s.listings = append(s.listings, l)
	return l, nil
}

func (s *InMemoryStore) GetListings() ([]models.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Listing, len(s.listings))
	copy(out, s.listings)
	return out, nil
}

func (s *InMemoryStore) DeleteListingByTitle(title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.listings[:0]
	deleted := 0
	for _, l := range s.listings {
		if l.Title == title {
			deleted++
			continue
		}
		kept = append(kept, l)
	}
	s.listings = kept
	if deleted == 0 {
		return ErrListingNotFound
	}
	return nil
}

// Close is a no-op for the in-memory store.
func (s *InMemoryStore) Close() error { return nil }
