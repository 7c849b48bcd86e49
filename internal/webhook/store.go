package webhook

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store keeps received webhook payloads.
type Store interface {
	// Put stores payload, replacing whatever was stored before.
	Put(payload *Payload) Record
	// Latest returns the most recent record.
	Latest() (Record, bool)
	// List returns the stored records, most recent first.
	List() []Record
}

// MemoryStore is a single-entry in-memory Store.
type MemoryStore struct {
	mu     sync.RWMutex
	record *Record
	now    func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) Put(payload *Payload) Record {
	record := Record{
		ID:         uuid.New().String(),
		ReceivedAt: s.now().UTC(),
		Payload:    payload,
	}

	s.mu.Lock()
	s.record = &record
	s.mu.Unlock()

	return record
}

func (s *MemoryStore) Latest() (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.record == nil {
		return Record{}, false
	}
	return *s.record, true
}

func (s *MemoryStore) List() []Record {
	if record, ok := s.Latest(); ok {
		return []Record{record}
	}
	return []Record{}
}
