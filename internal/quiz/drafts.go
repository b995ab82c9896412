package quiz

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/quizdesk/internal/apperr"
)

var ErrDraftNotFound = apperr.E(apperr.NotFound, "draft not found")

// DraftStore keeps authoring state in memory, one entry per draft id.
// Drafts belong to their owner; other users get ErrDraftNotFound.
type DraftStore struct {
	mu     sync.Mutex
	drafts map[string]Draft
	now    func() time.Time
}

func NewDraftStore() *DraftStore {
	return &DraftStore{drafts: map[string]Draft{}, now: time.Now}
}

func (s *DraftStore) Create(ownerID string, durationSec int) Draft {
	return s.Put(NewDraft(uuid.NewString(), ownerID, durationSec))
}

// Put stores d, assigning an id when it has none.
func (s *DraftStore) Put(d Draft) Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	d.UpdatedAt = s.now()
	s.drafts[d.ID] = d.Clone()
	return d.Clone()
}

func (s *DraftStore) Get(id, ownerID string) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[id]
	if !ok || d.OwnerID != ownerID {
		return Draft{}, ErrDraftNotFound
	}
	return d.Clone(), nil
}

// Apply runs one action against the stored draft atomically.
func (s *DraftStore) Apply(id, ownerID string, a Action) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[id]
	if !ok || d.OwnerID != ownerID {
		return Draft{}, ErrDraftNotFound
	}
	next, err := Apply(d, a)
	if err != nil {
		return d.Clone(), err
	}
	if !d.Locked {
		next.UpdatedAt = s.now()
	}
	s.drafts[id] = next
	return next.Clone(), nil
}

func (s *DraftStore) SetLocked(id string, locked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.drafts[id]; ok {
		d.Locked = locked
		s.drafts[id] = d
	}
}

func (s *DraftStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, id)
}
