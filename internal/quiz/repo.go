package quiz

import (
	"context"
	"sync"

	"github.com/mind-engage/quizdesk/internal/apperr"
)

var (
	ErrQuizNotFound = apperr.E(apperr.NotFound, "quiz not found")
	ErrQuizExists   = apperr.E(apperr.Conflict, "quiz already exists")
)

// Store persists published quizzes. Records are insert-only: Put on an
// existing id returns ErrQuizExists, Get on an unknown id ErrQuizNotFound.
type Store interface {
	Put(ctx context.Context, q PublishedQuiz) error
	Get(ctx context.Context, id string) (PublishedQuiz, error)
}

type memoryStore struct {
	mu      sync.RWMutex
	quizzes map[string]PublishedQuiz
}

func NewInMemoryStore() Store {
	return &memoryStore{quizzes: map[string]PublishedQuiz{}}
}

func (m *memoryStore) Put(_ context.Context, q PublishedQuiz) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.quizzes[q.ID]; ok {
		return ErrQuizExists
	}
	m.quizzes[q.ID] = q.Clone()
	return nil
}

func (m *memoryStore) Get(_ context.Context, id string) (PublishedQuiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.quizzes[id]
	if !ok {
		return PublishedQuiz{}, ErrQuizNotFound
	}
	return q.Clone(), nil
}
