package stub

import (
	"context"
	"fmt"
	"sync"

	"github.com/ecotrack/console/internal/models"
)

// Store is the persistence boundary of the stub server. The memory
// implementation is the development and test default; the Redis one
// keeps fixture data across restarts.
type Store interface {
	ListNews(ctx context.Context) ([]models.NewsItem, error)
	GetNews(ctx context.Context, id string) (models.NewsItem, error)
	SaveNews(ctx context.Context, item models.NewsItem) error

	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id string) (models.User, error)
	SaveUser(ctx context.Context, user models.User) error

	AppendAudit(ctx context.Context, entry models.AuditEntry) error
	ListAudit(ctx context.Context) ([]models.AuditEntry, error)

	Close() error
}

// ErrNotFound is returned for unknown IDs.
var ErrNotFound = fmt.Errorf("not found")

// MemoryStore keeps everything in process memory, newest first.
type MemoryStore struct {
	mu    sync.RWMutex
	news  []models.NewsItem
	users []models.User
	audit []models.AuditEntry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) ListNews(ctx context.Context) ([]models.NewsItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.NewsItem, len(s.news))
	copy(out, s.news)
	return out, nil
}

func (s *MemoryStore) GetNews(ctx context.Context, id string) (models.NewsItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.news {
		if item.ID == id {
			return item, nil
		}
	}
	return models.NewsItem{}, ErrNotFound
}

func (s *MemoryStore) SaveNews(ctx context.Context, item models.NewsItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.news {
		if existing.ID == item.ID {
			s.news[i] = item
			return nil
		}
	}
	// Prepend so listings come back newest first.
	s.news = append([]models.NewsItem{item}, s.news...)
	return nil
}

func (s *MemoryStore) ListUsers(ctx context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out, nil
}

func (s *MemoryStore) GetUser(ctx context.Context, id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.ID == id {
			return user, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (s *MemoryStore) SaveUser(ctx context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.users {
		if existing.ID == user.ID {
			s.users[i] = user
			return nil
		}
	}
	s.users = append([]models.User{user}, s.users...)
	return nil
}

func (s *MemoryStore) AppendAudit(ctx context.Context, entry models.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audit = append([]models.AuditEntry{entry}, s.audit...)
	return nil
}

func (s *MemoryStore) ListAudit(ctx context.Context) ([]models.AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.AuditEntry, len(s.audit))
	copy(out, s.audit)
	return out, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
