package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/leonid6372/trades-pager/internal/common/domain"
	"github.com/leonid6372/trades-pager/internal/pagerrs"
	"github.com/leonid6372/trades-pager/internal/store"
	"github.com/leonid6372/trades-pager/pkg/log"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const closeTimeout = 5 * time.Second

// StoreFactory builds the row store of a new session.
type StoreFactory func(sessionID, account string) store.Store

// Manager keeps open sessions in memory and drops them after ttl without access.
type Manager struct {
	cache    *cache.Cache
	repo     domain.TradesRepository
	newStore StoreFactory
	opts     Options

	opening singleflight.Group
}

func NewManager(repo domain.TradesRepository, newStore StoreFactory, opts Options, ttl time.Duration) *Manager {
	m := &Manager{
		cache:    cache.New(ttl, ttl/2),
		repo:     repo,
		newStore: newStore,
		opts:     opts,
	}

	m.cache.OnEvicted(func(id string, value any) {
		s, ok := value.(*Session)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()

		if err := s.close(ctx); err != nil {
			log.Error("failed to close session", zap.String("session_id", id), zap.Error(err))
		}
	})

	return m
}

// Create opens a new session with a random id.
func (m *Manager) Create(ctx context.Context, account string) (*Session, error) {
	return m.create(ctx, uuid.NewString(), account)
}

// GetOrCreate returns the session with id, opening one for account when it does not exist.
// Concurrent calls for the same id share one Open.
func (m *Manager) GetOrCreate(ctx context.Context, id, account string) (*Session, error) {
	if s, err := m.Get(id); err == nil {
		return s, nil
	}

	v, err, _ := m.opening.Do(id, func() (any, error) {
		if s, err := m.Get(id); err == nil {
			return s, nil
		}

		return m.create(ctx, id, account)
	})
	if err != nil {
		return nil, err
	}

	return v.(*Session), nil
}

func (m *Manager) Get(id string) (*Session, error) {
	value, ok := m.cache.Get(id)
	if !ok {
		return nil, pagerrs.ErrSessionNotFound
	}

	m.cache.SetDefault(id, value)

	return value.(*Session), nil
}

func (m *Manager) Delete(id string) error {
	if _, ok := m.cache.Get(id); !ok {
		return pagerrs.ErrSessionNotFound
	}

	m.cache.Delete(id)

	return nil
}

func (m *Manager) Count() int {
	return m.cache.ItemCount()
}

func (m *Manager) create(ctx context.Context, id, account string) (*Session, error) {
	if account == "" {
		return nil, pagerrs.ErrEmptyAccount
	}

	s := New(id, account, m.repo, m.newStore(id, account), m.opts)
	if err := s.Open(ctx); err != nil {
		return nil, err
	}

	if err := m.cache.Add(id, s, cache.DefaultExpiration); err != nil {
		// id registered meanwhile; the existing session keeps it
		return m.Get(id)
	}

	log.Info("session opened",
		zap.String("session_id", id),
		zap.String("account", account),
	)

	return s, nil
}
