package sortedstorage

import (
	"context"
	"fmt"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"

	"github.com/beka-birhanu/vinom-nav/metrics"
)

const metricsLockFmt = "%s:metrics:lock"

// LockedStore serializes writes of a metrics store across processes with a
// Redis lock.
type LockedStore struct {
	store metrics.Store
	mutex *redsync.Mutex
}

var _ metrics.Store = (*LockedStore)(nil)

// NewLockedStore wraps store. Processes sharing prefix share the lock.
func NewLockedStore(client *redis.Client, prefix string, store metrics.Store) *LockedStore {
	if prefix == "" {
		prefix = defaultPrefix
	}
	rs := redsync.New(goredis.NewPool(client))
	return &LockedStore{
		store: store,
		mutex: rs.NewMutex(fmt.Sprintf(metricsLockFmt, prefix)),
	}
}

// Load reads without locking.
func (s *LockedStore) Load(ctx context.Context) (metrics.Table, error) {
	return s.store.Load(ctx)
}

// Save holds the lock for the duration of the wrapped write.
func (s *LockedStore) Save(ctx context.Context, t metrics.Table) error {
	if err := s.mutex.LockContext(ctx); err != nil {
		return fmt.Errorf("locking metrics store: %w", err)
	}
	defer func() {
		_, _ = s.mutex.UnlockContext(ctx)
	}()
	return s.store.Save(ctx, t)
}
