package sortedstorage

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"

	"github.com/beka-birhanu/vinom-nav/game"
	"github.com/beka-birhanu/vinom-nav/service/i"
)

const (
	defaultPrefix       = "vinom-nav"
	leaderboardKeyFmt   = "%s:leaderboard:%s"
	leaderboardLockFmt  = "%s:leaderboard:%s:lock"
	defaultLeaderboardN = 10
)

// RedisLeaderboard keeps the best score of every algorithm per maze in a
// Redis sorted set.
type RedisLeaderboard struct {
	client *redis.Client
	locker *redsync.Redsync
	prefix string
}

var _ i.Leaderboard = (*RedisLeaderboard)(nil)

// NewRedisLeaderboard initializes a RedisLeaderboard with the provided Redis
// client. Keys are namespaced under prefix.
func NewRedisLeaderboard(client *redis.Client, prefix string) *RedisLeaderboard {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &RedisLeaderboard{
		client: client,
		locker: redsync.New(goredis.NewPool(client)),
		prefix: prefix,
	}
}

// Submit stores score when it beats the algorithm's current best on maze.
// The compare and write run under a distributed lock per maze.
func (l *RedisLeaderboard) Submit(ctx context.Context, maze string, algorithm game.Algorithm, score float64) error {
	mutex := l.locker.NewMutex(fmt.Sprintf(leaderboardLockFmt, l.prefix, maze))
	if err := mutex.LockContext(ctx); err != nil {
		return fmt.Errorf("locking leaderboard %s: %w", maze, err)
	}
	defer func() {
		_, _ = mutex.UnlockContext(ctx)
	}()

	key := l.key(maze)
	best, err := l.client.ZScore(ctx, key, string(algorithm)).Result()
	switch {
	case errors.Is(err, redis.Nil):
	case err != nil:
		return err
	case best >= score:
		return nil
	}
	return l.client.ZAdd(ctx, key, redis.Z{Score: score, Member: string(algorithm)}).Err()
}

// Top returns up to n entries of maze, best score first. A non positive n
// selects the default size.
func (l *RedisLeaderboard) Top(ctx context.Context, maze string, n int) ([]i.LeaderboardEntry, error) {
	if n <= 0 {
		n = defaultLeaderboardN
	}
	zs, err := l.client.ZRevRangeWithScores(ctx, l.key(maze), 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]i.LeaderboardEntry, 0, len(zs))
	for _, z := range zs {
		member, _ := z.Member.(string)
		entries = append(entries, i.LeaderboardEntry{Algorithm: game.Algorithm(member), Score: z.Score})
	}
	return entries, nil
}

func (l *RedisLeaderboard) key(maze string) string {
	return fmt.Sprintf(leaderboardKeyFmt, l.prefix, maze)
}
