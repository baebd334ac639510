// Package qstore persists Q-table snapshots in Badger.
package qstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/beka-birhanu/vinom-nav/game"
	"github.com/beka-birhanu/vinom-nav/game/learning"
	"github.com/beka-birhanu/vinom-nav/service/i"
)

const keyFmt = "qtable/%s/%s"

var (
	ErrPathRequired = errors.New("path is required for a persistent store")
)

// Config selects where snapshots live.
type Config struct {
	Path     string
	InMemory bool
	Logger   game.Logger // Receives Badger's own warnings and errors, silent when nil
}

// Store keeps one snapshot per (algorithm, maze), encoded as BSON.
type Store struct {
	db  *badger.DB
	now func() time.Time
}

var _ i.QTableStore = (*Store)(nil)

type snapshot struct {
	Algorithm game.Algorithm   `bson:"algorithm"`
	Maze      string           `bson:"maze"`
	SavedAt   time.Time        `bson:"savedAt"`
	Entries   []learning.Entry `bson:"entries"`
}

type badgerLogger struct {
	logger game.Logger
}

func (l badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warning(fmt.Sprintf(format, args...))
}

func (badgerLogger) Infof(string, ...any)  {}
func (badgerLogger) Debugf(string, ...any) {}

// Open opens or creates the store.
func Open(c Config) (*Store, error) {
	var opts badger.Options
	switch {
	case c.InMemory:
		opts = badger.DefaultOptions("").WithInMemory(true)
	case c.Path == "":
		return nil, ErrPathRequired
	default:
		if err := os.MkdirAll(c.Path, 0o750); err != nil {
			return nil, fmt.Errorf("creating qtable dir %s: %w", c.Path, err)
		}
		opts = badger.DefaultOptions(c.Path)
	}

	if c.Logger != nil {
		opts = opts.WithLogger(badgerLogger{logger: c.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts.WithNumVersionsToKeep(1))
	if err != nil {
		return nil, fmt.Errorf("opening qtable store: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Save replaces the snapshot of (algorithm, maze).
func (s *Store) Save(ctx context.Context, algorithm game.Algorithm, maze string, entries []learning.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := bson.Marshal(snapshot{
		Algorithm: algorithm,
		Maze:      maze,
		SavedAt:   s.now().UTC(),
		Entries:   entries,
	})
	if err != nil {
		return fmt.Errorf("encoding qtable: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(algorithm, maze), raw)
	})
}

// Load returns the snapshot of (algorithm, maze), false when there is none.
func (s *Store) Load(ctx context.Context, algorithm game.Algorithm, maze string) ([]learning.Entry, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	var snap snapshot
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(algorithm, maze))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return bson.Unmarshal(val, &snap)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("loading qtable %s/%s: %w", algorithm, maze, err)
	}
	return snap.Entries, true, nil
}

// Delete removes the snapshot of (algorithm, maze) if present.
func (s *Store) Delete(algorithm game.Algorithm, maze string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key(algorithm, maze))
	})
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func key(algorithm game.Algorithm, maze string) []byte {
	return fmt.Appendf(nil, keyFmt, algorithm, maze)
}
