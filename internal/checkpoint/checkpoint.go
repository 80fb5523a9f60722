// Package checkpoint persists search progress in BadgerDB: the next
// candidate index and a history of finished runs.
package checkpoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/rfielding/zfsearch/search"
)

var (
	keyNext    = []byte("checkpoint/next")
	prefixRuns = []byte("runs/")
)

type Config struct {
	Dir        string
	InMemory   bool
	SyncWrites bool
	Logger     *slog.Logger
}

func DefaultConfig(dir string) Config {
	return Config{Dir: dir, SyncWrites: true}
}

func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// badgerLogger routes Badger's printf-style logging to slog.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Store implements search.Store.
type Store struct {
	db *badger.DB
}

var _ search.Store = (*Store)(nil)

func Open(cfg Config) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Dir == "" {
			return nil, errors.New("checkpoint dir is required")
		}
		if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
			return nil, fmt.Errorf("create checkpoint dir %s: %w", cfg.Dir, err)
		}
		opts = badger.DefaultOptions(cfg.Dir)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open checkpoint db: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Load returns the saved next index. ok is false when nothing was saved.
func (s *Store) Load(ctx context.Context) (*big.Int, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	var next *big.Int
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyNext)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			v, ok := new(big.Int).SetString(string(val), 10)
			if !ok || v.Sign() < 0 {
				return fmt.Errorf("corrupt checkpoint %q", val)
			}
			next = v
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load checkpoint: %w", err)
	}
	return next, true, nil
}

func (s *Store) Save(ctx context.Context, next *big.Int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if next.Sign() < 0 {
		return errors.New("checkpoint index must not be negative")
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(keyNext, []byte(next.String()))
	})
	if err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	return nil
}

// RecordRun appends run to the history. Keys sort by start time.
func (s *Store) RecordRun(ctx context.Context, run search.RunRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	val, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("encode run: %w", err)
	}
	key := fmt.Appendf(nil, "%s%020d/%s", prefixRuns, run.StartedAt.UnixNano(), run.ID)
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, val)
	})
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// Runs lists recorded runs, oldest first.
func (s *Store) Runs(ctx context.Context) ([]search.RunRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var runs []search.RunRecord
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefixRuns
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			var run search.RunRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &run)
			})
			if err != nil {
				return fmt.Errorf("decode run %s: %w", it.Item().Key(), err)
			}
			runs = append(runs, run)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}
