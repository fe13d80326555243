package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/todod/backend/internal/domain/todo"
	"github.com/todod/backend/internal/infrastructure/log"
)

// InMemoryPath badger 纯内存模式的路径标记
const InMemoryPath = ":memory:"

// snapshotKey 快照在 badger 中的键
var snapshotKey = []byte("todo/snapshot")

// badgerSnapshotStore 待办快照 BadgerDB 实现
// 整个快照以 JSON 存在一个键下，单次 Update 事务写入
type badgerSnapshotStore struct {
	db *badgerdb.DB
}

// NewBadgerSnapshotStore 打开 BadgerDB 快照仓储
func NewBadgerSnapshotStore(path string) (todo.SnapshotStore, error) {
	opts := badgerdb.DefaultOptions(path)
	if path == InMemoryPath {
		opts = badgerdb.DefaultOptions("").WithInMemory(true)
	} else {
		opts = opts.WithSyncWrites(true)
	}
	opts = opts.WithLogger(newBadgerLogger())

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	return &badgerSnapshotStore{db: db}, nil
}

// Load 读取快照
func (s *badgerSnapshotStore) Load(ctx context.Context) (*todo.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var snapshot *todo.Snapshot
	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(snapshotKey)
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			var decoded todo.Snapshot
			if err := json.Unmarshal(val, &decoded); err != nil {
				return fmt.Errorf("failed to decode snapshot: %w", err)
			}
			snapshot = &decoded
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return snapshot, nil
}

// Save 写入完整快照
func (s *badgerSnapshotStore) Save(ctx context.Context, snapshot todo.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if snapshot.Items == nil {
		snapshot.Items = []todo.Todo{}
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	return s.db.Update(func(txn *badgerdb.Txn) error {
		if err := txn.Set(snapshotKey, data); err != nil {
			return fmt.Errorf("failed to store snapshot: %w", err)
		}
		return nil
	})
}

// Close 关闭 BadgerDB
func (s *badgerSnapshotStore) Close() error {
	return s.db.Close()
}

// badgerLogger 将 badger 日志转到 slog
type badgerLogger struct {
	logger *slog.Logger
}

func newBadgerLogger() *badgerLogger {
	return &badgerLogger{logger: log.NewModuleLogger("storage", "badger")}
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

var (
	_ todo.SnapshotStore = (*badgerSnapshotStore)(nil)
	_ badgerdb.Logger    = (*badgerLogger)(nil)
)
