package storage

import (
	"fmt"

	"github.com/todod/backend/internal/domain/todo"
	"github.com/todod/backend/internal/infrastructure/config"
	"github.com/todod/backend/internal/infrastructure/log"
)

// ProvideSnapshotStore 按配置创建快照仓储
// 返回的 cleanup 负责关闭底层存储
func ProvideSnapshotStore(cfg *config.StorageConfig) (todo.SnapshotStore, func(), error) {
	logger := log.NewModuleLogger("storage", "factory")
	path := cfg.ResolvedStoragePath()

	var (
		store todo.SnapshotStore
		err   error
	)
	switch cfg.Driver {
	case config.DriverSQLite:
		db, openErr := OpenDB(path)
		if openErr != nil {
			return nil, nil, openErr
		}
		store, err = NewSQLiteSnapshotStore(db)
		if err != nil {
			db.Close()
		}
	case config.DriverBadger:
		store, err = NewBadgerSnapshotStore(path)
	case config.DriverFile:
		store, err = NewFileSnapshotStore(path)
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Snapshot store opened",
		"driver", cfg.Driver,
		"path", path,
	)

	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close snapshot store",
				"error", err,
			)
		}
	}
	return store, cleanup, nil
}
