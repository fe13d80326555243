package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/todod/backend/internal/domain/todo"
)

// fileSnapshotStore JSON 文件快照实现
// 先写临时文件再 rename，保证文件要么是旧快照要么是新快照
type fileSnapshotStore struct {
	path string
}

// NewFileSnapshotStore 创建 JSON 文件快照仓储
func NewFileSnapshotStore(path string) (todo.SnapshotStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return &fileSnapshotStore{path: path}, nil
}

// Load 读取快照
func (s *fileSnapshotStore) Load(ctx context.Context) (*todo.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}

	var snapshot todo.Snapshot
	if err := json.Unmarshal(b, &snapshot); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	return &snapshot, nil
}

// Save 原子写入快照
func (s *fileSnapshotStore) Save(ctx context.Context, snapshot todo.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if snapshot.Items == nil {
		snapshot.Items = []todo.Todo{}
	}
	b, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".todos-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("rename snapshot: %w", err)
	}
	return nil
}

// Close 文件实现无需释放资源
func (s *fileSnapshotStore) Close() error {
	return nil
}

var _ todo.SnapshotStore = (*fileSnapshotStore)(nil)
