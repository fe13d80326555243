package todo

import "context"

// SnapshotStore 待办快照仓储接口
// 整体写入、整体读取，Save 必须是全有或全无
type SnapshotStore interface {
	// Load 读取最近一次保存的快照
	// 从未保存过时返回 nil, nil
	Load(ctx context.Context) (*Snapshot, error)

	// Save 持久化完整快照
	Save(ctx context.Context, snapshot Snapshot) error

	// Close 释放底层资源
	Close() error
}
