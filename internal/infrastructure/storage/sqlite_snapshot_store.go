package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/todod/backend/internal/domain/todo"
)

// metaKeyLastID todo_meta 表中计数器的键
const metaKeyLastID = "last_id"

// sqliteSnapshotStore 待办快照 SQLite 实现
// 每次 Save 在一个事务内重写 todos 表和计数器
type sqliteSnapshotStore struct {
	db *sql.DB
}

// NewSQLiteSnapshotStore 创建 SQLite 快照仓储
func NewSQLiteSnapshotStore(db *sql.DB) (todo.SnapshotStore, error) {
	if err := initTodoTables(db); err != nil {
		return nil, err
	}
	return &sqliteSnapshotStore{db: db}, nil
}

// initTodoTables 初始化待办表
func initTodoTables(db *sql.DB) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS todos (
		id INTEGER PRIMARY KEY,
		description TEXT NOT NULL,
		completed INTEGER NOT NULL DEFAULT 0
	);`

	if _, err := db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("failed to create todos table: %w", err)
	}

	createMetaSQL := `
	CREATE TABLE IF NOT EXISTS todo_meta (
		key TEXT PRIMARY KEY,
		value INTEGER NOT NULL
	);`

	if _, err := db.Exec(createMetaSQL); err != nil {
		return fmt.Errorf("failed to create todo_meta table: %w", err)
	}

	return nil
}

// Load 读取快照
func (s *sqliteSnapshotStore) Load(ctx context.Context) (*todo.Snapshot, error) {
	var lastID int64
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM todo_meta WHERE key = ?`, metaKeyLastID,
	).Scan(&lastID)
	if errors.Is(err, sql.ErrNoRows) {
		// 从未保存过
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query todo counter: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, description, completed
		FROM todos
		ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query todos: %w", err)
	}
	defer rows.Close()

	snapshot := &todo.Snapshot{
		LastID: uint64(lastID),
		Items:  []todo.Todo{},
	}
	for rows.Next() {
		var id int64
		var item todo.Todo
		var completed int
		if err := rows.Scan(&id, &item.Description, &completed); err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		item.ID = uint64(id)
		item.Completed = completed == 1
		snapshot.Items = append(snapshot.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate todos: %w", err)
	}

	return snapshot, nil
}

// Save 在单个事务中写入完整快照
func (s *sqliteSnapshotStore) Save(ctx context.Context, snapshot todo.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM todos`); err != nil {
		return fmt.Errorf("failed to clear todos: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO todos (id, description, completed)
		VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, item := range snapshot.Items {
		completed := 0
		if item.Completed {
			completed = 1
		}
		if _, err := stmt.ExecContext(ctx, int64(item.ID), item.Description, completed); err != nil {
			return fmt.Errorf("failed to insert todo %d: %w", item.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO todo_meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		metaKeyLastID, int64(snapshot.LastID),
	); err != nil {
		return fmt.Errorf("failed to save todo counter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// Close 关闭数据库连接
func (s *sqliteSnapshotStore) Close() error {
	return s.db.Close()
}

// 编译时检查接口实现
var _ todo.SnapshotStore = (*sqliteSnapshotStore)(nil)
