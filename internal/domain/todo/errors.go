package todo

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound 待办不存在
	ErrNotFound = errors.New("todo item not found")
	// ErrPersistence 持久化失败
	ErrPersistence = errors.New("todo persistence failed")
)

// PersistenceError 持久化失败错误
// 发生时内存状态已回滚到调用前
type PersistenceError struct {
	// Op 失败的操作，如 create、update、restore
	Op string
	// Err 底层错误
	Err error
}

// Error 返回错误描述
func (e *PersistenceError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrPersistence, e.Err)
}

// Unwrap 返回底层错误
func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}
