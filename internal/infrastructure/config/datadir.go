package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	// EnvDataDir 数据目录环境变量名
	EnvDataDir = "TODOD_DATA_DIR"
	// DefaultDataDirName 默认数据目录名（位于用户主目录下）
	DefaultDataDirName = ".todod"
)

// 各存储驱动在数据目录下的默认文件名
var defaultStorageNames = map[string]string{
	DriverSQLite: "todod.db",
	DriverBadger: "badger",
	DriverFile:   "todos.json",
}

var (
	dataDirOnce sync.Once
	dataDirPath string
)

// GetDataDir 获取数据根目录，结果在进程内缓存
// TODOD_DATA_DIR 优先，支持 ~ 前缀；否则为 ~/.todod，取不到主目录时退回相对路径
func GetDataDir() string {
	dataDirOnce.Do(func() {
		if dir := os.Getenv(EnvDataDir); dir != "" {
			dataDirPath = ExpandHome(dir)
			return
		}
		homeDir, err := os.UserHomeDir()
		if err != nil {
			dataDirPath = DefaultDataDirName
			return
		}
		dataDirPath = filepath.Join(homeDir, DefaultDataDirName)
	})
	return dataDirPath
}

// ResetDataDir 清除缓存，仅供测试使用
func ResetDataDir() {
	dataDirOnce = sync.Once{}
	dataDirPath = ""
}

// ExpandHome 将 "~" 或 "~/" 开头的路径展开为用户主目录
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~"))
}

// DefaultStoragePath 返回驱动在数据目录下的默认存储位置
// 未知驱动按 sqlite 处理
func DefaultStoragePath(driver string) string {
	name, ok := defaultStorageNames[driver]
	if !ok {
		name = defaultStorageNames[DriverSQLite]
	}
	return filepath.Join(GetDataDir(), name)
}
