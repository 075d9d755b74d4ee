package kvstore

import "fmt"

// Store 持久化键值存储接口（所有状态以 JSON 序列化存取）。
// 写入语义为 last-write-wins，多进程共享同一存储文件不受支持。
type Store interface {
	// Get 读取 key 并反序列化到 out，key 不存在时返回 (false, nil)
	Get(key string, out interface{}) (bool, error)
	// Set 序列化 value 并写入 key
	Set(key string, value interface{}) error
	// Remove 删除 key（不存在时视为成功）
	Remove(key string) error
}

// StorageError 存储操作失败（包含操作与键，便于日志定位）
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("kvstore: %s %q failed: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func newStorageError(op, key string, err error) *StorageError {
	return &StorageError{Op: op, Key: key, Err: err}
}
