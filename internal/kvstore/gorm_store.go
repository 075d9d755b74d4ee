package kvstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopfront-next/internal/models"

	"github.com/glebarez/sqlite" // 纯 Go SQLite 驱动（基于 modernc.org/sqlite）
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormStore 基于 gorm + sqlite 的键值存储实现
type GormStore struct {
	db     *gorm.DB
	prefix string
}

// Open 打开（或创建）本地存储并迁移表结构
func Open(driver, dsn, prefix string) (*GormStore, error) {
	normalized := strings.ToLower(strings.TrimSpace(driver))
	switch normalized {
	case "", "sqlite":
		// 本地嵌入式存储只支持 sqlite
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", driver)
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&models.StoreRecord{}); err != nil {
		return nil, err
	}
	return &GormStore{db: db, prefix: strings.TrimSpace(prefix)}, nil
}

// NewGormStore 用已有连接创建存储（测试用）
func NewGormStore(db *gorm.DB, prefix string) *GormStore {
	return &GormStore{db: db, prefix: strings.TrimSpace(prefix)}
}

// Get 读取 key 并反序列化到 out
func (s *GormStore) Get(key string, out interface{}) (bool, error) {
	var record models.StoreRecord
	err := s.db.Where("key = ?", s.namespaced(key)).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, newStorageError("get", key, err)
	}
	if err := json.Unmarshal(record.ValueJSON, out); err != nil {
		return false, newStorageError("decode", key, err)
	}
	return true, nil
}

// Set 序列化 value 并写入 key（存在则覆盖）
func (s *GormStore) Set(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return newStorageError("encode", key, err)
	}

	record := models.StoreRecord{Key: s.namespaced(key), ValueJSON: data}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.StoreRecord
		findErr := tx.Where("key = ?", record.Key).First(&existing).Error
		if errors.Is(findErr, gorm.ErrRecordNotFound) {
			return tx.Create(&record).Error
		}
		if findErr != nil {
			return findErr
		}
		existing.ValueJSON = data
		return tx.Save(&existing).Error
	})
	if err != nil {
		return newStorageError("set", key, err)
	}
	return nil
}

// Remove 删除 key
func (s *GormStore) Remove(key string) error {
	err := s.db.Where("key = ?", s.namespaced(key)).
		Delete(&models.StoreRecord{}).Error
	if err != nil {
		return newStorageError("remove", key, err)
	}
	return nil
}

func (s *GormStore) namespaced(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + ":" + key
}
