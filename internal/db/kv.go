package db

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sqlgram/sqlgram/internal/kv"
	"github.com/sqlgram/sqlgram/internal/models"
)

// KVStore exposes the kv_entries table as a kv.Store.
type KVStore struct {
	db *DB
}

var _ kv.Store = (*KVStore)(nil)

// KV returns the key/value view of the database.
func (db *DB) KV() *KVStore {
	return &KVStore{db: db}
}

// Get returns the document stored under key.
func (s *KVStore) Get(key string) ([]byte, bool, error) {
	var entry models.KVEntry
	err := s.db.Where("key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(entry.Value), true, nil
}

// Set upserts the document stored under key.
func (s *KVStore) Set(key string, value []byte) error {
	entry := models.KVEntry{Key: key, Value: string(value)}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

// Delete removes the document stored under key.
func (s *KVStore) Delete(key string) error {
	return s.db.Where("key = ?", key).Delete(&models.KVEntry{}).Error
}
