package models

import "time"

// KVEntry is one key/value document of persisted learner state
// (progress ledger, query history).
type KVEntry struct {
	Key       string    `gorm:"primaryKey;size:128" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (KVEntry) TableName() string {
	return "kv_entries"
}
