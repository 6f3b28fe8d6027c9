package model

import "time"

// Entry is a row of the key-value table that backs the roster payload.
type Entry struct {
	StorageKey string `gorm:"primaryKey;size:191"`
	Value      string `gorm:"type:text;not null"`
	UpdatedAt  time.Time
}

func (Entry) TableName() string {
	return "kv_entries"
}
