// Package gorm contains GORM models for locally persisted client state
package gorm

import "time"

// SessionEntryModel is one key/value pair of the local session storage
type SessionEntryModel struct {
	Key       string    `gorm:"column:name;primaryKey;size:64"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (SessionEntryModel) TableName() string {
	return "session_entries"
}
