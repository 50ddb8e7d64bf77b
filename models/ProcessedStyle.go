package models

import (
	"time"

	"gorm.io/gorm"
)

// ProcessedStyle is one cached, already-transformed stylesheet, addressed by
// the sanitized source identifier and fingerprinted by content hash.
type ProcessedStyle struct {
	ID        uint   `gorm:"primaryKey"`
	Key       string `gorm:"size:255;uniqueIndex;not null"`
	SourceID  string `gorm:"size:255;not null"`
	Component string `gorm:"size:255"`
	CSS       string `gorm:"type:text;not null"`
	Hash      string `gorm:"size:64;index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
