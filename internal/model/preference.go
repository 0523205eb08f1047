package model

import "time"

// Preference 本地键值设置
type Preference struct {
	Key       string `gorm:"primaryKey;type:varchar(64)"`
	Value     string `gorm:"type:varchar(1024);not null"`
	UpdatedAt time.Time
}

func (Preference) TableName() string { return "preferences" }
