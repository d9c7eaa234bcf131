package models

import (
	"time"
)

// PlatformSetting stores admin-configurable key/value settings.
// The engine never writes these; admins do.
type PlatformSetting struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	SettingKey       string    `gorm:"uniqueIndex;size:50;not null" json:"setting_key"`
	SettingValue     string    `gorm:"type:text;not null" json:"setting_value"`
	DataType         string    `gorm:"size:20;not null;default:'string'" json:"data_type"` // string, number, boolean, json
	Description      string    `gorm:"type:text" json:"description,omitempty"`
	UpdatedByAdminID *uint     `json:"updated_by_admin_id,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (PlatformSetting) TableName() string { return "platform_settings" }
