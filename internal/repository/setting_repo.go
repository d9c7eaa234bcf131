package repository

import (
	"dollarpay/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

func (r *SettingRepository) Get(key string) (*models.PlatformSetting, error) {
	var s models.PlatformSetting
	if err := r.db.Where("setting_key = ?", key).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SettingRepository) Set(key, value, dataType string, adminID *uint) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"setting_value", "data_type", "updated_by_admin_id", "updated_at"}),
	}).Create(&models.PlatformSetting{
		SettingKey:       key,
		SettingValue:     value,
		DataType:         dataType,
		UpdatedByAdminID: adminID,
	}).Error
}

func (r *SettingRepository) GetAll() ([]models.PlatformSetting, error) {
	var list []models.PlatformSetting
	err := r.db.Order("setting_key ASC").Find(&list).Error
	return list, err
}

// SeedDefaults inserts settings that don't already exist.
func (r *SettingRepository) SeedDefaults(defaults []models.PlatformSetting) error {
	for _, d := range defaults {
		var count int64
		if err := r.db.Model(&models.PlatformSetting{}).
			Where("setting_key = ?", d.SettingKey).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := r.db.Create(&d).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
