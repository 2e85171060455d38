package repository

import (
	"context"
	"errors"

	"mall_saas_202610/internal/model"

	"gorm.io/gorm"
)

// SettingsRepository 单行配置仓库（平台设置、首页）
type SettingsRepository interface {
	GetSettings(ctx context.Context) (*model.Settings, error)
	SaveSettings(ctx context.Context, s *model.Settings) error
	GetHomePage(ctx context.Context) (*model.HomePage, error)
	SaveHomePage(ctx context.Context, h *model.HomePage) error
}

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository 创建配置仓库
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

// GetSettings 未初始化时返回 nil, nil
func (r *settingsRepository) GetSettings(ctx context.Context) (*model.Settings, error) {
	var s model.Settings
	err := r.db.WithContext(ctx).Order("id ASC").First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SaveSettings ID 为 0 时新建
func (r *settingsRepository) SaveSettings(ctx context.Context, s *model.Settings) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *settingsRepository) GetHomePage(ctx context.Context) (*model.HomePage, error) {
	var h model.HomePage
	err := r.db.WithContext(ctx).Order("id ASC").First(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *settingsRepository) SaveHomePage(ctx context.Context, h *model.HomePage) error {
	return r.db.WithContext(ctx).Save(h).Error
}
