package service

import (
	"context"

	"mall_saas_202610/internal/api/dto"
	"mall_saas_202610/internal/model"
	"mall_saas_202610/internal/repository"
	"mall_saas_202610/pkg/apperr"

	"gorm.io/datatypes"
)

// SettingsService 平台设置与首页配置（均为单行）
type SettingsService struct {
	settingsRepo    repository.SettingsRepository
	defaultCurrency string
}

func NewSettingsService(settingsRepo repository.SettingsRepository, defaultCurrency string) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo, defaultCurrency: defaultCurrency}
}

// Get 未初始化时返回默认设置
func (s *SettingsService) Get(ctx context.Context) (*model.Settings, error) {
	settings, err := s.settingsRepo.GetSettings(ctx)
	if err != nil {
		return nil, internal(err)
	}
	if settings == nil {
		return &model.Settings{Currency: s.defaultCurrency}, nil
	}
	return settings, nil
}

func (s *SettingsService) Update(ctx context.Context, req *dto.SettingsReq) (*model.Settings, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	settings.CommissionPercent = req.CommissionPercent
	settings.TaxPercent = req.TaxPercent
	settings.Currency = req.Currency
	settings.SupportEmail = req.SupportEmail
	settings.SupportPhone = req.SupportPhone
	settings.MaintenanceMode = req.MaintenanceMode
	if err := s.settingsRepo.SaveSettings(ctx, settings); err != nil {
		return nil, internal(err)
	}
	return settings, nil
}

// HomePage 首页未配置时视为数据缺失
func (s *SettingsService) HomePage(ctx context.Context) (*model.HomePage, error) {
	home, err := s.settingsRepo.GetHomePage(ctx)
	if err != nil {
		return nil, internal(err)
	}
	if home == nil {
		return nil, ErrNoHomePage
	}
	return home, nil
}

func (s *SettingsService) UpdateHomePage(ctx context.Context, req *dto.HomePageReq) (*model.HomePage, error) {
	home, err := s.settingsRepo.GetHomePage(ctx)
	if err != nil {
		return nil, internal(err)
	}
	if home == nil {
		home = &model.HomePage{}
	}

	banners := make([]model.Banner, 0, len(req.Banners))
	for _, b := range req.Banners {
		banners = append(banners, model.Banner{Image: b.Image, Link: b.Link, Title: b.Title})
	}
	home.Banners = datatypes.NewJSONSlice(banners)
	home.FeaturedProductIDs = datatypes.NewJSONSlice(nonNil(req.FeaturedProductIDs))
	home.FeaturedCategoryIDs = datatypes.NewJSONSlice(nonNil(req.FeaturedCategoryIDs))

	if err := s.settingsRepo.SaveHomePage(ctx, home); err != nil {
		return nil, internal(err)
	}
	return home, nil
}

var ErrNoHomePage = apperr.NoData("Unable to get home page")
