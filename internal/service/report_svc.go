package service

import (
	"context"
	"math"

	"mall_saas_202610/internal/api/dto"
	"mall_saas_202610/internal/repository"
	"mall_saas_202610/pkg/apperr"
)

// PayoutRow 商户结算
type PayoutRow struct {
	TenantID          int64   `json:"tenantId"`
	StoreName         string  `json:"storeName"`
	OrderCount        int64   `json:"orderCount"`
	Gross             int64   `json:"gross"`
	CommissionPercent float64 `json:"commissionPercent"`
	Commission        int64   `json:"commission"`
	Payout            int64   `json:"payout"`
}

type ReportService struct {
	txRepo       repository.TransactionRepository
	tenantRepo   repository.TenantRepository
	settingsRepo repository.SettingsRepository
}

func NewReportService(
	txRepo repository.TransactionRepository,
	tenantRepo repository.TenantRepository,
	settingsRepo repository.SettingsRepository,
) *ReportService {
	return &ReportService{txRepo: txRepo, tenantRepo: tenantRepo, settingsRepo: settingsRepo}
}

// Sales 已支付交易按商户汇总
func (s *ReportService) Sales(ctx context.Context, q *dto.ReportQuery) ([]repository.TenantSales, error) {
	if !q.To.IsZero() && q.To.Before(q.From) {
		return nil, ErrReportRange
	}
	rows, err := s.txRepo.SalesByTenant(ctx, q.From, q.To)
	if err != nil {
		return nil, internal(err)
	}
	if rows == nil {
		rows = []repository.TenantSales{}
	}
	return rows, nil
}

// Payouts 商户结算：佣金比例优先取商户自身，其次平台设置
func (s *ReportService) Payouts(ctx context.Context, q *dto.ReportQuery) ([]PayoutRow, error) {
	sales, err := s.Sales(ctx, q)
	if err != nil {
		return nil, err
	}

	var platformPercent float64
	settings, err := s.settingsRepo.GetSettings(ctx)
	if err != nil {
		return nil, internal(err)
	}
	if settings != nil {
		platformPercent = settings.CommissionPercent
	}

	rows := make([]PayoutRow, 0, len(sales))
	for _, sale := range sales {
		row := PayoutRow{
			TenantID:          sale.TenantID,
			OrderCount:        sale.OrderCount,
			Gross:             sale.Gross,
			CommissionPercent: platformPercent,
		}
		tenant, err := s.tenantRepo.GetByID(ctx, sale.TenantID)
		if err != nil {
			return nil, internal(err)
		}
		if tenant != nil {
			row.StoreName = tenant.StoreName
			if tenant.CommissionPercent > 0 {
				row.CommissionPercent = tenant.CommissionPercent
			}
		}
		row.Commission = int64(math.Round(float64(sale.Gross) * row.CommissionPercent / 100))
		row.Payout = sale.Gross - row.Commission
		rows = append(rows, row)
	}
	return rows, nil
}

var ErrReportRange = apperr.BadRequest("'to' must not be before 'from'")
