package repository

import (
	"context"
	"testing"
	"time"

	"mall_saas_202610/internal/model"
	"mall_saas_202610/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionRepo_MarkPaidOnce(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository(testutil.NewDB(t))

	tx := &model.Transaction{UserID: 1, TenantID: 2, Amount: 1000, GatewayOrderID: "order_1", Status: model.TransactionPending}
	require.NoError(t, repo.Create(ctx, tx))

	ok, err := repo.MarkPaid(ctx, tx.ID, "pay_1", time.Now())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.MarkPaid(ctx, tx.ID, "pay_2", time.Now())
	require.NoError(t, err)
	assert.False(t, ok, "已支付的交易不能再次更新")

	got, err := repo.GetByGatewayOrderID(ctx, "order_1")
	require.NoError(t, err)
	assert.Equal(t, "pay_1", got.GatewayPaymentID)
	assert.Equal(t, model.TransactionPaid, got.Status)
}

func TestTransactionRepo_SalesByTenant(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository(testutil.NewDB(t))

	seed := []struct {
		tenant int64
		amount int64
		paid   bool
	}{
		{1, 1000, true},
		{1, 2500, true},
		{2, 700, true},
		{2, 9999, false},
	}
	for i, s := range seed {
		tx := &model.Transaction{
			UserID:         1,
			TenantID:       s.tenant,
			Amount:         s.amount,
			GatewayOrderID: "order_" + string(rune('a'+i)),
			Status:         model.TransactionPending,
		}
		require.NoError(t, repo.Create(ctx, tx))
		if s.paid {
			_, err := repo.MarkPaid(ctx, tx.ID, "pay", time.Now())
			require.NoError(t, err)
		}
	}

	rows, err := repo.SalesByTenant(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, TenantSales{TenantID: 1, OrderCount: 2, Gross: 3500}, rows[0])
	assert.Equal(t, TenantSales{TenantID: 2, OrderCount: 1, Gross: 700}, rows[1])
}
