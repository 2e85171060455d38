package fanout

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettleAll_CollectsEveryOutcome(t *testing.T) {
	var ran int32
	boom := errors.New("boom")

	outcomes := SettleAll(context.Background(), 0,
		func(ctx context.Context) error { atomic.AddInt32(&ran, 1); return nil },
		func(ctx context.Context) error { atomic.AddInt32(&ran, 1); return boom },
		func(ctx context.Context) error { atomic.AddInt32(&ran, 1); return nil },
	)

	require.Len(t, outcomes, 3)
	assert.Equal(t, int32(3), atomic.LoadInt32(&ran), "失败的子任务不应中断其他子任务")
	assert.True(t, outcomes[0].OK())
	assert.ErrorIs(t, outcomes[1].Err, boom)
	assert.True(t, outcomes[2].OK())

	failed := Failed(outcomes)
	require.Len(t, failed, 1)
	assert.Equal(t, 1, failed[0].Index)
}

func TestSettleAll_PanicBecomesError(t *testing.T) {
	outcomes := SettleAll(context.Background(), 2,
		func(ctx context.Context) error { panic("bad") },
		func(ctx context.Context) error { return nil },
	)

	var pe *PanicError
	assert.ErrorAs(t, outcomes[0].Err, &pe)
	assert.True(t, outcomes[1].OK())
}

func TestSettleAll_Empty(t *testing.T) {
	assert.Empty(t, SettleAll(context.Background(), 0))
}
