package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/ammpool/testutil/keeper"
	"github.com/paw-chain/ammpool/x/amm/keeper"
	"github.com/paw-chain/ammpool/x/amm/types"
)

func TestMetrics_GaugesFollowPool(t *testing.T) {
	f := keepertest.NewAMMFixture(t, nil)
	keepertest.SeedPool(t, f, 30, keepertest.AccAddr("provider"), 1234, 5678)
	m := keeper.NewAMMMetrics()

	require.NoError(t, f.Keeper.RefreshGauges(f.Ctx))
	require.Equal(t, float64(1234), testutil.ToFloat64(m.TotalShares))
	require.Equal(t, float64(5678), testutil.ToFloat64(m.PoolReserves.WithLabelValues(keepertest.TokenB)))
}

func TestMetrics_SlippageRejectionCounted(t *testing.T) {
	f, trader := setupSwapPool(t, 30, 1000, 1000)
	m := keeper.NewAMMMetrics()
	before := testutil.ToFloat64(m.SlippageRejections)

	_, err := f.Keeper.Swap(f.Ctx, trader, keepertest.TokenA, math.NewInt(100), math.NewInt(1000))
	require.ErrorIs(t, err, types.ErrSlippageExceeded)
	require.Equal(t, before+1, testutil.ToFloat64(m.SlippageRejections))
}

func TestMetrics_RefreshGaugesNeedsPool(t *testing.T) {
	k, ctx, _ := keepertest.AMMKeeper(t)
	require.ErrorIs(t, k.RefreshGauges(ctx), types.ErrNotInitialized)
}
