package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/ammpool/testutil/keeper"
	"github.com/paw-chain/ammpool/x/amm/types"
)

func TestInitialize(t *testing.T) {
	admin := keepertest.AccAddr("admin")

	tests := []struct {
		name   string
		admin  sdk.AccAddress
		tokenA string
		tokenB string
		fee    uint32
		err    error
	}{
		{name: "valid pool", admin: admin, tokenA: "uatom", tokenB: "uusdc", fee: 30},
		{name: "zero fee", admin: admin, tokenA: "uatom", tokenB: "uusdc", fee: 0},
		{name: "max fee", admin: admin, tokenA: "uatom", tokenB: "uusdc", fee: 10_000},
		{name: "fee above 100%", admin: admin, tokenA: "uatom", tokenB: "uusdc", fee: 10_001, err: types.ErrInvalidFee},
		{name: "identical tokens", admin: admin, tokenA: "uatom", tokenB: "uatom", fee: 30, err: types.ErrInvalidAsset},
		{name: "invalid denom", admin: admin, tokenA: "1bad", tokenB: "uusdc", fee: 30, err: types.ErrInvalidAsset},
		{name: "empty admin", admin: sdk.AccAddress{}, tokenA: "uatom", tokenB: "uusdc", fee: 30, err: types.ErrInvalidAddress},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			k, ctx, _ := keepertest.AMMKeeper(t)

			pool, err := k.Initialize(ctx, tc.admin, tc.tokenA, tc.tokenB, tc.fee)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				require.False(t, k.HasPool(ctx))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.fee, pool.FeeBps)
			require.Equal(t, admin.String(), pool.Admin)
			require.True(t, pool.IsEmpty())

			stored, err := k.GetPool(ctx)
			require.NoError(t, err)
			requirePoolEqual(t, pool, stored)
		})
	}
}

func TestInitialize_AlreadyInitialized(t *testing.T) {
	k, ctx, _ := keepertest.AMMKeeper(t)
	admin := keepertest.AccAddr("admin")

	_, err := k.Initialize(ctx, admin, "uatom", "uusdc", 30)
	require.NoError(t, err)

	_, err = k.Initialize(ctx, admin, "uosmo", "uusdc", 5)
	require.ErrorIs(t, err, types.ErrAlreadyInitialized)

	pool, err := k.GetPool(ctx)
	require.NoError(t, err)
	require.Equal(t, "uatom", pool.TokenA)
	require.Equal(t, uint32(30), pool.FeeBps)
}

func TestInitialize_EmitsEvent(t *testing.T) {
	k, ctx, _ := keepertest.AMMKeeper(t)

	_, err := k.Initialize(ctx, keepertest.AccAddr("admin"), "uatom", "uusdc", 30)
	require.NoError(t, err)

	events := ctx.EventManager().Events()
	require.NotEmpty(t, events)
	require.Equal(t, types.EventTypeInitialize, events[len(events)-1].Type)
}

func TestQueries_NotInitialized(t *testing.T) {
	k, ctx, _ := keepertest.AMMKeeper(t)

	_, _, err := k.GetReserves(ctx)
	require.ErrorIs(t, err, types.ErrNotInitialized)

	_, err = k.GetTotalShares(ctx)
	require.ErrorIs(t, err, types.ErrNotInitialized)

	_, err = k.SimulateSwap(ctx, "uatom", math.NewInt(10))
	require.ErrorIs(t, err, types.ErrNotInitialized)

	require.True(t, k.GetShareBalance(ctx, keepertest.AccAddr("nobody")).IsZero())
}

func TestQueries_NoSideEffects(t *testing.T) {
	f := keepertest.NewAMMFixture(t, nil)
	provider := keepertest.AccAddr("provider")
	keepertest.SeedPool(t, f, 30, provider, 1000, 1000)

	before, err := f.Keeper.ExportGenesis(f.Ctx)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		a, b, err := f.Keeper.GetReserves(f.Ctx)
		require.NoError(t, err)
		requireInt(t, 1000, a)
		requireInt(t, 1000, b)

		total, err := f.Keeper.GetTotalShares(f.Ctx)
		require.NoError(t, err)
		requireInt(t, 1000, total)
		requireInt(t, 1000, f.Keeper.GetShareBalance(f.Ctx, provider))

		_, err = f.Keeper.SimulateSwap(f.Ctx, keepertest.TokenA, math.NewInt(100))
		require.NoError(t, err)
	}

	after, err := f.Keeper.ExportGenesis(f.Ctx)
	require.NoError(t, err)
	require.Equal(t, before, after)
}
