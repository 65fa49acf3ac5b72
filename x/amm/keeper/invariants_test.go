package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/ammpool/testutil/keeper"
	"github.com/paw-chain/ammpool/x/amm/keeper"
	"github.com/paw-chain/ammpool/x/amm/types"
)

type routeRecorder struct {
	routes map[string]sdk.Invariant
}

func (r *routeRecorder) RegisterRoute(moduleName, route string, invar sdk.Invariant) {
	r.routes[moduleName+"/"+route] = invar
}

func TestRegisterInvariants(t *testing.T) {
	k, _, _ := keepertest.AMMKeeper(t)
	rec := &routeRecorder{routes: make(map[string]sdk.Invariant)}

	keeper.RegisterInvariants(rec, k)
	require.Len(t, rec.routes, 3)
	require.Contains(t, rec.routes, "amm/share-sum")
	require.Contains(t, rec.routes, "amm/pool-state")
	require.Contains(t, rec.routes, "amm/reserve-backing")
}

func TestInvariants_HoldThroughOperations(t *testing.T) {
	f := keepertest.NewAMMFixture(t, nil)
	alice := keepertest.AccAddr("alice")
	bob := keepertest.AccAddr("bob")
	keepertest.SeedPool(t, f, 30, alice, 10_000, 20_000)
	keepertest.Fund(t, f.Ledger, f.Ctx, bob, sdk.NewInt64Coin(keepertest.TokenA, 50_000), sdk.NewInt64Coin(keepertest.TokenB, 50_000))

	check := func() {
		t.Helper()
		msg, broken := keeper.AllInvariants(f.Keeper)(f.Ctx)
		require.False(t, broken, msg)
	}

	check()
	_, err := f.Keeper.AddLiquidity(f.Ctx, bob, math.NewInt(3_000), math.NewInt(7_000))
	require.NoError(t, err)
	check()
	_, err = f.Keeper.Swap(f.Ctx, bob, keepertest.TokenA, math.NewInt(2_500), math.ZeroInt())
	require.NoError(t, err)
	check()
	_, _, err = f.Keeper.RemoveLiquidity(f.Ctx, alice, math.NewInt(4_000))
	require.NoError(t, err)
	check()
	_, _, err = f.Keeper.RemoveLiquidity(f.Ctx, bob, f.Keeper.GetShareBalance(f.Ctx, bob))
	require.NoError(t, err)
	check()
	_, _, err = f.Keeper.RemoveLiquidity(f.Ctx, alice, f.Keeper.GetShareBalance(f.Ctx, alice))
	require.NoError(t, err)
	check()
}

func TestInvariants_UninitializedPoolIsNotBroken(t *testing.T) {
	k, ctx, _ := keepertest.AMMKeeper(t)

	_, broken := keeper.AllInvariants(k)(ctx)
	require.False(t, broken)
}

func TestReserveBackingInvariant_DetectsMissingFunds(t *testing.T) {
	f := keepertest.NewAMMFixture(t, nil)
	keepertest.SeedPool(t, f, 30, keepertest.AccAddr("alice"), 1000, 1000)

	// drain the pool account behind the keeper's back
	sink := keepertest.AccAddr("sink")
	require.NoError(t, f.Ledger.SendCoins(f.Ctx, f.Keeper.PoolAddress(), sink, sdk.NewCoins(sdk.NewInt64Coin(keepertest.TokenB, 1))))

	msg, broken := keeper.ReserveBackingInvariant(f.Keeper)(f.Ctx)
	require.True(t, broken)
	require.Contains(t, msg, keepertest.TokenB)
}

func TestShareSumInvariant_AfterGenesisImport(t *testing.T) {
	f := keepertest.NewAMMFixture(t, nil)
	alice := keepertest.AccAddr("alice")
	keepertest.SeedPool(t, f, 30, alice, 1000, 1000)

	gen, err := f.Keeper.ExportGenesis(f.Ctx)
	require.NoError(t, err)

	g := keepertest.NewAMMFixture(t, nil)
	require.NoError(t, g.Keeper.InitGenesis(g.Ctx, *gen))
	msg, broken := keeper.ShareSumInvariant(g.Keeper)(g.Ctx)
	require.False(t, broken, msg)

	// a genesis whose total disagrees with the records never reaches the store
	pool := *gen.Pool
	pool.TotalShares = math.NewInt(999)
	pool.Reserves = types.NewReservePair(math.NewInt(999), math.NewInt(999))
	gen.Pool = &pool
	require.ErrorIs(t, gen.Validate(), types.ErrInvariantViolation)
	h := keepertest.NewAMMFixture(t, nil)
	require.Error(t, h.Keeper.InitGenesis(h.Ctx, *gen))
	require.False(t, h.Keeper.HasPool(h.Ctx))
}
