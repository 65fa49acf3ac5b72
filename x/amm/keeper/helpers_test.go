package keeper_test

import (
	"context"
	"errors"
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/ammpool/testutil/keeper"
	"github.com/paw-chain/ammpool/x/amm/types"
)

func requireInt(t testing.TB, want int64, got math.Int) {
	t.Helper()
	require.True(t, math.NewInt(want).Equal(got), "expected %d, got %s", want, got)
}

func requirePoolEqual(t testing.TB, want, got types.Pool) {
	t.Helper()
	wantBz, err := types.MarshalPool(want)
	require.NoError(t, err)
	gotBz, err := types.MarshalPool(got)
	require.NoError(t, err)
	require.JSONEq(t, string(wantBz), string(gotBz))
}

// snapshot captures everything an operation could touch: the pool record, the
// share ledger and the ledger balances of the given accounts.
type snapshot struct {
	genesis  *types.GenesisState
	balances map[string]string
}

func takeSnapshot(t testing.TB, f *keepertest.AMMFixture, accounts ...sdk.AccAddress) snapshot {
	t.Helper()
	gen, err := f.Keeper.ExportGenesis(f.Ctx)
	require.NoError(t, err)

	balances := make(map[string]string)
	for _, acc := range append(accounts, f.Keeper.PoolAddress()) {
		for _, denom := range []string{keepertest.TokenA, keepertest.TokenB} {
			balances[acc.String()+"/"+denom] = f.Ledger.GetBalance(f.Ctx, acc, denom).String()
		}
	}
	return snapshot{genesis: gen, balances: balances}
}

func requireUnchanged(t testing.TB, before snapshot, f *keepertest.AMMFixture, accounts ...sdk.AccAddress) {
	t.Helper()
	after := takeSnapshot(t, f, accounts...)
	require.Equal(t, before.balances, after.balances)
	if before.genesis.Pool == nil {
		require.Nil(t, after.genesis.Pool)
		return
	}
	requirePoolEqual(t, *before.genesis.Pool, *after.genesis.Pool)
	require.Len(t, after.genesis.Shares, len(before.genesis.Shares))
	for i := range before.genesis.Shares {
		require.Equal(t, before.genesis.Shares[i].Provider, after.genesis.Shares[i].Provider)
		require.True(t, before.genesis.Shares[i].Shares.Equal(after.genesis.Shares[i].Shares))
	}
}

var errLedgerDown = errors.New("ledger unavailable")

// flakyLedger fails the failOn-th SendCoins call.
type flakyLedger struct {
	types.AssetLedger
	failOn int
	calls  int
}

func (l *flakyLedger) SendCoins(ctx context.Context, from, to sdk.AccAddress, amt sdk.Coins) error {
	l.calls++
	if l.calls == l.failOn {
		return errLedgerDown
	}
	return l.AssetLedger.SendCoins(ctx, from, to, amt)
}

func newFlakyFixture(t testing.TB) (*keepertest.AMMFixture, *flakyLedger) {
	var flaky *flakyLedger
	f := keepertest.NewAMMFixture(t, func(l types.AssetLedger) types.AssetLedger {
		flaky = &flakyLedger{AssetLedger: l}
		return flaky
	})
	return f, flaky
}
