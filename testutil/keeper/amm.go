package keeper

import (
	"testing"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtcrypto "github.com/cometbft/cometbft/crypto"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/ammpool/x/amm/keeper"
	"github.com/paw-chain/ammpool/x/amm/types"
	ledgerkeeper "github.com/paw-chain/ammpool/x/ledger/keeper"
	ledgertypes "github.com/paw-chain/ammpool/x/ledger/types"
)

// AMMFixture bundles an AMM keeper with the ledger it settles through. Both
// stores are mounted on the same multistore so a CacheContext covers them.
type AMMFixture struct {
	Keeper keeper.Keeper
	Ledger ledgerkeeper.Keeper
	Ctx    sdk.Context
}

// AMMKeeper creates a test keeper for the AMM module backed by a real ledger.
func AMMKeeper(t testing.TB) (keeper.Keeper, sdk.Context, ledgerkeeper.Keeper) {
	f := NewAMMFixture(t, nil)
	return f.Keeper, f.Ctx, f.Ledger
}

// NewAMMFixture builds the fixture. wrap, when set, decorates the ledger seen
// by the AMM keeper (e.g. to inject transfer failures).
func NewAMMFixture(t testing.TB, wrap func(types.AssetLedger) types.AssetLedger) *AMMFixture {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	ledgerKey := storetypes.NewKVStoreKey(ledgertypes.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(ledgerKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	ledger := ledgerkeeper.NewKeeper(ledgerKey)
	var assetLedger types.AssetLedger = ledger
	if wrap != nil {
		assetLedger = wrap(ledger)
	}

	ctx := sdk.NewContext(stateStore, cmtproto.Header{}, false, log.NewNopLogger())

	return &AMMFixture{
		Keeper: keeper.NewKeeper(storeKey, assetLedger),
		Ledger: ledger,
		Ctx:    ctx,
	}
}

// AccAddr derives a deterministic test address from a name.
func AccAddr(name string) sdk.AccAddress {
	return sdk.AccAddress(cmtcrypto.AddressHash([]byte(name)))
}

// Fund mints amounts of the given denoms to addr.
func Fund(t testing.TB, ledger ledgerkeeper.Keeper, ctx sdk.Context, addr sdk.AccAddress, coins ...sdk.Coin) {
	require.NoError(t, ledger.MintCoins(ctx, addr, sdk.NewCoins(coins...)))
}

// SeedPool initializes the pool with fee and has provider deposit (amountA, amountB).
func SeedPool(t testing.TB, f *AMMFixture, feeBps uint32, provider sdk.AccAddress, amountA, amountB int64) {
	_, err := f.Keeper.Initialize(f.Ctx, AccAddr("admin"), TokenA, TokenB, feeBps)
	require.NoError(t, err)
	Fund(t, f.Ledger, f.Ctx, provider, sdk.NewInt64Coin(TokenA, amountA), sdk.NewInt64Coin(TokenB, amountB))
	_, err = f.Keeper.AddLiquidity(f.Ctx, provider, math.NewInt(amountA), math.NewInt(amountB))
	require.NoError(t, err)
}

// Test pool denoms
const (
	TokenA = "uatom"
	TokenB = "uusdc"
)
