package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/ammpool/x/amm/types"
)

// Keeper of the amm store
type Keeper struct {
	storeKey storetypes.StoreKey
	ledger   types.AssetLedger
	poolAddr sdk.AccAddress
	metrics  *AMMMetrics
}

// NewKeeper creates a new amm Keeper instance
func NewKeeper(key storetypes.StoreKey, ledger types.AssetLedger) Keeper {
	return Keeper{
		storeKey: key,
		ledger:   ledger,
		poolAddr: types.PoolAddress(),
		metrics:  NewAMMMetrics(),
	}
}

// getStore returns the KVStore for the amm module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.KVStore(k.storeKey)
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx context.Context) log.Logger {
	return sdk.UnwrapSDKContext(ctx).Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

// PoolAddress returns the ledger account holding the pool reserves.
func (k Keeper) PoolAddress() sdk.AccAddress {
	return k.poolAddr
}

// atomically runs fn against a cached branch of the state. The branch, including
// any ledger transfers made through it, is written back only when fn succeeds.
func (k Keeper) atomically(ctx context.Context, fn func(cacheCtx sdk.Context) error) error {
	cacheCtx, writeFn := sdk.UnwrapSDKContext(ctx).CacheContext()
	if err := fn(cacheCtx); err != nil {
		return err
	}
	writeFn()
	return nil
}

// transfer instructs the asset ledger to move amount of asset. Zero amounts are
// not sent.
func (k Keeper) transfer(ctx context.Context, from, to sdk.AccAddress, asset string, amount math.Int) error {
	if amount.IsZero() {
		return nil
	}
	coins := sdk.NewCoins(sdk.NewCoin(asset, amount))
	if err := k.ledger.SendCoins(ctx, from, to, coins); err != nil {
		return types.ErrTransferFailed.Wrapf("send %s from %s to %s: %v", coins, from, to, err)
	}
	return nil
}

func validateAccount(name string, addr sdk.AccAddress) error {
	if err := sdk.VerifyAddressFormat(addr); err != nil {
		return types.ErrInvalidAddress.Wrapf("%s: %v", name, err)
	}
	return nil
}
