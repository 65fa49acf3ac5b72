package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/ammpool/x/amm/types"
)

// HasPool reports whether the pool has been initialized.
func (k Keeper) HasPool(ctx context.Context) bool {
	return k.getStore(ctx).Has(types.PoolKey)
}

// GetPool returns the pool record.
func (k Keeper) GetPool(ctx context.Context) (types.Pool, error) {
	bz := k.getStore(ctx).Get(types.PoolKey)
	if bz == nil {
		return types.Pool{}, types.ErrNotInitialized
	}
	return types.UnmarshalPool(bz)
}

// setPool writes the whole pool record in a single store entry.
func (k Keeper) setPool(ctx context.Context, pool types.Pool) error {
	bz, err := types.MarshalPool(pool)
	if err != nil {
		return err
	}
	k.getStore(ctx).Set(types.PoolKey, bz)
	return nil
}

// Initialize creates the pool. It can only succeed once per store.
func (k Keeper) Initialize(ctx context.Context, admin sdk.AccAddress, tokenA, tokenB string, feeBps uint32) (types.Pool, error) {
	if k.HasPool(ctx) {
		return types.Pool{}, types.ErrAlreadyInitialized
	}
	if err := validateAccount("admin", admin); err != nil {
		return types.Pool{}, err
	}
	if err := types.ValidateConfig(tokenA, tokenB, feeBps); err != nil {
		return types.Pool{}, err
	}

	pool := types.NewPool(admin, tokenA, tokenB, feeBps)
	pool.Version = 1
	if err := pool.Validate(); err != nil {
		return types.Pool{}, err
	}

	err := k.atomically(ctx, func(cacheCtx sdk.Context) error {
		if err := k.setPool(cacheCtx, pool); err != nil {
			return err
		}
		cacheCtx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeInitialize,
				sdk.NewAttribute(types.AttributeKeyAdmin, pool.Admin),
				sdk.NewAttribute(types.AttributeKeyTokenA, tokenA),
				sdk.NewAttribute(types.AttributeKeyTokenB, tokenB),
				sdk.NewAttribute(types.AttributeKeyFeeBps, fmt.Sprintf("%d", feeBps)),
			),
		)
		return nil
	})
	if err != nil {
		return types.Pool{}, err
	}

	k.Logger(ctx).Info("pool initialized", "token_a", tokenA, "token_b", tokenB, "fee_bps", feeBps, "admin", pool.Admin)
	k.metrics.OperationsTotal.WithLabelValues("initialize", "success").Inc()
	return pool, nil
}

// GetReserves returns the current (reserve_a, reserve_b).
func (k Keeper) GetReserves(ctx context.Context) (math.Int, math.Int, error) {
	pool, err := k.GetPool(ctx)
	if err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}
	return pool.Reserves.ReserveA, pool.Reserves.ReserveB, nil
}

// GetTotalShares returns the number of liquidity shares outstanding.
func (k Keeper) GetTotalShares(ctx context.Context) (math.Int, error) {
	pool, err := k.GetPool(ctx)
	if err != nil {
		return math.ZeroInt(), err
	}
	return pool.TotalShares, nil
}

// RefreshGauges exports the stored pool state to the reserve and share gauges.
func (k Keeper) RefreshGauges(ctx context.Context) error {
	pool, err := k.GetPool(ctx)
	if err != nil {
		return err
	}
	k.recordPoolGauges(pool)
	return nil
}

// recordPoolGauges exports the committed pool state.
func (k Keeper) recordPoolGauges(pool types.Pool) {
	k.metrics.PoolReserves.WithLabelValues(pool.TokenA).Set(toFloat(pool.Reserves.ReserveA))
	k.metrics.PoolReserves.WithLabelValues(pool.TokenB).Set(toFloat(pool.Reserves.ReserveB))
	k.metrics.TotalShares.Set(toFloat(pool.TotalShares))
}

// recordFailure counts and logs an aborted operation.
func (k Keeper) recordFailure(ctx context.Context, op string, err error) {
	k.metrics.OperationsTotal.WithLabelValues(op, "failed").Inc()
	k.Logger(ctx).Debug("pool operation aborted", "operation", op, "error", err)
}
