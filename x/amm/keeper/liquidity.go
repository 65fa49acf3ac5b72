package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/ammpool/x/amm/types"
)

// AddLiquidity deposits (amountA, amountB) from provider and mints shares.
//
// Shares are priced by types.CalculateMintShares. Both amounts are pulled from
// the provider and credited to the reserves in full; AmountUsedA/B in the result
// show how much of each side backs the minted shares.
func (k Keeper) AddLiquidity(ctx context.Context, provider sdk.AccAddress, amountA, amountB math.Int) (types.AddLiquidityResult, error) {
	res, err := k.addLiquidity(ctx, provider, amountA, amountB)
	if err != nil {
		k.recordFailure(ctx, "add_liquidity", err)
		return types.AddLiquidityResult{}, err
	}
	return res, nil
}

func (k Keeper) addLiquidity(ctx context.Context, provider sdk.AccAddress, amountA, amountB math.Int) (types.AddLiquidityResult, error) {
	if err := validateAccount("provider", provider); err != nil {
		return types.AddLiquidityResult{}, err
	}
	pool, err := k.GetPool(ctx)
	if err != nil {
		return types.AddLiquidityResult{}, err
	}

	minted, err := types.CalculateMintShares(amountA, amountB, pool.Reserves, pool.TotalShares)
	if err != nil {
		return types.AddLiquidityResult{}, err
	}

	next := pool
	if next.Reserves, err = pool.Reserves.ApplyDeposit(amountA, amountB); err != nil {
		return types.AddLiquidityResult{}, err
	}
	if next.TotalShares, err = types.SafeAdd(pool.TotalShares, minted.Shares); err != nil {
		return types.AddLiquidityResult{}, err
	}
	next.Version++
	if err := next.Validate(); err != nil {
		return types.AddLiquidityResult{}, err
	}

	err = k.atomically(ctx, func(cacheCtx sdk.Context) error {
		if err := k.transfer(cacheCtx, provider, k.poolAddr, pool.TokenA, amountA); err != nil {
			return err
		}
		if err := k.transfer(cacheCtx, provider, k.poolAddr, pool.TokenB, amountB); err != nil {
			return err
		}
		if _, err := k.mintShares(cacheCtx, provider, minted.Shares); err != nil {
			return err
		}
		if err := k.setPool(cacheCtx, next); err != nil {
			return err
		}

		cacheCtx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeAddLiquidity,
				sdk.NewAttribute(types.AttributeKeyProvider, provider.String()),
				sdk.NewAttribute(types.AttributeKeyAmountA, amountA.String()),
				sdk.NewAttribute(types.AttributeKeyAmountB, amountB.String()),
				sdk.NewAttribute(types.AttributeKeyShares, minted.Shares.String()),
				sdk.NewAttribute(types.AttributeKeyPoolVersion, fmt.Sprintf("%d", next.Version)),
			),
		)
		return nil
	})
	if err != nil {
		return types.AddLiquidityResult{}, err
	}

	k.Logger(ctx).Info("liquidity added",
		"provider", provider.String(),
		"amount_a", amountA.String(),
		"amount_b", amountB.String(),
		"shares", minted.Shares.String(),
	)
	k.metrics.OperationsTotal.WithLabelValues("add_liquidity", "success").Inc()
	k.metrics.LiquidityAdded.WithLabelValues(pool.TokenA).Add(toFloat(amountA))
	k.metrics.LiquidityAdded.WithLabelValues(pool.TokenB).Add(toFloat(amountB))
	k.recordPoolGauges(next)

	return types.AddLiquidityResult{
		SharesMinted: minted.Shares,
		AmountUsedA:  minted.AmountUsedA,
		AmountUsedB:  minted.AmountUsedB,
	}, nil
}

// RemoveLiquidity burns shares held by provider and pays out the proportional
// part of both reserves.
func (k Keeper) RemoveLiquidity(ctx context.Context, provider sdk.AccAddress, shares math.Int) (math.Int, math.Int, error) {
	amountA, amountB, err := k.removeLiquidity(ctx, provider, shares)
	if err != nil {
		k.recordFailure(ctx, "remove_liquidity", err)
		return math.ZeroInt(), math.ZeroInt(), err
	}
	return amountA, amountB, nil
}

func (k Keeper) removeLiquidity(ctx context.Context, provider sdk.AccAddress, shares math.Int) (math.Int, math.Int, error) {
	if err := validateAccount("provider", provider); err != nil {
		return math.Int{}, math.Int{}, err
	}
	if err := types.ValidateAmount("shares", shares); err != nil {
		return math.Int{}, math.Int{}, err
	}
	pool, err := k.GetPool(ctx)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	if pool.TotalShares.IsZero() {
		return math.Int{}, math.Int{}, types.ErrPoolEmpty.Wrap("pool has no shares to burn")
	}
	if held := k.GetShareBalance(ctx, provider); shares.GT(held) {
		return math.Int{}, math.Int{}, types.ErrInsufficientShares.Wrapf("have %s, need %s", held, shares)
	}

	amountA, amountB, err := types.CalculateBurnAmounts(shares, pool.Reserves, pool.TotalShares)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	if amountA.IsZero() && amountB.IsZero() {
		return math.Int{}, math.Int{}, types.ErrInvalidAmount.Wrapf("burning %s shares returns nothing", shares)
	}

	next := pool
	if next.Reserves, err = pool.Reserves.ApplyWithdrawal(amountA, amountB); err != nil {
		return math.Int{}, math.Int{}, err
	}
	next.TotalShares = pool.TotalShares.Sub(shares)
	next.Version++
	if err := next.Validate(); err != nil {
		return math.Int{}, math.Int{}, err
	}

	err = k.atomically(ctx, func(cacheCtx sdk.Context) error {
		if _, err := k.burnShares(cacheCtx, provider, shares); err != nil {
			return err
		}
		if err := k.setPool(cacheCtx, next); err != nil {
			return err
		}
		if err := k.transfer(cacheCtx, k.poolAddr, provider, pool.TokenA, amountA); err != nil {
			return err
		}
		if err := k.transfer(cacheCtx, k.poolAddr, provider, pool.TokenB, amountB); err != nil {
			return err
		}

		cacheCtx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeRemoveLiquidity,
				sdk.NewAttribute(types.AttributeKeyProvider, provider.String()),
				sdk.NewAttribute(types.AttributeKeyAmountA, amountA.String()),
				sdk.NewAttribute(types.AttributeKeyAmountB, amountB.String()),
				sdk.NewAttribute(types.AttributeKeyShares, shares.String()),
				sdk.NewAttribute(types.AttributeKeyPoolVersion, fmt.Sprintf("%d", next.Version)),
			),
		)
		return nil
	})
	if err != nil {
		return math.Int{}, math.Int{}, err
	}

	k.Logger(ctx).Info("liquidity removed",
		"provider", provider.String(),
		"amount_a", amountA.String(),
		"amount_b", amountB.String(),
		"shares", shares.String(),
	)
	k.metrics.OperationsTotal.WithLabelValues("remove_liquidity", "success").Inc()
	k.metrics.LiquidityRemoved.WithLabelValues(pool.TokenA).Add(toFloat(amountA))
	k.metrics.LiquidityRemoved.WithLabelValues(pool.TokenB).Add(toFloat(amountB))
	k.recordPoolGauges(next)

	return amountA, amountB, nil
}
