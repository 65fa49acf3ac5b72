package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/ammpool/x/amm/types"
)

// Swap trades amountIn of assetIn for the other pool asset.
//
// A swap moves through Quoted -> Validated -> Committed. A quote below
// minAmountOut is rejected with ErrSlippageExceeded before anything is
// written or transferred. The quoted amount is final; nothing adjusts it
// between quoting and settlement.
func (k Keeper) Swap(ctx context.Context, trader sdk.AccAddress, assetIn string, amountIn, minAmountOut math.Int) (math.Int, error) {
	quote, err := k.executeSwap(ctx, trader, assetIn, amountIn, minAmountOut)
	if err != nil {
		k.recordFailure(ctx, "swap", err)
		return math.ZeroInt(), err
	}
	return quote.AmountOut, nil
}

func (k Keeper) executeSwap(ctx context.Context, trader sdk.AccAddress, assetIn string, amountIn, minAmountOut math.Int) (types.SwapQuote, error) {
	if err := validateAccount("trader", trader); err != nil {
		return types.SwapQuote{}, err
	}
	if err := types.ValidateAmount("min_amount_out", minAmountOut); err != nil {
		return types.SwapQuote{}, err
	}
	pool, err := k.GetPool(ctx)
	if err != nil {
		return types.SwapQuote{}, err
	}
	side, err := pool.SideOf(assetIn)
	if err != nil {
		return types.SwapQuote{}, err
	}
	assetOut := pool.Token(side.Opposite())

	// Quoted
	reserveIn, reserveOut := pool.Reserves.Oriented(side)
	quote, err := types.QuoteSwap(reserveIn, reserveOut, amountIn, pool.FeeBps)
	if err != nil {
		return types.SwapQuote{}, err
	}
	if quote.AmountOut.LT(minAmountOut) {
		k.metrics.SlippageRejections.Inc()
		k.metrics.SwapsTotal.WithLabelValues(assetIn, assetOut, "rejected").Inc()
		return types.SwapQuote{}, types.ErrSlippageExceeded.Wrapf("expected at least %s, got %s", minAmountOut, quote.AmountOut)
	}

	// Validated
	next := pool
	if next.Reserves, err = pool.Reserves.ApplySwap(quote.AmountIn, side, quote.AmountOut); err != nil {
		return types.SwapQuote{}, err
	}
	next.AccrueFee(side, quote.Fee)
	next.Version++
	if err := next.Validate(); err != nil {
		return types.SwapQuote{}, err
	}

	// Committed
	err = k.atomically(ctx, func(cacheCtx sdk.Context) error {
		if err := k.transfer(cacheCtx, trader, k.poolAddr, assetIn, quote.AmountIn); err != nil {
			return err
		}
		if err := k.transfer(cacheCtx, k.poolAddr, trader, assetOut, quote.AmountOut); err != nil {
			return err
		}
		if err := k.setPool(cacheCtx, next); err != nil {
			return err
		}

		cacheCtx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeSwap,
				sdk.NewAttribute(types.AttributeKeyTrader, trader.String()),
				sdk.NewAttribute(types.AttributeKeyTokenIn, assetIn),
				sdk.NewAttribute(types.AttributeKeyTokenOut, assetOut),
				sdk.NewAttribute(types.AttributeKeyAmountIn, quote.AmountIn.String()),
				sdk.NewAttribute(types.AttributeKeyAmountOut, quote.AmountOut.String()),
				sdk.NewAttribute(types.AttributeKeyFee, quote.Fee.String()),
				sdk.NewAttribute(types.AttributeKeyPoolVersion, fmt.Sprintf("%d", next.Version)),
			),
		)
		return nil
	})
	if err != nil {
		k.metrics.SwapsTotal.WithLabelValues(assetIn, assetOut, "failed").Inc()
		return types.SwapQuote{}, err
	}

	k.Logger(ctx).Info("swap executed",
		"trader", trader.String(),
		"token_in", assetIn,
		"amount_in", quote.AmountIn.String(),
		"token_out", assetOut,
		"amount_out", quote.AmountOut.String(),
	)
	k.metrics.OperationsTotal.WithLabelValues("swap", "success").Inc()
	k.metrics.SwapsTotal.WithLabelValues(assetIn, assetOut, "success").Inc()
	k.metrics.SwapVolume.WithLabelValues(assetIn).Add(toFloat(quote.AmountIn))
	k.metrics.SwapFeesCollected.WithLabelValues(assetIn).Add(toFloat(quote.Fee))
	k.recordPoolGauges(next)

	return quote, nil
}

// SimulateSwap quotes a swap against the current reserves without executing it.
func (k Keeper) SimulateSwap(ctx context.Context, assetIn string, amountIn math.Int) (types.SwapQuote, error) {
	pool, err := k.GetPool(ctx)
	if err != nil {
		return types.SwapQuote{}, err
	}
	side, err := pool.SideOf(assetIn)
	if err != nil {
		return types.SwapQuote{}, err
	}
	reserveIn, reserveOut := pool.Reserves.Oriented(side)
	return types.QuoteSwap(reserveIn, reserveOut, amountIn, pool.FeeBps)
}
