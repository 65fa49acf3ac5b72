// Package keeper implements the AMM (automated market maker) module keeper.
//
// The module holds a single two-asset constant-product pool. Liquidity
// providers deposit both assets and receive proportional shares; traders swap
// one asset for the other at the price set by reserve_a * reserve_b = k, minus
// a fixed basis-point fee that stays in the reserves.
//
// # Atomicity
//
// Every state-changing operation reads the pool, computes the complete next
// pool record in memory, validates it, and then applies ledger transfers and
// store writes inside a CacheContext. The cache is written back only when all
// of them succeed, so a failed transfer leaves no trace in the pool, the share
// ledger or the asset ledger.
//
// # Usage Patterns
//
//	pool, err := keeper.Initialize(ctx, admin, "uatom", "uusdc", 30)
//	res, err := keeper.AddLiquidity(ctx, provider, amountA, amountB)
//	amountOut, err := keeper.Swap(ctx, trader, "uatom", amountIn, minAmountOut)
//	amountA, amountB, err := keeper.RemoveLiquidity(ctx, provider, shares)
//
// # Metrics
//
// The keeper exposes Prometheus metrics for swaps, liquidity changes and pool
// reserves via AMMMetrics.
package keeper
