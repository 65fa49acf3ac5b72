package keeper

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/ammpool/x/amm/types"
)

// RegisterInvariants registers all AMM invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "share-sum", ShareSumInvariant(k))
	ir.RegisterRoute(types.ModuleName, "pool-state", PoolStateInvariant(k))
	ir.RegisterRoute(types.ModuleName, "reserve-backing", ReserveBackingInvariant(k))
}

// AllInvariants runs all invariants of the AMM module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		res, stop := ShareSumInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		res, stop = PoolStateInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		return ReserveBackingInvariant(k)(ctx)
	}
}

// ShareSumInvariant checks that provider balances add up to the pool's total shares
func ShareSumInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		pool, err := k.GetPool(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "share-sum", "pool not initialized"), false
		}

		var (
			msg   string
			count int
		)
		sum := math.ZeroInt()
		if err := k.IterateShares(ctx, func(provider sdk.AccAddress, shares math.Int) bool {
			if !shares.IsPositive() {
				count++
				msg += fmt.Sprintf("provider %s: stored non-positive balance %s\n", provider, shares)
			}
			sum = sum.Add(shares)
			return false
		}); err != nil {
			count++
			msg += fmt.Sprintf("iterate shares: %v\n", err)
		}

		if !sum.Equal(pool.TotalShares) {
			count++
			msg += fmt.Sprintf("sum of balances %s != total shares %s\n", sum, pool.TotalShares)
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "share-sum",
			fmt.Sprintf("found %d share ledger inconsistencies\n%s", count, msg),
		), broken
	}
}

// PoolStateInvariant checks the pool record is internally consistent
func PoolStateInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		pool, err := k.GetPool(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "pool-state", "pool not initialized"), false
		}

		if err := pool.Validate(); err != nil {
			return sdk.FormatInvariant(types.ModuleName, "pool-state", err.Error()), true
		}
		return sdk.FormatInvariant(types.ModuleName, "pool-state", "pool record is consistent"), false
	}
}

// ReserveBackingInvariant checks that the pool account on the asset ledger holds
// at least the recorded reserves
func ReserveBackingInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		pool, err := k.GetPool(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "reserve-backing", "pool not initialized"), false
		}

		var (
			msg   string
			count int
		)
		balanceA := k.ledger.GetBalance(ctx, k.poolAddr, pool.TokenA)
		if balanceA.Amount.LT(pool.Reserves.ReserveA) {
			count++
			msg += fmt.Sprintf("%s: ledger balance %s < reserve %s\n", pool.TokenA, balanceA.Amount, pool.Reserves.ReserveA)
		}
		balanceB := k.ledger.GetBalance(ctx, k.poolAddr, pool.TokenB)
		if balanceB.Amount.LT(pool.Reserves.ReserveB) {
			count++
			msg += fmt.Sprintf("%s: ledger balance %s < reserve %s\n", pool.TokenB, balanceB.Amount, pool.Reserves.ReserveB)
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "reserve-backing",
			fmt.Sprintf("found %d unbacked reserves\n%s", count, msg),
		), broken
	}
}
