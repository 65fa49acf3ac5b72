package types

import (
	"cosmossdk.io/math"
)

// BasisPoints is 100% expressed in basis points.
const BasisPoints uint32 = 10_000

var basisPointsInt = math.NewIntFromUint64(uint64(BasisPoints))

// SwapQuote is the deterministic outcome of a trade against given reserves.
type SwapQuote struct {
	AmountIn         math.Int `json:"amount_in"`
	AmountInAfterFee math.Int `json:"amount_in_after_fee"`
	Fee              math.Int `json:"fee"`
	AmountOut        math.Int `json:"amount_out"`
}

// ValidateFeeBps checks a fee is within [0, BasisPoints].
func ValidateFeeBps(feeBps uint32) error {
	if feeBps > BasisPoints {
		return ErrInvalidFee.Wrapf("fee %d bps exceeds %d", feeBps, BasisPoints)
	}
	return nil
}

// QuoteSwap prices a trade with the constant-product formula:
//
//	amount_in_after_fee = amount_in * (10000 - fee_bps) / 10000
//	amount_out          = reserve_out * amount_in_after_fee / (reserve_in + amount_in_after_fee)
//
// Both divisions round down, in favor of the pool.
func QuoteSwap(reserveIn, reserveOut, amountIn math.Int, feeBps uint32) (SwapQuote, error) {
	if err := ValidateFeeBps(feeBps); err != nil {
		return SwapQuote{}, err
	}
	if err := ValidateAmount("amount_in", amountIn); err != nil {
		return SwapQuote{}, err
	}
	if amountIn.IsZero() {
		return SwapQuote{}, ErrInvalidAmount.Wrap("swap amount must be positive")
	}
	if err := ValidateAmount("reserve_in", reserveIn); err != nil {
		return SwapQuote{}, err
	}
	if err := ValidateAmount("reserve_out", reserveOut); err != nil {
		return SwapQuote{}, err
	}
	if reserveIn.IsZero() || reserveOut.IsZero() {
		return SwapQuote{}, ErrPoolEmpty.Wrapf("reserves (%s, %s) cannot price a swap", reserveIn, reserveOut)
	}
	// The input side must still fit after the full amount is credited.
	if _, err := SafeAdd(reserveIn, amountIn); err != nil {
		return SwapQuote{}, err
	}

	afterFee, err := MulDiv(amountIn, math.NewIntFromUint64(uint64(BasisPoints-feeBps)), basisPointsInt)
	if err != nil {
		return SwapQuote{}, err
	}
	denom, err := SafeAdd(reserveIn, afterFee)
	if err != nil {
		return SwapQuote{}, err
	}
	amountOut, err := MulDiv(reserveOut, afterFee, denom)
	if err != nil {
		return SwapQuote{}, err
	}
	if amountOut.IsZero() {
		return SwapQuote{}, ErrInvalidAmount.Wrapf("swap of %s yields no output", amountIn)
	}

	return SwapQuote{
		AmountIn:         amountIn,
		AmountInAfterFee: afterFee,
		Fee:              amountIn.Sub(afterFee),
		AmountOut:        amountOut,
	}, nil
}
