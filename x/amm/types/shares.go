package types

import (
	"cosmossdk.io/math"
)

// MintResult is the outcome of pricing a deposit against the current pool.
type MintResult struct {
	Shares      math.Int
	AmountUsedA math.Int
	AmountUsedB math.Int
}

// CalculateMintShares prices a deposit of (amountA, amountB).
//
// The first deposit into an empty pool mints amountA shares. Later deposits
// mint the smaller of the two proportional share amounts so a skewed deposit
// cannot dilute existing providers. AmountUsedA/B report the proportional part
// of each side backing the minted shares; the rest is dust the pool keeps.
func CalculateMintShares(amountA, amountB math.Int, reserves ReservePair, totalShares math.Int) (MintResult, error) {
	if err := ValidateAmount("amount_a", amountA); err != nil {
		return MintResult{}, err
	}
	if err := ValidateAmount("amount_b", amountB); err != nil {
		return MintResult{}, err
	}

	if totalShares.IsZero() {
		if amountA.IsZero() || amountB.IsZero() {
			return MintResult{}, ErrPoolEmpty.Wrapf("first deposit requires both amounts to be positive, got (%s, %s)", amountA, amountB)
		}
		if !reserves.IsZero() {
			return MintResult{}, ErrInvariantViolation.Wrapf("pool has reserves %s but no shares", reserves)
		}
		return MintResult{Shares: amountA, AmountUsedA: amountA, AmountUsedB: amountB}, nil
	}

	if reserves.ReserveA.IsZero() || reserves.ReserveB.IsZero() {
		return MintResult{}, ErrInvariantViolation.Wrapf("pool has %s shares but reserves %s", totalShares, reserves)
	}
	if amountA.IsZero() || amountB.IsZero() {
		return MintResult{}, ErrInvalidAmount.Wrapf("deposit amounts must be positive, got (%s, %s)", amountA, amountB)
	}

	sharesA, err := MulDiv(amountA, totalShares, reserves.ReserveA)
	if err != nil {
		return MintResult{}, err
	}
	sharesB, err := MulDiv(amountB, totalShares, reserves.ReserveB)
	if err != nil {
		return MintResult{}, err
	}
	shares := math.MinInt(sharesA, sharesB)
	if shares.IsZero() {
		return MintResult{}, ErrInvalidAmount.Wrapf("deposit (%s, %s) too small to mint a share", amountA, amountB)
	}

	usedA, usedB := amountA, amountB
	if sharesA.GT(sharesB) {
		if usedA, err = MulDiv(shares, reserves.ReserveA, totalShares); err != nil {
			return MintResult{}, err
		}
	} else if sharesB.GT(sharesA) {
		if usedB, err = MulDiv(shares, reserves.ReserveB, totalShares); err != nil {
			return MintResult{}, err
		}
	}

	return MintResult{Shares: shares, AmountUsedA: usedA, AmountUsedB: usedB}, nil
}

// CalculateBurnAmounts returns the reserves owed for redeeming shares. Both
// sides round down, so any remainder stays with the remaining providers.
func CalculateBurnAmounts(shares math.Int, reserves ReservePair, totalShares math.Int) (math.Int, math.Int, error) {
	if err := ValidateAmount("shares", shares); err != nil {
		return math.Int{}, math.Int{}, err
	}
	if totalShares.IsZero() {
		return math.Int{}, math.Int{}, ErrPoolEmpty.Wrap("pool has no shares to burn")
	}
	if shares.IsZero() {
		return math.Int{}, math.Int{}, ErrInvalidAmount.Wrap("shares must be positive")
	}
	if shares.GT(totalShares) {
		return math.Int{}, math.Int{}, ErrInsufficientShares.Wrapf("burn %s exceeds total %s", shares, totalShares)
	}

	amountA, err := MulDiv(shares, reserves.ReserveA, totalShares)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	amountB, err := MulDiv(shares, reserves.ReserveB, totalShares)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	return amountA, amountB, nil
}
