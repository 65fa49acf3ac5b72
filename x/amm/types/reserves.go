package types

import (
	"fmt"

	"cosmossdk.io/math"
)

// ReservePair holds the two asset balances owned by the pool. All Apply*
// methods are pure: they return the next pair and leave the receiver untouched.
type ReservePair struct {
	ReserveA math.Int `json:"reserve_a"`
	ReserveB math.Int `json:"reserve_b"`
}

// NewReservePair returns a reserve pair with the given balances.
func NewReservePair(reserveA, reserveB math.Int) ReservePair {
	return ReservePair{ReserveA: reserveA, ReserveB: reserveB}
}

// ZeroReserves returns an empty reserve pair.
func ZeroReserves() ReservePair {
	return NewReservePair(math.ZeroInt(), math.ZeroInt())
}

// K returns the constant-product invariant reserve_a * reserve_b.
func (r ReservePair) K() math.Int {
	return Product(r.ReserveA, r.ReserveB)
}

// IsZero reports whether both reserves are empty.
func (r ReservePair) IsZero() bool {
	return r.ReserveA.IsZero() && r.ReserveB.IsZero()
}

// Validate checks both reserves are well-formed amounts.
func (r ReservePair) Validate() error {
	if err := ValidateAmount("reserve_a", r.ReserveA); err != nil {
		return err
	}
	return ValidateAmount("reserve_b", r.ReserveB)
}

func (r ReservePair) String() string {
	return fmt.Sprintf("(%s, %s)", r.ReserveA, r.ReserveB)
}

// ApplyDeposit adds liquidity to both sides.
func (r ReservePair) ApplyDeposit(amountA, amountB math.Int) (ReservePair, error) {
	newA, err := SafeAdd(r.ReserveA, amountA)
	if err != nil {
		return ReservePair{}, err
	}
	newB, err := SafeAdd(r.ReserveB, amountB)
	if err != nil {
		return ReservePair{}, err
	}
	return NewReservePair(newA, newB), nil
}

// ApplyWithdrawal removes liquidity from both sides.
func (r ReservePair) ApplyWithdrawal(amountA, amountB math.Int) (ReservePair, error) {
	newA, err := SafeSub(r.ReserveA, amountA)
	if err != nil {
		return ReservePair{}, ErrInsufficientReserve.Wrapf("withdraw %s from reserve_a %s", amountA, r.ReserveA)
	}
	newB, err := SafeSub(r.ReserveB, amountB)
	if err != nil {
		return ReservePair{}, ErrInsufficientReserve.Wrapf("withdraw %s from reserve_b %s", amountB, r.ReserveB)
	}
	return NewReservePair(newA, newB), nil
}

// ApplySwap credits deltaIn to the input side and debits deltaOut from the
// output side. The resulting product must not be lower than the current one.
func (r ReservePair) ApplySwap(deltaIn math.Int, side Side, deltaOut math.Int) (ReservePair, error) {
	reserveIn, reserveOut := r.Oriented(side)

	newIn, err := SafeAdd(reserveIn, deltaIn)
	if err != nil {
		return ReservePair{}, err
	}
	newOut, err := SafeSub(reserveOut, deltaOut)
	if err != nil {
		return ReservePair{}, ErrInsufficientReserve.Wrapf("swap out %s exceeds reserve %s", deltaOut, reserveOut)
	}

	next := r.withOriented(side, newIn, newOut)
	if oldK, newK := r.K(), next.K(); newK.LT(oldK) {
		return ReservePair{}, ErrInvariantViolation.Wrapf("constant product decreased: old_k=%s new_k=%s", oldK, newK)
	}
	return next, nil
}

// Oriented returns (reserve_in, reserve_out) for a trade entering on side.
func (r ReservePair) Oriented(side Side) (math.Int, math.Int) {
	if side == SideA {
		return r.ReserveA, r.ReserveB
	}
	return r.ReserveB, r.ReserveA
}

func (r ReservePair) withOriented(side Side, reserveIn, reserveOut math.Int) ReservePair {
	if side == SideA {
		return NewReservePair(reserveIn, reserveOut)
	}
	return NewReservePair(reserveOut, reserveIn)
}
