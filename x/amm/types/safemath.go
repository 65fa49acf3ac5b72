package types

import (
	"math/big"

	"cosmossdk.io/math"
	"github.com/holiman/uint256"
)

// AmountBits is the width of every reserve, share and transfer amount.
const AmountBits = 128

// MaxAmount is the largest representable amount (2^128 - 1).
var MaxAmount = math.NewIntFromBigInt(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), AmountBits), big.NewInt(1)))

// ValidateAmount checks that an amount is set, non-negative and fits in AmountBits.
func ValidateAmount(name string, amt math.Int) error {
	if amt.IsNil() {
		return ErrInvalidAmount.Wrapf("%s is nil", name)
	}
	if amt.IsNegative() {
		return ErrInvalidAmount.Wrapf("%s is negative: %s", name, amt)
	}
	if amt.GT(MaxAmount) {
		return ErrArithmeticOverflow.Wrapf("%s %s exceeds %d bits", name, amt, AmountBits)
	}
	return nil
}

// SafeAdd adds two amounts and fails if the sum does not fit in AmountBits.
func SafeAdd(a, b math.Int) (math.Int, error) {
	sum := a.Add(b)
	if sum.GT(MaxAmount) {
		return math.Int{}, ErrArithmeticOverflow.Wrapf("%s + %s exceeds %d bits", a, b, AmountBits)
	}
	return sum, nil
}

// SafeSub subtracts b from a and fails if the result would be negative.
func SafeSub(a, b math.Int) (math.Int, error) {
	if a.LT(b) {
		return math.Int{}, ErrInsufficientReserve.Wrapf("cannot subtract %s from %s", b, a)
	}
	return a.Sub(b), nil
}

// MulDiv computes floor(a * b / denom) with a 512-bit intermediate product, so
// no precision is lost before the division. The result must fit in AmountBits.
func MulDiv(a, b, denom math.Int) (math.Int, error) {
	if denom.IsZero() {
		return math.Int{}, ErrDivisionByZero.Wrapf("%s * %s / 0", a, b)
	}
	x, err := toUint256(a)
	if err != nil {
		return math.Int{}, err
	}
	y, err := toUint256(b)
	if err != nil {
		return math.Int{}, err
	}
	d, err := toUint256(denom)
	if err != nil {
		return math.Int{}, err
	}

	z, overflow := new(uint256.Int).MulDivOverflow(x, y, d)
	if overflow || z.BitLen() > AmountBits {
		return math.Int{}, ErrArithmeticOverflow.Wrapf("%s * %s / %s exceeds %d bits", a, b, denom, AmountBits)
	}
	return math.NewIntFromBigInt(z.ToBig()), nil
}

// Product returns a * b. Both operands fit in AmountBits, so the product always
// fits in the 256-bit math.Int.
func Product(a, b math.Int) math.Int {
	return math.NewIntFromBigInt(new(big.Int).Mul(a.BigInt(), b.BigInt()))
}

func toUint256(v math.Int) (*uint256.Int, error) {
	if err := ValidateAmount("operand", v); err != nil {
		return nil, err
	}
	u, overflow := uint256.FromBig(v.BigInt())
	if overflow {
		return nil, ErrArithmeticOverflow.Wrapf("operand %s exceeds 256 bits", v)
	}
	return u, nil
}
