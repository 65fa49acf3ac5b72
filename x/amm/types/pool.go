package types

import (
	"encoding/json"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Side identifies one of the two pool assets.
type Side uint8

const (
	SideA Side = iota
	SideB
)

// Opposite returns the other side of the pair.
func (s Side) Opposite() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

func (s Side) String() string {
	if s == SideA {
		return "a"
	}
	return "b"
}

// Pool is the single unit of consistency persisted by the module. Reserves,
// total shares and fee accrual are written together in one record.
type Pool struct {
	Version     uint64      `json:"version"`
	Admin       string      `json:"admin"`
	TokenA      string      `json:"token_a"`
	TokenB      string      `json:"token_b"`
	FeeBps      uint32      `json:"fee_bps"`
	Reserves    ReservePair `json:"reserves"`
	TotalShares math.Int    `json:"total_shares"`
	FeesA       math.Int    `json:"fees_accrued_a"`
	FeesB       math.Int    `json:"fees_accrued_b"`
}

// NewPool returns an empty pool for the given pair.
func NewPool(admin sdk.AccAddress, tokenA, tokenB string, feeBps uint32) Pool {
	return Pool{
		Admin:       admin.String(),
		TokenA:      tokenA,
		TokenB:      tokenB,
		FeeBps:      feeBps,
		Reserves:    ZeroReserves(),
		TotalShares: math.ZeroInt(),
		FeesA:       math.ZeroInt(),
		FeesB:       math.ZeroInt(),
	}
}

// SideOf returns which side of the pool asset belongs to.
func (p Pool) SideOf(asset string) (Side, error) {
	switch asset {
	case p.TokenA:
		return SideA, nil
	case p.TokenB:
		return SideB, nil
	default:
		return 0, ErrInvalidAsset.Wrapf("%s is not in pool %s/%s", asset, p.TokenA, p.TokenB)
	}
}

// Token returns the denom traded on side.
func (p Pool) Token(side Side) string {
	if side == SideA {
		return p.TokenA
	}
	return p.TokenB
}

// IsEmpty reports whether the pool is in its idle state.
func (p Pool) IsEmpty() bool {
	return p.TotalShares.IsZero() && p.Reserves.IsZero()
}

// AccrueFee adds a swap fee collected on side to the running totals.
func (p *Pool) AccrueFee(side Side, fee math.Int) {
	if side == SideA {
		p.FeesA = p.FeesA.Add(fee)
	} else {
		p.FeesB = p.FeesB.Add(fee)
	}
}

// ValidateConfig checks the immutable part of the pool.
func ValidateConfig(tokenA, tokenB string, feeBps uint32) error {
	if err := sdk.ValidateDenom(tokenA); err != nil {
		return ErrInvalidAsset.Wrapf("token_a: %v", err)
	}
	if err := sdk.ValidateDenom(tokenB); err != nil {
		return ErrInvalidAsset.Wrapf("token_b: %v", err)
	}
	if tokenA == tokenB {
		return ErrInvalidAsset.Wrapf("pool assets must differ, got %s twice", tokenA)
	}
	return ValidateFeeBps(feeBps)
}

// Validate checks every field of the pool and the cross-field invariants.
func (p Pool) Validate() error {
	if _, err := sdk.AccAddressFromBech32(p.Admin); err != nil {
		return ErrInvalidAddress.Wrapf("admin: %v", err)
	}
	if err := ValidateConfig(p.TokenA, p.TokenB, p.FeeBps); err != nil {
		return err
	}
	if err := p.Reserves.Validate(); err != nil {
		return err
	}
	if err := ValidateAmount("total_shares", p.TotalShares); err != nil {
		return err
	}
	if err := ValidateAmount("fees_accrued_a", p.FeesA); err != nil {
		return err
	}
	if err := ValidateAmount("fees_accrued_b", p.FeesB); err != nil {
		return err
	}
	if p.TotalShares.IsZero() != p.Reserves.IsZero() {
		return ErrInvariantViolation.Wrapf("reserves %s inconsistent with total shares %s", p.Reserves, p.TotalShares)
	}
	if !p.TotalShares.IsZero() && (p.Reserves.ReserveA.IsZero() || p.Reserves.ReserveB.IsZero()) {
		return ErrInvariantViolation.Wrapf("live pool has an empty reserve %s", p.Reserves)
	}
	return nil
}

// MarshalPool encodes the pool record for the store.
func MarshalPool(p Pool) ([]byte, error) {
	return json.Marshal(p)
}

// UnmarshalPool decodes a pool record read from the store.
func UnmarshalPool(bz []byte) (Pool, error) {
	var p Pool
	if err := json.Unmarshal(bz, &p); err != nil {
		return Pool{}, fmt.Errorf("decode pool: %w", err)
	}
	return p, nil
}

// AddLiquidityResult is returned to a liquidity provider after a deposit.
type AddLiquidityResult struct {
	SharesMinted math.Int `json:"shares_minted"`
	AmountUsedA  math.Int `json:"amount_used_a"`
	AmountUsedB  math.Int `json:"amount_used_b"`
}

// RemoveLiquidityResult is returned to a provider after a withdrawal.
type RemoveLiquidityResult struct {
	AmountA math.Int `json:"amount_a"`
	AmountB math.Int `json:"amount_b"`
}
