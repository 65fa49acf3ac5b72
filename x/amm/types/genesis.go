package types

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// ShareRecord is one provider's share balance in genesis.
type ShareRecord struct {
	Provider string   `json:"provider"`
	Shares   math.Int `json:"shares"`
}

// GenesisState is the exported state of the module. Pool is nil until the
// pool has been initialized.
type GenesisState struct {
	Pool   *Pool         `json:"pool,omitempty"`
	Shares []ShareRecord `json:"shares"`
}

// DefaultGenesis returns an uninitialized module state.
func DefaultGenesis() *GenesisState {
	return &GenesisState{Shares: []ShareRecord{}}
}

// Validate ensures the genesis state is well-formed.
func (gs GenesisState) Validate() error {
	if gs.Pool == nil {
		if len(gs.Shares) != 0 {
			return fmt.Errorf("%d share records without a pool", len(gs.Shares))
		}
		return nil
	}
	if err := gs.Pool.Validate(); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(gs.Shares))
	sum := math.ZeroInt()
	for _, rec := range gs.Shares {
		if _, err := sdk.AccAddressFromBech32(rec.Provider); err != nil {
			return ErrInvalidAddress.Wrapf("share record %q: %v", rec.Provider, err)
		}
		if _, dup := seen[rec.Provider]; dup {
			return fmt.Errorf("duplicate share record for %s", rec.Provider)
		}
		seen[rec.Provider] = struct{}{}
		if err := ValidateAmount("shares", rec.Shares); err != nil {
			return err
		}
		if rec.Shares.IsZero() {
			return fmt.Errorf("zero share record for %s", rec.Provider)
		}
		sum = sum.Add(rec.Shares)
	}
	if !sum.Equal(gs.Pool.TotalShares) {
		return ErrInvariantViolation.Wrapf("share records sum to %s, pool total is %s", sum, gs.Pool.TotalShares)
	}
	return nil
}
