package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Balance is the holdings of one account.
type Balance struct {
	Address string    `json:"address"`
	Coins   sdk.Coins `json:"coins"`
}

// GenesisState holds every non-zero account balance.
type GenesisState struct {
	Balances []Balance `json:"balances"`
}

// DefaultGenesis returns an empty ledger.
func DefaultGenesis() *GenesisState {
	return &GenesisState{Balances: []Balance{}}
}

// Validate ensures addresses are unique and coins are valid.
func (gs GenesisState) Validate() error {
	seen := make(map[string]struct{}, len(gs.Balances))
	for _, b := range gs.Balances {
		if _, err := sdk.AccAddressFromBech32(b.Address); err != nil {
			return ErrInvalidAddress.Wrapf("%q: %v", b.Address, err)
		}
		if _, dup := seen[b.Address]; dup {
			return fmt.Errorf("duplicate balance for %s", b.Address)
		}
		seen[b.Address] = struct{}{}
		if !b.Coins.IsValid() {
			return ErrInvalidCoins.Wrapf("%s: %s", b.Address, b.Coins)
		}
	}
	return nil
}
