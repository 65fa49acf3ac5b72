package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
)

const (
	// ModuleName defines the module name
	ModuleName = "amm"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName
)

// Store key prefixes
var (
	PoolKey        = []byte{0x01} // single key holding the pool aggregate
	ShareKeyPrefix = []byte{0x02} // prefix for liquidity provider share balances
)

// GetShareKey returns the store key for a provider's share balance
func GetShareKey(provider sdk.AccAddress) []byte {
	return append(append([]byte{}, ShareKeyPrefix...), address.MustLengthPrefix(provider)...)
}

// ProviderFromShareKey extracts the provider address from a share key
func ProviderFromShareKey(key []byte) sdk.AccAddress {
	// prefix | len | addr
	addrLen := int(key[len(ShareKeyPrefix)])
	start := len(ShareKeyPrefix) + 1
	return sdk.AccAddress(key[start : start+addrLen])
}

// PoolAddress is the account that holds the pool's reserves on the asset ledger.
func PoolAddress() sdk.AccAddress {
	return sdk.AccAddress(address.Module(ModuleName))
}
