package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
)

const (
	// ModuleName defines the module name
	ModuleName = "ledger"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName
)

// BalanceKeyPrefix prefixes every account balance entry
var BalanceKeyPrefix = []byte{0x01}

// GetBalanceKey returns the store key for an account's balance of denom
func GetBalanceKey(addr sdk.AccAddress, denom string) []byte {
	key := append(append([]byte{}, BalanceKeyPrefix...), address.MustLengthPrefix(addr)...)
	return append(key, []byte(denom)...)
}

// SplitBalanceKey extracts the account and denom from a balance key
func SplitBalanceKey(key []byte) (sdk.AccAddress, string, error) {
	// prefix | len | addr | denom
	rest := key[len(BalanceKeyPrefix):]
	if len(rest) == 0 || len(rest) < 1+int(rest[0]) {
		return nil, "", fmt.Errorf("malformed balance key %X", key)
	}
	addrLen := int(rest[0])
	return sdk.AccAddress(rest[1 : 1+addrLen]), string(rest[1+addrLen:]), nil
}
