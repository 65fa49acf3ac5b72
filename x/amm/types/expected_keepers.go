package types

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// AssetLedger is the external ledger that moves balances between accounts and
// the pool. It matches the subset of the x/bank keeper the module relies on.
type AssetLedger interface {
	SendCoins(ctx context.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
}
