// Package keeper implements a minimal store-backed balance ledger. It exposes
// the bank-style SendCoins/GetBalance pair the AMM pool settles through, plus
// MintCoins to fund accounts on a standalone host.
package keeper

import (
	"context"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/ammpool/x/ledger/types"
)

// Keeper of the ledger store
type Keeper struct {
	storeKey storetypes.StoreKey
}

// NewKeeper creates a new ledger Keeper instance
func NewKeeper(key storetypes.StoreKey) Keeper {
	return Keeper{storeKey: key}
}

func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	return sdk.UnwrapSDKContext(ctx).KVStore(k.storeKey)
}

// GetBalance returns the balance of denom held by addr.
func (k Keeper) GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin {
	bz := k.getStore(ctx).Get(types.GetBalanceKey(addr, denom))
	if bz == nil {
		return sdk.NewCoin(denom, math.ZeroInt())
	}
	var amt math.Int
	if err := amt.Unmarshal(bz); err != nil {
		panic(err)
	}
	return sdk.NewCoin(denom, amt)
}

func (k Keeper) setBalance(ctx context.Context, addr sdk.AccAddress, coin sdk.Coin) error {
	store := k.getStore(ctx)
	key := types.GetBalanceKey(addr, coin.Denom)
	if coin.Amount.IsZero() {
		store.Delete(key)
		return nil
	}
	bz, err := coin.Amount.Marshal()
	if err != nil {
		return err
	}
	store.Set(key, bz)
	return nil
}

// SendCoins moves amt from fromAddr to toAddr. Every coin is checked against
// the sender's balance before any balance is written.
func (k Keeper) SendCoins(ctx context.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error {
	if err := sdk.VerifyAddressFormat(fromAddr); err != nil {
		return types.ErrInvalidAddress.Wrapf("sender: %v", err)
	}
	if err := sdk.VerifyAddressFormat(toAddr); err != nil {
		return types.ErrInvalidAddress.Wrapf("recipient: %v", err)
	}
	if !amt.IsValid() {
		return types.ErrInvalidCoins.Wrap(amt.String())
	}

	for _, coin := range amt {
		if have := k.GetBalance(ctx, fromAddr, coin.Denom); have.Amount.LT(coin.Amount) {
			return types.ErrInsufficientFunds.Wrapf("%s has %s, needs %s", fromAddr, have, coin)
		}
	}

	for _, coin := range amt {
		from := k.GetBalance(ctx, fromAddr, coin.Denom)
		if err := k.setBalance(ctx, fromAddr, from.Sub(coin)); err != nil {
			return err
		}
		to := k.GetBalance(ctx, toAddr, coin.Denom)
		if err := k.setBalance(ctx, toAddr, to.Add(coin)); err != nil {
			return err
		}
	}
	return nil
}

// MintCoins credits amt to addr out of thin air.
func (k Keeper) MintCoins(ctx context.Context, addr sdk.AccAddress, amt sdk.Coins) error {
	if err := sdk.VerifyAddressFormat(addr); err != nil {
		return types.ErrInvalidAddress.Wrap(err.Error())
	}
	if !amt.IsValid() {
		return types.ErrInvalidCoins.Wrap(amt.String())
	}
	for _, coin := range amt {
		if err := k.setBalance(ctx, addr, k.GetBalance(ctx, addr, coin.Denom).Add(coin)); err != nil {
			return err
		}
	}
	return nil
}
