package keeper

import (
	"context"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/ammpool/x/amm/types"
)

// GetShareBalance returns the shares held by provider; zero if none.
func (k Keeper) GetShareBalance(ctx context.Context, provider sdk.AccAddress) math.Int {
	bz := k.getStore(ctx).Get(types.GetShareKey(provider))
	if bz == nil {
		return math.ZeroInt()
	}

	var shares math.Int
	if err := shares.Unmarshal(bz); err != nil {
		panic(err)
	}
	return shares
}

// setShareBalance writes a provider's shares. A zero balance removes the entry.
func (k Keeper) setShareBalance(ctx context.Context, provider sdk.AccAddress, shares math.Int) error {
	store := k.getStore(ctx)
	if shares.IsZero() {
		store.Delete(types.GetShareKey(provider))
		return nil
	}

	bz, err := shares.Marshal()
	if err != nil {
		return err
	}
	store.Set(types.GetShareKey(provider), bz)
	return nil
}

// mintShares credits amount to provider and returns the new balance.
func (k Keeper) mintShares(ctx context.Context, provider sdk.AccAddress, amount math.Int) (math.Int, error) {
	balance, err := types.SafeAdd(k.GetShareBalance(ctx, provider), amount)
	if err != nil {
		return math.Int{}, err
	}
	return balance, k.setShareBalance(ctx, provider, balance)
}

// burnShares debits amount from provider and returns the new balance.
func (k Keeper) burnShares(ctx context.Context, provider sdk.AccAddress, amount math.Int) (math.Int, error) {
	current := k.GetShareBalance(ctx, provider)
	if amount.GT(current) {
		return math.Int{}, types.ErrInsufficientShares.Wrapf("have %s, need %s", current, amount)
	}
	balance := current.Sub(amount)
	return balance, k.setShareBalance(ctx, provider, balance)
}

// IterateShares calls cb for every provider with a non-zero share balance.
func (k Keeper) IterateShares(ctx context.Context, cb func(provider sdk.AccAddress, shares math.Int) (stop bool)) error {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.ShareKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var shares math.Int
		if err := shares.Unmarshal(iterator.Value()); err != nil {
			return err
		}
		if cb(types.ProviderFromShareKey(iterator.Key()), shares) {
			break
		}
	}
	return nil
}
