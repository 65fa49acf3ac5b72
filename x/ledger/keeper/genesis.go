package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/ammpool/x/ledger/types"
)

// IterateBalances walks every stored balance in key order.
func (k Keeper) IterateBalances(ctx context.Context, cb func(addr sdk.AccAddress, coin sdk.Coin) (stop bool)) error {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.BalanceKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		addr, denom, err := types.SplitBalanceKey(iterator.Key())
		if err != nil {
			return err
		}

		var amt math.Int
		if err := amt.Unmarshal(iterator.Value()); err != nil {
			return err
		}
		if cb(addr, sdk.NewCoin(denom, amt)) {
			break
		}
	}
	return nil
}

// InitGenesis loads account balances.
func (k Keeper) InitGenesis(ctx context.Context, gs types.GenesisState) error {
	if err := gs.Validate(); err != nil {
		return fmt.Errorf("invalid ledger genesis state: %w", err)
	}
	for _, b := range gs.Balances {
		addr, err := sdk.AccAddressFromBech32(b.Address)
		if err != nil {
			return err
		}
		if err := k.MintCoins(ctx, addr, b.Coins); err != nil {
			return err
		}
	}
	return nil
}

// ExportGenesis returns every non-zero balance grouped by account.
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	gs := types.DefaultGenesis()
	index := make(map[string]int)
	err := k.IterateBalances(ctx, func(addr sdk.AccAddress, coin sdk.Coin) bool {
		key := addr.String()
		i, ok := index[key]
		if !ok {
			i = len(gs.Balances)
			index[key] = i
			gs.Balances = append(gs.Balances, types.Balance{Address: key})
		}
		gs.Balances[i].Coins = gs.Balances[i].Coins.Add(coin)
		return false
	})
	if err != nil {
		return nil, err
	}
	return gs, nil
}
