package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/ammpool/x/amm/types"
)

// InitGenesis initializes the module state from a genesis state.
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	if err := genState.Validate(); err != nil {
		return fmt.Errorf("invalid amm genesis state: %w", err)
	}
	if genState.Pool == nil {
		return nil
	}
	if k.HasPool(ctx) {
		return types.ErrAlreadyInitialized
	}

	return k.atomically(ctx, func(cacheCtx sdk.Context) error {
		if err := k.setPool(cacheCtx, *genState.Pool); err != nil {
			return err
		}
		for _, rec := range genState.Shares {
			provider, err := sdk.AccAddressFromBech32(rec.Provider)
			if err != nil {
				return err
			}
			if err := k.setShareBalance(cacheCtx, provider, rec.Shares); err != nil {
				return err
			}
		}
		return nil
	})
}

// ExportGenesis returns the module's exported genesis state.
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	genesis := types.DefaultGenesis()
	if !k.HasPool(ctx) {
		return genesis, nil
	}

	pool, err := k.GetPool(ctx)
	if err != nil {
		return nil, err
	}
	genesis.Pool = &pool

	if err := k.IterateShares(ctx, func(provider sdk.AccAddress, shares math.Int) bool {
		genesis.Shares = append(genesis.Shares, types.ShareRecord{
			Provider: provider.String(),
			Shares:   shares,
		})
		return false
	}); err != nil {
		return nil, err
	}
	return genesis, nil
}
