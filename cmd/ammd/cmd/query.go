package cmd

import (
	"errors"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/paw-chain/ammpool/app"
)

// errInvariantsBroken is returned by check-invariants when any invariant fails.
var errInvariantsBroken = errors.New("invariants broken")

func query(cmd *cobra.Command, fn func(a *app.App, ctx sdk.Context) (any, error)) error {
	return withApp(cmd, func(a *app.App) error {
		var result any
		if err := a.Query(func(ctx sdk.Context) error {
			var err error
			result, err = fn(a, ctx)
			return err
		}); err != nil {
			return err
		}
		return printJSON(cmd, result)
	})
}

// QuoteCmd prices a swap without executing it.
func QuoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quote [asset-in] [amount-in]",
		Short: "Quote a swap against the current reserves",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amountIn, err := parseAmount("amount_in", args[1])
			if err != nil {
				return err
			}
			return query(cmd, func(a *app.App, ctx sdk.Context) (any, error) {
				return a.AMMKeeper.SimulateSwap(ctx, args[0], amountIn)
			})
		},
	}
}

// QueryCmd groups the read-only state queries.
func QueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "query",
		Aliases: []string{"q"},
		Short:   "Query pool and ledger state",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "pool",
			Short: "Show the pool record",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return query(cmd, func(a *app.App, ctx sdk.Context) (any, error) {
					return a.AMMKeeper.GetPool(ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "reserves",
			Short: "Show the pool reserves",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return query(cmd, func(a *app.App, ctx sdk.Context) (any, error) {
					reserveA, reserveB, err := a.AMMKeeper.GetReserves(ctx)
					if err != nil {
						return nil, err
					}
					return map[string]string{"reserve_a": reserveA.String(), "reserve_b": reserveB.String()}, nil
				})
			},
		},
		&cobra.Command{
			Use:   "shares [provider]",
			Short: "Show a provider's share balance, or the total without an argument",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return query(cmd, func(a *app.App, ctx sdk.Context) (any, error) {
					if len(args) == 0 {
						total, err := a.AMMKeeper.GetTotalShares(ctx)
						if err != nil {
							return nil, err
						}
						return map[string]string{"total_shares": total.String()}, nil
					}
					provider, err := resolveAccount(args[0])
					if err != nil {
						return nil, err
					}
					return map[string]string{
						"provider": provider.String(),
						"shares":   a.AMMKeeper.GetShareBalance(ctx, provider).String(),
					}, nil
				})
			},
		},
		&cobra.Command{
			Use:   "balance [account] [denom]",
			Short: "Show an account's ledger balance of denom",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				account, err := resolveAccount(args[0])
				if err != nil {
					return err
				}
				return query(cmd, func(a *app.App, ctx sdk.Context) (any, error) {
					return a.LedgerKeeper.GetBalance(ctx, account, args[1]), nil
				})
			},
		},
		&cobra.Command{
			Use:   "pool-address",
			Short: "Show the ledger account holding the reserves",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return query(cmd, func(a *app.App, _ sdk.Context) (any, error) {
					return map[string]string{"address": a.AMMKeeper.PoolAddress().String()}, nil
				})
			},
		},
	)
	return cmd
}

// CheckInvariantsCmd runs every registered invariant.
func CheckInvariantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-invariants",
		Short: "Verify the pool, share ledger and reserve backing are consistent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app.App) error {
				broken := a.CheckInvariants()
				for _, msg := range broken {
					fmt.Fprintln(cmd.OutOrStdout(), msg)
				}
				if len(broken) > 0 {
					return fmt.Errorf("%w: %d of %d", errInvariantsBroken, len(broken), len(a.InvariantRoutes()))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "all %d invariants hold\n", len(a.InvariantRoutes()))
				return nil
			})
		},
	}
}
