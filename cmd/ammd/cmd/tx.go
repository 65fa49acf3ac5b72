package cmd

import (
	"fmt"

	"cosmossdk.io/math"
	cmtcrypto "github.com/cometbft/cometbft/crypto"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/paw-chain/ammpool/app"
	"github.com/paw-chain/ammpool/x/amm/types"
)

const (
	flagAdmin  = "admin"
	flagMinOut = "min-out"
)

// resolveAccount accepts a bech32 address or a plain name. Names map to a
// deterministic address so local testing needs no key management.
func resolveAccount(arg string) (sdk.AccAddress, error) {
	if arg == "" {
		return nil, fmt.Errorf("empty account")
	}
	if addr, err := sdk.AccAddressFromBech32(arg); err == nil {
		return addr, nil
	}
	return sdk.AccAddress(cmtcrypto.AddressHash([]byte(arg))), nil
}

func parseAmount(name, arg string) (math.Int, error) {
	amt, ok := math.NewIntFromString(arg)
	if !ok {
		return math.Int{}, fmt.Errorf("%s: %q is not an integer", name, arg)
	}
	if err := types.ValidateAmount(name, amt); err != nil {
		return math.Int{}, err
	}
	return amt, nil
}

type txResult struct {
	Version uint64     `json:"version"`
	Result  any        `json:"result,omitempty"`
	Events  sdk.Events `json:"events"`
}

// execute runs fn as one committed host operation and prints its result.
func execute(cmd *cobra.Command, name string, fn func(a *app.App, ctx sdk.Context) (any, error)) error {
	return withApp(cmd, func(a *app.App) error {
		var result any
		events, err := a.Execute(cmd.Context(), name, func(ctx sdk.Context) error {
			var err error
			result, err = fn(a, ctx)
			return err
		})
		if err != nil {
			return err
		}
		return printJSON(cmd, txResult{
			Version: uint64(a.LastCommitID().Version),
			Result:  result,
			Events:  events,
		})
	})
}

// InitCmd initializes the pool.
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [token-a] [token-b]",
		Short: "Initialize the pool for a token pair",
		Long: `Initialize the pool for a token pair and write a default config file.
The fee defaults to fee-bps from the config and can only be set once.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromCmd(cmd)
			adminArg, err := cmd.Flags().GetString(flagAdmin)
			if err != nil {
				return err
			}
			admin, err := resolveAccount(adminArg)
			if err != nil {
				return err
			}
			if _, err := writeDefaultConfig(cfg); err != nil {
				return fmt.Errorf("write config: %w", err)
			}

			return execute(cmd, "initialize", func(a *app.App, ctx sdk.Context) (any, error) {
				return a.AMMKeeper.Initialize(ctx, admin, args[0], args[1], cfg.FeeBps)
			})
		},
	}
	cmd.Flags().Uint32(flagFeeBps, defaultFeeBps, "swap fee in basis points (0-10000)")
	cmd.Flags().String(flagAdmin, "admin", "pool administrator (address or name)")
	return cmd
}

// FundCmd credits an account on the ledger.
func FundCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "fund [account] [coins]",
		Short:   "Credit coins to an account on the ledger",
		Example: `ammd fund alice 1000uatom,1000uusdc`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := resolveAccount(args[0])
			if err != nil {
				return err
			}
			coins, err := sdk.ParseCoinsNormalized(args[1])
			if err != nil {
				return err
			}

			return execute(cmd, "fund", func(a *app.App, ctx sdk.Context) (any, error) {
				if err := a.LedgerKeeper.MintCoins(ctx, account, coins); err != nil {
					return nil, err
				}
				return map[string]string{"account": account.String(), "coins": coins.String()}, nil
			})
		},
	}
}

// AddLiquidityCmd deposits both pool assets.
func AddLiquidityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-liquidity [provider] [amount-a] [amount-b]",
		Short: "Deposit both pool assets and mint liquidity shares",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := resolveAccount(args[0])
			if err != nil {
				return err
			}
			amountA, err := parseAmount("amount_a", args[1])
			if err != nil {
				return err
			}
			amountB, err := parseAmount("amount_b", args[2])
			if err != nil {
				return err
			}

			return execute(cmd, "add_liquidity", func(a *app.App, ctx sdk.Context) (any, error) {
				return a.AMMKeeper.AddLiquidity(ctx, provider, amountA, amountB)
			})
		},
	}
}

// RemoveLiquidityCmd burns shares for a proportional payout.
func RemoveLiquidityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-liquidity [provider] [shares]",
		Short: "Burn liquidity shares and withdraw both pool assets",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := resolveAccount(args[0])
			if err != nil {
				return err
			}
			shares, err := parseAmount("shares", args[1])
			if err != nil {
				return err
			}

			return execute(cmd, "remove_liquidity", func(a *app.App, ctx sdk.Context) (any, error) {
				amountA, amountB, err := a.AMMKeeper.RemoveLiquidity(ctx, provider, shares)
				if err != nil {
					return nil, err
				}
				return types.RemoveLiquidityResult{AmountA: amountA, AmountB: amountB}, nil
			})
		},
	}
}

// SwapCmd trades one pool asset for the other.
func SwapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "swap [trader] [asset-in] [amount-in]",
		Short:   "Swap an amount of one pool asset for the other",
		Example: `ammd swap bob uatom 100 --min-out 90`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			trader, err := resolveAccount(args[0])
			if err != nil {
				return err
			}
			amountIn, err := parseAmount("amount_in", args[2])
			if err != nil {
				return err
			}
			minOutArg, err := cmd.Flags().GetString(flagMinOut)
			if err != nil {
				return err
			}
			minOut, err := parseAmount("min_amount_out", minOutArg)
			if err != nil {
				return err
			}

			return execute(cmd, "swap", func(a *app.App, ctx sdk.Context) (any, error) {
				out, err := a.AMMKeeper.Swap(ctx, trader, args[1], amountIn, minOut)
				if err != nil {
					return nil, err
				}
				return map[string]string{"amount_out": out.String()}, nil
			})
		},
	}
	cmd.Flags().String(flagMinOut, "0", "minimum acceptable output; the swap fails below it")
	return cmd
}
