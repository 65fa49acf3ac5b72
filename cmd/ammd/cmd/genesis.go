package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/paw-chain/ammpool/app"
)

const flagOutputDocument = "output-document"

// ExportCmd dumps the committed state as genesis JSON.
func ExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the pool, share ledger and balances as genesis JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := cmd.Flags().GetString(flagOutputDocument)
			if err != nil {
				return err
			}
			return withApp(cmd, func(a *app.App) error {
				genesis, err := a.ExportGenesis()
				if err != nil {
					return err
				}
				if out == "" {
					return printJSON(cmd, genesis)
				}
				bz, err := json.MarshalIndent(genesis, "", "  ")
				if err != nil {
					return err
				}
				return os.WriteFile(out, bz, 0o644)
			})
		},
	}
	cmd.Flags().String(flagOutputDocument, "", "write the export to this file instead of stdout")
	return cmd
}

// ImportGenesisCmd loads a genesis file into an empty home.
func ImportGenesisCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-genesis [file]",
		Short: "Load exported genesis JSON into the host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bz, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var genesis app.GenesisState
			if err := json.Unmarshal(bz, &genesis); err != nil {
				return fmt.Errorf("decode %s: %w", args[0], err)
			}
			return withApp(cmd, func(a *app.App) error {
				if err := a.InitGenesis(cmd.Context(), genesis); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported genesis at version %d\n", a.LastCommitID().Version)
				return nil
			})
		},
	}
}
