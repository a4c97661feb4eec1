// Package rings provides CLI commands for inspecting the ring configuration.
package rings

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saturn-labs/treasury/chain/address"
	"github.com/saturn-labs/treasury/config/ring"
	"github.com/saturn-labs/treasury/pkg/commands/flags"
	"github.com/saturn-labs/treasury/pkg/commands/text"
	"github.com/saturn-labs/treasury/pkg/logger"
)

var (
	ringsShort = "Ring configuration"

	ringsLong = text.LongDesc(`
		Commands for inspecting the rings the multisig holds assets on.

		Rings are loaded from the embedded defaults merged with the files listed in rings.files.
	`)

	listExample = text.Examples(`
		# List every ring
		treasury rings list

		# Show the networks an asset can move between
		treasury rings assets
	`)
)

// Config holds the configuration for rings commands.
type Config struct {
	// Logger is the logger to use for command output. Required.
	Logger logger.Logger

	// Rings is the loaded ring configuration. Required.
	Rings *ring.Config
}

// Validate checks that all required configuration fields are set.
func (c Config) Validate() error {
	var missing []string

	if c.Logger == nil {
		missing = append(missing, "Logger")
	}
	if c.Rings == nil {
		missing = append(missing, "Rings")
	}

	if len(missing) > 0 {
		return errors.New("rings.Config: missing required fields: " + strings.Join(missing, ", "))
	}

	return nil
}

// NewCommand creates the rings command with all subcommands.
func NewCommand(cfg Config) (*cobra.Command, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cmd := &cobra.Command{
		Use:   "rings",
		Short: ringsShort,
		Long:  ringsLong,
	}

	cmd.AddCommand(newListCmd(cfg))
	cmd.AddCommand(newAssetsCmd(cfg))

	return cmd, nil
}

func newListCmd(cfg Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List the configured rings",
		Example: listExample,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flags.MustBool(cmd.Flags().GetBool("json")) {
				return writeJSON(cmd, cfg.Rings.Rings())
			}

			rows := make([][]string, 0, len(cfg.Rings.Names()))
			for _, r := range cfg.Rings.Rings() {
				rows = append(rows, []string{
					r.Name,
					strconv.FormatBool(r.Native),
					r.NativeAsset,
					strconv.Itoa(int(r.Decimals)),
					addressFormat(r),
					assetSymbols(r),
				})
			}
			text.Table(cmd.OutOrStdout(),
				[]string{"Ring", "Native", "Native Asset", "Decimals", "Address Format", "Assets"}, rows)

			return nil
		},
	}
	flags.JSON(cmd)

	return cmd
}

func newAssetsCmd(cfg Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assets",
		Short: "List the networks each asset can move between",
		RunE: func(cmd *cobra.Command, _ []string) error {
			byAsset := make(map[string][]string, len(cfg.Rings.Assets()))
			rows := make([][]string, 0, len(cfg.Rings.Assets()))
			for _, symbol := range cfg.Rings.Assets() {
				networks, err := cfg.Rings.NetworksByAsset(symbol)
				if err != nil {
					return err
				}
				byAsset[symbol] = networks
				rows = append(rows, []string{symbol, strings.Join(networks, ", ")})
			}

			if flags.MustBool(cmd.Flags().GetBool("json")) {
				return writeJSON(cmd, byAsset)
			}
			text.Table(cmd.OutOrStdout(), []string{"Asset", "Networks"}, rows)

			return nil
		},
	}
	flags.JSON(cmd)

	return cmd
}

func addressFormat(r ring.Ring) string {
	if r.AddressFormat == address.FormatSS58 {
		return fmt.Sprintf("ss58 (%d)", r.SS58Prefix)
	}

	return string(r.AddressFormat)
}

func assetSymbols(r ring.Ring) string {
	symbols := make([]string, 0, len(r.Assets))
	for _, a := range r.Assets {
		symbols = append(symbols, a.Symbol)
	}

	return strings.Join(symbols, ", ")
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
