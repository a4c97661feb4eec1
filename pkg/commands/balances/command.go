// Package balances provides the CLI command that shows the multisig's balances on every ring.
package balances

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	fbalances "github.com/saturn-labs/treasury/balances"
	"github.com/saturn-labs/treasury/config/ring"
	"github.com/saturn-labs/treasury/pkg/commands/flags"
	"github.com/saturn-labs/treasury/pkg/commands/text"
	"github.com/saturn-labs/treasury/pkg/logger"
)

var (
	balancesShort = "Show balances on every ring"

	balancesLong = text.LongDesc(`
		Fetches the balances of an account from the balances endpoint, one request per ring,
		and prints them per ring and asset. Amounts are scaled by the precision the ring
		registers the asset with.
	`)

	balancesExample = text.Examples(`
		# Balances of the configured multisig on every ring
		treasury balances

		# Balances of another account on one ring
		treasury balances --address i4zTcKHr38MbSUrhFLVKHG5iULhYttBVrqVon2rv6iWcxjwQK --network tinkernet
	`)
)

// Fetcher loads balances. *balances.Client implements it.
type Fetcher interface {
	FetchNetwork(ctx context.Context, address string, r ring.Ring) (fbalances.Result, error)
	FetchAll(ctx context.Context, address string) (fbalances.NetworkBalances, error)
}

// Config holds the configuration for the balances command.
type Config struct {
	// Logger is the logger to use for command output. Required.
	Logger logger.Logger

	// Rings is the loaded ring configuration. Required.
	Rings *ring.Config

	// Fetcher loads the balances. Required.
	Fetcher Fetcher

	// DefaultAddress is used when --address is not set, usually the multisig address.
	DefaultAddress string
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
	if c.Fetcher == nil {
		missing = append(missing, "Fetcher")
	}

	if len(missing) > 0 {
		return errors.New("balances.Config: missing required fields: " + strings.Join(missing, ", "))
	}

	return nil
}

type balancesFlags struct {
	address string
	network string
	json    bool
}

// NewCommand creates the balances command.
func NewCommand(cfg Config) (*cobra.Command, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cmd := &cobra.Command{
		Use:     "balances",
		Short:   balancesShort,
		Long:    balancesLong,
		Example: balancesExample,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := balancesFlags{
				address: flags.MustString(cmd.Flags().GetString("address")),
				network: flags.MustString(cmd.Flags().GetString("network")),
				json:    flags.MustBool(cmd.Flags().GetBool("json")),
			}

			return runBalances(cmd, cfg, f)
		},
	}

	flags.Address(cmd, false)
	flags.Network(cmd, "Only fetch balances on this ring")
	flags.JSON(cmd)

	return cmd, nil
}

func runBalances(cmd *cobra.Command, cfg Config, f balancesFlags) error {
	addr := f.address
	if addr == "" {
		addr = cfg.DefaultAddress
	}
	if addr == "" {
		return errors.New("no address given and no multisig address configured")
	}

	var (
		all fbalances.NetworkBalances
		err error
	)
	if f.network != "" {
		r, rerr := cfg.Rings.Ring(f.network)
		if rerr != nil {
			return rerr
		}
		result, ferr := cfg.Fetcher.FetchNetwork(cmd.Context(), addr, r)
		if ferr != nil {
			return ferr
		}
		all = fbalances.NetworkBalances{r.Name: result}
	} else {
		all, err = cfg.Fetcher.FetchAll(cmd.Context(), addr)
		if err != nil {
			return err
		}
	}

	cfg.Logger.Infow("Fetched balances", "address", addr, "networks", len(all))

	if f.json {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")

		return enc.Encode(all)
	}

	rows, err := balanceRows(cfg.Rings, all)
	if err != nil {
		return err
	}
	text.Table(cmd.OutOrStdout(), []string{"Ring", "Asset", "Free", "Total"}, rows)

	return nil
}

func balanceRows(cfg *ring.Config, all fbalances.NetworkBalances) ([][]string, error) {
	var rows [][]string
	for _, network := range slices.Sorted(maps.Keys(all)) {
		r, err := cfg.Ring(network)
		if err != nil {
			return nil, err
		}

		for _, entry := range all[network] {
			for _, key := range slices.Sorted(maps.Keys(entry)) {
				rec := entry[key]

				decimals, derr := r.AssetDecimals(key)
				if derr != nil {
					decimals = r.Decimals
				}
				free, ferr := rec.Free(decimals)
				if ferr != nil {
					return nil, fmt.Errorf("%s %s: %w", network, key, ferr)
				}
				total, terr := rec.Total(decimals)
				if terr != nil {
					return nil, fmt.Errorf("%s %s: %w", network, key, terr)
				}

				rows = append(rows, []string{network, key, free.String(), total.String()})
			}
		}
	}

	return rows, nil
}
