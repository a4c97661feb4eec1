// Command treasury inspects multisig treasury balances across the configured rings and builds
// transfer proposals for the multisig to vote on.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/saturn-labs/treasury/balances"
	envconfig "github.com/saturn-labs/treasury/config/env"
	"github.com/saturn-labs/treasury/config/ring"
	"github.com/saturn-labs/treasury/pkg/commands"
	"github.com/saturn-labs/treasury/pkg/logger"
)

const defaultConfigPath = "treasury.yml"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configPath := os.Getenv("TREASURY_CONFIG")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	cfg, err := envconfig.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err = cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	lvl, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	lggr, err := logger.Config{Level: lvl, Format: logger.ParseFormat(cfg.Log.Format)}.New()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	rings, err := ring.Load(cfg.Rings.Files...)
	if err != nil {
		return fmt.Errorf("failed to load rings: %w", err)
	}

	root, err := newRootCommand(cfg, lggr, rings)
	if err != nil {
		return err
	}
	root.SetArgs(args)

	return root.ExecuteContext(ctx)
}

// newRootCommand assembles the treasury command tree from a loaded configuration.
func newRootCommand(cfg *envconfig.Config, lggr logger.Logger, rings *ring.Config) (*cobra.Command, error) {
	root := &cobra.Command{
		Use:           "treasury",
		Short:         "Multisig treasury balances and transfer proposals",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	fees, err := cfg.StaticFees()
	if err != nil {
		return nil, err
	}
	lvl, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}

	client := balances.NewClient(cfg.Balances.BaseURL, rings, logger.Named(lggr, "balances"),
		balances.WithTimeout(cfg.Balances.Timeout),
		balances.WithRetry(cfg.Balances.RetryAttempts, 0),
		balances.WithDebug(lvl == zapcore.DebugLevel),
	)

	cmds := commands.New(lggr, rings)

	ringsCmd, err := cmds.Rings()
	if err != nil {
		return nil, err
	}
	balancesCmd, err := cmds.Balances(client, cfg.Multisig.Address)
	if err != nil {
		return nil, err
	}
	root.AddCommand(ringsCmd, balancesCmd)

	// Proposals are made on behalf of the multisig, so they need its address.
	multisig := cfg.MultisigIdentity()
	if multisig.Validate() == nil {
		proposeCmd, err := cmds.Propose(multisig, fees)
		if err != nil {
			return nil, err
		}
		root.AddCommand(proposeCmd)
	} else {
		lggr.Debugw("No multisig address configured, propose command disabled")
	}

	return root, nil
}
