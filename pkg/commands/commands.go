// Package commands provides the CLI command packages of the treasury.
//
// There are two ways to use commands from this package:
//
// 1. Via the Commands factory (recommended for most use cases):
//
//	cmds := commands.New(lggr, rings)
//	root.AddCommand(
//	    cmds.Rings(),
//	    cmds.Balances(fetcher, multisig.Address),
//	    cmds.Propose(multisig, fees),
//	    cmds.Members(multisig, sdk),
//	)
//
// 2. Via direct package imports (for advanced DI/testing):
//
//	import "github.com/saturn-labs/treasury/pkg/commands/transfer"
//
//	root.AddCommand(transfer.NewCommand(transfer.Config{
//	    Logger:    lggr,
//	    Rings:     rings,
//	    Multisig:  multisig,
//	    Fees:      fees,
//	    Submitter: mySubmitter,
//	}))
package commands

import (
	"github.com/spf13/cobra"

	"github.com/saturn-labs/treasury/chain"
	"github.com/saturn-labs/treasury/config/ring"
	"github.com/saturn-labs/treasury/pkg/commands/balances"
	"github.com/saturn-labs/treasury/pkg/commands/members"
	"github.com/saturn-labs/treasury/pkg/commands/rings"
	"github.com/saturn-labs/treasury/pkg/commands/transfer"
	"github.com/saturn-labs/treasury/pkg/logger"
)

// Commands provides a factory for creating CLI commands with shared configuration.
// This allows setting the logger and ring configuration once and reusing them across all commands.
type Commands struct {
	lggr  logger.Logger
	rings *ring.Config
}

// New creates a new Commands factory.
func New(lggr logger.Logger, rings *ring.Config) *Commands {
	return &Commands{lggr: lggr, rings: rings}
}

// Rings creates the rings command group.
func (c *Commands) Rings() (*cobra.Command, error) {
	return rings.NewCommand(rings.Config{
		Logger: c.lggr,
		Rings:  c.rings,
	})
}

// Balances creates the balances command. defaultAddress is used when --address is not given.
func (c *Commands) Balances(fetcher balances.Fetcher, defaultAddress string) (*cobra.Command, error) {
	return balances.NewCommand(balances.Config{
		Logger:         c.lggr,
		Rings:          c.rings,
		Fetcher:        fetcher,
		DefaultAddress: defaultAddress,
	})
}

// Propose creates the propose command group. Proposals are printed as JSON.
func (c *Commands) Propose(multisig chain.Multisig, fees chain.FeeEstimator) (*cobra.Command, error) {
	return transfer.NewCommand(transfer.Config{
		Logger:   c.lggr,
		Rings:    c.rings,
		Multisig: multisig,
		Fees:     fees,
	})
}

// Members creates the members command. sdk is the multisig SDK client.
func (c *Commands) Members(multisig chain.Multisig, sdk chain.MultisigSDK) (*cobra.Command, error) {
	return members.NewCommand(members.Config{
		Logger:   c.lggr,
		Multisig: multisig,
		SDK:      sdk,
	})
}
