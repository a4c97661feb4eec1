// Package transfer provides the CLI command that builds a multisig transfer proposal.
package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saturn-labs/treasury/chain"
	"github.com/saturn-labs/treasury/config/ring"
	"github.com/saturn-labs/treasury/operations"
	"github.com/saturn-labs/treasury/pkg/commands/flags"
	"github.com/saturn-labs/treasury/pkg/commands/text"
	"github.com/saturn-labs/treasury/pkg/logger"
	"github.com/saturn-labs/treasury/transfer"
)

var (
	proposeShort = "Build multisig proposals"

	transferShort = "Build a transfer proposal"

	transferLong = text.LongDesc(`
		Validates a transfer of an asset held by the multisig, classifies its route, estimates the
		XCM fee for cross-chain routes and prints the resulting proposal as JSON.

		The source network defaults to --network, the destination to the source.
	`)

	transferExample = text.Examples(`
		# Transfer 10 TNKR on Tinkernet
		treasury propose transfer --asset TNKR --network tinkernet --amount 10 --recipient i4zTcKHr38MbSUrhFLVKHG5iULhYttBVrqVon2rv6iWcxjwQK

		# Bridge 2 KSM from Moonbeam back to the multisig on Tinkernet
		treasury propose transfer --asset KSM --network moonbeam --to tinkernet --amount 2 --self
	`)
)

// Config holds the configuration for the propose commands.
type Config struct {
	// Logger is the logger to use for command output. Required.
	Logger logger.Logger

	// Rings is the loaded ring configuration. Required.
	Rings *ring.Config

	// Multisig is the multisig the proposal is built for. Required.
	Multisig chain.Multisig

	// Fees estimates XCM fees. Required.
	Fees chain.FeeEstimator

	// Submitter receives the built proposal. Defaults to printing it as JSON.
	Submitter transfer.Submitter

	// RetryPolicy controls fee estimation retries. Defaults to three attempts.
	RetryPolicy operations.RetryPolicy
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
	if c.Fees == nil {
		missing = append(missing, "Fees")
	}

	if len(missing) > 0 {
		return errors.New("transfer.Config: missing required fields: " + strings.Join(missing, ", "))
	}

	return c.Multisig.Validate()
}

// NewCommand creates the propose command with the transfer subcommand.
func NewCommand(cfg Config) (*cobra.Command, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cmd := &cobra.Command{
		Use:   "propose",
		Short: proposeShort,
	}
	cmd.AddCommand(newTransferCmd(cfg))

	return cmd, nil
}

type transferFlags struct {
	asset     string
	network   string
	to        string
	amount    string
	recipient string
	self      bool
}

func newTransferCmd(cfg Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transfer",
		Short:   transferShort,
		Long:    transferLong,
		Example: transferExample,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := transferFlags{
				asset:     flags.MustString(cmd.Flags().GetString("asset")),
				network:   flags.MustString(cmd.Flags().GetString("network")),
				to:        flags.MustString(cmd.Flags().GetString("to")),
				amount:    flags.MustString(cmd.Flags().GetString("amount")),
				recipient: flags.MustString(cmd.Flags().GetString("recipient")),
				self:      flags.MustBool(cmd.Flags().GetBool("self")),
			}

			return runTransfer(cmd, cfg, f)
		},
	}

	flags.Network(cmd, "Source network (required)")
	_ = cmd.MarkFlagRequired("network")
	cmd.Flags().String("asset", "", "Asset symbol (required)")
	cmd.Flags().String("to", "", "Destination network (default: the source network)")
	cmd.Flags().String("amount", "", "Amount in whole units, e.g. 1.5 (required)")
	cmd.Flags().StringP("recipient", "r", "", "Recipient address on the destination network")
	cmd.Flags().Bool("self", false, "Bridge to the multisig's own account on the destination network")
	_ = cmd.MarkFlagRequired("asset")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func runTransfer(cmd *cobra.Command, cfg Config, f transferFlags) error {
	form, err := transfer.Open(cfg.Rings, f.asset, f.network)
	if err != nil {
		return err
	}
	if f.to != "" {
		form = form.WithTo(f.to)
	}
	form = form.WithAmountText(f.amount).WithTarget(f.recipient)
	if f.self {
		if form.Pair().SameChain() {
			return errors.New("--self requires --to to name another network")
		}
		form = form.ToggleBridgeToSelf()
	}

	submitter := cfg.Submitter
	if submitter == nil {
		submitter = jsonSubmitter(cmd.OutOrStdout())
	}

	opts := []transfer.ProposerOption{}
	if cfg.RetryPolicy.MaxAttempts > 0 {
		opts = append(opts, transfer.WithRetryPolicy(cfg.RetryPolicy))
	}
	proposer := transfer.NewProposer(cfg.Rings, cfg.Multisig, cfg.Fees, submitter, cfg.Logger, opts...)

	if _, err = proposer.Propose(cmd.Context(), form); err != nil {
		return fmt.Errorf("failed to build transfer proposal: %w", err)
	}

	return nil
}

func jsonSubmitter(w io.Writer) transfer.Submitter {
	return transfer.SubmitterFunc(func(_ context.Context, p transfer.Proposal) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(p)
	})
}
