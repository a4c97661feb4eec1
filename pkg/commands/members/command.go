// Package members provides the CLI command that lists the multisig members and their votes.
package members

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saturn-labs/treasury/amount"
	"github.com/saturn-labs/treasury/chain"
	fmembers "github.com/saturn-labs/treasury/members"
	"github.com/saturn-labs/treasury/pkg/commands/flags"
	"github.com/saturn-labs/treasury/pkg/commands/text"
	"github.com/saturn-labs/treasury/pkg/logger"
)

var (
	membersShort = "List multisig members and their votes"

	membersLong = text.LongDesc(`
		Lists the members of the multisig with their voting power. Votes are shown in
		millions, rounded down to two decimal places.
	`)

	membersExample = text.Examples(`
		# Members of the configured multisig
		treasury members

		# Raw vote balances as JSON
		treasury members --json
	`)
)

// Config holds the configuration for the members command.
type Config struct {
	// Logger is the logger to use for command output. Required.
	Logger logger.Logger

	// Multisig is the multisig whose members are listed. Required.
	Multisig chain.Multisig

	// SDK reads members and their vote balances. Required.
	SDK chain.MultisigSDK

	// Concurrency bounds the vote balance lookups in flight. Defaults to 8.
	Concurrency int
}

// Validate checks that all required configuration fields are set.
func (c Config) Validate() error {
	var missing []string

	if c.Logger == nil {
		missing = append(missing, "Logger")
	}
	if c.SDK == nil {
		missing = append(missing, "SDK")
	}

	if len(missing) > 0 {
		return errors.New("members.Config: missing required fields: " + strings.Join(missing, ", "))
	}

	return c.Multisig.Validate()
}

// NewCommand creates the members command.
func NewCommand(cfg Config) (*cobra.Command, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	svc := fmembers.NewService(cfg.SDK, logger.Named(cfg.Logger, "members"), cfg.Concurrency)

	cmd := &cobra.Command{
		Use:     "members",
		Short:   membersShort,
		Long:    membersLong,
		Example: membersExample,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := svc.List(cmd.Context(), cfg.Multisig.ID)
			if err != nil {
				return err
			}

			if flags.MustBool(cmd.Flags().GetBool("json")) {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")

				return enc.Encode(list)
			}

			rows := make([][]string, 0, len(list)+1)
			for _, m := range list {
				rows = append(rows, []string{m.Address, m.DisplayVotes()})
			}
			rows = append(rows, []string{"Total", amount.FormatVotes(fmembers.TotalVotes(list))})
			text.Table(cmd.OutOrStdout(), []string{"Member", "Votes"}, rows)

			return nil
		},
	}

	flags.JSON(cmd)

	return cmd, nil
}
