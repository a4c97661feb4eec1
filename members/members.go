// Package members lists the members of a multisig together with their voting power.
package members

import (
	"context"
	"fmt"
	"math/big"

	"golang.org/x/sync/errgroup"

	"github.com/saturn-labs/treasury/amount"
	"github.com/saturn-labs/treasury/chain"
	"github.com/saturn-labs/treasury/pkg/logger"
)

// defaultConcurrency bounds the number of vote balance lookups in flight.
const defaultConcurrency = 8

// Member is a multisig member and its raw vote balance.
type Member struct {
	Address string   `json:"address"`
	Votes   *big.Int `json:"votes"`
}

// DisplayVotes renders the vote balance in millions, rounded down to two decimal places.
func (m Member) DisplayVotes() string {
	return amount.FormatVotes(m.Votes)
}

// Service reads members from the multisig SDK.
type Service struct {
	sdk         chain.MultisigSDK
	lggr        logger.Logger
	concurrency int
}

// NewService creates a Service. A concurrency below one uses the default.
func NewService(sdk chain.MultisigSDK, lggr logger.Logger, concurrency int) *Service {
	if concurrency < 1 {
		concurrency = defaultConcurrency
	}

	return &Service{sdk: sdk, lggr: lggr, concurrency: concurrency}
}

// List returns the members of the multisig in the order the SDK reports them, each with its
// vote balance. Balances are loaded concurrently; the first failure cancels the rest.
func (s *Service) List(ctx context.Context, multisigID uint32) ([]Member, error) {
	addrs, err := s.sdk.Members(ctx, multisigID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members of multisig %d: %w", multisigID, err)
	}

	members := make([]Member, len(addrs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, addr := range addrs {
		g.Go(func() error {
			votes, verr := s.sdk.MemberBalance(gctx, multisigID, addr)
			if verr != nil {
				return fmt.Errorf("failed to get votes of member %s: %w", addr, verr)
			}
			if votes == nil {
				votes = new(big.Int)
			}
			members[i] = Member{Address: addr, Votes: votes}

			return nil
		})
	}

	if err = g.Wait(); err != nil {
		return nil, err
	}

	s.lggr.Debugw("Listed multisig members", "multisigID", multisigID, "count", len(members))

	return members, nil
}

// TotalVotes sums the vote balances of members.
func TotalVotes(members []Member) *big.Int {
	total := new(big.Int)
	for _, m := range members {
		if m.Votes != nil {
			total.Add(total, m.Votes)
		}
	}

	return total
}
