package transfer

import (
	"context"
	"fmt"
	"math/big"

	"github.com/Masterminds/semver/v3"

	"github.com/saturn-labs/treasury/chain"
	"github.com/saturn-labs/treasury/config/ring"
	"github.com/saturn-labs/treasury/operations"
	"github.com/saturn-labs/treasury/pkg/logger"
)

// Submitter receives proposals once they are built, typically to hand them to the multisig SDK's
// call construction and submission pipeline.
type Submitter interface {
	Submit(ctx context.Context, p Proposal) error
}

// SubmitterFunc adapts a function to a Submitter.
type SubmitterFunc func(ctx context.Context, p Proposal) error

// Submit implements Submitter.
func (f SubmitterFunc) Submit(ctx context.Context, p Proposal) error {
	return f(ctx, p)
}

// ProposeInput is the input of ProposeOp.
type ProposeInput struct {
	Multisig chain.Multisig `json:"multisig"`
	Draft    Draft          `json:"draft"`
}

// ProposeDeps are the dependencies of ProposeOp.
type ProposeDeps struct {
	Fees chain.FeeEstimator
}

// ProposeOp estimates the fee of a validated draft and builds its proposal. Fee estimation
// failures are returned as ErrExternalCall and may be retried; build failures are not.
var ProposeOp = operations.NewOperation(
	"transfer/propose",
	semver.MustParse("1.0.0"),
	"Estimate the transfer fee and build the multisig proposal",
	func(b operations.Bundle, deps ProposeDeps, in ProposeInput) (Proposal, error) {
		var fee *big.Int
		if in.Draft.NeedsFee() {
			q := feeQuery(in.Multisig, in.Draft)

			var err error
			fee, err = deps.Fees.EstimateFee(b.GetContext(), q)
			if err != nil {
				return Proposal{}, fmt.Errorf("%w: estimate %s fee on %s: %w", ErrExternalCall, q.Kind, q.Chain, err)
			}
			if fee == nil {
				return Proposal{}, fmt.Errorf("%w: estimate %s fee on %s: no fee returned", ErrExternalCall, q.Kind, q.Chain)
			}
			b.Logger.Debugw("Estimated fee", "chain", q.Chain, "kind", q.Kind, "fee", fee.String())
		}

		p, err := in.Draft.Proposal(in.Multisig.ID, fee)
		if err != nil {
			return Proposal{}, operations.NewUnrecoverableError(err)
		}

		return p, nil
	},
)

func feeQuery(m chain.Multisig, d Draft) chain.FeeQuery {
	q := chain.FeeQuery{
		Chain:     d.Pair.From,
		Kind:      chain.FeeKindReserveTransfer,
		Payer:     m.Address,
		Recipient: d.Target,
		Amount:    d.Amount,
	}
	if d.Route == RouteXcmTransfer {
		q.Kind = chain.FeeKindBalanceTransfer
	}
	if q.Recipient == "" {
		q.Recipient = m.Address
	}

	return q
}

// Proposer turns submitted transfer forms into proposals and hands them to a Submitter.
type Proposer struct {
	rings     *ring.Config
	multisig  chain.Multisig
	fees      chain.FeeEstimator
	submitter Submitter
	lggr      logger.Logger
	reporter  operations.Reporter
	retry     operations.RetryPolicy
	onState   func(State, error)
}

// ProposerOption configures a Proposer.
type ProposerOption func(*Proposer)

// WithReporter records every propose operation in r.
func WithReporter(r operations.Reporter) ProposerOption {
	return func(p *Proposer) {
		p.reporter = r
	}
}

// WithRetryPolicy sets how fee estimation failures are retried.
func WithRetryPolicy(policy operations.RetryPolicy) ProposerOption {
	return func(p *Proposer) {
		p.retry = policy
	}
}

// WithStateHook registers fn to be called on every submission state change. The error is set
// when the state is StateRejected.
func WithStateHook(fn func(State, error)) ProposerOption {
	return func(p *Proposer) {
		p.onState = fn
	}
}

// NewProposer creates a Proposer for the multisig.
func NewProposer(
	rings *ring.Config,
	multisig chain.Multisig,
	fees chain.FeeEstimator,
	submitter Submitter,
	lggr logger.Logger,
	opts ...ProposerOption,
) *Proposer {
	p := &Proposer{
		rings:     rings,
		multisig:  multisig,
		fees:      fees,
		submitter: submitter,
		lggr:      lggr,
		reporter:  operations.NewMemoryReporter(),
		retry:     operations.RetryPolicy{MaxAttempts: 3},
		onState:   func(State, error) {},
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Reporter returns the reporter the propose operations are recorded in.
func (p *Proposer) Reporter() operations.Reporter {
	return p.reporter
}

// Propose validates the form, estimates the fee when the route needs one, builds the proposal and
// submits it. Validation failures are returned as typed errors and nothing is submitted. If ctx
// is cancelled while the fee is being estimated the result is discarded.
func (p *Proposer) Propose(ctx context.Context, form Form) (Proposal, error) {
	p.onState(StateValidating, nil)

	draft, err := form.Validate(p.rings)
	if err != nil {
		return Proposal{}, p.reject(form, err)
	}

	b := operations.NewBundle(func() context.Context { return ctx }, p.lggr, p.reporter)
	report, err := operations.ExecuteOperation(b, ProposeOp,
		ProposeDeps{Fees: p.fees},
		ProposeInput{Multisig: p.multisig, Draft: draft},
		operations.WithRetryConfig(operations.RetryConfig[ProposeInput, ProposeDeps]{
			Enabled: true,
			Policy:  p.retry,
		}),
	)
	if err != nil {
		return Proposal{}, p.reject(form, err)
	}
	if err = ctx.Err(); err != nil {
		return Proposal{}, p.reject(form, err)
	}

	proposal := report.Output
	p.onState(StateProposalReady, nil)

	if err = p.submitter.Submit(ctx, proposal); err != nil {
		return Proposal{}, fmt.Errorf("submit %s proposal: %w", proposal.Kind, err)
	}

	p.lggr.Infow("Proposal submitted",
		"kind", proposal.Kind,
		"chain", proposal.Chain,
		"destinationChain", proposal.DestinationChain,
		"asset", proposal.Asset,
		"amount", proposal.Amount.String(),
		"toSelf", proposal.ToSelf(),
		"reportID", report.ID,
	)

	return proposal, nil
}

func (p *Proposer) reject(form Form, err error) error {
	p.onState(StateRejected, err)
	p.lggr.Infow("Transfer rejected",
		"asset", form.Asset(), "from", form.Pair().From, "to", form.Pair().To, "error", err)

	return err
}
