// Package transfer builds multisig transfer proposals.
//
// A transfer starts as a [Form], opened for an asset on one of the networks the asset can move
// between. When the form is submitted it is validated into a [Draft]: the network pair is
// classified into a [Route], the amount is scaled to base units with the precision the source
// chain registers the asset with, and the recipient is checked against the destination chain's
// address format. A [Proposer] then estimates the XCM fee for cross-chain routes, builds the
// [Proposal] and hands it to a [Submitter].
//
// Routes are classified against the native chain, where the multisig holds its own key:
//
//	from == to == native          local transfer
//	from == native, to != native  outbound bridge
//	from != native, from != to    xcm bridge
//	from != native, from == to    xcm transfer
package transfer
