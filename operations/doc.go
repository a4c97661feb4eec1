/*
Package operations runs the treasury's externally visible actions, such as proposing a transfer, in a
uniform and traceable way.

An Operation wraps a handler with a versioned Definition. Executing it through ExecuteOperation
logs the attempt, optionally retries failures, and records a Report with the input, output and
error in the Bundle's Reporter.

# Basic Usage

	op := operations.NewOperation(
		"transfer/propose", semver.MustParse("1.0.0"), "Propose a multisig asset transfer", handler,
	)

	bundle := operations.NewBundle(func() context.Context { return ctx }, lggr, operations.NewMemoryReporter())
	report, err := operations.ExecuteOperation(bundle, op, deps, input, operations.WithRetry[Input, Deps]())

Handlers should perform at most one side effect. Return NewUnrecoverableError to stop retrying
early, for example when the input itself is invalid.
*/
package operations
