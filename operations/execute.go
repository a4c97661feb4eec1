package operations

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
)

// ErrNotSerializable is returned when an operation input or output cannot be recorded in a report.
var ErrNotSerializable = errors.New("data cannot be serialized to JSON")

// ExecuteConfig is the configuration for the ExecuteOperation function.
type ExecuteConfig[IN, DEP any] struct {
	retryConfig RetryConfig[IN, DEP]
}

type ExecuteOption[IN, DEP any] func(*ExecuteConfig[IN, DEP])

type RetryConfig[IN, DEP any] struct {
	// Enabled determines if the retry is enabled for the operation.
	Enabled bool

	// Policy is the retry policy to control the behavior of the retry.
	Policy RetryPolicy

	// InputHook returns an updated input before the operation is retried.
	InputHook func(attempt uint, err error, input IN, deps DEP) IN
}

// RetryPolicy defines the arguments to control the retry behavior.
type RetryPolicy struct {
	MaxAttempts uint
	// Delay is the base delay between attempts; it grows exponentially.
	Delay time.Duration
}

var defaultRetryPolicy = RetryPolicy{
	MaxAttempts: 3,
	Delay:       200 * time.Millisecond,
}

func (p RetryPolicy) options() []retry.Option {
	opts := []retry.Option{
		retry.Attempts(p.MaxAttempts),
		retry.LastErrorOnly(true),
	}
	if p.Delay > 0 {
		opts = append(opts, retry.Delay(p.Delay))
	}

	return opts
}

// WithRetry enables the default retry policy for the operation.
func WithRetry[IN, DEP any]() ExecuteOption[IN, DEP] {
	return func(c *ExecuteConfig[IN, DEP]) {
		c.retryConfig.Enabled = true
	}
}

// WithRetryConfig sets the complete retry configuration.
func WithRetryConfig[IN, DEP any](config RetryConfig[IN, DEP]) ExecuteOption[IN, DEP] {
	return func(c *ExecuteConfig[IN, DEP]) {
		c.retryConfig = config
	}
}

// ExecuteOperation executes an operation with the given input and dependencies and records a Report
// of the outcome in the bundle's reporter, whether it succeeded or not.
//
// Retry is disabled by default. Use WithRetry or WithRetryConfig to enable it, and return an error
// wrapped with NewUnrecoverableError from the handler to stop retrying.
//
// The input and output must be JSON serializable so the report can be exported.
func ExecuteOperation[IN, OUT, DEP any](
	b Bundle,
	operation *Operation[IN, OUT, DEP],
	deps DEP,
	input IN,
	opts ...ExecuteOption[IN, DEP],
) (Report[IN, OUT], error) {
	if err := checkSerializable(input); err != nil {
		return Report[IN, OUT]{}, fmt.Errorf("operation %s input: %w", operation.def.ID, err)
	}

	executeConfig := &ExecuteConfig[IN, DEP]{
		retryConfig: RetryConfig[IN, DEP]{Policy: defaultRetryPolicy},
	}
	for _, opt := range opts {
		opt(executeConfig)
	}

	var (
		output OUT
		err    error
	)

	if executeConfig.retryConfig.Enabled {
		inputTemp := input

		retryOpts := executeConfig.retryConfig.Policy.options()
		retryOpts = append(retryOpts,
			retry.Context(b.GetContext()),
			retry.OnRetry(func(attempt uint, err error) {
				b.Logger.Warnw("Operation failed. Retrying...",
					"operation", operation.def.ID, "attempt", attempt, "error", err)

				if executeConfig.retryConfig.InputHook != nil {
					inputTemp = executeConfig.retryConfig.InputHook(attempt, err, inputTemp, deps)
				}
			}),
		)

		output, err = retry.DoWithData(
			func() (OUT, error) {
				return operation.execute(b, deps, inputTemp)
			},
			retryOpts...,
		)
	} else {
		output, err = operation.execute(b, deps, input)
	}

	if err == nil {
		if serr := checkSerializable(output); serr != nil {
			return Report[IN, OUT]{}, fmt.Errorf("operation %s output: %w", operation.def.ID, serr)
		}
	}

	report := NewReport(operation.def, input, output, err)
	if rerr := b.reporter.AddReport(genericReport(report)); rerr != nil {
		return Report[IN, OUT]{}, rerr
	}

	if err != nil {
		b.Logger.Errorw("Operation failed", "operation", operation.def.ID, "error", err)

		return report, err
	}

	return report, nil
}

// NewUnrecoverableError marks err so that a retrying operation stops immediately.
func NewUnrecoverableError(err error) error {
	return retry.Unrecoverable(err)
}

func checkSerializable(v any) error {
	if _, err := json.Marshal(v); err != nil {
		return fmt.Errorf("%w: %w", ErrNotSerializable, err)
	}

	return nil
}
