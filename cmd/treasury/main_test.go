package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	envconfig "github.com/saturn-labs/treasury/config/env"
	"github.com/saturn-labs/treasury/config/ring"
	"github.com/saturn-labs/treasury/pkg/logger"
)

func testConfig() *envconfig.Config {
	return &envconfig.Config{
		Balances: envconfig.BalancesConfig{
			BaseURL:       "https://sub.id/api/v1/",
			Timeout:       time.Second,
			RetryAttempts: 1,
		},
		Log: envconfig.LogConfig{Level: "info", Format: "json"},
	}
}

func commandNames(t *testing.T, cfg *envconfig.Config) []string {
	t.Helper()

	root, err := newRootCommand(cfg, logger.Test(t), ring.Default())
	require.NoError(t, err)

	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}

	return names
}

func Test_newRootCommand(t *testing.T) {
	t.Parallel()

	t.Run("without multisig address", func(t *testing.T) {
		t.Parallel()

		names := commandNames(t, testConfig())
		assert.Contains(t, names, "rings")
		assert.Contains(t, names, "balances")
		assert.NotContains(t, names, "propose")
	})

	t.Run("with multisig address", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig()
		cfg.Multisig = envconfig.MultisigConfig{ID: 1, Address: "i4zHLh9S5YwLsZxy5rVGHQ4DyAQFB5KqBgLXXZVt4jBHz5J2g"}

		assert.Contains(t, commandNames(t, cfg), "propose")
	})

	t.Run("invalid fee", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig()
		cfg.Fees = map[string]string{"tinkernet": "-1"}

		_, err := newRootCommand(cfg, logger.Nop(), ring.Default())
		require.ErrorContains(t, err, "fee for tinkernet")
	})
}

func Test_newRootCommand_Rings(t *testing.T) {
	t.Parallel()

	root, err := newRootCommand(testConfig(), logger.Nop(), ring.Default())
	require.NoError(t, err)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"rings", "list"})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "tinkernet")
}
