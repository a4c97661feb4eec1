package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math/big"
	"net/url"
	"os"
	"slices"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/saturn-labs/treasury/chain"
)

// MultisigConfig identifies the multisig the treasury acts for.
type MultisigConfig struct {
	ID      uint32 `mapstructure:"id" yaml:"id"`           // The multisig id in the multisig SDK
	Address string `mapstructure:"address" yaml:"address"` // The multisig account on the native ring
}

// BalancesConfig is the configuration of the REST balances endpoint.
type BalancesConfig struct {
	BaseURL       string        `mapstructure:"base_url" yaml:"base_url"`             // Prefix of every balances request, followed by the account address
	Timeout       time.Duration `mapstructure:"timeout" yaml:"timeout"`               // Timeout of a single request
	RetryAttempts uint          `mapstructure:"retry_attempts" yaml:"retry_attempts"` // Attempts per request, including the first
}

// RingsConfig lists ring manifests merged over the embedded defaults.
type RingsConfig struct {
	Files []string `mapstructure:"files" yaml:"files,omitempty"`
}

// LogConfig is the configuration of the CLI logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // json or console
}

// Config wraps the entire configuration of the treasury CLI.
type Config struct {
	Multisig MultisigConfig `mapstructure:"multisig" yaml:"multisig"`
	Balances BalancesConfig `mapstructure:"balances" yaml:"balances"`
	Rings    RingsConfig    `mapstructure:"rings" yaml:"rings"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	// Fees is the partial fee per ring in base units, used when no chain API is wired in. File
	// configuration only.
	Fees map[string]string `mapstructure:"fees" yaml:"fees,omitempty"`
}

// MultisigIdentity returns the multisig identity.
func (c *Config) MultisigIdentity() chain.Multisig {
	return chain.Multisig{ID: c.Multisig.ID, Address: c.Multisig.Address}
}

// LogLevel parses the configured log level.
func (c *Config) LogLevel() (zapcore.Level, error) {
	return zapcore.ParseLevel(c.Log.Level)
}

// StaticFees parses Fees into a fee estimator.
func (c *Config) StaticFees() (chain.StaticFeeEstimator, error) {
	fees := make(chain.StaticFeeEstimator, len(c.Fees))
	for network, raw := range c.Fees {
		fee, ok := new(big.Int).SetString(raw, 10)
		if !ok || fee.Sign() < 0 {
			return nil, fmt.Errorf("fee for %s: %q is not a non-negative integer", network, raw)
		}
		fees[network] = fee
	}

	return fees, nil
}

// Validate checks the values that have no usable zero value.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Balances.BaseURL)
	if err != nil {
		return fmt.Errorf("balances.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("balances.base_url: unsupported scheme %q", u.Scheme)
	}
	if c.Balances.RetryAttempts == 0 {
		return errors.New("balances.retry_attempts must be at least 1")
	}
	if c.Balances.Timeout <= 0 {
		return errors.New("balances.timeout must be positive")
	}
	if _, err = c.LogLevel(); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if _, err = c.StaticFees(); err != nil {
		return err
	}

	return nil
}

// Load loads the config from the file path, falling back to env vars if the file does not exist.
// If the file exists, any env vars that are set will override the values loaded from the file.
func Load(filePath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(filePath)

	if err := bindEnvs(v); err != nil {
		return nil, err
	}

	// If the config file exists, we continue to read it, otherwise we fallback to using
	// environment variables
	if _, err := os.Stat(filePath); !errors.Is(err, fs.ErrNotExist) {
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	err := v.Unmarshal(cfg)

	return cfg, err
}

// LoadEnv loads the config from the environment variables.
func LoadEnv() (*Config, error) {
	v := newViper()

	if err := bindEnvs(v); err != nil {
		return nil, err
	}

	cfg := &Config{}
	err := v.Unmarshal(cfg)

	return cfg, err
}

// LoadFile loads the config from a file.
func LoadFile(filePath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(filePath)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	err := v.Unmarshal(cfg)

	return cfg, err
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	return v
}

var (
	defaults = map[string]any{
		"balances.base_url":       "https://sub.id/api/v1/",
		"balances.timeout":        "10s",
		"balances.retry_attempts": 3,
		"log.level":               "info",
		"log.format":              "json",
	}

	// envBindings maps config keys to the environment variables that can provide their value. The
	// first element is the preferred name; later elements are accepted aliases. Viper uses the
	// first one that is set.
	envBindings = map[string][]string{
		"multisig.id":             {"TREASURY_MULTISIG_ID"},
		"multisig.address":        {"TREASURY_MULTISIG_ADDRESS"},
		"balances.base_url":       {"TREASURY_BALANCES_BASE_URL", "SUBID_BASE_URL"},
		"balances.timeout":        {"TREASURY_BALANCES_TIMEOUT"},
		"balances.retry_attempts": {"TREASURY_BALANCES_RETRY_ATTEMPTS"},
		"rings.files":             {"TREASURY_RINGS_FILES"},
		"log.level":               {"TREASURY_LOG_LEVEL", "LOG_LEVEL"},
		"log.format":              {"TREASURY_LOG_FORMAT", "LOG_FORMAT"},
	}
)

// bindEnvs binds the environment variables to the viper instance.
func bindEnvs(v *viper.Viper) error {
	for key, envs := range envBindings {
		// Prepend the env key to the start of the arguments
		inputs := slices.Insert(slices.Clone(envs), 0, key)

		if err := v.BindEnv(inputs...); err != nil {
			return err
		}
	}

	return nil
}
