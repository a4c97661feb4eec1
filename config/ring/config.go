package ring

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when a ring or asset is not present in the configuration.
var ErrNotFound = errors.New("not found")

// Manifest is the YAML representation of the ring configuration.
type Manifest struct {
	Rings []Ring `yaml:"rings"`
	// NetworksByAsset lists, per asset symbol, the rings the asset can be moved between.
	NetworksByAsset map[string][]string `yaml:"networks_by_asset"`
}

// Config is the loaded ring configuration. Rings are keyed by name so they are unique and can be
// looked up directly.
type Config struct {
	rings           map[string]Ring
	networksByAsset map[string][]string
}

// NewConfig creates a config from a manifest. Rings with duplicate names are overwritten by the
// later entry.
func NewConfig(m Manifest) *Config {
	rings := make(map[string]Ring, len(m.Rings))
	for _, r := range m.Rings {
		rings[r.Name] = r
	}

	byAsset := make(map[string][]string, len(m.NetworksByAsset))
	for symbol, networks := range m.NetworksByAsset {
		byAsset[symbol] = slices.Clone(networks)
	}

	return &Config{
		rings:           rings,
		networksByAsset: byAsset,
	}
}

// Validate checks every ring and that the configuration is complete: one native ring, and every
// network listed for an asset is a known ring that registers the asset.
func (c *Config) Validate() error {
	for _, r := range c.Rings() {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("ring %s: %w", r.Name, err)
		}
	}

	natives := lo.Filter(c.Rings(), func(r Ring, _ int) bool { return r.Native })
	if len(natives) != 1 {
		return fmt.Errorf("exactly one native ring is required, found %d", len(natives))
	}

	for _, symbol := range c.Assets() {
		networks := c.networksByAsset[symbol]
		if len(networks) == 0 {
			return fmt.Errorf("asset %s: no networks listed", symbol)
		}
		if dups := lo.FindDuplicates(networks); len(dups) > 0 {
			return fmt.Errorf("asset %s: duplicate networks %v", symbol, dups)
		}

		for _, name := range networks {
			r, ok := c.rings[name]
			if !ok {
				return fmt.Errorf("asset %s: unknown network %s", symbol, name)
			}
			if _, ok := r.Asset(symbol); !ok {
				return fmt.Errorf("asset %s: not registered on network %s", symbol, name)
			}
		}
	}

	return nil
}

// Rings returns all rings sorted by name.
func (c *Config) Rings() []Ring {
	return slices.SortedFunc(maps.Values(c.rings), func(a, b Ring) int {
		return cmp.Compare(a.Name, b.Name)
	})
}

// Names returns the names of all rings, sorted.
func (c *Config) Names() []string {
	return slices.Sorted(maps.Keys(c.rings))
}

// Assets returns every asset symbol that has a network list, sorted.
func (c *Config) Assets() []string {
	return slices.Sorted(maps.Keys(c.networksByAsset))
}

// Ring returns the ring with the given name.
func (c *Config) Ring(name string) (Ring, error) {
	r, ok := c.rings[name]
	if !ok {
		return Ring{}, fmt.Errorf("ring %q: %w", name, ErrNotFound)
	}

	return r, nil
}

// Native returns the native ring. The config must have been validated.
func (c *Config) Native() Ring {
	r, _ := lo.Find(c.Rings(), func(r Ring) bool { return r.Native })

	return r
}

// NetworksByAsset returns the rings symbol can be moved between.
func (c *Config) NetworksByAsset(symbol string) ([]string, error) {
	networks, ok := c.networksByAsset[symbol]
	if !ok {
		return nil, fmt.Errorf("asset %q: %w", symbol, ErrNotFound)
	}

	return slices.Clone(networks), nil
}

// Merge merges other into c. Rings and asset network lists from other take precedence.
func (c *Config) Merge(other *Config) {
	maps.Copy(c.rings, other.rings)
	maps.Copy(c.networksByAsset, other.networksByAsset)
}

// MarshalYAML implements the yaml.Marshaler interface.
func (c *Config) MarshalYAML() (any, error) {
	return Manifest{
		Rings:           c.Rings(),
		NetworksByAsset: c.networksByAsset,
	}, nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	m := Manifest{}
	if err := value.Decode(&m); err != nil {
		return err
	}

	*c = *NewConfig(m)

	return nil
}

// Parse parses and validates a single YAML manifest.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rings YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate rings configuration: %w", err)
	}

	return &cfg, nil
}

// Load starts from the embedded default manifest and merges each file in filePaths over it, in order.
// The merged result is validated before it is returned.
func Load(filePaths ...string) (*Config, error) {
	cfg := Default()

	for _, fp := range filePaths {
		data, err := os.ReadFile(fp)
		if err != nil {
			return nil, fmt.Errorf("failed to read rings file: %w", err)
		}

		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal rings YAML %s: %w", fp, err)
		}

		cfg.Merge(&fileCfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate rings configuration: %w", err)
	}

	return cfg, nil
}
