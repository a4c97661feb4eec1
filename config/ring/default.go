package ring

import (
	_ "embed"
	"fmt"
)

//go:embed rings.yaml
var defaultManifest []byte

// Default returns a fresh copy of the embedded ring configuration.
func Default() *Config {
	cfg, err := Parse(defaultManifest)
	if err != nil {
		panic(fmt.Sprintf("embedded rings manifest is invalid: %v", err))
	}

	return cfg
}
