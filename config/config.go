// Package config loads the YAML device manifest txflashctl uses to open
// one or more named engines: which files back each bank, how large they
// are, what erased value they use, and where the default payload comes
// from. The commit engine itself takes no configuration beyond its
// constructor arguments (bank0, bank1, default payload) — this package
// exists for the host process wiring those together, not for the engine.
package config

import (
	"encoding/hex"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// BankSpec names the file backing one bank and its fixed capacity.
type BankSpec struct {
	Path      string `yaml:"path"`
	SizeBytes uint32 `yaml:"size_bytes"`
}

// EngineSpec describes one named engine: its two banks, its position
// width, its erased value, and where to source its default payload.
type EngineSpec struct {
	Name       string   `yaml:"name"`
	Bank0      BankSpec `yaml:"bank0"`
	Bank1      BankSpec `yaml:"bank1"`
	EmptyValue byte     `yaml:"empty_value"`

	// PositionWidth selects sizeL: "u8", "u16", or "u32". Defaults to
	// "u16" if empty, matching the size most sectors up to 64 KiB need.
	PositionWidth string `yaml:"position_width"`

	// Exactly one of these should be set; DefaultPayloadHex takes
	// precedence if both are.
	DefaultPayloadFile string `yaml:"default_payload_file"`
	DefaultPayloadHex  string `yaml:"default_payload_hex"`
}

// DefaultPayload resolves the spec's configured default payload source
// into bytes.
func (s EngineSpec) DefaultPayload() ([]byte, error) {
	if s.DefaultPayloadHex != "" {
		b, err := hex.DecodeString(s.DefaultPayloadHex)
		if err != nil {
			return nil, fmt.Errorf("config: %s: decode default_payload_hex: %w", s.Name, err)
		}
		return b, nil
	}
	if s.DefaultPayloadFile != "" {
		b, err := os.ReadFile(s.DefaultPayloadFile)
		if err != nil {
			return nil, fmt.Errorf("config: %s: read default_payload_file: %w", s.Name, err)
		}
		return b, nil
	}
	return nil, nil
}

// Manifest is a device's whole set of named engines plus optional
// exporter settings, as loaded from one YAML file.
type Manifest struct {
	MetricsAddr string       `yaml:"metrics_addr"`
	Engines     []EngineSpec `yaml:"engines"`
}

// Load reads and parses a manifest from path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	for i := range m.Engines {
		if m.Engines[i].PositionWidth == "" {
			m.Engines[i].PositionWidth = "u16"
		}
	}

	return &m, nil
}
