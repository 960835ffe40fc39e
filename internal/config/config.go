// internal/config/config.go
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Decoder DecoderConfig `yaml:"decoder"`
}

type DecoderConfig struct {
	Log     LogConfig      `yaml:"log"`
	Metrics MetricsConfig  `yaml:"metrics"`
	Streams []StreamConfig `yaml:"streams"`
}

// ---- AMBIENT ----

type LogConfig struct {
	Level  string `yaml:"level"`  // logrus level name
	Format string `yaml:"format"` // text | json
}

type MetricsConfig struct {
	Listen string `yaml:"listen"` // empty disables the endpoint
}

// ---- STREAM ----

type StreamConfig struct {
	ID     string        `yaml:"id"`
	Name   string        `yaml:"name"`   // status block label; defaults to id
	Schema string        `yaml:"schema"` // register schema revision
	Input  InputConfig   `yaml:"input"`
	Mirror *MirrorConfig `yaml:"mirror"` // optional
}

// ---- INPUT ----

const (
	FormatBinary = "binary" // concatenated Harp frames
	FormatHex    = "hex"    // one hex-encoded frame per line
)

type InputConfig struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format"`
}

// ---- MIRROR ----

type MirrorConfig struct {
	Endpoint    string `yaml:"endpoint"`
	UnitID      uint8  `yaml:"unit_id"`
	TimeoutMs   int    `yaml:"timeout_ms"`
	BaseAddress uint16 `yaml:"base_address"`

	// Stream status block (optional, opt-in)
	StatusSlot *uint16 `yaml:"status_slot"`
}

// Load reads a YAML config file. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML config bytes.
func Parse(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	return &cfg, nil
}
