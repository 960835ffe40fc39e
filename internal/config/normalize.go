// internal/config/normalize.go
package config

import (
	"github.com/tamzrod/harp-expander/internal/register"
	"github.com/tamzrod/harp-expander/internal/status"
)

const defaultMirrorTimeoutMs = 1000

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Decoder.Log.Level == "" {
		cfg.Decoder.Log.Level = "info"
	}
	if cfg.Decoder.Log.Format == "" {
		cfg.Decoder.Log.Format = "text"
	}

	for si := range cfg.Decoder.Streams {
		s := &cfg.Decoder.Streams[si]

		if s.Schema == "" {
			s.Schema = string(register.DefaultRevision)
		}
		if s.Input.Format == "" {
			s.Input.Format = FormatBinary
		}

		// Name:
		// - defaults to id
		// - ASCII already validated
		// - truncated to what the status block can hold
		if s.Name == "" {
			s.Name = s.ID
		}
		if len(s.Name) > status.NameMaxChars {
			s.Name = s.Name[:status.NameMaxChars]
		}

		if s.Mirror != nil && s.Mirror.TimeoutMs <= 0 {
			s.Mirror.TimeoutMs = defaultMirrorTimeoutMs
		}
	}
}
