// internal/config/validate.go
package config

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/harp-expander/internal/register"
	"github.com/tamzrod/harp-expander/internal/status"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	type span struct {
		start  uint32
		end    uint32
		stream string
		what   string
	}

	if cfg == nil {
		return fmt.Errorf("config: nil")
	}

	// ------------------------------------------------------------
	// AMBIENT
	// ------------------------------------------------------------

	if lvl := cfg.Decoder.Log.Level; lvl != "" {
		if _, err := logrus.ParseLevel(lvl); err != nil {
			return fmt.Errorf("log.level: %w", err)
		}
	}
	switch cfg.Decoder.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format %q: must be text or json", cfg.Decoder.Log.Format)
	}

	if len(cfg.Decoder.Streams) == 0 {
		return fmt.Errorf("decoder: at least one stream required")
	}

	// ------------------------------------------------------------
	// STREAMS
	// ------------------------------------------------------------

	seen := make(map[string]bool)

	for _, s := range cfg.Decoder.Streams {
		if s.ID == "" {
			return fmt.Errorf("stream: id required")
		}
		if seen[s.ID] {
			return fmt.Errorf("stream %q: duplicate id", s.ID)
		}
		seen[s.ID] = true

		// name sanity (ASCII only)
		for i := 0; i < len(s.Name); i++ {
			if s.Name[i] > 0x7F {
				return fmt.Errorf("stream %q: name must contain ASCII characters only", s.ID)
			}
		}

		if s.Schema != "" {
			if _, err := register.ParseRevision(s.Schema); err != nil {
				return fmt.Errorf("stream %q: %w", s.ID, err)
			}
		}

		if s.Input.Path == "" {
			return fmt.Errorf("stream %q: input.path required", s.ID)
		}
		switch s.Input.Format {
		case "", FormatBinary, FormatHex:
		default:
			return fmt.Errorf("stream %q: input.format %q: must be %s or %s",
				s.ID, s.Input.Format, FormatBinary, FormatHex)
		}

		if s.Mirror != nil && s.Mirror.Endpoint == "" {
			return fmt.Errorf("stream %q: mirror.endpoint required", s.ID)
		}
	}

	// ------------------------------------------------------------
	// MIRROR MEMORY GEOMETRY VALIDATION
	// ------------------------------------------------------------

	// key = endpoint | unit_id
	spans := make(map[string][]span)

	claim := func(key string, sp span) error {
		if sp.end > 0xFFFF {
			return fmt.Errorf(
				"mirror range: stream=%s %s range=%d-%d exceeds the register space",
				sp.stream, sp.what, sp.start, sp.end,
			)
		}
		for _, s := range spans[key] {
			// overlap check (inclusive)
			if !(sp.end < s.start || sp.start > s.end) {
				return fmt.Errorf(
					"mirror overlap: %s stream=%s %s range=%d-%d overlaps with stream=%s %s range=%d-%d",
					key, sp.stream, sp.what, sp.start, sp.end, s.stream, s.what, s.start, s.end,
				)
			}
		}
		spans[key] = append(spans[key], sp)
		return nil
	}

	for _, s := range cfg.Decoder.Streams {
		m := s.Mirror
		if m == nil {
			continue
		}
		key := fmt.Sprintf("%s|%d", m.Endpoint, m.UnitID)

		start := uint32(m.BaseAddress)
		if err := claim(key, span{
			start:  start,
			end:    start + status.DataSpanWords - 1,
			stream: s.ID,
			what:   "data",
		}); err != nil {
			return err
		}

		// status is opt-in
		if m.StatusSlot == nil {
			continue
		}
		start = uint32(*m.StatusSlot) * status.SlotsPerStream
		if err := claim(key, span{
			start:  start,
			end:    start + status.SlotsPerStream - 1,
			stream: s.ID,
			what:   "status",
		}); err != nil {
			return err
		}
	}

	return nil
}
