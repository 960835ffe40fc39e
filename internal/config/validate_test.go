// internal/config/validate_test.go
package config

import "testing"

// helper to build a mirrored stream quickly
func stream(id string, endpoint string, unitID uint8, base uint16) StreamConfig {
	return StreamConfig{
		ID:    id,
		Input: InputConfig{Path: id + ".bin"},
		Mirror: &MirrorConfig{
			Endpoint:    endpoint,
			UnitID:      unitID,
			BaseAddress: base,
		},
	}
}

func withStatus(s StreamConfig, slot uint16) StreamConfig {
	s.Mirror.StatusSlot = &slot
	return s
}

func decoder(streams ...StreamConfig) *Config {
	return &Config{Decoder: DecoderConfig{Streams: streams}}
}

// ---- tests ----

func TestValidate_NoOverlapDifferentEndpoints(t *testing.T) {
	cfg := decoder(
		stream("s1", "ep1", 1, 0),
		stream("s2", "ep2", 1, 0),
	)

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_NoOverlapDifferentUnit(t *testing.T) {
	cfg := decoder(
		stream("s1", "ep1", 1, 0),
		stream("s2", "ep1", 2, 0),
	)

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_TouchingRangesAllowed(t *testing.T) {
	cfg := decoder(
		stream("s1", "ep1", 1, 0),  // 0–19
		stream("s2", "ep1", 1, 20), // 20–39
	)

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_OverlapDetected(t *testing.T) {
	cfg := decoder(
		stream("s1", "ep1", 1, 0),  // 0–19
		stream("s2", "ep1", 1, 10), // 10–29 → overlap
	)

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected overlap error, got nil")
	}
}

func TestValidate_StatusOverlapsData(t *testing.T) {
	cfg := decoder(
		stream("s1", "ep1", 1, 100),              // 100–119
		withStatus(stream("s2", "ep1", 1, 0), 5), // data 0–19, status 100–119 → overlap
	)

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected overlap error, got nil")
	}
}

func TestValidate_StatusSlotCollision(t *testing.T) {
	cfg := decoder(
		withStatus(stream("s1", "ep1", 1, 0), 10),
		withStatus(stream("s2", "ep1", 1, 20), 10),
	)

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected status collision error, got nil")
	}
}

func TestValidate_RangePastEnd(t *testing.T) {
	cfg := decoder(stream("s1", "ep1", 1, 0xFFF0))

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected range error, got nil")
	}
}

func TestValidate_DuplicateID(t *testing.T) {
	cfg := decoder(
		StreamConfig{ID: "s1", Input: InputConfig{Path: "a"}},
		StreamConfig{ID: "s1", Input: InputConfig{Path: "b"}},
	)

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected duplicate id error, got nil")
	}
}

func TestValidate_UnknownSchema(t *testing.T) {
	cfg := decoder(StreamConfig{ID: "s1", Schema: "v9", Input: InputConfig{Path: "a"}})

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected schema error, got nil")
	}
}

func TestValidate_BadFormat(t *testing.T) {
	cfg := decoder(StreamConfig{ID: "s1", Input: InputConfig{Path: "a", Format: "csv"}})

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected format error, got nil")
	}
}

func TestValidate_BadLogLevel(t *testing.T) {
	cfg := decoder(StreamConfig{ID: "s1", Input: InputConfig{Path: "a"}})
	cfg.Decoder.Log.Level = "loud"

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected log level error, got nil")
	}
}

func TestValidate_NonASCIIName(t *testing.T) {
	cfg := decoder(StreamConfig{ID: "s1", Name: "rig-ü", Input: InputConfig{Path: "a"}})

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected name error, got nil")
	}
}
