// internal/mirror/status_writer.go
package mirror

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tamzrod/harp-expander/internal/status"
)

// StatusWriter is the delivery-only contract for stream status.
// It receives a snapshot and writes it verbatim.
type StatusWriter interface {
	WriteStatus(s status.Snapshot) error
}

// streamStatusWriter is the concrete implementation used by the decoder.
type streamStatusWriter struct {
	plan Plan
	cli  endpointClient
	name string
	slot uint16

	needFull bool
	last     status.Snapshot
}

// NewStatusWriter builds a status writer if status is enabled for the stream.
// If plan.Status is nil, status is disabled.
func NewStatusWriter(plan Plan, cli endpointClient) (StatusWriter, bool) {
	if plan.Status == nil {
		return nil, false
	}

	return &streamStatusWriter{
		plan:     plan,
		cli:      cli,
		name:     plan.Status.Name,
		slot:     plan.Status.Slot,
		needFull: true, // full re-assert on first successful write
		last: status.Snapshot{
			Health: status.HealthUnknown,
		},
	}, true
}

// WriteStatus delivers a status snapshot into status memory.
// On any write failure, the next call re-asserts the full block.
func (sw *streamStatusWriter) WriteStatus(s status.Snapshot) error {
	if sw == nil {
		return errors.New("status writer: disabled")
	}
	if sw.cli == nil {
		return fmt.Errorf("status writer: missing client for endpoint %s", sw.plan.Endpoint)
	}

	baseAddr := sw.baseAddr()
	unitID := sw.plan.UnitID

	// ------------------------------------------------------------
	// Full block write (identity re-assert)
	// ------------------------------------------------------------
	if sw.needFull {
		if err := sw.cli.WriteRegisters(unitID, baseAddr, status.Encode(s, sw.name)); err != nil {
			sw.needFull = true
			return fmt.Errorf("status writer: full block write failed: %w", err)
		}

		sw.needFull = false
		sw.last = s
		return nil
	}

	var errs []string

	write := func(slot int, label string, prev *uint16, next uint16) {
		if *prev == next {
			return
		}
		if err := sw.cli.WriteRegisters(unitID, baseAddr+uint16(slot), []uint16{next}); err != nil {
			errs = append(errs, fmt.Sprintf("slot%d %s write failed: %v", slot, label, err))
			return
		}
		*prev = next
	}

	write(status.SlotHealthCode, "health", &sw.last.Health, s.Health)
	write(status.SlotLastErrorCode, "last_error", &sw.last.LastErrorCode, s.LastErrorCode)
	write(status.SlotDecoded, "decoded", &sw.last.Decoded, s.Decoded)
	write(status.SlotRejected, "rejected", &sw.last.Rejected, s.Rejected)

	if len(errs) > 0 {
		// Any partial failure introduces doubt; re-assert on next call.
		sw.needFull = true
		return errors.New("status writer: " + strings.Join(errs, " | "))
	}

	return nil
}

func (sw *streamStatusWriter) baseAddr() uint16 {
	// Each stream owns a fixed SlotsPerStream block.
	return sw.slot * status.SlotsPerStream
}
