// internal/status/snapshot.go
package status

// Snapshot represents exactly what the writer is allowed to deliver.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Health        uint16
	LastErrorCode uint16
	Decoded       uint16
	Rejected      uint16
}

// Accept records one decoded message.
func (s *Snapshot) Accept() {
	s.Health = HealthOK
	s.Decoded = saturatingInc(s.Decoded)
}

// Reject records one rejected message with its code.
func (s *Snapshot) Reject(code uint16) {
	s.Health = HealthError
	s.LastErrorCode = code
	s.Rejected = saturatingInc(s.Rejected)
}

func saturatingInc(v uint16) uint16 {
	if v >= CounterMax {
		return CounterMax
	}
	return v + 1
}
