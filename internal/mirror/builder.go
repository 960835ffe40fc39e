// internal/mirror/builder.go
package mirror

import (
	"errors"
	"time"

	cfg "github.com/tamzrod/harp-expander/internal/config"
	mmodbus "github.com/tamzrod/harp-expander/internal/mirror/modbus"
)

// BuildPlan converts one stream config into a mirror Plan.
// Assumes config has already passed geometry validation.
func BuildPlan(s cfg.StreamConfig) (Plan, error) {
	if s.ID == "" {
		return Plan{}, errors.New("mirror: stream.id required")
	}
	if s.Mirror == nil {
		return Plan{}, errors.New("mirror: stream has no mirror section")
	}

	plan := Plan{
		StreamID:    s.ID,
		Endpoint:    s.Mirror.Endpoint,
		UnitID:      s.Mirror.UnitID,
		BaseAddress: s.Mirror.BaseAddress,
	}

	if s.Mirror.StatusSlot != nil {
		plan.Status = &StatusPlan{
			Slot: *s.Mirror.StatusSlot,
			Name: s.Name,
		}
	}

	return plan, nil
}

// BuildEndpointClient connects the Modbus client for plan.
func BuildEndpointClient(plan Plan, timeout time.Duration) (*mmodbus.EndpointClient, func() error, error) {
	c, err := mmodbus.NewEndpointClient(mmodbus.Config{
		Endpoint: plan.Endpoint,
		Timeout:  timeout,
	})
	if err != nil {
		return nil, nil, err
	}
	return c, c.Close, nil
}
