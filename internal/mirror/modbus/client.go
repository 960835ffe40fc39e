// internal/mirror/modbus/client.go
package modbus

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

// MaxWriteRegisters is the FC16 quantity limit (Modbus application protocol,
// Write Multiple Registers).
const MaxWriteRegisters = 123

// ErrQuantity rejects an FC16 request outside 1..MaxWriteRegisters.
var ErrQuantity = errors.New("mirror modbus: register quantity out of range")

// WriteError ties a failed write to its endpoint, unit and register range.
type WriteError struct {
	Endpoint string
	UnitID   uint8
	Addr     uint16
	Qty      int
	Err      error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("mirror modbus: ep=%s unit=%d addr=%d qty=%d: %v",
		e.Endpoint, e.UnitID, e.Addr, e.Qty, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// EndpointClient is the mirror's single TCP connection to one endpoint.
// Requests are serialized: the unit id lives on the shared handler.
type EndpointClient struct {
	endpoint string

	mu      sync.Mutex
	handler *modbus.TCPClientHandler
	client  modbus.Client
}

type Config struct {
	Endpoint string
	Timeout  time.Duration
}

func NewEndpointClient(cfg Config) (*EndpointClient, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("mirror modbus: endpoint required")
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout

	if err := h.Connect(); err != nil {
		return nil, fmt.Errorf("mirror modbus: connect %s: %w", cfg.Endpoint, err)
	}

	return &EndpointClient{
		endpoint: cfg.Endpoint,
		handler:  h,
		client:   modbus.NewClient(h),
	}, nil
}

func (c *EndpointClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handler == nil {
		return nil
	}
	return c.handler.Close()
}

// WriteRegisters writes one run of holding registers with FC 16.
// Quantities the function code cannot carry are refused before any IO.
func (c *EndpointClient) WriteRegisters(unitID uint8, addr uint16, regs []uint16) error {
	if len(regs) == 0 || len(regs) > MaxWriteRegisters {
		return &WriteError{Endpoint: c.endpoint, UnitID: unitID, Addr: addr, Qty: len(regs), Err: ErrQuantity}
	}
	if int(addr)+len(regs) > 0x10000 {
		return &WriteError{
			Endpoint: c.endpoint, UnitID: unitID, Addr: addr, Qty: len(regs),
			Err: errors.New("range wraps past 0xFFFF"),
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return &WriteError{Endpoint: c.endpoint, UnitID: unitID, Addr: addr, Qty: len(regs), Err: errors.New("not connected")}
	}

	c.handler.SlaveId = unitID

	if _, err := c.client.WriteMultipleRegisters(addr, uint16(len(regs)), packRegisters(regs)); err != nil {
		return &WriteError{Endpoint: c.endpoint, UnitID: unitID, Addr: addr, Qty: len(regs), Err: err}
	}
	return nil
}

// packRegisters lays words out in Modbus wire order (big-endian).
func packRegisters(regs []uint16) []byte {
	out := make([]byte, 0, len(regs)*2)
	for _, r := range regs {
		out = append(out, byte(r>>8), byte(r))
	}
	return out
}
