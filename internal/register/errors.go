// internal/register/errors.go
package register

import (
	"errors"
	"fmt"
)

// Codec failures. All are local to a single message and never retried here.
var (
	// ErrMalformedPayload: byte count or wire type does not match the register.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrUnknownRegister: address is not part of the active revision.
	ErrUnknownRegister = errors.New("unknown register")

	// ErrUnrepresentable: value does not fit the register's wire shape.
	ErrUnrepresentable = errors.New("unrepresentable value")
)

// Error carries the failing address alongside one of the sentinel kinds.
type Error struct {
	Address uint8
	Kind    error
	Detail  string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("register %d: %v", e.Address, e.Kind)
	}
	return fmt.Sprintf("register %d: %v: %s", e.Address, e.Kind, e.Detail)
}

func (e *Error) Unwrap() error { return e.Kind }

// Code is a small numeric identity used by status reporting.
func (e *Error) Code() uint16 {
	switch e.Kind {
	case ErrMalformedPayload:
		return 1
	case ErrUnknownRegister:
		return 2
	case ErrUnrepresentable:
		return 3
	}
	return 0
}

func malformed(address uint8, format string, args ...any) error {
	return &Error{Address: address, Kind: ErrMalformedPayload, Detail: fmt.Sprintf(format, args...)}
}

func unrepresentable(address uint8, format string, args ...any) error {
	return &Error{Address: address, Kind: ErrUnrepresentable, Detail: fmt.Sprintf(format, args...)}
}

func unknown(address uint8) error {
	return &Error{Address: address, Kind: ErrUnknownRegister}
}
