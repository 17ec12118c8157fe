package bookkeeping

import (
	"fmt"
	"strings"
)

// InventoryValuation selects the order in which lots are consumed by a sale
// or a withdrawal.
type InventoryValuation int

const (
	// DefaultValuation means the transaction did not specify a policy, the
	// report builder replaces it with the configured one.
	DefaultValuation InventoryValuation = iota
	// FIFO consumes lots walking the supply from the most recently opened
	// price back to the earliest one.
	FIFO
	// LIFO consumes lots walking the supply from the earliest opened price
	// forward.
	LIFO
)

func (v InventoryValuation) String() string {
	switch v {
	case DefaultValuation:
		return ""
	case FIFO:
		return "fifo"
	case LIFO:
		return "lifo"
	default:
		return "unknown"
	}
}

// ParseInventoryValuation parses a string into an InventoryValuation.
// The empty string is the DefaultValuation.
func ParseInventoryValuation(s string) (InventoryValuation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultValuation, nil
	case "fifo":
		return FIFO, nil
	case "lifo":
		return LIFO, nil
	default:
		return 0, fmt.Errorf("unknown inventory valuation: %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (v InventoryValuation) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *InventoryValuation) UnmarshalText(text []byte) error {
	parsed, err := ParseInventoryValuation(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
