package order

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/stacklayout/pkg/errors"
	"github.com/matzehuels/stacklayout/pkg/property"
)

// Strategy selects what decides the order of two nodes that both carry a
// model order.
type Strategy int

const (
	// PreferEdges orders nodes by the previous-layer nodes they connect to
	// and only falls back to the model order when that does not decide.
	PreferEdges Strategy = iota
	// PreferModelOrder compares model orders directly whenever both nodes
	// have one.
	PreferModelOrder
)

var strategyNames = map[Strategy]string{
	PreferEdges:      "PREFER_EDGES",
	PreferModelOrder: "PREFER_MODEL_ORDER",
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(b []byte) error {
	v, err := ParseStrategy(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseStrategy parses a strategy name such as "PREFER_EDGES". Matching is
// case-insensitive and accepts dashes for underscores.
func ParseStrategy(name string) (Strategy, error) {
	n := normalizeName(name)
	for s, sn := range strategyNames {
		if sn == n {
			return s, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidOption, "unknown ordering strategy %q", name)
}

// LongEdgeOrder decides where a node without a previous-layer connection
// and without model order goes relative to its neighbours. Its value is the
// numeric key such a node is compared by.
type LongEdgeOrder int

const (
	// Lower sorts such nodes before every other.
	Lower LongEdgeOrder = math.MinInt
	// Higher sorts such nodes after every other.
	Higher LongEdgeOrder = math.MaxInt
	// Equal treats such nodes like a node with model order 0.
	Equal LongEdgeOrder = 0
)

var longEdgeNames = map[LongEdgeOrder]string{
	Lower:  "LOWER",
	Higher: "HIGHER",
	Equal:  "EQUAL",
}

func (o LongEdgeOrder) String() string {
	if name, ok := longEdgeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("LongEdgeOrder(%d)", int(o))
}

// MarshalText implements encoding.TextMarshaler.
func (o LongEdgeOrder) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *LongEdgeOrder) UnmarshalText(b []byte) error {
	v, err := ParseLongEdgeOrder(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// ParseLongEdgeOrder parses "LOWER", "HIGHER" or "EQUAL".
func ParseLongEdgeOrder(name string) (LongEdgeOrder, error) {
	n := normalizeName(name)
	for o, on := range longEdgeNames {
		if on == n {
			return o, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidOption, "unknown long edge order %q", name)
}

func normalizeName(s string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), "-", "_")
}

// Option keys read by [FromProperties]. Values may be stored typed or as
// their names.
var (
	StrategyKey      = property.NewKey("layered.considerModelOrder.strategy", PreferEdges)
	LongEdgeOrderKey = property.NewKey("layered.considerModelOrder.longEdgeStrategy", Equal)
)

// FromProperties reads the strategy and long-edge order from c, falling back
// to the key defaults for absent entries.
func FromProperties(c *property.Container) (Strategy, LongEdgeOrder, error) {
	s := StrategyKey.Default()
	if raw, ok := c.Value(StrategyKey.ID()); ok {
		switch v := raw.(type) {
		case Strategy:
			s = v
		case string:
			parsed, err := ParseStrategy(v)
			if err != nil {
				return 0, 0, err
			}
			s = parsed
		default:
			return 0, 0, errors.New(errors.ErrCodeInvalidOption, "%s: unexpected value %v", StrategyKey.ID(), raw)
		}
	}

	le := LongEdgeOrderKey.Default()
	if raw, ok := c.Value(LongEdgeOrderKey.ID()); ok {
		switch v := raw.(type) {
		case LongEdgeOrder:
			le = v
		case string:
			parsed, err := ParseLongEdgeOrder(v)
			if err != nil {
				return 0, 0, err
			}
			le = parsed
		default:
			return 0, 0, errors.New(errors.ErrCodeInvalidOption, "%s: unexpected value %v", LongEdgeOrderKey.ID(), raw)
		}
	}
	return s, le, nil
}
