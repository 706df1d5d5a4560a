// Package colspec compiles compact column-definition strings into typed cell
// specifications and applies them to raw worksheet cells.
//
// A column definition string contains one letter per output column:
//
//	's'  text
//	'f'  float
//	'i'  integer
//	'b'  boolean (accepts true/t/1 and false/f/0 by default)
//	'd'  date (default in/out format is %Y-%m-%d)
//	'&'  add-on column: a constant value inserted at this position
//	'x'  drop this column from the output
//	'c'  counter column: counts up once per row
//
// A letter may be followed by a parenthesized argument list and/or a '!'
// marking the column required (non-empty after formatting). Arguments must
// come before the '!': both "i(lower=2,upper=4)!" and "s!" are valid,
// "s!()" is not. Example: "i(lower=2,upper=4,ignore_non_numeric=t)".
//
// The grammar, the accepted argument names, and the defaults form a textual
// contract with deployed column definitions; changing any of them is a
// breaking change.
package colspec

import (
	"errors"
	"fmt"
	"strings"
)

// Cell is one compiled column specification. The set of implementations is
// closed; per-kind behavior is selected in Parse.
type Cell interface {
	// IsRequired reports whether an empty formatted value fails the row.
	IsRequired() bool

	// Equal reports whether other has the same kind, required flag, and
	// arguments. Mutable counter state is not compared.
	Equal(other Cell) bool

	// setArg validates one name=value argument and stores it.
	setArg(name, value string) error

	// finish runs after all arguments are applied (layout conversion,
	// counter initialization).
	finish() error

	// format validates and formats one raw value. raw is nil when the cell
	// occupies a synthetic position with no input field.
	format(raw *string) (string, error)
}

// errSkipColumn is the internal "column dropped" outcome of a SkipCell. It is
// consumed inside Eval and never escapes to callers.
var errSkipColumn = errors.New("column skipped")

// Eval applies c to one raw cell value and enforces the shared rules: a
// present but whitespace-only value formats to the empty string without
// touching the kind-specific logic, and a required cell whose final value is
// empty fails. include is false when the column contributes no output entry.
func Eval(c Cell, raw *string) (value string, include bool, err error) {
	if _, drop := c.(*SkipCell); drop {
		return "", false, nil
	}
	var out string
	if raw != nil && strings.TrimSpace(*raw) == "" {
		out = ""
	} else {
		out, err = c.format(raw)
		if err != nil {
			return "", false, err
		}
	}
	if out == "" && c.IsRequired() {
		return "", false, errors.New("value required, but was empty after validation and formatting")
	}
	return out, true, nil
}

// Synthetic reports whether c occupies an output position without consuming
// an input field (add-on and counter cells).
func Synthetic(c Cell) bool {
	switch c.(type) {
	case *AddOnCell, *CounterCell:
		return true
	}
	return false
}

// Omitted reports whether c drops its column from the output entirely.
func Omitted(c Cell) bool {
	_, ok := c.(*SkipCell)
	return ok
}

// TextCell passes the value through, trimmed.
type TextCell struct {
	Required bool
}

func (c *TextCell) IsRequired() bool { return c.Required }

func (c *TextCell) Equal(other Cell) bool {
	o, ok := other.(*TextCell)
	return ok && *o == *c
}

func (c *TextCell) setArg(name, value string) error { return errUnknownArg(name) }
func (c *TextCell) finish() error                   { return nil }

func (c *TextCell) format(raw *string) (string, error) {
	if raw == nil {
		return "", nil
	}
	return strings.TrimSpace(*raw), nil
}

// AddOnCell inserts a constant value at its position in every row. It never
// consumes an input field; feeding it one is a caller bug and fails the row.
type AddOnCell struct {
	Required bool
	Value    string
}

func (c *AddOnCell) IsRequired() bool { return c.Required }

func (c *AddOnCell) Equal(other Cell) bool {
	o, ok := other.(*AddOnCell)
	return ok && *o == *c
}

func (c *AddOnCell) setArg(name, value string) error {
	if name != "value" {
		return errUnknownArg(name)
	}
	c.Value = value
	return nil
}

func (c *AddOnCell) finish() error { return nil }

func (c *AddOnCell) format(raw *string) (string, error) {
	if raw != nil {
		return "", fmt.Errorf("add-on column cannot take a cell value, got %q", *raw)
	}
	return c.Value, nil
}

// CounterCell emits a running count, incremented once per evaluated row.
// One instance must not be shared across concurrent formatting runs; the
// count lives on the cell itself.
type CounterCell struct {
	Required bool
	Start    int64

	// evaluations so far; the emitted value is Start+calls.
	calls int64
}

func (c *CounterCell) IsRequired() bool { return c.Required }

func (c *CounterCell) Equal(other Cell) bool {
	o, ok := other.(*CounterCell)
	return ok && o.Required == c.Required && o.Start == c.Start
}

func (c *CounterCell) setArg(name, value string) error {
	if name != "start" {
		return errUnknownArg(name)
	}
	n, err := parseIntArg(value)
	if err != nil {
		return errBadArg(name, value)
	}
	c.Start = n
	return nil
}

func (c *CounterCell) finish() error { return nil }

func (c *CounterCell) format(raw *string) (string, error) {
	if raw != nil {
		return "", fmt.Errorf("counter column cannot take a cell value, got %q", *raw)
	}
	c.calls++
	return fmt.Sprintf("%d", c.Start+c.calls), nil
}

// SkipCell consumes one input field and contributes nothing to the output.
type SkipCell struct {
	Required bool
}

func (c *SkipCell) IsRequired() bool { return c.Required }

func (c *SkipCell) Equal(other Cell) bool {
	o, ok := other.(*SkipCell)
	return ok && *o == *c
}

func (c *SkipCell) setArg(name, value string) error { return errUnknownArg(name) }
func (c *SkipCell) finish() error                   { return nil }
func (c *SkipCell) format(raw *string) (string, error) {
	return "", errSkipColumn
}

func errUnknownArg(name string) error {
	return fmt.Errorf("not a possible argument: %s", name)
}

func errBadArg(name, value string) error {
	return fmt.Errorf("invalid value for argument %q: %s", name, value)
}
