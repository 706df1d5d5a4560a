package colspec

import (
	"fmt"
	"strings"
)

// cellKinds maps each grammar letter to a constructor for a zero-valued cell
// of that kind. '!' marks required and '(..)' carries arguments, so neither
// can be a kind letter.
var cellKinds = map[byte]func() Cell{
	's': func() Cell { return &TextCell{} },
	'f': func() Cell { return &FloatCell{} },
	'i': func() Cell { return &IntCell{} },
	'b': func() Cell { return &BoolCell{} },
	'd': func() Cell { return &DateCell{} },
	'&': func() Cell { return &AddOnCell{} },
	'x': func() Cell { return &SkipCell{} },
	'c': func() Cell { return &CounterCell{} },
}

// kindLetters lists the valid kind characters in grammar order, for error
// messages.
const kindLetters = "s,f,i,b,d,&,x,c"

// ParseError is a construction-time grammar error. Pos is 1-based.
type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("bad column definition at pos %d: %s", e.Pos, e.Msg)
}

// Parse compiles a column definition string into one Cell per column. An
// empty definition yields an empty (non-nil) slice. All argument validation
// happens here; a returned Cell cannot fail later except on bad row data.
func Parse(definition string) ([]Cell, error) {
	cells := make([]Cell, 0, len(definition))
	pos := 0
	for pos < len(definition) {
		kindPos := pos
		newCell, ok := cellKinds[definition[pos]]
		if !ok {
			return nil, &ParseError{
				Pos: pos + 1,
				Msg: fmt.Sprintf("no cell definition for %q, available: %s", definition[pos], kindLetters),
			}
		}
		pos++

		// Peek for '(' then '!', in that order only: "x!" and "x()!" are
		// valid, a '!' before '(' leaves the '(' to fail as a kind letter.
		args := ""
		hasArgs := false
		required := false
		if pos < len(definition) && definition[pos] == '(' {
			right := strings.IndexByte(definition[pos+1:], ')')
			if right < 0 {
				return nil, &ParseError{
					Pos: pos + 1,
					Msg: fmt.Sprintf("found '(' but no following ')' in %q", definition),
				}
			}
			args = definition[pos+1 : pos+1+right]
			hasArgs = true
			pos += right + 2
		}
		if pos < len(definition) && definition[pos] == '!' {
			required = true
			pos++
		}

		cell := newCell()
		if err := applyArgs(cell, args, hasArgs, required); err != nil {
			return nil, &ParseError{Pos: kindPos + 1, Msg: err.Error()}
		}
		cells = append(cells, cell)
	}
	return cells, nil
}

// MustParse is Parse for definitions known good at compile time; it panics
// on error.
func MustParse(definition string) []Cell {
	cells, err := Parse(definition)
	if err != nil {
		panic(err)
	}
	return cells
}

// applyArgs splits the raw "name=value,name=value" text, applies each pair,
// the required flag, and runs the cell's finish hook.
func applyArgs(cell Cell, args string, hasArgs, required bool) error {
	setRequired(cell, required)
	if hasArgs && args != "" {
		for _, pair := range strings.Split(args, ",") {
			name, value, ok := strings.Cut(pair, "=")
			if !ok {
				return fmt.Errorf("argument %q is not a name=value pair", pair)
			}
			if err := cell.setArg(name, value); err != nil {
				return err
			}
		}
	}
	return cell.finish()
}

// setRequired writes the required flag into the concrete cell struct.
func setRequired(cell Cell, required bool) {
	switch c := cell.(type) {
	case *TextCell:
		c.Required = required
	case *FloatCell:
		c.Required = required
	case *IntCell:
		c.Required = required
	case *BoolCell:
		c.Required = required
	case *DateCell:
		c.Required = required
	case *AddOnCell:
		c.Required = required
	case *SkipCell:
		c.Required = required
	case *CounterCell:
		c.Required = required
	}
}
