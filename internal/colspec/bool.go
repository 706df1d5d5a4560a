package colspec

import (
	"fmt"
	"strings"
)

// BoolCell recognizes a fixed case-insensitive literal table plus at most one
// extra literal per outcome. Output is the canonical "True"/"False" pair the
// downstream loaders already parse.
type BoolCell struct {
	Required bool
	// True and False each add one extra accepted literal for that outcome,
	// layered on top of the built-ins true/t/1 and false/f/0.
	True  string
	False string
}

func (c *BoolCell) IsRequired() bool { return c.Required }

func (c *BoolCell) Equal(other Cell) bool {
	o, ok := other.(*BoolCell)
	return ok && *o == *c
}

func (c *BoolCell) setArg(name, value string) error {
	switch name {
	case "true":
		c.True = value
	case "false":
		c.False = value
	default:
		return errUnknownArg(name)
	}
	return nil
}

func (c *BoolCell) finish() error { return nil }

func (c *BoolCell) format(raw *string) (string, error) {
	if raw == nil {
		return "", fmt.Errorf("invalid literal for boolean: <no value>")
	}
	v := strings.ToLower(*raw)
	switch v {
	case "true", "t", "1":
		return "True", nil
	case "false", "f", "0":
		return "False", nil
	}
	if c.True != "" && v == strings.ToLower(c.True) {
		return "True", nil
	}
	if c.False != "" && v == strings.ToLower(c.False) {
		return "False", nil
	}
	return "", fmt.Errorf("invalid literal for boolean: %q", *raw)
}
