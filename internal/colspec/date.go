package colspec

import (
	"fmt"
	"time"

	"github.com/ncruces/go-strftime"
)

// defaultDateFormat is the strftime pattern used for both input and output
// when a date cell carries no in_fmt/out_fmt arguments.
const defaultDateFormat = "%Y-%m-%d"

// DateCell parses a date with the in_fmt pattern and re-renders it with the
// out_fmt pattern. Patterns use strftime directives, matching the deployed
// definitions ("%d.%m.%Y" and friends), not Go reference layouts.
type DateCell struct {
	Required bool
	InFmt    string // strftime pattern; empty means %Y-%m-%d
	OutFmt   string

	inLayout  string // converted Go layouts, filled lazily
	outLayout string
}

func (c *DateCell) IsRequired() bool { return c.Required }

func (c *DateCell) Equal(other Cell) bool {
	o, ok := other.(*DateCell)
	return ok && o.Required == c.Required && o.inFmt() == c.inFmt() && o.outFmt() == c.outFmt()
}

func (c *DateCell) inFmt() string {
	if c.InFmt == "" {
		return defaultDateFormat
	}
	return c.InFmt
}

func (c *DateCell) outFmt() string {
	if c.OutFmt == "" {
		return defaultDateFormat
	}
	return c.OutFmt
}

func (c *DateCell) setArg(name, value string) error {
	switch name {
	case "in_fmt":
		c.InFmt = value
	case "out_fmt":
		c.OutFmt = value
	default:
		return errUnknownArg(name)
	}
	return nil
}

// finish converts the strftime patterns so an unsupported directive fails at
// construction, not in the middle of a row stream.
func (c *DateCell) finish() error {
	var err error
	if c.inLayout, err = strftime.Layout(c.inFmt()); err != nil {
		return errBadArg("in_fmt", c.inFmt())
	}
	if c.outLayout, err = strftime.Layout(c.outFmt()); err != nil {
		return errBadArg("out_fmt", c.outFmt())
	}
	return nil
}

func (c *DateCell) format(raw *string) (string, error) {
	if c.inLayout == "" || c.outLayout == "" {
		if err := c.finish(); err != nil {
			return "", err
		}
	}
	if raw == nil {
		return "", fmt.Errorf("date value missing")
	}
	t, err := time.Parse(c.inLayout, *raw)
	if err != nil {
		return "", fmt.Errorf("date %q does not match format %s", *raw, c.inFmt())
	}
	return t.Format(c.outLayout), nil
}
