package colspec

import (
	"fmt"
	"strconv"
	"strings"
)

// Numeric cells normalize a mixed comma/dot value before parsing. The
// configured thousands separator is stripped everywhere; of what remains,
// only the last occurrence of the other separator survives as the decimal
// point ("1.23.4" -> "123.4"). This asymmetric rule matches the deployed
// column definitions and must not be replaced with a locale parser.

// FloatCell validates a float with optional inclusive bounds.
type FloatCell struct {
	Required         bool
	Lower, Upper     *float64
	ThousandsSep     byte // ',' or '.'; zero means ','
	IgnoreNonNumeric bool
}

func (c *FloatCell) IsRequired() bool { return c.Required }

func (c *FloatCell) Equal(other Cell) bool {
	o, ok := other.(*FloatCell)
	return ok && o.Required == c.Required &&
		eqFloatPtr(o.Lower, c.Lower) && eqFloatPtr(o.Upper, c.Upper) &&
		o.thousandsSep() == c.thousandsSep() && o.IgnoreNonNumeric == c.IgnoreNonNumeric
}

func (c *FloatCell) thousandsSep() byte {
	if c.ThousandsSep == 0 {
		return ','
	}
	return c.ThousandsSep
}

func (c *FloatCell) setArg(name, value string) error {
	switch name {
	case "lower":
		f, err := parseFloatArg(value)
		if err != nil {
			return errBadArg(name, value)
		}
		c.Lower = &f
	case "upper":
		f, err := parseFloatArg(value)
		if err != nil {
			return errBadArg(name, value)
		}
		c.Upper = &f
	case "thousands_separator":
		sep, err := parseSeparatorArg(value)
		if err != nil {
			return err
		}
		c.ThousandsSep = sep
	case "ignore_non_numeric":
		c.IgnoreNonNumeric = parseBoolishArg(value)
	default:
		return errUnknownArg(name)
	}
	return nil
}

func (c *FloatCell) finish() error { return nil }

func (c *FloatCell) format(raw *string) (string, error) {
	if raw == nil {
		return "", nil
	}
	s := normalizeNumber(*raw, c.thousandsSep(), c.IgnoreNonNumeric)
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return "", fmt.Errorf("not parseable as float: %s", *raw)
	}
	if c.Lower != nil && val < *c.Lower {
		return "", fmt.Errorf("value out of range: %v < lower bound %v", val, *c.Lower)
	}
	if c.Upper != nil && val > *c.Upper {
		return "", fmt.Errorf("value out of range: %v > upper bound %v", val, *c.Upper)
	}
	return formatFloat(val), nil
}

// IntCell validates an integer with optional inclusive bounds. Float syntax
// is accepted on input and truncated ("2.0" -> "2").
type IntCell struct {
	Required         bool
	Lower, Upper     *int64
	ThousandsSep     byte
	IgnoreNonNumeric bool
}

func (c *IntCell) IsRequired() bool { return c.Required }

func (c *IntCell) Equal(other Cell) bool {
	o, ok := other.(*IntCell)
	return ok && o.Required == c.Required &&
		eqIntPtr(o.Lower, c.Lower) && eqIntPtr(o.Upper, c.Upper) &&
		o.thousandsSep() == c.thousandsSep() && o.IgnoreNonNumeric == c.IgnoreNonNumeric
}

func (c *IntCell) thousandsSep() byte {
	if c.ThousandsSep == 0 {
		return ','
	}
	return c.ThousandsSep
}

func (c *IntCell) setArg(name, value string) error {
	switch name {
	case "lower":
		n, err := parseIntArg(value)
		if err != nil {
			return errBadArg(name, value)
		}
		c.Lower = &n
	case "upper":
		n, err := parseIntArg(value)
		if err != nil {
			return errBadArg(name, value)
		}
		c.Upper = &n
	case "thousands_separator":
		sep, err := parseSeparatorArg(value)
		if err != nil {
			return err
		}
		c.ThousandsSep = sep
	case "ignore_non_numeric":
		c.IgnoreNonNumeric = parseBoolishArg(value)
	default:
		return errUnknownArg(name)
	}
	return nil
}

func (c *IntCell) finish() error { return nil }

func (c *IntCell) format(raw *string) (string, error) {
	if raw == nil {
		return "", nil
	}
	s := normalizeNumber(*raw, c.thousandsSep(), c.IgnoreNonNumeric)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return "", fmt.Errorf("not parseable as int: %s", *raw)
	}
	val := int64(f)
	if c.Lower != nil && val < *c.Lower {
		return "", fmt.Errorf("value out of range: %v < lower bound %v", val, *c.Lower)
	}
	if c.Upper != nil && val > *c.Upper {
		return "", fmt.Errorf("value out of range: %v > upper bound %v", val, *c.Upper)
	}
	return strconv.FormatInt(val, 10), nil
}

// normalizeNumber rewrites s into strconv syntax: optionally drop everything
// outside [0-9,.], strip the thousands separator, and keep only the last
// decimal-separator occurrence as the decimal point.
func normalizeNumber(s string, thousands byte, ignoreNonNumeric bool) string {
	s = strings.TrimSpace(s)
	if ignoreNonNumeric {
		var b strings.Builder
		for i := 0; i < len(s); i++ {
			ch := s[i]
			if (ch >= '0' && ch <= '9') || ch == ',' || ch == '.' {
				b.WriteByte(ch)
			}
		}
		s = b.String()
	}
	decimal := byte('.')
	if thousands == '.' {
		decimal = ','
	}
	s = strings.ReplaceAll(s, string(thousands), "")
	parts := strings.Split(s, string(decimal))
	if len(parts) > 2 {
		return strings.Join(parts[:len(parts)-1], "") + "." + parts[len(parts)-1]
	}
	return strings.ReplaceAll(s, string(decimal), ".")
}

// formatFloat renders with a forced decimal part for integral values, so a
// float column is visibly a float in the output ("1234" -> "1234.0").
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func parseFloatArg(value string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(value), 64)
}

func parseIntArg(value string) (int64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}

func parseSeparatorArg(value string) (byte, error) {
	switch value {
	case ",":
		return ',', nil
	case ".":
		return '.', nil
	}
	return 0, fmt.Errorf("thousands_separator must be \",\" or \".\", got %q", value)
}

// parseBoolishArg accepts t/true/1 (case-insensitive) as true; anything else
// is false.
func parseBoolishArg(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "t", "true", "1":
		return true
	}
	return false
}

func eqFloatPtr(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func eqIntPtr(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
