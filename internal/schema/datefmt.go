package schema

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
)

// ErrDateMismatch is returned when a value does not parse under a format.
var ErrDateMismatch = errors.New("date does not match format")

var (
	shortMonths = []string{"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"}
	longMonths  = []string{
		"january", "february", "march", "april", "may", "june",
		"july", "august", "september", "october", "november", "december",
	}
)

// supported directives; anything else is rejected when a schema is built.
const directives = "YymdeHMSbB%"

// ValidateFormat checks that format only uses supported directives:
// %Y %y %m %d %e %H %M %S %b %B and %%.
func ValidateFormat(format string) error {
	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			continue
		}

		i++
		if i >= len(format) {
			return fmt.Errorf("date format %q ends with a lone %%", format)
		}

		if !strings.ContainsRune(directives, rune(format[i])) {
			return fmt.Errorf("date format %q: unsupported directive %%%c", format, format[i])
		}
	}

	return nil
}

// FormatDate renders t with a strftime format.
func FormatDate(format string, t time.Time) string {
	return strftime.Format(format, t)
}

// ParseDate parses value with a strftime format. It follows C strptime
// rather than Go layouts: day, month and time fields may omit their
// leading zero, month names are case-insensitive and a run of whitespace
// in the format matches any non-empty run of whitespace in the value.
// Missing components default to 1900-01-01 00:00:00 UTC.
func ParseDate(format, value string) (time.Time, error) {
	p := dateParser{year: 1900, month: 1, day: 1, rest: value}

	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			if !p.literal(format, &i) {
				return time.Time{}, p.mismatch(format, value)
			}

			continue
		}

		i++
		if i >= len(format) {
			return time.Time{}, fmt.Errorf("date format %q ends with a lone %%", format)
		}

		var ok bool

		switch format[i] {
		case 'Y':
			p.year, ok = p.digits(4, 4)
		case 'y':
			var yy int
			if yy, ok = p.digits(2, 2); ok {
				// POSIX pivot: 69-99 -> 19xx, 00-68 -> 20xx
				if yy >= 69 {
					p.year = 1900 + yy
				} else {
					p.year = 2000 + yy
				}
			}
		case 'm':
			p.month, ok = p.digits(1, 2)
		case 'd':
			p.day, ok = p.digits(1, 2)
		case 'e':
			p.rest = strings.TrimLeft(p.rest, " ")
			p.day, ok = p.digits(1, 2)
		case 'H':
			p.hour, ok = p.digits(1, 2)
		case 'M':
			p.minute, ok = p.digits(1, 2)
		case 'S':
			p.second, ok = p.digits(1, 2)
		case 'b':
			p.month, ok = p.monthName(shortMonths)
		case 'B':
			p.month, ok = p.monthName(longMonths)
		case '%':
			ok = strings.HasPrefix(p.rest, "%")
			if ok {
				p.rest = p.rest[1:]
			}
		default:
			return time.Time{}, fmt.Errorf("date format %q: unsupported directive %%%c", format, format[i])
		}

		if !ok {
			return time.Time{}, p.mismatch(format, value)
		}
	}

	if p.rest != "" {
		return time.Time{}, fmt.Errorf("%w: %q has unconverted data %q for format %q", ErrDateMismatch, value, p.rest, format)
	}

	return p.build(format, value)
}

type dateParser struct {
	year, month, day     int
	hour, minute, second int
	rest                 string
}

// literal consumes the literal format byte at *i. Whitespace runs in the
// format are folded into one and advance *i past the run.
func (p *dateParser) literal(format string, i *int) bool {
	c := format[*i]
	if !isSpace(c) {
		if p.rest == "" || p.rest[0] != c {
			return false
		}

		p.rest = p.rest[1:]

		return true
	}

	for *i+1 < len(format) && isSpace(format[*i+1]) {
		*i++
	}

	n := 0
	for n < len(p.rest) && isSpace(p.rest[n]) {
		n++
	}

	if n == 0 {
		return false
	}

	p.rest = p.rest[n:]

	return true
}

// digits consumes between minLen and maxLen ASCII digits.
func (p *dateParser) digits(minLen, maxLen int) (int, bool) {
	n, v := 0, 0
	for n < maxLen && n < len(p.rest) && p.rest[n] >= '0' && p.rest[n] <= '9' {
		v = v*10 + int(p.rest[n]-'0')
		n++
	}

	if n < minLen {
		return 0, false
	}

	p.rest = p.rest[n:]

	return v, true
}

func (p *dateParser) monthName(names []string) (int, bool) {
	for i, name := range names {
		if len(p.rest) >= len(name) && strings.EqualFold(p.rest[:len(name)], name) {
			p.rest = p.rest[len(name):]
			return i + 1, true
		}
	}

	return 0, false
}

func (p *dateParser) mismatch(format, value string) error {
	return fmt.Errorf("%w: %q does not match format %q", ErrDateMismatch, value, format)
}

func (p *dateParser) build(format, value string) (time.Time, error) {
	switch {
	case p.month < 1 || p.month > 12:
		return time.Time{}, fmt.Errorf("%w: %q: month %d out of range for format %q", ErrDateMismatch, value, p.month, format)
	case p.day < 1 || p.day > 31:
		return time.Time{}, fmt.Errorf("%w: %q: day %d out of range for format %q", ErrDateMismatch, value, p.day, format)
	case p.hour > 23 || p.minute > 59 || p.second > 59:
		return time.Time{}, fmt.Errorf("%w: %q: time of day out of range for format %q", ErrDateMismatch, value, format)
	}

	t := time.Date(p.year, time.Month(p.month), p.day, p.hour, p.minute, p.second, 0, time.UTC)
	if t.Day() != p.day {
		return time.Time{}, fmt.Errorf("%w: %q: day %d out of range for month", ErrDateMismatch, value, p.day)
	}

	return t, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}
