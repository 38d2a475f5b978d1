package scan

import (
	"math"
	"strconv"
)

// FloatPrecision selects the decimal-to-binary conversion tier.
type FloatPrecision int

const (
	// PrecisionFast accumulates the mantissa as an integer and scales by a
	// power-of-ten table. Correct to within one ulp for inputs whose
	// mantissa fits in 64 bits and whose exponent is in the table range.
	PrecisionFast FloatPrecision = iota
	// PrecisionIEEE754 always performs a full correctly-rounded conversion.
	PrecisionIEEE754
)

// pow10 covers the exponent range over which float64 multiplication and
// division by a power of ten is exact.
var pow10 = [...]float64{
	1e0, 1e1, 1e2, 1e3, 1e4, 1e5, 1e6, 1e7, 1e8, 1e9, 1e10,
	1e11, 1e12, 1e13, 1e14, 1e15, 1e16, 1e17, 1e18, 1e19, 1e20, 1e21, 1e22,
}

// Uint extracts an unsigned decimal integer at the cursor. With rangeCheck,
// values that do not fit in the given bit width fail with
// [ErrNumberOutOfRange]; without it, accumulation wraps modulo the width.
func (c *Cursor) Uint(bits int, rangeCheck bool) (uint64, error) {
	start := c.pos

	if c.policy == Checked && c.pos < len(c.data) && c.data[c.pos] == '-' {
		return 0, Errorf(ErrNumberOutOfRange, c.pos, "negative value for unsigned target")
	}

	var (
		v   uint64
		max = maxUint(bits)
	)

	for c.pos < len(c.data) {
		b := c.data[c.pos]
		if b < '0' || b > '9' {
			break
		}

		d := uint64(b - '0')

		if rangeCheck && (v > max/10 || v*10 > max-d) {
			c.SkipNumber()

			return 0, Errorf(ErrNumberOutOfRange, start, "value exceeds %d bits", bits)
		}

		v = v*10 + d
		c.pos++
	}

	if c.policy == Checked {
		if c.pos == start {
			return 0, c.expectedDigit()
		}

		if err := c.rejectNonInteger(start); err != nil {
			return 0, err
		}
	}

	if !rangeCheck && bits < 64 {
		v &= max
	}

	return v, nil
}

// Int extracts a signed decimal integer at the cursor. Range behavior
// matches [Cursor.Uint], against the signed bounds of the width.
func (c *Cursor) Int(bits int, rangeCheck bool) (int64, error) {
	start := c.pos
	neg := false

	if c.pos < len(c.data) && c.data[c.pos] == '-' {
		neg = true
		c.pos++
	}

	var (
		v     uint64
		limit = uint64(maxInt(bits))
	)

	if neg {
		limit++
	}

	digitStart := c.pos

	for c.pos < len(c.data) {
		b := c.data[c.pos]
		if b < '0' || b > '9' {
			break
		}

		d := uint64(b - '0')

		if rangeCheck && (v > limit/10 || v*10 > limit-d) {
			c.SkipNumber()

			return 0, Errorf(ErrNumberOutOfRange, start, "value exceeds %d bits", bits)
		}

		v = v*10 + d
		c.pos++
	}

	if c.policy == Checked {
		if c.pos == digitStart {
			return 0, c.expectedDigit()
		}

		if err := c.rejectNonInteger(start); err != nil {
			return 0, err
		}
	}

	r := int64(v)
	if neg {
		r = -r
	}

	if !rangeCheck && bits < 64 {
		shift := uint(64 - bits)
		r = r << shift >> shift
	}

	return r, nil
}

// Float extracts a floating-point number at the cursor under the given
// precision tier. Inputs outside the fast-path envelope (more than 19
// mantissa digits, or a scaled exponent beyond the exact power-of-ten
// range) fall through to a full conversion.
func (c *Cursor) Float(precision FloatPrecision) (float64, error) {
	start := c.pos
	neg := false

	if c.pos < len(c.data) && c.data[c.pos] == '-' {
		neg = true
		c.pos++
	}

	var (
		mantissa uint64
		digits   int
		exp      int
		sawDigit bool
	)

	for c.pos < len(c.data) {
		b := c.data[c.pos]
		if b < '0' || b > '9' {
			break
		}

		sawDigit = true

		if digits < 19 {
			mantissa = mantissa*10 + uint64(b-'0')
			digits++
		} else {
			digits++
			exp++
		}

		c.pos++
	}

	if c.pos < len(c.data) && c.data[c.pos] == '.' {
		c.pos++

		for c.pos < len(c.data) {
			b := c.data[c.pos]
			if b < '0' || b > '9' {
				break
			}

			sawDigit = true

			if digits < 19 {
				mantissa = mantissa*10 + uint64(b-'0')
				digits++
				exp--
			} else {
				digits++
			}

			c.pos++
		}
	}

	if c.policy == Checked && !sawDigit {
		return 0, c.expectedDigit()
	}

	if c.pos < len(c.data) && (c.data[c.pos] == 'e' || c.data[c.pos] == 'E') {
		c.pos++
		expNeg := false

		if c.pos < len(c.data) && (c.data[c.pos] == '+' || c.data[c.pos] == '-') {
			expNeg = c.data[c.pos] == '-'
			c.pos++
		}

		expStart := c.pos
		e := 0

		for c.pos < len(c.data) {
			b := c.data[c.pos]
			if b < '0' || b > '9' {
				break
			}

			if e < 10000 {
				e = e*10 + int(b-'0')
			}

			c.pos++
		}

		if c.policy == Checked && c.pos == expStart {
			return 0, Errorf(ErrInvalidNumber, c.pos, "exponent has no digits")
		}

		if expNeg {
			exp -= e
		} else {
			exp += e
		}
	}

	if precision == PrecisionFast && digits <= 19 && exp >= -22 && exp <= 22 {
		f := float64(mantissa)

		if exp > 0 {
			f *= pow10[exp]
		} else if exp < 0 {
			f /= pow10[-exp]
		}

		if neg {
			f = -f
		}

		return f, nil
	}

	f, err := strconv.ParseFloat(string(c.data[start:c.pos]), 64)
	if err != nil {
		return 0, Errorf(ErrInvalidNumber, start, "%s", err)
	}

	return f, nil
}

// Bool extracts a true or false literal at the cursor.
func (c *Cursor) Bool() (bool, error) {
	if c.pos < len(c.data) && c.data[c.pos] == 't' {
		err := c.SkipTrue()
		if err != nil {
			return false, err
		}

		return true, nil
	}

	err := c.SkipFalse()
	if err != nil {
		return false, err
	}

	return false, nil
}

// rejectNonInteger fails when an integer extraction stops on a fraction or
// exponent byte, which indicates a float literal bound to an integer target.
func (c *Cursor) rejectNonInteger(start int) error {
	if c.pos < len(c.data) {
		b := c.data[c.pos]
		if b == '.' || b == 'e' || b == 'E' {
			return Errorf(ErrInvalidNumber, start, "fractional literal for integer target")
		}
	}

	return nil
}

func (c *Cursor) expectedDigit() error {
	if c.pos >= len(c.data) {
		return Errorf(ErrUnexpectedEndOfInput, c.pos, "expected a digit")
	}

	return Errorf(ErrInvalidNumber, c.pos, "expected a digit, found %q", string(c.data[c.pos]))
}

// maxUint returns the largest value representable in an unsigned integer of
// the given width.
func maxUint(bits int) uint64 {
	if bits >= 64 {
		return math.MaxUint64
	}

	return 1<<bits - 1
}

// maxInt returns the largest value representable in a signed integer of the
// given width.
func maxInt(bits int) int64 {
	if bits >= 64 {
		return math.MaxInt64
	}

	return 1<<(bits-1) - 1
}
