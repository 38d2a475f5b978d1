package scan

import (
	"unicode/utf16"
	"unicode/utf8"
)

// StringBytes scans the string literal at the cursor and returns the bytes
// between the quotes along with a flag reporting whether any escape was
// observed. The slice borrows from the input; no decoding takes place.
func (c *Cursor) StringBytes() ([]byte, bool, error) {
	err := c.Expect('"')
	if err != nil {
		return nil, false, err
	}

	start := c.pos
	escaped := false

	for c.pos < len(c.data) {
		switch c.data[c.pos] {
		case '\\':
			escaped = true
			c.pos += 2

		case '"':
			raw := c.data[start:c.pos]
			c.pos++

			return raw, escaped, nil

		default:
			c.pos++
		}
	}

	if c.policy == Checked {
		return nil, false, Errorf(ErrUnexpectedEndOfInput, c.pos, "unterminated string")
	}

	return c.data[start:c.pos], escaped, nil
}

// String extracts and decodes the string literal at the cursor. When no
// escape byte occurs the result is built directly from the input slice;
// otherwise a second pass resolves the escapes.
func (c *Cursor) String() (string, error) {
	start := c.pos

	raw, escaped, err := c.StringBytes()
	if err != nil {
		return "", err
	}

	if !escaped {
		return string(raw), nil
	}

	return Unescape(raw, start+1)
}

// Unescape resolves backslash escapes in the raw contents of a string
// literal, emitting UTF-8. base is the input offset of raw's first byte,
// used for error positions. Surrogate pairs combine into supplementary
// plane runes; lone surrogates fail with [ErrInvalidUTF8].
func Unescape(raw []byte, base int) (string, error) {
	out := make([]byte, 0, len(raw))

	for i := 0; i < len(raw); {
		b := raw[i]
		if b != '\\' {
			out = append(out, b)
			i++

			continue
		}

		if i+1 >= len(raw) {
			return "", Errorf(ErrInvalidEscape, base+i, "dangling backslash")
		}

		switch raw[i+1] {
		case '"':
			out = append(out, '"')
			i += 2
		case '\\':
			out = append(out, '\\')
			i += 2
		case '/':
			out = append(out, '/')
			i += 2
		case 'b':
			out = append(out, '\b')
			i += 2
		case 'f':
			out = append(out, '\f')
			i += 2
		case 'n':
			out = append(out, '\n')
			i += 2
		case 'r':
			out = append(out, '\r')
			i += 2
		case 't':
			out = append(out, '\t')
			i += 2

		case 'u':
			r, n, err := decodeUnicodeEscape(raw[i:], base+i)
			if err != nil {
				return "", err
			}

			out = utf8.AppendRune(out, r)
			i += n

		default:
			return "", Errorf(ErrInvalidEscape, base+i, `unrecognized escape \%s`, string(raw[i+1]))
		}
	}

	return string(out), nil
}

// decodeUnicodeEscape decodes a \uXXXX sequence at the start of raw,
// combining a following low surrogate when the first unit is a high
// surrogate. It returns the rune and the number of input bytes consumed.
func decodeUnicodeEscape(raw []byte, base int) (rune, int, error) {
	u1, err := hex4(raw, 2, base)
	if err != nil {
		return 0, 0, err
	}

	if !utf16.IsSurrogate(u1) {
		return u1, 6, nil
	}

	if len(raw) >= 12 && raw[6] == '\\' && raw[7] == 'u' {
		u2, err := hex4(raw, 8, base)
		if err != nil {
			return 0, 0, err
		}

		r := utf16.DecodeRune(u1, u2)
		if r != utf8.RuneError {
			return r, 12, nil
		}
	}

	return 0, 0, Errorf(ErrInvalidUTF8, base, "lone surrogate %04X", u1)
}

// hex4 reads four hex digits of raw starting at off.
func hex4(raw []byte, off, base int) (rune, error) {
	if off+4 > len(raw) {
		return 0, Errorf(ErrInvalidEscape, base, "truncated unicode escape")
	}

	var r rune

	for _, b := range raw[off : off+4] {
		r <<= 4

		switch {
		case b >= '0' && b <= '9':
			r |= rune(b - '0')
		case b >= 'a' && b <= 'f':
			r |= rune(b-'a') + 10
		case b >= 'A' && b <= 'F':
			r |= rune(b-'A') + 10
		default:
			return 0, Errorf(ErrInvalidEscape, base, "bad hex digit %q", string(b))
		}
	}

	return r, nil
}
