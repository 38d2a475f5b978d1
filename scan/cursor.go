package scan

// Policy selects whether scanning verifies every read against the end of
// input.
type Policy int

const (
	// Checked verifies bounds on every primitive scan and reports offsets.
	Checked Policy = iota
	// Unchecked elides bounds checks. It is valid only for inputs known to
	// be well-formed JSON; behavior on malformed input is undefined.
	Unchecked
)

// CommentStyle selects which comment syntax, if any, is skipped in
// whitespace positions.
type CommentStyle int

const (
	// CommentsNone treats comments as syntax errors (strict RFC 8259).
	CommentsNone CommentStyle = iota
	// CommentsCpp skips //-line and /*-block comments.
	CommentsCpp
	// CommentsHash skips #-line comments.
	CommentsHash
)

// Cursor is a mutable position within a borrowed input byte range. It is
// exclusively owned by one parse invocation and never escapes it.
type Cursor struct {
	data     []byte
	pos      int
	policy   Policy
	comments CommentStyle
}

// NewCursor creates a cursor over data under the given policy.
func NewCursor(data []byte, policy Policy) *Cursor {
	return &Cursor{data: data, policy: policy}
}

// SetComments selects the comment syntax skipped by [Cursor.TrimLeft].
func (c *Cursor) SetComments(style CommentStyle) {
	c.comments = style
}

// Policy reports the bounds-checking policy the cursor was created with.
func (c *Cursor) Policy() Policy {
	return c.policy
}

// Pos reports the current byte offset from the start of the input.
func (c *Cursor) Pos() int {
	return c.pos
}

// Data exposes the underlying input range.
func (c *Cursor) Data() []byte {
	return c.data
}

// IsExhausted reports whether the cursor has consumed all input.
func (c *Cursor) IsExhausted() bool {
	return c.pos >= len(c.data)
}

// Peek returns the byte at the current position without consuming it.
// Under Unchecked policy the result is undefined when exhausted.
func (c *Cursor) Peek() byte {
	if c.policy == Checked && c.pos >= len(c.data) {
		return 0
	}

	return c.data[c.pos]
}

// Advance moves the position forward n bytes.
func (c *Cursor) Advance(n int) {
	c.pos += n
}

// Slice returns the input bytes between from and the current position.
func (c *Cursor) Slice(from int) []byte {
	return c.data[from:c.pos]
}

// TrimLeft skips JSON whitespace (space, tab, CR, LF) and, per the comment
// style, comments occupying whitespace positions. An unterminated block
// comment fails under Checked policy.
func (c *Cursor) TrimLeft() error {
	for c.pos < len(c.data) {
		switch c.data[c.pos] {
		case ' ', '\t', '\r', '\n':
			c.pos++

		case '/':
			if c.comments != CommentsCpp {
				return nil
			}

			err := c.skipCppComment()
			if err != nil {
				return err
			}

		case '#':
			if c.comments != CommentsHash {
				return nil
			}

			c.skipLineComment()

		default:
			return nil
		}
	}

	return nil
}

// skipCppComment consumes a //-line or /*-block comment starting at the
// current '/' byte.
func (c *Cursor) skipCppComment() error {
	if c.pos+1 >= len(c.data) {
		return Errorf(ErrUnexpectedEndOfInput, c.pos, "truncated comment")
	}

	switch c.data[c.pos+1] {
	case '/':
		c.skipLineComment()

		return nil

	case '*':
		c.pos += 2
		for c.pos+1 < len(c.data) {
			if c.data[c.pos] == '*' && c.data[c.pos+1] == '/' {
				c.pos += 2

				return nil
			}

			c.pos++
		}

		return Errorf(ErrUnexpectedEndOfInput, c.pos, "unterminated block comment")
	}

	return Errorf(ErrUnexpectedToken, c.pos, "stray '/'")
}

// skipLineComment consumes up to and including the next LF.
func (c *Cursor) skipLineComment() {
	for c.pos < len(c.data) && c.data[c.pos] != '\n' {
		c.pos++
	}

	if c.pos < len(c.data) {
		c.pos++
	}
}

// Expect consumes the byte b at the current position.
func (c *Cursor) Expect(b byte) error {
	if c.policy == Checked {
		if c.pos >= len(c.data) {
			return Errorf(ErrUnexpectedEndOfInput, c.pos, "expected %q", string(b))
		}

		if c.data[c.pos] != b {
			return Errorf(ErrUnexpectedToken, c.pos, "expected %q, found %q", string(b), string(c.data[c.pos]))
		}
	}

	c.pos++

	return nil
}

// SkipString advances past a JSON string literal, including the closing
// quote. The cursor must be positioned on the opening quote. No escape
// decoding takes place; backslash consumes the following byte
// unconditionally.
func (c *Cursor) SkipString() error {
	err := c.Expect('"')
	if err != nil {
		return err
	}

	for c.pos < len(c.data) {
		switch c.data[c.pos] {
		case '\\':
			c.pos += 2
		case '"':
			c.pos++

			return nil
		default:
			c.pos++
		}
	}

	if c.policy == Checked {
		return Errorf(ErrUnexpectedEndOfInput, c.pos, "unterminated string")
	}

	return nil
}

// SkipNumber advances while bytes belong to the JSON number alphabet.
func (c *Cursor) SkipNumber() {
	for c.pos < len(c.data) && isNumberByte(c.data[c.pos]) {
		c.pos++
	}
}

// SkipTrue advances past the literal "true".
func (c *Cursor) SkipTrue() error {
	return c.skipLiteral("true")
}

// SkipFalse advances past the literal "false".
func (c *Cursor) SkipFalse() error {
	return c.skipLiteral("false")
}

// SkipNull advances past the literal "null".
func (c *Cursor) SkipNull() error {
	return c.skipLiteral("null")
}

func (c *Cursor) skipLiteral(lit string) error {
	if c.policy == Checked {
		if c.pos+len(lit) > len(c.data) {
			return Errorf(ErrUnexpectedEndOfInput, c.pos, "truncated %q", lit)
		}

		if string(c.data[c.pos:c.pos+len(lit)]) != lit {
			return Errorf(ErrUnexpectedToken, c.pos, "expected %q", lit)
		}
	}

	c.pos += len(lit)

	return nil
}

// SkipValue advances past one complete JSON value of any kind, including
// nested arrays and objects. Strings are treated as opaque; nothing is
// decoded.
func (c *Cursor) SkipValue() error {
	err := c.TrimLeft()
	if err != nil {
		return err
	}

	if c.pos >= len(c.data) {
		if c.policy == Checked {
			return Errorf(ErrUnexpectedEndOfInput, c.pos, "expected a value")
		}

		return nil
	}

	switch b := c.data[c.pos]; {
	case b == '{' || b == '[':
		return c.skipComposite()
	case b == '"':
		return c.SkipString()
	case b == 't':
		return c.SkipTrue()
	case b == 'f':
		return c.SkipFalse()
	case b == 'n':
		return c.SkipNull()
	case b == '-' || (b >= '0' && b <= '9'):
		c.SkipNumber()

		return nil
	}

	return Errorf(ErrUnexpectedToken, c.pos, "byte %q cannot start a value", string(c.data[c.pos]))
}

// skipComposite tracks nesting depth across braces and brackets until the
// opener at the current position is matched.
func (c *Cursor) skipComposite() error {
	depth := 0

	for c.pos < len(c.data) {
		switch c.data[c.pos] {
		case '{', '[':
			depth++
			c.pos++

		case '}', ']':
			depth--
			c.pos++

			if depth == 0 {
				return nil
			}

		case '"':
			err := c.SkipString()
			if err != nil {
				return err
			}

		case '/', '#':
			err := c.TrimLeft()
			if err != nil {
				return err
			}

			if c.pos < len(c.data) && (c.data[c.pos] == '/' || c.data[c.pos] == '#') {
				c.pos++
			}

		default:
			c.pos++
		}
	}

	if c.policy == Checked {
		return Errorf(ErrUnexpectedEndOfInput, c.pos, "unbalanced brackets")
	}

	return nil
}

// isNumberByte reports membership in the JSON number alphabet -+.0-9eE.
func isNumberByte(b byte) bool {
	switch {
	case b >= '0' && b <= '9':
		return true
	case b == '-' || b == '+' || b == '.' || b == 'e' || b == 'E':
		return true
	}

	return false
}
