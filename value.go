package jsonlink

import (
	"go.jacobcolvin.com/jsonlink/scan"
)

// Value is a reusable cursor around one JSON value. Member and element
// extents are memoized as they are resolved, so repeated lookups of the
// same member amortize to O(1) after first touch.
//
// The underlying byte range must outlive the Value; mutating the bytes
// invalidates it.
type Value struct {
	data []byte
	cfg  parseConfig

	objCur  *scan.Cursor
	objDone bool
	members map[string]*Value

	arrCur  *scan.Cursor
	arrDone bool
	elems   []*Value
}

// NewValue wraps a byte range holding one JSON value.
func NewValue(data []byte, opts ...ParseOption) *Value {
	return &Value{data: data, cfg: newParseConfig(opts)}
}

func (v *Value) child(raw []byte) *Value {
	return &Value{data: raw, cfg: v.cfg}
}

func (v *Value) cursor() *scan.Cursor {
	cur := scan.NewCursor(v.data, v.cfg.policy)
	cur.SetComments(v.cfg.comments)

	return cur
}

// Raw returns the bytes of the value, including surrounding whitespace.
func (v *Value) Raw() []byte {
	return v.data
}

// Get resolves the named member of the object value. Members scanned on
// the way to name are memoized for later lookups.
func (v *Value) Get(name string) (*Value, error) {
	if m, ok := v.members[name]; ok {
		return m, nil
	}

	if v.objDone {
		return nil, scan.Errorf(scan.ErrMissingMember, 0, "member %q", name)
	}

	if v.objCur == nil {
		v.objCur = v.cursor()
		v.members = make(map[string]*Value)

		err := v.objCur.TrimLeft()
		if err != nil {
			return nil, err
		}

		err = v.objCur.Expect('{')
		if err != nil {
			return nil, err
		}
	}

	d := &decoder{cur: v.objCur, cfg: v.cfg}

	for {
		err := v.objCur.TrimLeft()
		if err != nil {
			return nil, err
		}

		if v.objCur.IsExhausted() {
			return nil, scan.Errorf(scan.ErrUnexpectedEndOfInput, v.objCur.Pos(), "unterminated object")
		}

		if v.objCur.Peek() == '}' {
			v.objCur.Advance(1)
			v.objDone = true

			return nil, scan.Errorf(scan.ErrMissingMember, v.objCur.Pos(), "member %q", name)
		}

		if len(v.members) > 0 {
			err := v.objCur.Expect(',')
			if err != nil {
				return nil, err
			}

			err = v.objCur.TrimLeft()
			if err != nil {
				return nil, err
			}
		}

		got, err := d.memberName()
		if err != nil {
			return nil, err
		}

		err = d.colon()
		if err != nil {
			return nil, err
		}

		raw, err := d.rawBytes()
		if err != nil {
			return nil, err
		}

		m := v.child(raw)
		v.members[got] = m

		if got == name {
			return m, nil
		}
	}
}

// Index resolves element i of the array value, memoizing the scanned
// prefix.
func (v *Value) Index(i int) (*Value, error) {
	if i < len(v.elems) {
		return v.elems[i], nil
	}

	if v.arrDone {
		return nil, scan.Errorf(scan.ErrMissingMember, 0, "array index %d out of range", i)
	}

	if v.arrCur == nil {
		v.arrCur = v.cursor()

		err := v.arrCur.TrimLeft()
		if err != nil {
			return nil, err
		}

		err = v.arrCur.Expect('[')
		if err != nil {
			return nil, err
		}
	}

	d := &decoder{cur: v.arrCur, cfg: v.cfg}

	for {
		err := v.arrCur.TrimLeft()
		if err != nil {
			return nil, err
		}

		if v.arrCur.IsExhausted() {
			return nil, scan.Errorf(scan.ErrUnexpectedEndOfInput, v.arrCur.Pos(), "unterminated array")
		}

		if v.arrCur.Peek() == ']' {
			v.arrCur.Advance(1)
			v.arrDone = true

			return nil, scan.Errorf(scan.ErrMissingMember, v.arrCur.Pos(), "array index %d out of range", i)
		}

		if len(v.elems) > 0 {
			err := v.arrCur.Expect(',')
			if err != nil {
				return nil, err
			}

			err = v.arrCur.TrimLeft()
			if err != nil {
				return nil, err
			}
		}

		raw, err := d.rawBytes()
		if err != nil {
			return nil, err
		}

		v.elems = append(v.elems, v.child(raw))

		if i < len(v.elems) {
			return v.elems[i], nil
		}
	}
}

// Int extracts the value as a signed integer.
func (v *Value) Int() (int64, error) {
	cur := v.cursor()

	err := cur.TrimLeft()
	if err != nil {
		return 0, err
	}

	return cur.Int(64, false)
}

// Uint extracts the value as an unsigned integer.
func (v *Value) Uint() (uint64, error) {
	cur := v.cursor()

	err := cur.TrimLeft()
	if err != nil {
		return 0, err
	}

	return cur.Uint(64, false)
}

// Float extracts the value as a float64.
func (v *Value) Float() (float64, error) {
	cur := v.cursor()

	err := cur.TrimLeft()
	if err != nil {
		return 0, err
	}

	return cur.Float(v.cfg.precision)
}

// Bool extracts the value as a bool.
func (v *Value) Bool() (bool, error) {
	cur := v.cursor()

	err := cur.TrimLeft()
	if err != nil {
		return false, err
	}

	return cur.Bool()
}

// Str extracts the value as a decoded string.
func (v *Value) Str() (string, error) {
	cur := v.cursor()

	err := cur.TrimLeft()
	if err != nil {
		return "", err
	}

	return cur.String()
}

// IsNull reports whether the value is the null literal.
func (v *Value) IsNull() bool {
	cur := v.cursor()

	err := cur.TrimLeft()
	if err != nil {
		return false
	}

	return !cur.IsExhausted() && cur.Peek() == 'n'
}

// To parses the value into T using T's registered contract; this is the
// delayed-parsing escape hatch for members captured raw.
func To[T any](v *Value, opts ...ParseOption) (T, error) {
	merged := make([]ParseOption, 0, len(opts)+3)
	merged = append(merged,
		WithPolicy(v.cfg.policy),
		WithComments(v.cfg.comments),
		WithPrecision(v.cfg.precision),
	)
	merged = append(merged, opts...)

	return FromJSON[T](v.data, merged...)
}
