package jsonlink

import (
	"reflect"
	"sort"
	"strconv"

	"go.jacobcolvin.com/jsonlink/scan"
)

// Reformat re-emits a JSON text in the requested format without a
// contract, preserving member order and string escaping byte-for-byte.
func Reformat(data []byte, parseOpts []ParseOption, opts ...SerializeOption) ([]byte, error) {
	cfg := newParseConfig(parseOpts)

	cur := scan.NewCursor(data, cfg.policy)
	cur.SetComments(cfg.comments)

	e := &encoder{cfg: newSerializeConfig(opts)}

	err := reformatValue(cur, e)
	if err != nil {
		return nil, err
	}

	err = cur.TrimLeft()
	if err != nil {
		return nil, err
	}

	if !cur.IsExhausted() {
		return nil, scan.Errorf(scan.ErrUnexpectedToken, cur.Pos(), "trailing content after value")
	}

	return e.buf, nil
}

func reformatValue(cur *scan.Cursor, e *encoder) error {
	err := cur.TrimLeft()
	if err != nil {
		return err
	}

	if cur.IsExhausted() {
		return scan.Errorf(scan.ErrUnexpectedEndOfInput, cur.Pos(), "expected a value")
	}

	switch b := cur.Peek(); b {
	case '{':
		return reformatObject(cur, e)
	case '[':
		return reformatArray(cur, e)
	case '"':
		return passThrough(cur, e, cur.SkipString)
	case 't':
		return passThrough(cur, e, cur.SkipTrue)
	case 'f':
		return passThrough(cur, e, cur.SkipFalse)
	case 'n':
		return passThrough(cur, e, cur.SkipNull)
	default:
		if b == '-' || (b >= '0' && b <= '9') {
			start := cur.Pos()
			cur.SkipNumber()
			e.buf = append(e.buf, cur.Slice(start)...)

			return nil
		}
	}

	return scan.Errorf(scan.ErrUnexpectedToken, cur.Pos(), "byte %q cannot start a value", string(cur.Peek()))
}

// passThrough copies the extent consumed by skip into the output.
func passThrough(cur *scan.Cursor, e *encoder, skip func() error) error {
	start := cur.Pos()

	err := skip()
	if err != nil {
		return err
	}

	e.buf = append(e.buf, cur.Slice(start)...)

	return nil
}

func reformatObject(cur *scan.Cursor, e *encoder) error {
	err := cur.Expect('{')
	if err != nil {
		return err
	}

	e.open('{')
	n := 0

	for {
		err := cur.TrimLeft()
		if err != nil {
			return err
		}

		if cur.IsExhausted() {
			return scan.Errorf(scan.ErrUnexpectedEndOfInput, cur.Pos(), "unterminated object")
		}

		if cur.Peek() == '}' {
			cur.Advance(1)
			e.close('}', n > 0)

			return nil
		}

		if n > 0 {
			err := cur.Expect(',')
			if err != nil {
				return err
			}

			err = cur.TrimLeft()
			if err != nil {
				return err
			}
		}

		e.sep(n == 0)

		err = passThrough(cur, e, cur.SkipString)
		if err != nil {
			return err
		}

		err = cur.TrimLeft()
		if err != nil {
			return err
		}

		err = cur.Expect(':')
		if err != nil {
			return err
		}

		e.colon()

		err = reformatValue(cur, e)
		if err != nil {
			return err
		}

		n++
	}
}

func reformatArray(cur *scan.Cursor, e *encoder) error {
	err := cur.Expect('[')
	if err != nil {
		return err
	}

	e.open('[')
	n := 0

	for {
		err := cur.TrimLeft()
		if err != nil {
			return err
		}

		if cur.IsExhausted() {
			return scan.Errorf(scan.ErrUnexpectedEndOfInput, cur.Pos(), "unterminated array")
		}

		if cur.Peek() == ']' {
			cur.Advance(1)
			e.close(']', n > 0)

			return nil
		}

		if n > 0 {
			err := cur.Expect(',')
			if err != nil {
				return err
			}
		}

		e.sep(n == 0)

		err = reformatValue(cur, e)
		if err != nil {
			return err
		}

		n++
	}
}

// MarshalAny serializes a dynamically-typed value (nested maps, slices
// and scalars, as produced by generic YAML or JSON decoding) without a
// contract. Map members are emitted in sorted key order.
func MarshalAny(v any, opts ...SerializeOption) ([]byte, error) {
	e := &encoder{cfg: newSerializeConfig(opts)}

	err := marshalAnyValue(e, v)
	if err != nil {
		return nil, err
	}

	return e.buf, nil
}

func marshalAnyValue(e *encoder, v any) error {
	switch t := v.(type) {
	case nil:
		e.raw("null")

		return nil
	case bool:
		e.buf = strconv.AppendBool(e.buf, t)

		return nil
	case string:
		e.str(t)

		return nil
	case float32, float64:
		f, _ := asFloat64(t)

		e.buf = strconv.AppendFloat(e.buf, f, 'g', -1, 64)

		return nil
	case []any:
		e.open('[')

		for i, elem := range t {
			e.sep(i == 0)

			err := marshalAnyValue(e, elem)
			if err != nil {
				return err
			}
		}

		e.close(']', len(t) > 0)

		return nil
	}

	if i, ok := asInt64(v); ok {
		e.buf = strconv.AppendInt(e.buf, i, 10)

		return nil
	}

	if u, ok := asUint64(v); ok {
		e.buf = strconv.AppendUint(e.buf, u, 10)

		return nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}

		sort.Strings(keys)

		e.open('{')

		for i, k := range keys {
			e.sep(i == 0)
			e.str(k)
			e.colon()

			err := marshalAnyValue(e, rv.MapIndex(reflect.ValueOf(k)).Interface())
			if err != nil {
				return err
			}
		}

		e.close('}', len(keys) > 0)

		return nil
	}

	return scan.Errorf(scan.ErrUnknown, -1, "cannot marshal %T without a contract", v)
}
