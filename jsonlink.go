package jsonlink

import (
	"bytes"
	"io"
	"iter"

	"go.jacobcolvin.com/jsonlink/contract"
	"go.jacobcolvin.com/jsonlink/scan"
)

// FromJSON parses a single JSON value into T using T's registered
// contract. Whitespace around the top-level value is ignored.
func FromJSON[T any](data []byte, opts ...ParseOption) (T, error) {
	var zero T

	cls, err := contract.For[T]()
	if err != nil {
		return zero, err
	}

	d := newDecoder(data, newParseConfig(opts))

	return finishClass[T](d, cls)
}

// MustFromJSON is [FromJSON] panicking on error.
func MustFromJSON[T any](data []byte, opts ...ParseOption) T {
	v, err := FromJSON[T](data, opts...)
	if err != nil {
		panic(err)
	}

	return v
}

// FromJSONPath parses into T the sub-value addressed by a dotted path,
// e.g. "a.b" or "member1[2]".
func FromJSONPath[T any](data []byte, path string, opts ...ParseOption) (T, error) {
	var zero T

	cls, err := contract.For[T]()
	if err != nil {
		return zero, err
	}

	d := newDecoder(data, newParseConfig(opts))

	err = d.seek(path)
	if err != nil {
		return zero, err
	}

	return finishClass[T](d, cls)
}

// FromJSONArray parses a top-level JSON array of T.
func FromJSONArray[T any](data []byte, opts ...ParseOption) ([]T, error) {
	var out []T

	for v, err := range ArrayIterator[T](data, opts...) {
		if err != nil {
			return nil, err
		}

		out = append(out, v)
	}

	return out, nil
}

// ArrayIterator yields one T per element of a top-level JSON array
// without materializing the array. Iteration stops after the first
// error.
func ArrayIterator[T any](data []byte, opts ...ParseOption) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T

		cls, err := contract.For[T]()
		if err != nil {
			yield(zero, err)

			return
		}

		d := newDecoder(data, newParseConfig(opts))

		err = d.cur.TrimLeft()
		if err != nil {
			yield(zero, err)

			return
		}

		err = d.cur.Expect('[')
		if err != nil {
			yield(zero, err)

			return
		}

		for n := 0; ; n++ {
			err := d.cur.TrimLeft()
			if err != nil {
				yield(zero, err)

				return
			}

			if d.cur.IsExhausted() {
				yield(zero, scan.Errorf(scan.ErrUnexpectedEndOfInput, d.cur.Pos(), "unterminated array"))

				return
			}

			if d.cur.Peek() == ']' {
				return
			}

			if n > 0 {
				err := d.cur.Expect(',')
				if err != nil {
					yield(zero, err)

					return
				}
			}

			v, err := d.class(cls)
			if err != nil {
				yield(zero, err)

				return
			}

			t, ok := v.(T)
			if !ok {
				yield(zero, constructorMismatch[T](v))

				return
			}

			if !yield(t, nil) {
				return
			}
		}
	}
}

// LinesIterator yields one T per newline-delimited JSON document in data.
// Empty lines are skipped; a malformed line ends the iteration with an
// error.
func LinesIterator[T any](data []byte, opts ...ParseOption) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T

		cls, err := contract.For[T]()
		if err != nil {
			yield(zero, err)

			return
		}

		cfg := newParseConfig(opts)

		for len(data) > 0 {
			line := data

			if i := bytes.IndexByte(data, '\n'); i >= 0 {
				line = data[:i]
				data = data[i+1:]
			} else {
				data = nil
			}

			if len(bytes.TrimSpace(line)) == 0 {
				continue
			}

			v, err := finishClass[T](newDecoder(line, cfg), cls)
			if !yield(v, err) || err != nil {
				return
			}
		}
	}
}

// finishClass parses a class value at the cursor, consumes trailing
// whitespace, and asserts the constructed type.
func finishClass[T any](d *decoder, cls *contract.Contract) (T, error) {
	var zero T

	v, err := d.class(cls)
	if err != nil {
		return zero, err
	}

	err = d.cur.TrimLeft()
	if err != nil {
		return zero, err
	}

	t, ok := v.(T)
	if !ok {
		return zero, constructorMismatch[T](v)
	}

	return t, nil
}

func constructorMismatch[T any](v any) error {
	var zero T

	return scan.Errorf(scan.ErrUnknown, -1, "contract for %T constructed %T", zero, v)
}

// ToJSON serializes v through its registered contract into a compact (or,
// with options, pretty) JSON text.
func ToJSON(v any, opts ...SerializeOption) (string, error) {
	out, err := AppendJSON(nil, v, opts...)
	if err != nil {
		return "", err
	}

	return string(out), nil
}

// MustToJSON is [ToJSON] panicking on error.
func MustToJSON(v any, opts ...SerializeOption) string {
	s, err := ToJSON(v, opts...)
	if err != nil {
		panic(err)
	}

	return s
}

// AppendJSON serializes v and appends the output to dst.
func AppendJSON(dst []byte, v any, opts ...SerializeOption) ([]byte, error) {
	cls, err := contractFor(v)
	if err != nil {
		return nil, err
	}

	e := &encoder{buf: dst, cfg: newSerializeConfig(opts)}

	err = e.class(cls, v)
	if err != nil {
		return nil, err
	}

	return e.buf, nil
}

// ToJSONWrite serializes v into a caller-supplied sink. The whole output
// is built in memory first and handed to w in a single Write call.
func ToJSONWrite(v any, w io.Writer, opts ...SerializeOption) error {
	out, err := AppendJSON(nil, v, opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(out)

	return err
}
