package jsonlink

import (
	"reflect"
	"strconv"
	"strings"

	"go.jacobcolvin.com/jsonlink/contract"
	"go.jacobcolvin.com/jsonlink/scan"
)

// contractFor looks up the contract registered for v's dynamic type.
func contractFor(v any) (*contract.Contract, error) {
	t := reflect.TypeOf(v)
	if t == nil {
		return nil, scan.Errorf(scan.ErrContractMissing, -1, "nil value")
	}

	return contract.Lookup(t)
}

// pathSegment is one step of a dotted path: a member name (empty at the
// root of an index-only segment) plus zero or more array indexes.
type pathSegment struct {
	name    string
	indexes []int
}

// parsePath splits a dotted path like "a.b[2].c" into segments.
func parsePath(path string) ([]pathSegment, error) {
	var segs []pathSegment

	for part := range strings.SplitSeq(path, ".") {
		seg := pathSegment{name: part}

		if open := strings.IndexByte(part, '['); open >= 0 {
			seg.name = part[:open]
			rest := part[open:]

			for rest != "" {
				if rest[0] != '[' {
					return nil, scan.Errorf(scan.ErrUnknown, -1, "malformed path segment %q", part)
				}

				end := strings.IndexByte(rest, ']')
				if end < 0 {
					return nil, scan.Errorf(scan.ErrUnknown, -1, "malformed path segment %q", part)
				}

				idx, err := strconv.Atoi(rest[1:end])
				if err != nil || idx < 0 {
					return nil, scan.Errorf(scan.ErrUnknown, -1, "bad index in path segment %q", part)
				}

				seg.indexes = append(seg.indexes, idx)
				rest = rest[end+1:]
			}
		}

		if seg.name == "" && seg.indexes == nil {
			return nil, scan.Errorf(scan.ErrUnknown, -1, "empty path segment in %q", path)
		}

		segs = append(segs, seg)
	}

	return segs, nil
}

// seek positions the cursor at the sub-value addressed by path.
func (d *decoder) seek(path string) error {
	segs, err := parsePath(path)
	if err != nil {
		return err
	}

	for _, seg := range segs {
		if seg.name != "" {
			err := d.seekMember(seg.name)
			if err != nil {
				return err
			}
		}

		for _, idx := range seg.indexes {
			err := d.seekIndex(idx)
			if err != nil {
				return err
			}
		}
	}

	return d.cur.TrimLeft()
}

// seekMember advances into the object at the cursor, stopping at the
// value of the named member.
func (d *decoder) seekMember(name string) error {
	err := d.cur.TrimLeft()
	if err != nil {
		return err
	}

	openPos := d.cur.Pos()

	err = d.cur.Expect('{')
	if err != nil {
		return err
	}

	first := true

	for {
		err := d.cur.TrimLeft()
		if err != nil {
			return err
		}

		if d.cur.IsExhausted() {
			return scan.Errorf(scan.ErrUnexpectedEndOfInput, d.cur.Pos(), "unterminated object")
		}

		if d.cur.Peek() == '}' {
			return scan.Errorf(scan.ErrMissingMember, openPos, "member %q", name)
		}

		if !first {
			err := d.cur.Expect(',')
			if err != nil {
				return err
			}

			err = d.cur.TrimLeft()
			if err != nil {
				return err
			}
		}

		first = false

		got, err := d.memberName()
		if err != nil {
			return err
		}

		err = d.colon()
		if err != nil {
			return err
		}

		if got == name {
			return d.cur.TrimLeft()
		}

		err = d.cur.SkipValue()
		if err != nil {
			return err
		}
	}
}

// seekIndex advances into the array at the cursor, stopping at element
// idx.
func (d *decoder) seekIndex(idx int) error {
	err := d.cur.TrimLeft()
	if err != nil {
		return err
	}

	err = d.cur.Expect('[')
	if err != nil {
		return err
	}

	for i := 0; ; i++ {
		err := d.cur.TrimLeft()
		if err != nil {
			return err
		}

		if d.cur.IsExhausted() {
			return scan.Errorf(scan.ErrUnexpectedEndOfInput, d.cur.Pos(), "unterminated array")
		}

		if d.cur.Peek() == ']' {
			return scan.Errorf(scan.ErrMissingMember, d.cur.Pos(), "array index %d out of range", idx)
		}

		if i > 0 {
			err := d.cur.Expect(',')
			if err != nil {
				return err
			}

			err = d.cur.TrimLeft()
			if err != nil {
				return err
			}
		}

		if i == idx {
			return nil
		}

		err = d.cur.SkipValue()
		if err != nil {
			return err
		}
	}
}
