package jsonlink

import (
	"bytes"
	"log/slog"
	"time"

	"go.jacobcolvin.com/jsonlink/contract"
	"go.jacobcolvin.com/jsonlink/scan"
)

// decoder drives one parse invocation: a cursor over the input plus the
// resolved parse options.
type decoder struct {
	cur *scan.Cursor
	cfg parseConfig
}

func newDecoder(data []byte, cfg parseConfig) *decoder {
	cur := scan.NewCursor(data, cfg.policy)
	cur.SetComments(cfg.comments)

	return &decoder{cur: cur, cfg: cfg}
}

// sub creates a decoder over a recorded value extent, inheriting options.
func (d *decoder) sub(raw []byte) *decoder {
	return newDecoder(raw, d.cfg)
}

// value parses one JSON value according to its mapping descriptor. On
// return the cursor sits on the first byte after the value.
func (d *decoder) value(m *contract.Mapping) (any, error) {
	err := d.cur.TrimLeft()
	if err != nil {
		return nil, err
	}

	if !d.cur.IsExhausted() && d.cur.Peek() == 'n' {
		if m.Nullable() {
			err := d.cur.SkipNull()
			if err != nil {
				return nil, err
			}

			return m.NullValue(), nil
		}

		if m.Kind != contract.KindRaw && m.Kind != contract.KindCustom {
			return nil, scan.Errorf(scan.ErrUnexpectedNull, d.cur.Pos(), "null for non-nullable mapping")
		}
	}

	switch m.Kind {
	case contract.KindInt:
		return d.intValue(m)
	case contract.KindUint:
		return d.uintValue(m)
	case contract.KindFloat:
		return d.floatValue(m)
	case contract.KindBool:
		return d.boolValue(m)
	case contract.KindString:
		return d.cur.String()
	case contract.KindDate:
		return d.dateValue()
	case contract.KindClass:
		cls, err := contract.Lookup(m.Type)
		if err != nil {
			return nil, err
		}

		return d.class(cls)
	case contract.KindArray, contract.KindSizedArray:
		return d.arrayValue(m)
	case contract.KindKeyValue:
		return d.keyValue(m)
	case contract.KindKeyValueArray:
		return d.keyValueArray(m)
	case contract.KindTuple:
		return d.tupleValue(m.Elems)
	case contract.KindVariant:
		return d.variantValue(m)
	case contract.KindRaw:
		raw, err := d.rawBytes()
		if err != nil {
			return nil, err
		}

		return contract.RawJSON(bytes.Clone(raw)), nil
	case contract.KindCustom:
		raw, err := d.rawBytes()
		if err != nil {
			return nil, err
		}

		return m.ParseFunc(raw)
	case contract.KindAlias:
		inner, err := d.value(m.Elem)
		if err != nil {
			return nil, err
		}

		return m.Convert(inner)
	case contract.KindVariantTagged:
		// Resolved by the enclosing class dispatcher, which holds the
		// sibling tag member.
		return nil, scan.Errorf(scan.ErrVariantDiscriminatorNotMatched, d.cur.Pos(),
			"tagged variant outside an object contract")
	}

	return nil, scan.Errorf(scan.ErrUnknown, d.cur.Pos(), "unhandled mapping kind %d", m.Kind)
}

// openQuoted consumes a leading quote per the literal-as-string policy and
// reports whether a closing quote must follow the literal.
func (d *decoder) openQuoted(m *contract.Mapping) (bool, error) {
	quoted := !d.cur.IsExhausted() && d.cur.Peek() == '"'

	switch {
	case quoted && m.AsString == contract.Never:
		return false, scan.Errorf(scan.ErrUnexpectedToken, d.cur.Pos(), "quoted literal where bare required")
	case !quoted && m.AsString == contract.Always:
		return false, scan.Errorf(scan.ErrUnexpectedToken, d.cur.Pos(), "bare literal where quoted required")
	}

	if quoted {
		d.cur.Advance(1)
	}

	return quoted, nil
}

func (d *decoder) closeQuoted(quoted bool) error {
	if !quoted {
		return nil
	}

	return d.cur.Expect('"')
}

func (d *decoder) intValue(m *contract.Mapping) (any, error) {
	quoted, err := d.openQuoted(m)
	if err != nil {
		return nil, err
	}

	v, err := d.cur.Int(m.Bits, m.RangeCheck)
	if err != nil {
		return nil, err
	}

	return v, d.closeQuoted(quoted)
}

func (d *decoder) uintValue(m *contract.Mapping) (any, error) {
	quoted, err := d.openQuoted(m)
	if err != nil {
		return nil, err
	}

	v, err := d.cur.Uint(m.Bits, m.RangeCheck)
	if err != nil {
		return nil, err
	}

	return v, d.closeQuoted(quoted)
}

func (d *decoder) floatValue(m *contract.Mapping) (any, error) {
	quoted, err := d.openQuoted(m)
	if err != nil {
		return nil, err
	}

	v, err := d.cur.Float(d.cfg.precision)
	if err != nil {
		return nil, err
	}

	return v, d.closeQuoted(quoted)
}

func (d *decoder) boolValue(m *contract.Mapping) (any, error) {
	quoted, err := d.openQuoted(m)
	if err != nil {
		return nil, err
	}

	v, err := d.cur.Bool()
	if err != nil {
		return nil, err
	}

	return v, d.closeQuoted(quoted)
}

func (d *decoder) dateValue() (any, error) {
	pos := d.cur.Pos()

	s, err := d.cur.String()
	if err != nil {
		return nil, err
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, scan.Errorf(scan.ErrUnexpectedToken, pos, "invalid timestamp: %v", err)
	}

	return t, nil
}

// rawBytes bounds one complete value and returns its borrowed extent.
func (d *decoder) rawBytes() ([]byte, error) {
	start := d.cur.Pos()

	err := d.cur.SkipValue()
	if err != nil {
		return nil, err
	}

	return d.cur.Slice(start), nil
}

func (d *decoder) arrayValue(m *contract.Mapping) (any, error) {
	vs, err := d.elements(func() (any, error) {
		return d.value(m.Elem)
	})
	if err != nil {
		return nil, err
	}

	if m.Kind == contract.KindSizedArray && len(vs) != m.Size {
		return nil, scan.Errorf(scan.ErrUnexpectedToken, d.cur.Pos(),
			"expected %d elements, found %d", m.Size, len(vs))
	}

	return vs, nil
}

// elements iterates a JSON array, applying parse to each element.
func (d *decoder) elements(parse func() (any, error)) ([]any, error) {
	err := d.cur.Expect('[')
	if err != nil {
		return nil, err
	}

	vs := []any{}

	for {
		err := d.cur.TrimLeft()
		if err != nil {
			return nil, err
		}

		if !d.cur.IsExhausted() && d.cur.Peek() == ']' {
			d.cur.Advance(1)

			return vs, nil
		}

		if len(vs) > 0 {
			err := d.cur.Expect(',')
			if err != nil {
				return nil, err
			}

			err = d.cur.TrimLeft()
			if err != nil {
				return nil, err
			}
		}

		v, err := parse()
		if err != nil {
			return nil, err
		}

		vs = append(vs, v)
	}
}

func (d *decoder) keyValue(m *contract.Mapping) (any, error) {
	err := d.cur.Expect('{')
	if err != nil {
		return nil, err
	}

	kvs := []contract.KV{}

	for {
		err := d.cur.TrimLeft()
		if err != nil {
			return nil, err
		}

		if !d.cur.IsExhausted() && d.cur.Peek() == '}' {
			d.cur.Advance(1)

			return kvs, nil
		}

		if len(kvs) > 0 {
			err := d.cur.Expect(',')
			if err != nil {
				return nil, err
			}

			err = d.cur.TrimLeft()
			if err != nil {
				return nil, err
			}
		}

		key, err := d.memberName()
		if err != nil {
			return nil, err
		}

		err = d.colon()
		if err != nil {
			return nil, err
		}

		v, err := d.value(m.Value)
		if err != nil {
			return nil, err
		}

		kvs = append(kvs, contract.KV{Key: key, Value: v})
	}
}

func (d *decoder) keyValueArray(m *contract.Mapping) (any, error) {
	vs, err := d.elements(func() (any, error) {
		return d.keyValueElement(m)
	})
	if err != nil {
		return nil, err
	}

	kvs := make([]contract.KV, len(vs))

	for i, v := range vs {
		kv, ok := v.(contract.KV)
		if !ok {
			return nil, scan.Errorf(scan.ErrUnknown, d.cur.Pos(), "unexpected key/value element %T", v)
		}

		kvs[i] = kv
	}

	return kvs, nil
}

// keyValueElement parses one {"key":..,"value":..} object, tolerating
// either member order and skipping unrelated members.
func (d *decoder) keyValueElement(m *contract.Mapping) (any, error) {
	err := d.cur.Expect('{')
	if err != nil {
		return nil, err
	}

	var (
		kv       contract.KV
		haveKey  bool
		haveVal  bool
		first    = true
		startPos = d.cur.Pos()
	)

	for {
		err := d.cur.TrimLeft()
		if err != nil {
			return nil, err
		}

		if !d.cur.IsExhausted() && d.cur.Peek() == '}' {
			d.cur.Advance(1)

			break
		}

		if !first {
			err := d.cur.Expect(',')
			if err != nil {
				return nil, err
			}

			err = d.cur.TrimLeft()
			if err != nil {
				return nil, err
			}
		}

		first = false

		name, err := d.memberName()
		if err != nil {
			return nil, err
		}

		err = d.colon()
		if err != nil {
			return nil, err
		}

		switch name {
		case "key":
			kv.Key, err = d.keyFor(m)
			haveKey = true
		case "value":
			kv.Value, err = d.value(m.Value)
			haveVal = true
		default:
			err = d.cur.SkipValue()
		}

		if err != nil {
			return nil, err
		}
	}

	if !haveKey {
		return nil, scan.Errorf(scan.ErrMissingMember, startPos, `member "key"`)
	}

	if !haveVal {
		return nil, scan.Errorf(scan.ErrMissingMember, startPos, `member "value"`)
	}

	return kv, nil
}

func (d *decoder) keyFor(m *contract.Mapping) (any, error) {
	if m.Key != nil {
		return d.value(m.Key)
	}

	err := d.cur.TrimLeft()
	if err != nil {
		return nil, err
	}

	return d.cur.String()
}

// tupleValue parses positional elements. Nullable tails produce their
// null-case values when the array ends early; surplus elements are
// skipped.
func (d *decoder) tupleValue(elems []*contract.Mapping) ([]any, error) {
	err := d.cur.Expect('[')
	if err != nil {
		return nil, err
	}

	vs := make([]any, len(elems))
	closed := false
	count := 0

	for i, elem := range elems {
		err := d.cur.TrimLeft()
		if err != nil {
			return nil, err
		}

		if !d.cur.IsExhausted() && d.cur.Peek() == ']' {
			d.cur.Advance(1)
			closed = true

			for j := i; j < len(elems); j++ {
				if !elems[j].Nullable() {
					return nil, scan.Errorf(scan.ErrMissingMember, d.cur.Pos(), "tuple element %d", j)
				}

				vs[j] = elems[j].NullValue()
			}

			break
		}

		if count > 0 {
			err := d.cur.Expect(',')
			if err != nil {
				return nil, err
			}

			err = d.cur.TrimLeft()
			if err != nil {
				return nil, err
			}
		}

		vs[i], err = d.value(elem)
		if err != nil {
			return nil, err
		}

		count++
	}

	if !closed {
		err := d.skipRemainingElements(count)
		if err != nil {
			return nil, err
		}
	}

	return vs, nil
}

// skipRemainingElements consumes surplus array elements up to and
// including the closing bracket.
func (d *decoder) skipRemainingElements(count int) error {
	for {
		err := d.cur.TrimLeft()
		if err != nil {
			return err
		}

		if d.cur.IsExhausted() {
			return scan.Errorf(scan.ErrUnexpectedEndOfInput, d.cur.Pos(), "unterminated array")
		}

		if d.cur.Peek() == ']' {
			d.cur.Advance(1)

			return nil
		}

		if count > 0 {
			err := d.cur.Expect(',')
			if err != nil {
				return err
			}
		}

		err = d.cur.SkipValue()
		if err != nil {
			return err
		}

		count++
	}
}

// variantValue selects an alternative by the JSON base type of the value.
func (d *decoder) variantValue(m *contract.Mapping) (any, error) {
	if d.cur.IsExhausted() {
		return nil, scan.Errorf(scan.ErrUnexpectedEndOfInput, d.cur.Pos(), "expected a value")
	}

	b := d.cur.Peek()

	for _, alt := range m.Alternatives {
		if kindMatchesByte(alt.Kind, b) {
			return d.value(alt)
		}
	}

	return nil, scan.Errorf(scan.ErrVariantDiscriminatorNotMatched, d.cur.Pos(),
		"no alternative for byte %q", string(b))
}

// kindMatchesByte reports whether a mapping kind can start at byte b.
func kindMatchesByte(k contract.Kind, b byte) bool {
	switch k {
	case contract.KindString, contract.KindDate:
		return b == '"'
	case contract.KindInt, contract.KindUint, contract.KindFloat:
		return b == '-' || (b >= '0' && b <= '9')
	case contract.KindBool:
		return b == 't' || b == 'f'
	case contract.KindClass, contract.KindKeyValue:
		return b == '{'
	case contract.KindArray, contract.KindSizedArray, contract.KindTuple, contract.KindKeyValueArray:
		return b == '['
	case contract.KindRaw, contract.KindCustom:
		return true
	}

	return false
}

// memberName reads a quoted object member name, decoding escapes.
func (d *decoder) memberName() (string, error) {
	if d.cur.Policy() == scan.Checked &&
		(d.cur.IsExhausted() || d.cur.Peek() != '"') {
		return "", scan.Errorf(scan.ErrExpectedMemberName, d.cur.Pos(), "expected quoted member name")
	}

	return d.cur.String()
}

func (d *decoder) colon() error {
	err := d.cur.TrimLeft()
	if err != nil {
		return err
	}

	return d.cur.Expect(':')
}

// class assembles a typed value by walking a JSON object (or, for ordered
// contracts, a JSON array) against the contract's member list.
//
// Producer order is irrelevant: members arriving in declaration order are
// parsed in place, members arriving out of order are parsed directly on
// first sight, and members that participate in tagged-variant resolution
// are buffered as raw extents and resolved after the closing brace.
func (d *decoder) class(c *contract.Contract) (any, error) {
	if c.Ordered {
		err := d.cur.TrimLeft()
		if err != nil {
			return nil, err
		}

		mappings := make([]*contract.Mapping, len(c.Members))
		for i, m := range c.Members {
			mappings[i] = m.Mapping
		}

		vs, err := d.tupleValue(mappings)
		if err != nil {
			return nil, err
		}

		return c.New(vs)
	}

	err := d.cur.TrimLeft()
	if err != nil {
		return nil, err
	}

	openPos := d.cur.Pos()

	err = d.cur.Expect('{')
	if err != nil {
		return nil, err
	}

	byName := make(map[string]int, len(c.Members))
	hasTagged := false

	for i, m := range c.Members {
		if m.Mapping.Kind == contract.KindVariantTagged {
			hasTagged = true

			continue
		}

		byName[m.Name] = i
	}

	var (
		vs    = make([]any, len(c.Members))
		set   = make([]bool, len(c.Members))
		spill map[string][]byte
		first = true
	)

	if hasTagged {
		spill = make(map[string][]byte)
	}

	for {
		err := d.cur.TrimLeft()
		if err != nil {
			return nil, err
		}

		if !d.cur.IsExhausted() && d.cur.Peek() == '}' {
			d.cur.Advance(1)

			break
		}

		if !first {
			err := d.cur.Expect(',')
			if err != nil {
				return nil, err
			}

			err = d.cur.TrimLeft()
			if err != nil {
				return nil, err
			}
		}

		first = false

		name, err := d.memberName()
		if err != nil {
			return nil, err
		}

		err = d.colon()
		if err != nil {
			return nil, err
		}

		j, mapped := byName[name]

		switch {
		case mapped && !set[j]:
			vs[j], err = d.value(c.Members[j].Mapping)
			if err != nil {
				return nil, err
			}

			set[j] = true

		case hasTagged:
			raw, err := d.rawBytes()
			if err != nil {
				return nil, err
			}

			if _, dup := spill[name]; !dup {
				spill[name] = raw
			}

		default:
			start := d.cur.Pos()

			err := d.cur.SkipValue()
			if err != nil {
				return nil, err
			}

			if d.cfg.unknownLog != nil {
				d.cfg.unknownLog.Debug("unknown member",
					slog.String("name", name),
					slog.Int("offset", start),
				)
			}
		}
	}

	for i, m := range c.Members {
		if set[i] {
			continue
		}

		switch {
		case m.Mapping.Kind == contract.KindVariantTagged:
			vs[i], err = d.resolveTaggedVariant(m.Mapping, vs, set, byName, spill, openPos)
			if err != nil {
				return nil, err
			}

		case m.Mapping.Nullable():
			vs[i] = m.Mapping.NullValue()

		default:
			return nil, scan.Errorf(scan.ErrMissingMember, openPos, "member %q", m.Name)
		}
	}

	return c.New(vs)
}

// resolveTaggedVariant reads the discriminator from the enclosing object
// (a mapped sibling member or a buffered extent), switches to the
// alternative index, and parses the chosen alternative's member extent.
func (d *decoder) resolveTaggedVariant(
	m *contract.Mapping,
	vs []any,
	set []bool,
	byName map[string]int,
	spill map[string][]byte,
	openPos int,
) (any, error) {
	tag, err := d.taggedDiscriminator(m, vs, set, byName, spill, openPos)
	if err != nil {
		return nil, err
	}

	idx, err := m.Switch(tag)
	if err != nil {
		return nil, scan.Errorf(scan.ErrVariantDiscriminatorNotMatched, openPos, "%v", err)
	}

	if idx < 0 || idx >= len(m.TaggedAlts) {
		return nil, scan.Errorf(scan.ErrVariantDiscriminatorNotMatched, openPos,
			"alternative index %d out of range", idx)
	}

	alt := m.TaggedAlts[idx]

	raw, ok := spill[alt.Name]
	if !ok {
		if alt.Mapping.Nullable() {
			return alt.Mapping.NullValue(), nil
		}

		return nil, scan.Errorf(scan.ErrMissingMember, openPos, "member %q", alt.Name)
	}

	return d.sub(raw).value(alt.Mapping)
}

// taggedDiscriminator produces the tag value, preferring an already
// parsed sibling member over a buffered raw extent.
func (d *decoder) taggedDiscriminator(
	m *contract.Mapping,
	vs []any,
	set []bool,
	byName map[string]int,
	spill map[string][]byte,
	openPos int,
) (any, error) {
	if j, ok := byName[m.TagMember]; ok && set[j] {
		return vs[j], nil
	}

	raw, ok := spill[m.TagMember]
	if !ok {
		return nil, scan.Errorf(scan.ErrMissingMember, openPos, "tag member %q", m.TagMember)
	}

	sub := d.sub(raw)

	err := sub.cur.TrimLeft()
	if err != nil {
		return nil, err
	}

	if !sub.cur.IsExhausted() && sub.cur.Peek() == '"' {
		return sub.cur.String()
	}

	return sub.cur.Int(64, false)
}
