package jsonlink

import (
	"math"
	"reflect"
	"sort"
	"strconv"
	"time"
	"unicode/utf16"
	"unicode/utf8"

	"go.jacobcolvin.com/jsonlink/contract"
	"go.jacobcolvin.com/jsonlink/scan"
)

// encoder accumulates serialized output. The buffer is handed back to the
// caller; there is no hidden intermediate buffering.
type encoder struct {
	buf   []byte
	cfg   serializeConfig
	depth int
}

func (e *encoder) byte(b byte) {
	e.buf = append(e.buf, b)
}

func (e *encoder) raw(s string) {
	e.buf = append(e.buf, s...)
}

// open emits an opening delimiter and indents the body in pretty mode.
func (e *encoder) open(b byte) {
	e.byte(b)
	e.depth++
}

// close dedents and emits a closing delimiter. nonEmpty controls whether a
// closing newline is needed in pretty mode.
func (e *encoder) close(b byte, nonEmpty bool) {
	e.depth--

	if nonEmpty {
		e.newline()
	}

	e.byte(b)
}

// sep separates adjacent members or elements.
func (e *encoder) sep(first bool) {
	if !first {
		e.byte(',')
	}

	e.newline()
}

func (e *encoder) newline() {
	if e.cfg.format != Pretty {
		return
	}

	e.byte('\n')

	for range e.depth {
		e.raw("  ")
	}
}

func (e *encoder) colon() {
	e.byte(':')

	if e.cfg.format == Pretty {
		e.byte(' ')
	}
}

// value emits one value according to its mapping descriptor.
func (e *encoder) value(m *contract.Mapping, v any) error {
	if v == nil {
		if !m.Nullable() {
			return scan.Errorf(scan.ErrUnexpectedNull, -1, "nil value for non-nullable mapping")
		}

		e.raw("null")

		return nil
	}

	switch m.Kind {
	case contract.KindInt:
		i, ok := asInt64(v)
		if !ok {
			return typeMismatch(m, v)
		}

		return e.quotable(m, func() {
			e.buf = strconv.AppendInt(e.buf, i, 10)
		})

	case contract.KindUint:
		u, ok := asUint64(v)
		if !ok {
			return typeMismatch(m, v)
		}

		return e.quotable(m, func() {
			e.buf = strconv.AppendUint(e.buf, u, 10)
		})

	case contract.KindFloat:
		f, ok := asFloat64(v)
		if !ok {
			return typeMismatch(m, v)
		}

		if math.IsNaN(f) || math.IsInf(f, 0) {
			return scan.Errorf(scan.ErrInvalidNumber, -1, "%v has no JSON representation", f)
		}

		return e.quotable(m, func() {
			e.buf = strconv.AppendFloat(e.buf, f, 'g', -1, 64)
		})

	case contract.KindBool:
		b, ok := v.(bool)
		if !ok {
			return typeMismatch(m, v)
		}

		return e.quotable(m, func() {
			e.buf = strconv.AppendBool(e.buf, b)
		})

	case contract.KindString:
		s, ok := v.(string)
		if !ok {
			return typeMismatch(m, v)
		}

		e.str(s)

		return nil

	case contract.KindDate:
		t, ok := v.(time.Time)
		if !ok {
			return typeMismatch(m, v)
		}

		e.str(t.Format(time.RFC3339Nano))

		return nil

	case contract.KindClass:
		cls, err := contract.Lookup(m.Type)
		if err != nil {
			return err
		}

		return e.class(cls, v)

	case contract.KindArray, contract.KindSizedArray:
		return e.array(m.Elem, v)

	case contract.KindKeyValue:
		return e.keyValue(m, v)

	case contract.KindKeyValueArray:
		return e.keyValueArray(m, v)

	case contract.KindTuple:
		return e.tuple(m.Elems, v)

	case contract.KindVariant:
		alt, err := matchAlternative(m.Alternatives, v)
		if err != nil {
			return err
		}

		return e.value(alt, v)

	case contract.KindRaw:
		raw, ok := asRaw(v)
		if !ok {
			return typeMismatch(m, v)
		}

		e.buf = append(e.buf, raw...)

		return nil

	case contract.KindCustom:
		raw, err := m.EmitFunc(v)
		if err != nil {
			return err
		}

		e.buf = append(e.buf, raw...)

		return nil

	case contract.KindAlias:
		inner, err := m.Revert(v)
		if err != nil {
			return err
		}

		return e.value(m.Elem, inner)
	}

	return scan.Errorf(scan.ErrUnknown, -1, "unhandled mapping kind %d", m.Kind)
}

// quotable wraps emit in quotes when the literal-as-string policy says so.
func (e *encoder) quotable(m *contract.Mapping, emit func()) error {
	if m.AsString == contract.Always {
		e.byte('"')
		emit()
		e.byte('"')

		return nil
	}

	emit()

	return nil
}

// class emits a JSON object (or array, for ordered contracts) from a
// value and its contract, members in contract-declared order.
func (e *encoder) class(c *contract.Contract, v any) error {
	vs := c.Data(v)
	if len(vs) != len(c.Members) {
		return scan.Errorf(scan.ErrUnknown, -1,
			"to-data adaptor produced %d values for %d members", len(vs), len(c.Members))
	}

	if c.Ordered {
		mappings := make([]*contract.Mapping, len(c.Members))
		for i, m := range c.Members {
			mappings[i] = m.Mapping
		}

		return e.tuple(mappings, vs)
	}

	e.open('{')
	emitted := 0

	for i, m := range c.Members {
		mv := vs[i]

		if mv == nil && m.Mapping.Null == contract.DefaultOnMissing {
			continue
		}

		name := m.Name

		if m.Mapping.Kind == contract.KindVariantTagged {
			alt, err := selectTaggedAlternative(c, m.Mapping, vs, mv)
			if err != nil {
				return err
			}

			name = alt.Name

			e.sep(emitted == 0)
			e.key(name)
			e.colon()

			err = e.value(alt.Mapping, mv)
			if err != nil {
				return err
			}

			emitted++

			continue
		}

		e.sep(emitted == 0)
		e.key(name)
		e.colon()

		err := e.value(m.Mapping, mv)
		if err != nil {
			return err
		}

		emitted++
	}

	e.close('}', emitted > 0)

	return nil
}

func (e *encoder) array(elem *contract.Mapping, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return scan.Errorf(scan.ErrUnknown, -1, "%T is not a sequence", v)
	}

	e.open('[')

	for i := range rv.Len() {
		e.sep(i == 0)

		err := e.value(elem, rv.Index(i).Interface())
		if err != nil {
			return err
		}
	}

	e.close(']', rv.Len() > 0)

	return nil
}

func (e *encoder) tuple(elems []*contract.Mapping, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return scan.Errorf(scan.ErrUnknown, -1, "%T is not a sequence", v)
	}

	if rv.Len() != len(elems) {
		return scan.Errorf(scan.ErrUnknown, -1,
			"tuple value has %d elements, contract declares %d", rv.Len(), len(elems))
	}

	e.open('[')

	for i, elem := range elems {
		e.sep(i == 0)

		err := e.value(elem, rv.Index(i).Interface())
		if err != nil {
			return err
		}
	}

	e.close(']', len(elems) > 0)

	return nil
}

// kvEntries coerces a key/value member value into ordered entries. Maps
// with string keys are accepted and emitted in sorted key order so output
// is deterministic.
func kvEntries(v any) ([]contract.KV, bool) {
	if kvs, ok := v.([]contract.KV); ok {
		return kvs, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}

	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, k.String())
	}

	sort.Strings(keys)

	kvs := make([]contract.KV, len(keys))
	for i, k := range keys {
		kvs[i] = contract.KV{Key: k, Value: rv.MapIndex(reflect.ValueOf(k)).Interface()}
	}

	return kvs, true
}

func (e *encoder) keyValue(m *contract.Mapping, v any) error {
	kvs, ok := kvEntries(v)
	if !ok {
		return typeMismatch(m, v)
	}

	e.open('{')

	for i, kv := range kvs {
		key, ok := kv.Key.(string)
		if !ok {
			return scan.Errorf(scan.ErrUnknown, -1, "key %v is not a string", kv.Key)
		}

		e.sep(i == 0)
		e.key(key)
		e.colon()

		err := e.value(m.Value, kv.Value)
		if err != nil {
			return err
		}
	}

	e.close('}', len(kvs) > 0)

	return nil
}

func (e *encoder) keyValueArray(m *contract.Mapping, v any) error {
	kvs, ok := kvEntries(v)
	if !ok {
		return typeMismatch(m, v)
	}

	e.open('[')

	for i, kv := range kvs {
		e.sep(i == 0)
		e.open('{')

		e.sep(true)
		e.key("key")
		e.colon()

		err := e.keyOut(m, kv.Key)
		if err != nil {
			return err
		}

		e.sep(false)
		e.key("value")
		e.colon()

		err = e.value(m.Value, kv.Value)
		if err != nil {
			return err
		}

		e.close('}', true)
	}

	e.close(']', len(kvs) > 0)

	return nil
}

func (e *encoder) keyOut(m *contract.Mapping, key any) error {
	if m.Key != nil {
		return e.value(m.Key, key)
	}

	s, ok := key.(string)
	if !ok {
		return scan.Errorf(scan.ErrUnknown, -1, "key %v is not a string", key)
	}

	e.str(s)

	return nil
}

// key emits an object member name, bare when the unquoted-keys option is
// set and the name is a plain identifier.
func (e *encoder) key(name string) {
	if e.cfg.unquotedKeys && isIdentifier(name) {
		e.raw(name)

		return
	}

	e.str(name)
}

// isIdentifier reports whether s is safe to emit as a bare key.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i := 0; i < len(s); i++ {
		b := s[i]

		switch {
		case b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b == '_' || b == '$':
		case b >= '0' && b <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}

	return true
}

// str emits a quoted JSON string with the mandatory escapes, and \uXXXX
// escapes for all non-ASCII content when the option is set.
func (e *encoder) str(s string) {
	e.byte('"')

	if e.cfg.escapeNonASCII {
		e.strEscaped(s)
	} else {
		e.strPlain(s)
	}

	e.byte('"')
}

func (e *encoder) strPlain(s string) {
	for i := 0; i < len(s); i++ {
		b := s[i]

		switch {
		case b == '"':
			e.raw(`\"`)
		case b == '\\':
			e.raw(`\\`)
		case b >= 0x20:
			e.byte(b)
		default:
			e.controlEscape(b)
		}
	}
}

func (e *encoder) strEscaped(s string) {
	for _, r := range s {
		switch {
		case r == '"':
			e.raw(`\"`)
		case r == '\\':
			e.raw(`\\`)
		case r < 0x20:
			e.controlEscape(byte(r))
		case r < utf8.RuneSelf:
			e.byte(byte(r))
		case r <= 0xFFFF:
			e.unicodeEscape(uint16(r))
		default:
			hi, lo := utf16.EncodeRune(r)
			e.unicodeEscape(uint16(hi))
			e.unicodeEscape(uint16(lo))
		}
	}
}

func (e *encoder) controlEscape(b byte) {
	switch b {
	case '\b':
		e.raw(`\b`)
	case '\f':
		e.raw(`\f`)
	case '\n':
		e.raw(`\n`)
	case '\r':
		e.raw(`\r`)
	case '\t':
		e.raw(`\t`)
	default:
		e.unicodeEscape(uint16(b))
	}
}

const hexDigits = "0123456789abcdef"

func (e *encoder) unicodeEscape(u uint16) {
	e.raw(`\u`)
	e.byte(hexDigits[u>>12&0xF])
	e.byte(hexDigits[u>>8&0xF])
	e.byte(hexDigits[u>>4&0xF])
	e.byte(hexDigits[u&0xF])
}

// matchAlternative selects the variant alternative whose mapping can emit
// the dynamic type of v.
func matchAlternative(alts []*contract.Mapping, v any) (*contract.Mapping, error) {
	for _, alt := range alts {
		if alternativeAccepts(alt, v) {
			return alt, nil
		}
	}

	return nil, scan.Errorf(scan.ErrVariantDiscriminatorNotMatched, -1, "no alternative emits %T", v)
}

// selectTaggedAlternative resolves the alternative a tagged-variant value
// serializes under. The sibling tag member's value drives the switcher,
// mirroring the parse side; when the tag member is not itself mapped, the
// dynamic type of the value decides.
func selectTaggedAlternative(c *contract.Contract, m *contract.Mapping, vs []any, v any) (contract.Member, error) {
	for i, sib := range c.Members {
		if sib.Name != m.TagMember {
			continue
		}

		idx, err := m.Switch(vs[i])
		if err != nil {
			return contract.Member{}, scan.Errorf(scan.ErrVariantDiscriminatorNotMatched, -1, "%v", err)
		}

		if idx < 0 || idx >= len(m.TaggedAlts) {
			return contract.Member{}, scan.Errorf(scan.ErrVariantDiscriminatorNotMatched, -1,
				"alternative index %d out of range", idx)
		}

		return m.TaggedAlts[idx], nil
	}

	for _, alt := range m.TaggedAlts {
		if alternativeAccepts(alt.Mapping, v) {
			return alt, nil
		}
	}

	return contract.Member{}, scan.Errorf(scan.ErrVariantDiscriminatorNotMatched, -1,
		"no alternative emits %T", v)
}

func alternativeAccepts(alt *contract.Mapping, v any) bool {
	switch alt.Kind {
	case contract.KindInt:
		_, ok := asInt64(v)

		return ok
	case contract.KindUint:
		_, ok := asUint64(v)

		return ok
	case contract.KindFloat:
		_, ok := asFloat64(v)

		return ok
	case contract.KindBool:
		_, ok := v.(bool)

		return ok
	case contract.KindString:
		_, ok := v.(string)

		return ok
	case contract.KindDate:
		_, ok := v.(time.Time)

		return ok
	case contract.KindClass:
		return reflect.TypeOf(v) == alt.Type
	case contract.KindKeyValue, contract.KindKeyValueArray:
		_, ok := kvEntries(v)

		return ok
	case contract.KindArray, contract.KindSizedArray, contract.KindTuple:
		k := reflect.ValueOf(v).Kind()

		return k == reflect.Slice || k == reflect.Array
	case contract.KindRaw:
		_, ok := asRaw(v)

		return ok
	}

	return false
}

func typeMismatch(m *contract.Mapping, v any) error {
	return scan.Errorf(scan.ErrUnknown, -1, "value %T does not fit mapping kind %d", v, m.Kind)
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int16:
		return int64(n), true
	case int8:
		return int64(n), true
	}

	return 0, false
}

func asUint64(v any) (uint64, bool) {
	switch n := v.(type) {
	case uint64:
		return n, true
	case uint:
		return uint64(n), true
	case uint32:
		return uint64(n), true
	case uint16:
		return uint64(n), true
	case uint8:
		return uint64(n), true
	}

	return 0, false
}

func asFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}

	return 0, false
}

func asRaw(v any) ([]byte, bool) {
	switch r := v.(type) {
	case contract.RawJSON:
		return r, true
	case []byte:
		return r, true
	case string:
		return []byte(r), true
	}

	return nil, false
}
