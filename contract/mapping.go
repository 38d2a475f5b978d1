package contract

import (
	"reflect"
)

// Kind discriminates the mapping descriptor variants.
type Kind int

const (
	// KindInt maps a JSON number to a signed integer (int64 value).
	KindInt Kind = iota
	// KindUint maps a JSON number to an unsigned integer (uint64 value).
	KindUint
	// KindFloat maps a JSON number to a float64 value.
	KindFloat
	// KindBool maps a JSON true/false literal.
	KindBool
	// KindString maps a JSON string.
	KindString
	// KindDate maps an RFC 3339 JSON string to a time.Time.
	KindDate
	// KindClass maps a JSON object through a registered class contract.
	KindClass
	// KindArray maps a JSON array with a homogeneous element mapping.
	KindArray
	// KindSizedArray is KindArray with a fixed element count.
	KindSizedArray
	// KindKeyValue maps a JSON object to key/value pairs.
	KindKeyValue
	// KindKeyValueArray maps a JSON array of {"key":..,"value":..} objects.
	KindKeyValueArray
	// KindTuple maps a JSON array with positional element mappings.
	KindTuple
	// KindVariant selects an alternative by the JSON base type.
	KindVariant
	// KindVariantTagged selects an alternative by a sibling tag member.
	KindVariantTagged
	// KindCustom delegates to user parse and serialize functions.
	KindCustom
	// KindRaw passes the raw bytes of a value through unparsed.
	KindRaw
	// KindAlias adapts an inner mapping through convert functions.
	KindAlias
)

// LiteralAsString controls whether a numeric or boolean literal is
// surrounded by quotes in JSON.
type LiteralAsString int

const (
	// Never rejects quoted literals.
	Never LiteralAsString = iota
	// Maybe accepts both quoted and bare literals.
	Maybe
	// Always requires quotes on parse and emits them on serialize.
	Always
)

// NullBehavior is the per-member policy for JSON null and absent members.
type NullBehavior int

const (
	// MustExist makes absence or explicit null an error.
	MustExist NullBehavior = iota
	// NullVisible permits null/absence and serializes an absent value as
	// an explicit null.
	NullVisible
	// DefaultOnMissing permits null/absence, produces the default value,
	// and omits absent values from serialized output.
	DefaultOnMissing
)

// RawJSON holds the unparsed bytes of one complete JSON value.
type RawJSON []byte

// KV is one entry produced by a key/value mapping. Key is a string for
// object-form key/value members and whatever the key mapping produces for
// array-form members.
type KV struct {
	Key   any
	Value any
}

// Switcher maps a variant tag value (int64 or string) to the index of the
// alternative that parses the payload.
type Switcher func(tag any) (int, error)

// Mapping is one node in a contract tree: a leaf extractor or a composite.
// The Kind tag selects which kind-specific fields apply. Mappings are
// immutable after registration.
type Mapping struct {
	Kind Kind

	// Null is the null/absence policy. Nullable reports permissiveness.
	Null NullBehavior
	// Default produces the null-case value for a nullable mapping. When
	// nil, the null-case value is untyped nil.
	Default func() any

	// AsString, Bits and RangeCheck apply to numeric and bool leaves.
	AsString   LiteralAsString
	Bits       int
	RangeCheck bool

	// Elem is the element mapping for arrays; Size bounds KindSizedArray.
	Elem *Mapping
	Size int

	// Key and Value apply to key/value mappings. Key is nil for
	// KindKeyValue, whose keys are the object member names.
	Key   *Mapping
	Value *Mapping

	// Elems are the positional element mappings of a tuple.
	Elems []*Mapping

	// Type is the registered target type for KindClass.
	Type reflect.Type

	// Alternatives, TagMember and Switch drive variant selection.
	Alternatives []*Mapping
	TagMember    string
	TaggedAlts   []Member
	Switch       Switcher

	// Convert and Revert adapt parsed values for KindAlias.
	Convert func(v any) (any, error)
	Revert  func(v any) (any, error)

	// ParseFunc and EmitFunc implement KindCustom over raw value bytes.
	ParseFunc func(raw []byte) (any, error)
	EmitFunc  func(v any) ([]byte, error)
}

// Nullable reports whether null or absence is legal for this mapping.
func (m *Mapping) Nullable() bool {
	return m.Null != MustExist
}

// NullValue produces the null-case value for a nullable mapping.
func (m *Mapping) NullValue() any {
	if m.Default != nil {
		return m.Default()
	}

	return nil
}

// Option configures a [Mapping].
type Option func(*Mapping)

// Nullable marks the mapping as accepting null or absence, serializing an
// absent value as explicit null.
func Nullable() Option {
	return func(m *Mapping) {
		m.Null = NullVisible
	}
}

// WithDefault marks the mapping as accepting null or absence, producing
// fn's result in the null case and omitting absent values on serialize.
// A nil fn keeps the untyped-nil null case.
func WithDefault(fn func() any) Option {
	return func(m *Mapping) {
		m.Null = DefaultOnMissing
		m.Default = fn
	}
}

// AsString sets the quoted-literal policy for numeric and bool leaves.
func AsString(v LiteralAsString) Option {
	return func(m *Mapping) {
		m.AsString = v
	}
}

// Bits sets the integer width used for narrowing checks.
func Bits(n int) Option {
	return func(m *Mapping) {
		m.Bits = n
	}
}

// RangeChecked enables the narrowing check against the mapping's width.
func RangeChecked() Option {
	return func(m *Mapping) {
		m.RangeCheck = true
	}
}

func newMapping(kind Kind, opts ...Option) *Mapping {
	m := &Mapping{Kind: kind, Bits: 64}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// IntElem creates an unnamed signed integer mapping for element positions.
func IntElem(opts ...Option) *Mapping {
	return newMapping(KindInt, opts...)
}

// UintElem creates an unnamed unsigned integer mapping.
func UintElem(opts ...Option) *Mapping {
	return newMapping(KindUint, opts...)
}

// FloatElem creates an unnamed floating-point mapping.
func FloatElem(opts ...Option) *Mapping {
	return newMapping(KindFloat, opts...)
}

// BoolElem creates an unnamed boolean mapping.
func BoolElem(opts ...Option) *Mapping {
	return newMapping(KindBool, opts...)
}

// StringElem creates an unnamed string mapping.
func StringElem(opts ...Option) *Mapping {
	return newMapping(KindString, opts...)
}

// DateElem creates an unnamed RFC 3339 timestamp mapping.
func DateElem(opts ...Option) *Mapping {
	return newMapping(KindDate, opts...)
}

// RawElem creates an unnamed raw pass-through mapping.
func RawElem(opts ...Option) *Mapping {
	return newMapping(KindRaw, opts...)
}

// ClassElem creates an unnamed mapping through T's registered contract.
func ClassElem[T any](opts ...Option) *Mapping {
	m := newMapping(KindClass, opts...)
	m.Type = reflect.TypeFor[T]()

	return m
}

// ArrayElem creates an unnamed array mapping with the given element.
func ArrayElem(elem *Mapping, opts ...Option) *Mapping {
	m := newMapping(KindArray, opts...)
	m.Elem = elem

	return m
}

// TupleElem creates an unnamed tuple mapping with positional elements.
func TupleElem(elems ...*Mapping) *Mapping {
	m := newMapping(KindTuple)
	m.Elems = elems

	return m
}

// AliasElem creates an unnamed alias mapping adapting inner through
// convert (after parse) and revert (before serialize).
func AliasElem(inner *Mapping, convert, revert func(any) (any, error), opts ...Option) *Mapping {
	m := newMapping(KindAlias, opts...)
	m.Elem = inner
	m.Convert = convert
	m.Revert = revert

	return m
}

// CustomElem creates an unnamed mapping over user parse and emit functions
// operating on the raw bytes of one complete JSON value.
func CustomElem(parse func([]byte) (any, error), emit func(any) ([]byte, error), opts ...Option) *Mapping {
	m := newMapping(KindCustom, opts...)
	m.ParseFunc = parse
	m.EmitFunc = emit

	return m
}

// VariantElem creates an unnamed variant mapping selecting by JSON base
// type: each alternative claims the base types its kind can start.
func VariantElem(alts ...*Mapping) *Mapping {
	m := newMapping(KindVariant)
	m.Alternatives = alts

	return m
}

// Member binds a mapping to a JSON object member name.
type Member struct {
	Name    string
	Mapping *Mapping
}

func member(name string, m *Mapping) Member {
	return Member{Name: name, Mapping: m}
}

// Int declares a signed integer member.
func Int(name string, opts ...Option) Member {
	return member(name, IntElem(opts...))
}

// Uint declares an unsigned integer member.
func Uint(name string, opts ...Option) Member {
	return member(name, UintElem(opts...))
}

// Float declares a floating-point member.
func Float(name string, opts ...Option) Member {
	return member(name, FloatElem(opts...))
}

// Bool declares a boolean member.
func Bool(name string, opts ...Option) Member {
	return member(name, BoolElem(opts...))
}

// String declares a string member.
func String(name string, opts ...Option) Member {
	return member(name, StringElem(opts...))
}

// Date declares an RFC 3339 timestamp member.
func Date(name string, opts ...Option) Member {
	return member(name, DateElem(opts...))
}

// Raw declares a member whose value bytes pass through unparsed.
func Raw(name string, opts ...Option) Member {
	return member(name, RawElem(opts...))
}

// Class declares a member parsed through T's registered contract.
func Class[T any](name string, opts ...Option) Member {
	return member(name, ClassElem[T](opts...))
}

// Array declares a homogeneous array member.
func Array(name string, elem *Mapping, opts ...Option) Member {
	return member(name, ArrayElem(elem, opts...))
}

// SizedArray declares an array member with exactly size elements.
func SizedArray(name string, elem *Mapping, size int, opts ...Option) Member {
	m := ArrayElem(elem, opts...)
	m.Kind = KindSizedArray
	m.Size = size

	return member(name, m)
}

// KeyValue declares a member mapping a JSON object to key/value pairs,
// keys being the object member names.
func KeyValue(name string, value *Mapping, opts ...Option) Member {
	m := newMapping(KindKeyValue, opts...)
	m.Value = value

	return member(name, m)
}

// KeyValueArray declares a member mapping a JSON array of
// {"key":..,"value":..} objects to key/value pairs.
func KeyValueArray(name string, key, value *Mapping, opts ...Option) Member {
	m := newMapping(KindKeyValueArray, opts...)
	m.Key = key
	m.Value = value

	return member(name, m)
}

// Tuple declares a member parsed from a JSON array with positional
// element mappings.
func Tuple(name string, elems ...*Mapping) Member {
	return member(name, TupleElem(elems...))
}

// Variant declares a member whose alternative is selected by the JSON
// base type of the value.
func Variant(name string, alts ...*Mapping) Member {
	return member(name, VariantElem(alts...))
}

// VariantTagged declares a member whose alternative is selected by the
// value of a sibling tag member. Each alternative is a named member; the
// chosen one is parsed from the enclosing object.
func VariantTagged(name, tagMember string, sw Switcher, alts ...Member) Member {
	m := newMapping(KindVariantTagged)
	m.TagMember = tagMember
	m.Switch = sw
	m.TaggedAlts = alts

	return member(name, m)
}

// Custom declares a member over user parse and emit functions.
func Custom(name string, parse func([]byte) (any, error), emit func(any) ([]byte, error), opts ...Option) Member {
	return member(name, CustomElem(parse, emit, opts...))
}

// Alias declares a member adapting an inner mapping through convert
// functions.
func Alias(name string, inner *Mapping, convert, revert func(any) (any, error), opts ...Option) Member {
	return member(name, AliasElem(inner, convert, revert, opts...))
}
