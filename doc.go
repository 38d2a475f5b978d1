// Package jsonlink is a declarative JSON binding library. Users describe,
// once per target type, a bidirectional mapping between that type and a
// JSON document -- a contract -- and parse and serialize operations are
// driven entirely by that description.
//
// # Contracts
//
// A contract binds an ordered list of member mappings to a constructor
// and a to-data adaptor, registered per type during program init:
//
//	type Point struct {
//		X int64
//		Y int64
//	}
//
//	func init() {
//		contract.MustRegister[Point](&contract.Contract{
//			Members: []contract.Member{
//				contract.Int("x"),
//				contract.Int("y"),
//			},
//			New: func(vs []any) (any, error) {
//				return Point{X: vs[0].(int64), Y: vs[1].(int64)}, nil
//			},
//			Data: func(v any) []any {
//				p := v.(Point)
//				return []any{p.X, p.Y}
//			},
//		})
//	}
//
//	p, err := jsonlink.FromJSON[Point]([]byte(`{"x":1,"y":2}`))
//	out, err := jsonlink.ToJSON(p)
//
// Mappings cover numbers (with width and narrowing checks), bools,
// strings, RFC 3339 dates, nested classes, arrays, key/value maps,
// tuples, variants (selected by JSON base type or by a tag member), raw
// pass-through, aliases, and custom parse/serialize functions. Members
// may be nullable, with a per-member policy for the absent case.
//
// # Parsing
//
// Parsing is a single forward pass over the input bytes, except that
// members feeding a tagged variant are buffered and parsed once the
// enclosing object closes; producer member order is irrelevant. Scanning runs under a Checked policy that verifies
// every read and reports byte offsets, or an Unchecked policy that elides
// bounds checks and is valid only for well-formed input. Failures are
// classified by the sentinel errors in the scan package.
//
// [FromJSONPath] addresses a sub-value by dotted path before parsing.
// [ArrayIterator] and [LinesIterator] yield elements of top-level arrays
// and JSONL streams without materializing them. [Value] is a stateful
// cursor for repeated member access without re-parsing.
//
// # Serialization
//
// [ToJSON] emits strict RFC 8259 text, compact by default or
// pretty-printed with [WithFormat]. Members serialize in contract-declared
// order; floats use the shortest representation that round-trips to the
// same bit pattern.
//
// [Schema] renders the JSON shape implied by a contract as a JSON Schema
// (Draft 7) document.
package jsonlink
