package jsonlink_test

import (
	"fmt"
	"strconv"
	"time"

	"go.jacobcolvin.com/jsonlink/contract"
	"go.jacobcolvin.com/jsonlink/scan"
)

// testRecord mirrors the classic three-member object used throughout the
// parse and serialize tests.
type testRecord struct {
	Member0 string
	Member1 int64
	Member2 bool
}

type intArrayHolder struct {
	V []int64
}

type kvHolder struct {
	KV map[string]int64
}

type counter struct {
	A int64
}

type narrowHolder struct {
	U uint8
}

type taggedUnion struct {
	Type  int64
	Value any
}

type nullableRecord struct {
	A int64
	B *int64
	C string
}

type element struct {
	A int64
	B bool
}

type orderedPoint struct {
	X float64
	Y float64
}

type nested struct {
	Name  string
	Inner counter
}

type dateHolder struct {
	When time.Time
}

type rawHolder struct {
	ID   int64
	Meta contract.RawJSON
}

type anyHolder struct {
	V any
}

type tupleHolder struct {
	X    float64
	Y    float64
	Name string
}

type sizedHolder struct {
	RGB []uint64
}

type settings struct {
	Options map[string]string
}

type hexHolder struct {
	Mask int64
}

type portHolder struct {
	Port int64
}

type emptyRecord struct{}

type checkedCounter struct {
	A int64
}

type quotedRecord struct {
	A float64
	E int64
	C bool
}

func init() {
	contract.MustRegister[testRecord](&contract.Contract{
		Members: []contract.Member{
			contract.String("member0"),
			contract.Int("member1"),
			contract.Bool("member2"),
		},
		New: func(vs []any) (any, error) {
			return testRecord{
				Member0: vs[0].(string),
				Member1: vs[1].(int64),
				Member2: vs[2].(bool),
			}, nil
		},
		Data: func(v any) []any {
			r := v.(testRecord)

			return []any{r.Member0, r.Member1, r.Member2}
		},
	})

	contract.MustRegister[intArrayHolder](&contract.Contract{
		Members: []contract.Member{
			contract.Array("v", contract.IntElem()),
		},
		New: func(vs []any) (any, error) {
			elems := vs[0].([]any)
			out := make([]int64, len(elems))

			for i, e := range elems {
				out[i] = e.(int64)
			}

			return intArrayHolder{V: out}, nil
		},
		Data: func(v any) []any {
			return []any{v.(intArrayHolder).V}
		},
	})

	contract.MustRegister[kvHolder](&contract.Contract{
		Members: []contract.Member{
			contract.KeyValueArray("kv", nil, contract.IntElem()),
		},
		New: func(vs []any) (any, error) {
			kvs := vs[0].([]contract.KV)
			m := make(map[string]int64, len(kvs))

			for _, kv := range kvs {
				m[kv.Key.(string)] = kv.Value.(int64)
			}

			return kvHolder{KV: m}, nil
		},
		Data: func(v any) []any {
			return []any{v.(kvHolder).KV}
		},
	})

	contract.MustRegister[counter](&contract.Contract{
		Members: []contract.Member{
			contract.Int("a"),
		},
		New: func(vs []any) (any, error) {
			return counter{A: vs[0].(int64)}, nil
		},
		Data: func(v any) []any {
			return []any{v.(counter).A}
		},
	})

	contract.MustRegister[narrowHolder](&contract.Contract{
		Members: []contract.Member{
			contract.Uint("u", contract.Bits(8), contract.RangeChecked()),
		},
		New: func(vs []any) (any, error) {
			return narrowHolder{U: uint8(vs[0].(uint64))}, nil
		},
		Data: func(v any) []any {
			return []any{v.(narrowHolder).U}
		},
	})

	contract.MustRegister[taggedUnion](&contract.Contract{
		Members: []contract.Member{
			contract.Int("type"),
			contract.VariantTagged("payload", "type",
				func(tag any) (int, error) {
					switch tag.(int64) {
					case 0:
						return 0, nil
					case 1:
						return 1, nil
					}

					return 0, fmt.Errorf("tag %v", tag)
				},
				contract.Int("v"),
				contract.Int("d"),
			),
		},
		New: func(vs []any) (any, error) {
			return taggedUnion{Type: vs[0].(int64), Value: vs[1]}, nil
		},
		Data: func(v any) []any {
			u := v.(taggedUnion)

			return []any{u.Type, u.Value}
		},
	})

	contract.MustRegister[nullableRecord](&contract.Contract{
		Members: []contract.Member{
			contract.Int("a"),
			contract.Int("b", contract.Nullable()),
			contract.String("c", contract.WithDefault(func() any { return "fallback" })),
		},
		New: func(vs []any) (any, error) {
			r := nullableRecord{A: vs[0].(int64), C: vs[2].(string)}

			if vs[1] != nil {
				b := vs[1].(int64)
				r.B = &b
			}

			return r, nil
		},
		Data: func(v any) []any {
			r := v.(nullableRecord)

			var b any
			if r.B != nil {
				b = *r.B
			}

			return []any{r.A, b, r.C}
		},
	})

	contract.MustRegister[element](&contract.Contract{
		Members: []contract.Member{
			contract.Int("a"),
			contract.Bool("b"),
		},
		New: func(vs []any) (any, error) {
			return element{A: vs[0].(int64), B: vs[1].(bool)}, nil
		},
		Data: func(v any) []any {
			e := v.(element)

			return []any{e.A, e.B}
		},
	})

	contract.MustRegister[orderedPoint](&contract.Contract{
		Ordered: true,
		Members: []contract.Member{
			contract.Float("x"),
			contract.Float("y"),
		},
		New: func(vs []any) (any, error) {
			return orderedPoint{X: vs[0].(float64), Y: vs[1].(float64)}, nil
		},
		Data: func(v any) []any {
			p := v.(orderedPoint)

			return []any{p.X, p.Y}
		},
	})

	contract.MustRegister[nested](&contract.Contract{
		Members: []contract.Member{
			contract.String("name"),
			contract.Class[counter]("inner"),
		},
		New: func(vs []any) (any, error) {
			return nested{Name: vs[0].(string), Inner: vs[1].(counter)}, nil
		},
		Data: func(v any) []any {
			n := v.(nested)

			return []any{n.Name, n.Inner}
		},
	})

	contract.MustRegister[dateHolder](&contract.Contract{
		Members: []contract.Member{
			contract.Date("when"),
		},
		New: func(vs []any) (any, error) {
			return dateHolder{When: vs[0].(time.Time)}, nil
		},
		Data: func(v any) []any {
			return []any{v.(dateHolder).When}
		},
	})

	contract.MustRegister[rawHolder](&contract.Contract{
		Members: []contract.Member{
			contract.Int("id"),
			contract.Raw("meta"),
		},
		New: func(vs []any) (any, error) {
			return rawHolder{ID: vs[0].(int64), Meta: vs[1].(contract.RawJSON)}, nil
		},
		Data: func(v any) []any {
			r := v.(rawHolder)

			return []any{r.ID, r.Meta}
		},
	})

	contract.MustRegister[anyHolder](&contract.Contract{
		Members: []contract.Member{
			contract.Variant("v",
				contract.StringElem(),
				contract.IntElem(),
				contract.BoolElem(),
				contract.ArrayElem(contract.IntElem()),
			),
		},
		New: func(vs []any) (any, error) {
			return anyHolder{V: vs[0]}, nil
		},
		Data: func(v any) []any {
			return []any{v.(anyHolder).V}
		},
	})

	contract.MustRegister[tupleHolder](&contract.Contract{
		Members: []contract.Member{
			contract.Tuple("p",
				contract.FloatElem(),
				contract.FloatElem(),
				contract.StringElem(contract.WithDefault(func() any { return "" })),
			),
		},
		New: func(vs []any) (any, error) {
			elems := vs[0].([]any)

			return tupleHolder{
				X:    elems[0].(float64),
				Y:    elems[1].(float64),
				Name: elems[2].(string),
			}, nil
		},
		Data: func(v any) []any {
			h := v.(tupleHolder)

			return []any{[]any{h.X, h.Y, h.Name}}
		},
	})

	contract.MustRegister[sizedHolder](&contract.Contract{
		Members: []contract.Member{
			contract.SizedArray("rgb", contract.UintElem(contract.Bits(8), contract.RangeChecked()), 3),
		},
		New: func(vs []any) (any, error) {
			elems := vs[0].([]any)
			out := make([]uint64, len(elems))

			for i, e := range elems {
				out[i] = e.(uint64)
			}

			return sizedHolder{RGB: out}, nil
		},
		Data: func(v any) []any {
			return []any{v.(sizedHolder).RGB}
		},
	})

	contract.MustRegister[settings](&contract.Contract{
		Members: []contract.Member{
			contract.KeyValue("options", contract.StringElem()),
		},
		New: func(vs []any) (any, error) {
			kvs := vs[0].([]contract.KV)
			m := make(map[string]string, len(kvs))

			for _, kv := range kvs {
				m[kv.Key.(string)] = kv.Value.(string)
			}

			return settings{Options: m}, nil
		},
		Data: func(v any) []any {
			return []any{v.(settings).Options}
		},
	})

	contract.MustRegister[hexHolder](&contract.Contract{
		Members: []contract.Member{
			contract.Custom("mask",
				func(raw []byte) (any, error) {
					s, err := strconv.Unquote(string(raw))
					if err != nil {
						return nil, scan.Errorf(scan.ErrUnexpectedToken, -1, "mask is not a string")
					}

					return strconv.ParseInt(s, 0, 64)
				},
				func(v any) ([]byte, error) {
					return []byte(strconv.Quote(fmt.Sprintf("%#x", v.(int64)))), nil
				},
			),
		},
		New: func(vs []any) (any, error) {
			return hexHolder{Mask: vs[0].(int64)}, nil
		},
		Data: func(v any) []any {
			return []any{v.(hexHolder).Mask}
		},
	})

	contract.MustRegister[emptyRecord](&contract.Contract{
		New: func(_ []any) (any, error) {
			return emptyRecord{}, nil
		},
		Data: func(_ any) []any {
			return nil
		},
	})

	contract.MustRegister[checkedCounter](&contract.Contract{
		Members: []contract.Member{
			contract.Int("a", contract.RangeChecked()),
		},
		New: func(vs []any) (any, error) {
			return checkedCounter{A: vs[0].(int64)}, nil
		},
		Data: func(v any) []any {
			return []any{v.(checkedCounter).A}
		},
	})

	contract.MustRegister[quotedRecord](&contract.Contract{
		Members: []contract.Member{
			contract.Float("a", contract.AsString(contract.Always)),
			contract.Int("e", contract.AsString(contract.Always)),
			contract.Bool("c", contract.AsString(contract.Always)),
		},
		New: func(vs []any) (any, error) {
			return quotedRecord{
				A: vs[0].(float64),
				E: vs[1].(int64),
				C: vs[2].(bool),
			}, nil
		},
		Data: func(v any) []any {
			r := v.(quotedRecord)

			return []any{r.A, r.E, r.C}
		},
	})

	contract.MustRegister[portHolder](&contract.Contract{
		Members: []contract.Member{
			contract.Alias("port", contract.StringElem(),
				func(v any) (any, error) {
					return strconv.ParseInt(v.(string), 10, 64)
				},
				func(v any) (any, error) {
					return strconv.FormatInt(v.(int64), 10), nil
				},
			),
		},
		New: func(vs []any) (any, error) {
			return portHolder{Port: vs[0].(int64)}, nil
		},
		Data: func(v any) []any {
			return []any{v.(portHolder).Port}
		},
	})
}
