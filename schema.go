package jsonlink

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"go.jacobcolvin.com/jsonlink/contract"
)

// draft7 is the meta-schema URI stamped on emitted documents.
const draft7 = "http://json-schema.org/draft-07/schema#"

// Schema emits a JSON Schema document describing the JSON shape implied
// by T's contract. It is a pure function of the contract registry.
func Schema[T any](id, title string) (*jsonschema.Schema, error) {
	cls, err := contract.For[T]()
	if err != nil {
		return nil, err
	}

	root, err := classSchema(cls)
	if err != nil {
		return nil, err
	}

	root.Schema = draft7
	root.ID = id
	root.Title = title

	return root, nil
}

// SchemaJSON is [Schema] marshaled to an indented JSON text.
func SchemaJSON[T any](id, title string) (string, error) {
	s, err := Schema[T](id, title)
	if err != nil {
		return "", err
	}

	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling schema: %w", err)
	}

	return string(out), nil
}

func classSchema(cls *contract.Contract) (*jsonschema.Schema, error) {
	if cls.Ordered {
		mappings := make([]*contract.Mapping, len(cls.Members))
		for i, m := range cls.Members {
			mappings[i] = m.Mapping
		}

		return tupleSchema(mappings)
	}

	s := &jsonschema.Schema{
		Type:       "object",
		Properties: make(map[string]*jsonschema.Schema),
	}

	for _, m := range cls.Members {
		if m.Mapping.Kind == contract.KindVariantTagged {
			for _, alt := range m.Mapping.TaggedAlts {
				alternative, err := mappingSchema(alt.Mapping)
				if err != nil {
					return nil, err
				}

				s.Properties[alt.Name] = alternative
				s.PropertyOrder = append(s.PropertyOrder, alt.Name)
			}

			continue
		}

		prop, err := mappingSchema(m.Mapping)
		if err != nil {
			return nil, err
		}

		s.Properties[m.Name] = prop
		s.PropertyOrder = append(s.PropertyOrder, m.Name)

		if !m.Mapping.Nullable() {
			s.Required = append(s.Required, m.Name)
		}
	}

	return s, nil
}

func tupleSchema(elems []*contract.Mapping) (*jsonschema.Schema, error) {
	s := &jsonschema.Schema{Type: "array"}

	for _, elem := range elems {
		es, err := mappingSchema(elem)
		if err != nil {
			return nil, err
		}

		s.PrefixItems = append(s.PrefixItems, es)
	}

	return s, nil
}

// mappingSchema renders one descriptor as a schema node.
func mappingSchema(m *contract.Mapping) (*jsonschema.Schema, error) {
	s, err := baseMappingSchema(m)
	if err != nil {
		return nil, err
	}

	if m.Nullable() && s.Type != "" {
		s.Types = []string{s.Type, "null"}
		s.Type = ""
	}

	return s, nil
}

func baseMappingSchema(m *contract.Mapping) (*jsonschema.Schema, error) {
	switch m.Kind {
	case contract.KindInt, contract.KindUint:
		if m.AsString == contract.Always {
			return &jsonschema.Schema{Type: "string"}, nil
		}

		return &jsonschema.Schema{Type: "integer"}, nil

	case contract.KindFloat:
		if m.AsString == contract.Always {
			return &jsonschema.Schema{Type: "string"}, nil
		}

		return &jsonschema.Schema{Type: "number"}, nil

	case contract.KindBool:
		if m.AsString == contract.Always {
			return &jsonschema.Schema{Type: "string"}, nil
		}

		return &jsonschema.Schema{Type: "boolean"}, nil

	case contract.KindString:
		return &jsonschema.Schema{Type: "string"}, nil

	case contract.KindDate:
		return &jsonschema.Schema{Type: "string", Format: "date-time"}, nil

	case contract.KindClass:
		cls, err := contract.Lookup(m.Type)
		if err != nil {
			return nil, err
		}

		return classSchema(cls)

	case contract.KindArray, contract.KindSizedArray:
		elem, err := mappingSchema(m.Elem)
		if err != nil {
			return nil, err
		}

		return &jsonschema.Schema{Type: "array", Items: elem}, nil

	case contract.KindKeyValue:
		val, err := mappingSchema(m.Value)
		if err != nil {
			return nil, err
		}

		return &jsonschema.Schema{Type: "object", AdditionalProperties: val}, nil

	case contract.KindKeyValueArray:
		key := &jsonschema.Schema{Type: "string"}

		if m.Key != nil {
			ks, err := mappingSchema(m.Key)
			if err != nil {
				return nil, err
			}

			key = ks
		}

		val, err := mappingSchema(m.Value)
		if err != nil {
			return nil, err
		}

		elem := &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"key":   key,
				"value": val,
			},
			PropertyOrder: []string{"key", "value"},
			Required:      []string{"key", "value"},
		}

		return &jsonschema.Schema{Type: "array", Items: elem}, nil

	case contract.KindTuple:
		return tupleSchema(m.Elems)

	case contract.KindVariant:
		var alts []*jsonschema.Schema

		for _, alt := range m.Alternatives {
			as, err := mappingSchema(alt)
			if err != nil {
				return nil, err
			}

			alts = append(alts, as)
		}

		return &jsonschema.Schema{OneOf: alts}, nil

	case contract.KindAlias:
		return baseMappingSchema(m.Elem)

	case contract.KindRaw, contract.KindCustom, contract.KindVariantTagged:
		// No shape constraint is derivable; validate everything.
		return &jsonschema.Schema{}, nil
	}

	return &jsonschema.Schema{}, nil
}
