package parser

import "github.com/invopop/jsonschema"

// document mirrors Payload with typed entries so the schema lists the
// element and relationship fields.
type document struct {
	Type          string                `json:"type"`
	Elements      []ElementPayload      `json:"elements"`
	Relationships []RelationshipPayload `json:"relationships,omitempty"`
}

// JSONSchema describes both wire shapes of an endpoint.
func (Endpoint) JSONSchema() *jsonschema.Schema {
	object := jsonschema.NewProperties()
	object.Set("element", &jsonschema.Schema{Type: "string"})
	object.Set("role", &jsonschema.Schema{Type: "string"})
	object.Set("multiplicity", &jsonschema.Schema{Type: "string"})
	object.Set("direction", &jsonschema.Schema{Type: "string"})

	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "string", Description: "Element id"},
			{Type: "object", Properties: object, Required: []string{"element"}},
		},
	}
}

// JSONSchema describes a capacity as a number or "Infinity".
func (Capacity) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "integer", Minimum: "0"},
			{Type: "string", Enum: []any{"Infinity"}},
		},
	}
}

// Schema returns the JSON Schema of a diagram submission accepted by Parse.
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		DoNotReference: true,
	}
	s := r.Reflect(&document{})
	s.Title = "Diagram submission"

	if typ, ok := s.Properties.Get("type"); ok {
		for _, t := range supported {
			typ.Enum = append(typ.Enum, string(t))
		}
	}
	return s
}
