package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/OFFIS-RIT/compass/pkg/model"
)

// Payload is one diagram submission as written by the editor.
type Payload struct {
	Type          string            `json:"type"`
	Elements      []json.RawMessage `json:"elements"`
	Relationships []json.RawMessage `json:"relationships,omitempty"`
}

// ElementPayload carries every field any element kind reads. Kinds ignore
// the fields they do not use.
type ElementPayload struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Name  string `json:"name,omitempty"`
	Owner string `json:"owner,omitempty" jsonschema:"description=Id of the containing element"`

	AttributeType string    `json:"attributeType,omitempty"`
	ReturnType    string    `json:"returnType,omitempty"`
	Parameters    *[]string `json:"parameters,omitempty"`

	Stereotype string `json:"stereotype,omitempty"`

	AmountOfTokens int       `json:"amountOfTokens,omitempty"`
	Capacity       *Capacity `json:"capacity,omitempty"`

	TaskType    string `json:"taskType,omitempty"`
	Marker      string `json:"marker,omitempty"`
	EventType   string `json:"eventType,omitempty"`
	GatewayType string `json:"gatewayType,omitempty"`
}

func (p *ElementPayload) base() model.ElementBase {
	return model.ElementBase{ID: p.ID, Name: p.Name, Type: model.ElementType(p.Type)}
}

// RelationshipPayload carries every field any relationship kind reads.
type RelationshipPayload struct {
	ID     string   `json:"id"`
	Type   string   `json:"type"`
	Name   string   `json:"name,omitempty"`
	Source Endpoint `json:"source"`
	Target Endpoint `json:"target"`

	Messages     []MessagePayload `json:"messages,omitempty"`
	Multiplicity string           `json:"multiplicity,omitempty"`
	FlowType     string           `json:"flowType,omitempty"`
}

func (p *RelationshipPayload) base() model.ElementBase {
	return model.ElementBase{ID: p.ID, Name: p.Name, Type: model.ElementType(p.Type)}
}

// MessagePayload is one message of a communication link.
type MessagePayload struct {
	Name      string `json:"name"`
	Direction string `json:"direction" jsonschema:"enum=source,enum=target"`
}

// Endpoint is one end of a relationship. The editor writes either a bare
// element id or an object that also carries the role and multiplicity of
// that end.
type Endpoint struct {
	Element      string `json:"element"`
	Role         string `json:"role,omitempty"`
	Multiplicity string `json:"multiplicity,omitempty"`
	Direction    string `json:"direction,omitempty"`
}

func (e *Endpoint) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &e.Element)
	}

	type plain Endpoint
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("endpoint: %w", err)
	}
	*e = Endpoint(p)
	return nil
}

// Capacity is a Petri net place capacity. The editor writes a number or the
// string "Infinity".
type Capacity int

func (c *Capacity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if strings.EqualFold(strings.TrimSpace(s), "infinity") {
			*c = model.Unbounded
			return nil
		}
		data = []byte(strings.TrimSpace(s))
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("capacity %s: %w", data, err)
	}
	if math.IsInf(f, 1) {
		*c = model.Unbounded
		return nil
	}
	if f < 0 || f != math.Trunc(f) {
		return fmt.Errorf("capacity %v must be a non-negative integer", f)
	}
	*c = Capacity(f)
	return nil
}
