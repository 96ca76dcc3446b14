package model

import "slices"

// DiagramType is the top-level discriminator of a submission payload.
type DiagramType string

const (
	ClassDiagram         DiagramType = "ClassDiagram"
	ActivityDiagram      DiagramType = "ActivityDiagram"
	UseCaseDiagram       DiagramType = "UseCaseDiagram"
	CommunicationDiagram DiagramType = "CommunicationDiagram"
	ComponentDiagram     DiagramType = "ComponentDiagram"
	DeploymentDiagram    DiagramType = "DeploymentDiagram"
	ObjectDiagram        DiagramType = "ObjectDiagram"
	PetriNet             DiagramType = "PetriNet"
	SyntaxTree           DiagramType = "SyntaxTree"
	Flowchart            DiagramType = "Flowchart"
	BPMN                 DiagramType = "BPMN"
)

// Diagram is the parsed graph of one submission. It owns every element and
// relationship; elements reference each other through Refs into the element
// arena. A Diagram is never mutated after NewDiagram returns, so it can be
// shared read-only between goroutines.
type Diagram struct {
	submissionID  int64
	kind          DiagramType
	elements      []Element
	relationships []Relationship
	index         map[string]Element
	refs          map[string]Ref
}

// NewDiagram assembles a Diagram. Parent and endpoint refs held by the given
// elements must address positions in elements.
func NewDiagram(kind DiagramType, submissionID int64, elements []Element, relationships []Relationship) *Diagram {
	d := &Diagram{
		submissionID:  submissionID,
		kind:          kind,
		elements:      elements,
		relationships: relationships,
		index:         make(map[string]Element, len(elements)+len(relationships)),
		refs:          make(map[string]Ref, len(elements)),
	}
	for i, e := range elements {
		id := e.Base().ID
		d.index[id] = e
		d.refs[id] = RefAt(i)
	}
	for _, r := range relationships {
		d.index[r.Base().ID] = r
	}
	return d
}

// SubmissionID returns the identifier of the submission the diagram was parsed from.
func (d *Diagram) SubmissionID() int64 {
	return d.submissionID
}

// Type returns the diagram notation.
func (d *Diagram) Type() DiagramType {
	return d.kind
}

// Elements returns the non-relationship elements in input order.
func (d *Diagram) Elements() []Element {
	return slices.Clone(d.elements)
}

// Relationships returns the relationships in input order.
func (d *Diagram) Relationships() []Relationship {
	return slices.Clone(d.relationships)
}

// Size returns the number of elements plus relationships.
func (d *Diagram) Size() int {
	return len(d.elements) + len(d.relationships)
}

// Resolve returns the element addressed by ref, or nil.
func (d *Diagram) Resolve(ref Ref) Element {
	i, ok := ref.Index()
	if !ok || i >= len(d.elements) {
		return nil
	}
	return d.elements[i]
}

// Parent returns the logical container of e, or nil.
func (d *Diagram) Parent(e Element) Element {
	if e == nil {
		return nil
	}
	return d.Resolve(e.Base().Parent)
}

// Endpoints resolves the source and target of r.
func (d *Diagram) Endpoints(r Relationship) (Element, Element) {
	s, t := r.Endpoints()
	return d.Resolve(s), d.Resolve(t)
}

// Lookup finds an element or relationship by its authoring-tool id.
func (d *Diagram) Lookup(id string) (Element, bool) {
	e, ok := d.index[id]
	return e, ok
}

// RefOf returns the arena ref of the element with the given id. Relationships
// are not part of the arena.
func (d *Diagram) RefOf(id string) (Ref, bool) {
	r, ok := d.refs[id]
	return r, ok
}
