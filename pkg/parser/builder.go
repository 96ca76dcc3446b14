package parser

import (
	"encoding/json"
	"fmt"

	"github.com/OFFIS-RIT/compass/pkg/logger"
	"github.com/OFFIS-RIT/compass/pkg/model"
)

type elementFactory func(p *ElementPayload) model.Element

type relationshipFactory func(p *RelationshipPayload, c model.Connection) model.Relationship

// notation describes which element and relationship kinds a diagram type
// understands and how to build them.
type notation struct {
	kind          model.DiagramType
	elements      map[model.ElementType]elementFactory
	relationships map[model.ElementType]relationshipFactory
}

// build runs the two ingestion passes. All elements exist before any owner
// or relationship endpoint is resolved.
func (n *notation) build(p *Payload, submissionID int64) (*model.Diagram, error) {
	elements, owners, refs, skipped, err := n.elementPass(p.Elements)
	if err != nil {
		return nil, err
	}
	n.resolveOwners(elements, owners, refs)

	relationships, err := n.relationshipPass(p.Relationships, refs, skipped)
	if err != nil {
		return nil, err
	}

	logger.Debug("[Parser] Parsed diagram",
		"type", n.kind,
		"submission_id", submissionID,
		"elements", len(elements),
		"relationships", len(relationships),
	)
	return model.NewDiagram(n.kind, submissionID, elements, relationships), nil
}

// elementPass instantiates the known element kinds. It also returns the ids
// of elements skipped for their unknown kind.
func (n *notation) elementPass(raw []json.RawMessage) ([]model.Element, []string, map[string]model.Ref, map[string]struct{}, error) {
	elements := make([]model.Element, 0, len(raw))
	owners := make([]string, 0, len(raw))
	refs := make(map[string]model.Ref, len(raw))
	skipped := make(map[string]struct{})

	for i, r := range raw {
		var p ElementPayload
		if err := json.Unmarshal(r, &p); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("%w: element %d: %v", ErrMalformedPayload, i, err)
		}
		if p.ID == "" {
			return nil, nil, nil, nil, fmt.Errorf("%w: element %d has no id", ErrMalformedPayload, i)
		}

		factory, ok := n.elements[model.ElementType(p.Type)]
		if !ok {
			logger.Debug("[Parser] Skipping unknown element kind", "type", n.kind, "id", p.ID, "kind", p.Type)
			skipped[p.ID] = struct{}{}
			continue
		}
		if _, dup := refs[p.ID]; dup {
			return nil, nil, nil, nil, fmt.Errorf("%w: duplicate element id %q", ErrMalformedPayload, p.ID)
		}

		refs[p.ID] = model.RefAt(len(elements))
		elements = append(elements, factory(&p))
		owners = append(owners, p.Owner)
	}
	return elements, owners, refs, skipped, nil
}

// resolveOwners sets parent refs and fills container contents. Owners that
// do not resolve, or that would close an ownership cycle, are dropped.
func (n *notation) resolveOwners(elements []model.Element, owners []string, refs map[string]model.Ref) {
	for i, owner := range owners {
		if owner == "" {
			continue
		}
		ref, ok := refs[owner]
		if !ok {
			logger.Debug("[Parser] Unresolved owner", "type", n.kind, "id", elements[i].Base().ID, "owner", owner)
			continue
		}
		if ownedBy(elements, ref, model.RefAt(i)) {
			logger.Debug("[Parser] Ownership cycle", "type", n.kind, "id", elements[i].Base().ID, "owner", owner)
			continue
		}
		elements[i].Base().Parent = ref
	}

	// Contents are filled in input order once every parent is final.
	for i, e := range elements {
		if parent := e.Base().Parent; parent.Valid() {
			idx, _ := parent.Index()
			adopt(elements[idx], e, model.RefAt(i))
		}
	}
}

// ownedBy reports whether ancestor appears in the parent chain of ref.
func ownedBy(elements []model.Element, ref, ancestor model.Ref) bool {
	for steps := 0; ref.Valid() && steps <= len(elements); steps++ {
		if ref == ancestor {
			return true
		}
		idx, _ := ref.Index()
		ref = elements[idx].Base().Parent
	}
	return false
}

func adopt(parent, child model.Element, ref model.Ref) {
	switch p := parent.(type) {
	case *model.Package:
		p.Children = append(p.Children, ref)
	case *model.Class:
		switch child.(type) {
		case *model.Attribute:
			p.Attributes = append(p.Attributes, ref)
		case *model.Method:
			p.Methods = append(p.Methods, ref)
		}
	case *model.Object:
		switch child.(type) {
		case *model.Attribute:
			p.Attributes = append(p.Attributes, ref)
		case *model.Method:
			p.Methods = append(p.Methods, ref)
		}
	case *model.Activity:
		p.Children = append(p.Children, ref)
	case *model.SystemBoundary:
		p.Children = append(p.Children, ref)
	case *model.Component:
		p.Children = append(p.Children, ref)
	case *model.DeploymentNode:
		p.Children = append(p.Children, ref)
	case *model.BPMNContainer:
		p.Children = append(p.Children, ref)
	}
}

// relationshipPass resolves relationship endpoints. An endpoint naming no
// element of the payload aborts the parse; one naming an element skipped for
// its unknown kind drops just that relationship.
func (n *notation) relationshipPass(raw []json.RawMessage, refs map[string]model.Ref, skipped map[string]struct{}) ([]model.Relationship, error) {
	relationships := make([]model.Relationship, 0, len(raw))

	for i, r := range raw {
		var p RelationshipPayload
		if err := json.Unmarshal(r, &p); err != nil {
			return nil, fmt.Errorf("%w: relationship %d: %v", ErrMalformedPayload, i, err)
		}

		factory, ok := n.relationships[model.ElementType(p.Type)]
		if !ok {
			logger.Debug("[Parser] Skipping unknown relationship kind", "type", n.kind, "id", p.ID, "kind", p.Type)
			continue
		}
		if dangling(skipped, p.Source.Element, p.Target.Element) {
			logger.Debug("[Parser] Skipping relationship to unknown element kind", "type", n.kind, "id", p.ID)
			continue
		}

		source, err := n.resolveEndpoint(&p, "source", p.Source.Element, refs)
		if err != nil {
			return nil, err
		}
		target, err := n.resolveEndpoint(&p, "target", p.Target.Element, refs)
		if err != nil {
			return nil, err
		}

		relationships = append(relationships, factory(&p, model.Connection{Source: source, Target: target}))
	}
	return relationships, nil
}

func dangling(skipped map[string]struct{}, ids ...string) bool {
	for _, id := range ids {
		if _, ok := skipped[id]; ok {
			return true
		}
	}
	return false
}

func (n *notation) resolveEndpoint(p *RelationshipPayload, end, id string, refs map[string]model.Ref) (model.Ref, error) {
	if ref, ok := refs[id]; ok {
		return ref, nil
	}
	return model.NoRef, &ParseError{
		Notation:       n.kind,
		RelationshipID: p.ID,
		Endpoint:       end,
		ElementID:      id,
		Err:            ErrUnresolvedReference,
	}
}
