package similarity

import "github.com/OFFIS-RIT/compass/pkg/model"

// compare dispatches on the concrete kind of a. Every branch requires b to be
// of the same Go type; kinds that share a struct are additionally gated on
// their element type unless the kind itself is a scored feature.
func (c *Comparison) compare(a, b model.Element, depth int) float64 {
	if a == nil || b == nil || depth > maxDepth {
		return 0
	}

	switch x := a.(type) {
	// Class diagram
	case *model.Package:
		if y, ok := b.(*model.Package); ok {
			return NameSimilarity(x.Name, y.Name)
		}
	case *model.Class:
		if y, ok := b.(*model.Class); ok {
			return c.class(x, y)
		}
	case *model.Attribute:
		if y, ok := b.(*model.Attribute); ok && sameType(x, y) {
			return c.attribute(x, y, depth)
		}
	case *model.Method:
		if y, ok := b.(*model.Method); ok && sameType(x, y) {
			return c.method(x, y, depth)
		}
	case *model.ClassRelationship:
		if y, ok := b.(*model.ClassRelationship); ok {
			return c.classRelationship(x, y, depth)
		}

	// Activity diagram
	case *model.Activity:
		if y, ok := b.(*model.Activity); ok {
			return NameSimilarity(x.Name, y.Name)
		}
	case *model.ActivityNode:
		if y, ok := b.(*model.ActivityNode); ok && sameType(x, y) {
			return c.node(x, y, c.cfg.ActivityNode, depth)
		}
	case *model.ControlFlow:
		if y, ok := b.(*model.ControlFlow); ok {
			return c.edge(x, y, c.cfg.ControlFlow, NameSimilarity(x.Name, y.Name), true, depth)
		}

	// Use case diagram
	case *model.Actor:
		if y, ok := b.(*model.Actor); ok {
			return c.node(x, y, c.cfg.UseCase, depth)
		}
	case *model.UseCase:
		if y, ok := b.(*model.UseCase); ok {
			return c.node(x, y, c.cfg.UseCase, depth)
		}
	case *model.SystemBoundary:
		if y, ok := b.(*model.SystemBoundary); ok {
			return c.node(x, y, c.cfg.UseCase, depth)
		}
	case *model.UseCaseRelationship:
		if y, ok := b.(*model.UseCaseRelationship); ok {
			return c.edge(x, y, c.cfg.UseCaseRelationship, NameSimilarity(x.Name, y.Name), sameType(x, y), depth)
		}

	// Object and communication diagrams
	case *model.Object:
		if y, ok := b.(*model.Object); ok {
			return c.object(x, y)
		}
	case *model.ObjectLink:
		if y, ok := b.(*model.ObjectLink); ok {
			return c.edge(x, y, c.cfg.ObjectLink, NameSimilarity(x.Name, y.Name), true, depth)
		}
	case *model.CommunicationLink:
		if y, ok := b.(*model.CommunicationLink); ok {
			return c.communicationLink(x, y, depth)
		}

	// Component and deployment diagrams
	case *model.Component:
		if y, ok := b.(*model.Component); ok && sameType(x, y) {
			return c.node(x, y, c.cfg.Component, depth)
		}
	case *model.ComponentInterface:
		if y, ok := b.(*model.ComponentInterface); ok && sameType(x, y) {
			return c.node(x, y, c.cfg.Component, depth)
		}
	case *model.ComponentRelationship:
		if y, ok := b.(*model.ComponentRelationship); ok {
			return c.edge(x, y, c.cfg.ComponentRelationship, 0, sameType(x, y), depth)
		}
	case *model.DeploymentNode:
		if y, ok := b.(*model.DeploymentNode); ok {
			return c.deploymentNode(x, y, depth)
		}
	case *model.Artifact:
		if y, ok := b.(*model.Artifact); ok {
			return c.node(x, y, c.cfg.Component, depth)
		}
	case *model.DeploymentRelationship:
		if y, ok := b.(*model.DeploymentRelationship); ok {
			return c.edge(x, y, c.cfg.DeploymentRelationship, 0, sameType(x, y), depth)
		}

	// Petri net
	case *model.Place:
		if y, ok := b.(*model.Place); ok {
			return c.place(x, y)
		}
	case *model.Transition:
		if y, ok := b.(*model.Transition); ok {
			return NameSimilarity(x.Name, y.Name)
		}
	case *model.Arc:
		if y, ok := b.(*model.Arc); ok {
			return c.edge(x, y, c.cfg.Arc, EqualsSimilarity(x.Multiplicity, y.Multiplicity), true, depth)
		}

	// Syntax tree
	case *model.SyntaxTreeNode:
		if y, ok := b.(*model.SyntaxTreeNode); ok && sameType(x, y) {
			return NameSimilarity(x.Name, y.Name)
		}
	case *model.SyntaxTreeLink:
		if y, ok := b.(*model.SyntaxTreeLink); ok {
			return c.edge(x, y, c.cfg.SyntaxTreeLink, 0, true, depth)
		}

	// Flowchart
	case *model.FlowchartNode:
		if y, ok := b.(*model.FlowchartNode); ok && sameType(x, y) {
			return NameSimilarity(x.Name, y.Name)
		}
	case *model.Flowline:
		if y, ok := b.(*model.Flowline); ok {
			return c.edge(x, y, c.cfg.Flowline, NameSimilarity(x.Name, y.Name), true, depth)
		}

	// BPMN
	case *model.BPMNTask:
		if y, ok := b.(*model.BPMNTask); ok {
			return NameSimilarity(x.Name, y.Name) *
				c.enumFactor(string(x.TaskType), string(y.TaskType)) *
				c.enumFactor(string(x.Marker), string(y.Marker))
		}
	case *model.BPMNContainer:
		if y, ok := b.(*model.BPMNContainer); ok && sameType(x, y) {
			return NameSimilarity(x.Name, y.Name)
		}
	case *model.BPMNStartEvent:
		if y, ok := b.(*model.BPMNStartEvent); ok {
			return NameSimilarity(x.Name, y.Name) * c.enumFactor(string(x.EventType), string(y.EventType))
		}
	case *model.BPMNIntermediateEvent:
		if y, ok := b.(*model.BPMNIntermediateEvent); ok {
			return NameSimilarity(x.Name, y.Name) * c.enumFactor(string(x.EventType), string(y.EventType))
		}
	case *model.BPMNEndEvent:
		if y, ok := b.(*model.BPMNEndEvent); ok {
			return NameSimilarity(x.Name, y.Name) * c.enumFactor(string(x.EventType), string(y.EventType))
		}
	case *model.BPMNGateway:
		if y, ok := b.(*model.BPMNGateway); ok {
			return NameSimilarity(x.Name, y.Name) * c.enumFactor(string(x.GatewayType), string(y.GatewayType))
		}
	case *model.BPMNDataObject:
		if y, ok := b.(*model.BPMNDataObject); ok {
			return NameSimilarity(x.Name, y.Name)
		}
	case *model.BPMNDataStore:
		if y, ok := b.(*model.BPMNDataStore); ok {
			return NameSimilarity(x.Name, y.Name)
		}
	case *model.BPMNAnnotation:
		if y, ok := b.(*model.BPMNAnnotation); ok {
			return NameSimilarity(x.Name, y.Name)
		}
	case *model.BPMNFlow:
		if y, ok := b.(*model.BPMNFlow); ok {
			return c.edge(x, y, c.cfg.BPMNFlow, NameSimilarity(x.Name, y.Name), x.FlowType == y.FlowType, depth)
		}
	}
	return 0
}

// node scores a named element that may sit inside a container.
func (c *Comparison) node(a, b model.Element, w NodeWeights, depth int) float64 {
	return NameSimilarity(a.Base().Name, b.Base().Name)*w.Name + c.parentScore(a, b, depth)*w.Parent
}

// enumFactor grants full credit for equal enum values, two unset values
// included, and partial credit otherwise.
func (c *Comparison) enumFactor(a, b string) float64 {
	if a == b {
		return 1
	}
	return c.cfg.PartialCredit
}
