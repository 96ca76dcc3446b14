package model

import "slices"

// Package groups class diagram elements.
type Package struct {
	ElementBase
	Children []Ref
}

func (p *Package) Contents() []Ref { return p.Children }

// Class covers classes, abstract classes, interfaces and enumerations; the
// element type tells them apart.
type Class struct {
	ElementBase
	Attributes []Ref
	Methods    []Ref
}

func (c *Class) Contents() []Ref {
	return append(slices.Clone(c.Attributes), c.Methods...)
}

// Attribute is a class or object attribute. Parent is the owning class or object.
type Attribute struct {
	ElementBase
	AttributeType string
}

// Method is a class or object method. Parameters keeps the declared order,
// which is irrelevant for similarity.
type Method struct {
	ElementBase
	ReturnType string
	Parameters []string
}

// ClassRelationship connects two class diagram elements. The element type is
// the relationship kind.
type ClassRelationship struct {
	ElementBase
	Connection
	SourceRole         string
	TargetRole         string
	SourceMultiplicity string
	TargetMultiplicity string
}

// Symmetric reports whether this is a bidirectional association.
func (r *ClassRelationship) Symmetric() bool {
	return r.Type == TypeClassBidirectional
}
