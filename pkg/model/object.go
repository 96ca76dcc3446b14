package model

import "slices"

// Object is an object of an object or communication diagram. Its attributes
// and methods are separate Attribute and Method elements.
type Object struct {
	ElementBase
	Attributes []Ref
	Methods    []Ref
}

func (o *Object) Contents() []Ref {
	return append(slices.Clone(o.Attributes), o.Methods...)
}

// ObjectLink is an undirected link between two objects.
type ObjectLink struct {
	ElementBase
	Connection
}

func (l *ObjectLink) Symmetric() bool { return true }
