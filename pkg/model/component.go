package model

// Component is a component of a component or deployment diagram.
type Component struct {
	ElementBase
	Children []Ref
}

func (c *Component) Contents() []Ref { return c.Children }

// ComponentInterface is an interface of a component or deployment diagram.
type ComponentInterface struct {
	ElementBase
}

// ComponentRelationship is a dependency or a provided/required interface edge.
type ComponentRelationship struct {
	ElementBase
	Connection
}

func (r *ComponentRelationship) Symmetric() bool { return false }
