package model

// Activity is the container of an activity diagram's nodes.
type Activity struct {
	ElementBase
	Children []Ref
}

func (a *Activity) Contents() []Ref { return a.Children }

// ActivityNode covers every activity node kind (initial, final, action,
// object, merge, fork, decision); the element type tells them apart.
type ActivityNode struct {
	ElementBase
}

// ControlFlow is a directed edge between activity nodes. Name holds the guard.
type ControlFlow struct {
	ElementBase
	Connection
}

func (f *ControlFlow) Symmetric() bool { return false }
