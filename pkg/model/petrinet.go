package model

// Unbounded is the capacity of a place that accepts any number of tokens.
const Unbounded = -1

type Place struct {
	ElementBase
	Tokens   int
	Capacity int
}

type Transition struct {
	ElementBase
}

// Arc connects a place and a transition. Multiplicity is the arc weight as
// written by the student.
type Arc struct {
	ElementBase
	Connection
	Multiplicity string
}

func (a *Arc) Symmetric() bool { return false }
