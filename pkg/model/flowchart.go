package model

// FlowchartNode is a terminal, process, decision, input/output or function
// call symbol.
type FlowchartNode struct {
	ElementBase
}

// Flowline connects two flowchart symbols. Name holds the branch label.
type Flowline struct {
	ElementBase
	Connection
}

func (f *Flowline) Symmetric() bool { return false }
