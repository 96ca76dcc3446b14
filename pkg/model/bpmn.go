package model

// BPMN enum fields hold the zero value when the wire value was not
// recognized. A missing field parses to the notation's default.

type BPMNTask struct {
	ElementBase
	TaskType TaskType
	Marker   Marker
}

// BPMNContainer covers pools, swimlanes, subprocesses, transactions, call
// activities and groups.
type BPMNContainer struct {
	ElementBase
	Children []Ref
}

func (c *BPMNContainer) Contents() []Ref { return c.Children }

type BPMNStartEvent struct {
	ElementBase
	EventType StartEventType
}

type BPMNIntermediateEvent struct {
	ElementBase
	EventType IntermediateEventType
}

type BPMNEndEvent struct {
	ElementBase
	EventType EndEventType
}

type BPMNGateway struct {
	ElementBase
	GatewayType GatewayType
}

type BPMNDataObject struct {
	ElementBase
}

type BPMNDataStore struct {
	ElementBase
}

type BPMNAnnotation struct {
	ElementBase
}

type BPMNFlow struct {
	ElementBase
	Connection
	FlowType FlowType
}

func (f *BPMNFlow) Symmetric() bool {
	return f.FlowType == FlowAssociation
}
