package model

// Enumerations in this file modify similarity scores, they never identify an
// element. Every Parse function is a reverse lookup from the wire value that
// reports "no match" instead of failing, so callers decide whether an
// unrecognized value matters.

func lookup[T ~string](values []T, s string) (T, bool) {
	for _, v := range values {
		if string(v) == s {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// TaskType is the kind of a BPMN task.
type TaskType string

const (
	TaskTypeDefault      TaskType = "default"
	TaskTypeUser         TaskType = "user"
	TaskTypeSend         TaskType = "send"
	TaskTypeReceive      TaskType = "receive"
	TaskTypeManual       TaskType = "manual"
	TaskTypeBusinessRule TaskType = "business-rule"
	TaskTypeScript       TaskType = "script"
)

var taskTypes = []TaskType{
	TaskTypeDefault, TaskTypeUser, TaskTypeSend, TaskTypeReceive,
	TaskTypeManual, TaskTypeBusinessRule, TaskTypeScript,
}

// ParseTaskType resolves a wire value to a TaskType.
func ParseTaskType(s string) (TaskType, bool) {
	return lookup(taskTypes, s)
}

// Marker is the loop/multi-instance marker of a BPMN task.
type Marker string

const (
	MarkerNone                    Marker = "none"
	MarkerParallelMultiInstance   Marker = "parallel-multi-instance"
	MarkerSequentialMultiInstance Marker = "sequential-multi-instance"
	MarkerLoop                    Marker = "loop"
)

var markers = []Marker{
	MarkerNone, MarkerParallelMultiInstance, MarkerSequentialMultiInstance, MarkerLoop,
}

// ParseMarker resolves a wire value to a Marker.
func ParseMarker(s string) (Marker, bool) {
	return lookup(markers, s)
}

// StartEventType is the trigger of a BPMN start event.
type StartEventType string

const (
	StartEventDefault     StartEventType = "default"
	StartEventMessage     StartEventType = "message"
	StartEventTimer       StartEventType = "timer"
	StartEventConditional StartEventType = "conditional"
	StartEventSignal      StartEventType = "signal"
)

var startEventTypes = []StartEventType{
	StartEventDefault, StartEventMessage, StartEventTimer, StartEventConditional, StartEventSignal,
}

// ParseStartEventType resolves a wire value to a StartEventType.
func ParseStartEventType(s string) (StartEventType, bool) {
	return lookup(startEventTypes, s)
}

// IntermediateEventType is the kind of a BPMN intermediate event.
type IntermediateEventType string

const (
	IntermediateEventDefault           IntermediateEventType = "default"
	IntermediateEventMessageCatch      IntermediateEventType = "message-catch"
	IntermediateEventMessageThrow      IntermediateEventType = "message-throw"
	IntermediateEventTimerCatch        IntermediateEventType = "timer-catch"
	IntermediateEventEscalationThrow   IntermediateEventType = "escalation-throw"
	IntermediateEventConditionalCatch  IntermediateEventType = "conditional-catch"
	IntermediateEventLinkCatch         IntermediateEventType = "link-catch"
	IntermediateEventLinkThrow         IntermediateEventType = "link-throw"
	IntermediateEventCompensationThrow IntermediateEventType = "compensation-throw"
	IntermediateEventSignalCatch       IntermediateEventType = "signal-catch"
	IntermediateEventSignalThrow       IntermediateEventType = "signal-throw"
)

var intermediateEventTypes = []IntermediateEventType{
	IntermediateEventDefault, IntermediateEventMessageCatch, IntermediateEventMessageThrow,
	IntermediateEventTimerCatch, IntermediateEventEscalationThrow, IntermediateEventConditionalCatch,
	IntermediateEventLinkCatch, IntermediateEventLinkThrow, IntermediateEventCompensationThrow,
	IntermediateEventSignalCatch, IntermediateEventSignalThrow,
}

// ParseIntermediateEventType resolves a wire value to an IntermediateEventType.
func ParseIntermediateEventType(s string) (IntermediateEventType, bool) {
	return lookup(intermediateEventTypes, s)
}

// EndEventType is the result of a BPMN end event.
type EndEventType string

const (
	EndEventDefault      EndEventType = "default"
	EndEventMessage      EndEventType = "message"
	EndEventEscalation   EndEventType = "escalation"
	EndEventError        EndEventType = "error"
	EndEventCompensation EndEventType = "compensation"
	EndEventSignal       EndEventType = "signal"
	EndEventTerminate    EndEventType = "terminate"
)

var endEventTypes = []EndEventType{
	EndEventDefault, EndEventMessage, EndEventEscalation, EndEventError,
	EndEventCompensation, EndEventSignal, EndEventTerminate,
}

// ParseEndEventType resolves a wire value to an EndEventType.
func ParseEndEventType(s string) (EndEventType, bool) {
	return lookup(endEventTypes, s)
}

// GatewayType is the routing behaviour of a BPMN gateway.
type GatewayType string

const (
	GatewayComplex    GatewayType = "complex"
	GatewayEventBased GatewayType = "event-based"
	GatewayExclusive  GatewayType = "exclusive"
	GatewayInclusive  GatewayType = "inclusive"
	GatewayParallel   GatewayType = "parallel"
)

var gatewayTypes = []GatewayType{
	GatewayComplex, GatewayEventBased, GatewayExclusive, GatewayInclusive, GatewayParallel,
}

// ParseGatewayType resolves a wire value to a GatewayType.
func ParseGatewayType(s string) (GatewayType, bool) {
	return lookup(gatewayTypes, s)
}

// FlowType is the kind of a BPMN flow.
type FlowType string

const (
	FlowSequence        FlowType = "sequence"
	FlowMessage         FlowType = "message"
	FlowAssociation     FlowType = "association"
	FlowDataAssociation FlowType = "data-association"
)

var flowTypes = []FlowType{
	FlowSequence, FlowMessage, FlowAssociation, FlowDataAssociation,
}

// ParseFlowType resolves a wire value to a FlowType.
func ParseFlowType(s string) (FlowType, bool) {
	return lookup(flowTypes, s)
}

// MessageDirection tells which endpoint of a communication link a message
// travels towards.
type MessageDirection string

const (
	DirectionSource MessageDirection = "source"
	DirectionTarget MessageDirection = "target"
)

var messageDirections = []MessageDirection{DirectionSource, DirectionTarget}

// ParseMessageDirection resolves a wire value to a MessageDirection.
func ParseMessageDirection(s string) (MessageDirection, bool) {
	return lookup(messageDirections, s)
}

// Flip returns the direction as seen from the swapped link.
func (d MessageDirection) Flip() MessageDirection {
	switch d {
	case DirectionSource:
		return DirectionTarget
	case DirectionTarget:
		return DirectionSource
	default:
		return d
	}
}
