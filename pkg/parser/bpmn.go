package parser

import (
	"fmt"

	"github.com/OFFIS-RIT/compass/pkg/logger"
	"github.com/OFFIS-RIT/compass/pkg/model"
)

// ParseBPMN is the legacy ingestion path for BPMN payloads, which Parse
// rejects.
func ParseBPMN(data []byte, submissionID int64) (*model.Diagram, error) {
	p, err := decode(data)
	if err != nil {
		return nil, err
	}
	if p.Type != "" && model.DiagramType(p.Type) != model.BPMN {
		return nil, fmt.Errorf("%w: %q is not a BPMN payload", ErrUnknownDiagramType, p.Type)
	}
	return bpmn.build(p, submissionID)
}

// enumOr resolves a wire enum value. A missing value becomes def; an
// unrecognized one becomes the zero value.
func enumOr[T ~string](raw string, def T, parse func(string) (T, bool), id string) T {
	if raw == "" {
		return def
	}
	v, ok := parse(raw)
	if !ok {
		logger.Debug("[Parser] Unknown enum value", "id", id, "value", raw)
	}
	return v
}

func bpmnContainer(p *ElementPayload) model.Element {
	return &model.BPMNContainer{ElementBase: p.base()}
}

var bpmn = &notation{
	kind: model.BPMN,
	elements: map[model.ElementType]elementFactory{
		model.TypeBPMNTask: func(p *ElementPayload) model.Element {
			return &model.BPMNTask{
				ElementBase: p.base(),
				TaskType:    enumOr(p.TaskType, model.TaskTypeDefault, model.ParseTaskType, p.ID),
				Marker:      enumOr(p.Marker, model.MarkerNone, model.ParseMarker, p.ID),
			}
		},
		model.TypeBPMNStartEvent: func(p *ElementPayload) model.Element {
			return &model.BPMNStartEvent{
				ElementBase: p.base(),
				EventType:   enumOr(p.EventType, model.StartEventDefault, model.ParseStartEventType, p.ID),
			}
		},
		model.TypeBPMNIntermediateEvent: func(p *ElementPayload) model.Element {
			return &model.BPMNIntermediateEvent{
				ElementBase: p.base(),
				EventType:   enumOr(p.EventType, model.IntermediateEventDefault, model.ParseIntermediateEventType, p.ID),
			}
		},
		model.TypeBPMNEndEvent: func(p *ElementPayload) model.Element {
			return &model.BPMNEndEvent{
				ElementBase: p.base(),
				EventType:   enumOr(p.EventType, model.EndEventDefault, model.ParseEndEventType, p.ID),
			}
		},
		model.TypeBPMNGateway: func(p *ElementPayload) model.Element {
			return &model.BPMNGateway{
				ElementBase: p.base(),
				GatewayType: enumOr(p.GatewayType, model.GatewayExclusive, model.ParseGatewayType, p.ID),
			}
		},
		model.TypeBPMNSubprocess:   bpmnContainer,
		model.TypeBPMNTransaction:  bpmnContainer,
		model.TypeBPMNCallActivity: bpmnContainer,
		model.TypeBPMNPool:         bpmnContainer,
		model.TypeBPMNSwimlane:     bpmnContainer,
		model.TypeBPMNGroup:        bpmnContainer,
		model.TypeBPMNDataObject:   func(p *ElementPayload) model.Element { return &model.BPMNDataObject{ElementBase: p.base()} },
		model.TypeBPMNDataStore:    func(p *ElementPayload) model.Element { return &model.BPMNDataStore{ElementBase: p.base()} },
		model.TypeBPMNAnnotation:   func(p *ElementPayload) model.Element { return &model.BPMNAnnotation{ElementBase: p.base()} },
	},
	relationships: kinds(func(p *RelationshipPayload, c model.Connection) model.Relationship {
		return &model.BPMNFlow{
			ElementBase: p.base(),
			Connection:  c,
			FlowType:    enumOr(p.FlowType, model.FlowSequence, model.ParseFlowType, p.ID),
		}
	}, model.TypeBPMNFlow),
}
