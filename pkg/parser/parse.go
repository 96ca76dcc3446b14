package parser

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/OFFIS-RIT/compass/pkg/logger"
	"github.com/OFFIS-RIT/compass/pkg/model"
)

// Parse decodes a diagram submission and routes it to the parser of its
// notation. The discriminator is checked before any element is read.
func Parse(data []byte, submissionID int64) (*model.Diagram, error) {
	p, err := decode(data)
	if err != nil {
		return nil, err
	}

	n, err := route(p.Type)
	if err != nil {
		logger.Warn("[Parser] Rejected diagram", "submission_id", submissionID, "type", p.Type, "err", err)
		return nil, err
	}
	return n.build(p, submissionID)
}

var supported = []model.DiagramType{
	model.ClassDiagram, model.ActivityDiagram, model.UseCaseDiagram,
	model.CommunicationDiagram, model.ComponentDiagram, model.DeploymentDiagram,
	model.ObjectDiagram, model.PetriNet, model.SyntaxTree, model.Flowchart,
}

// Supported returns the diagram types Parse accepts.
func Supported() []model.DiagramType {
	return slices.Clone(supported)
}

func route(discriminator string) (*notation, error) {
	kind := model.DiagramType(discriminator)
	switch {
	case discriminator == "":
		return nil, ErrMissingDiagramType
	case kind == model.BPMN:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDiagramType, kind)
	}

	n, ok := notations[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDiagramType, discriminator)
	}
	return n, nil
}

func decode(data []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return &p, nil
}
