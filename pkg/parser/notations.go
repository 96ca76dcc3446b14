package parser

import (
	"github.com/OFFIS-RIT/compass/pkg/logger"
	"github.com/OFFIS-RIT/compass/pkg/model"
)

// notations lists every diagram type the dispatcher routes.
var notations = map[model.DiagramType]*notation{
	model.ClassDiagram:         classDiagram,
	model.ActivityDiagram:      activityDiagram,
	model.UseCaseDiagram:       useCaseDiagram,
	model.CommunicationDiagram: communicationDiagram,
	model.ComponentDiagram:     componentDiagram,
	model.DeploymentDiagram:    deploymentDiagram,
	model.ObjectDiagram:        objectDiagram,
	model.PetriNet:             petriNet,
	model.SyntaxTree:           syntaxTree,
	model.Flowchart:            flowchart,
}

func attribute(p *ElementPayload) model.Element {
	a := &model.Attribute{ElementBase: p.base()}
	if p.AttributeType != "" {
		a.Name = stripVisibility(p.Name)
		a.AttributeType = p.AttributeType
	} else {
		a.Name, a.AttributeType = splitAttribute(p.Name)
	}
	return a
}

func method(p *ElementPayload) model.Element {
	m := &model.Method{ElementBase: p.base()}
	m.Name, m.Parameters, m.ReturnType = splitMethod(p.Name)
	if p.Parameters != nil {
		m.Parameters = append([]string{}, (*p.Parameters)...)
	}
	if p.ReturnType != "" {
		m.ReturnType = p.ReturnType
	}
	return m
}

var classDiagram = &notation{
	kind: model.ClassDiagram,
	elements: map[model.ElementType]elementFactory{
		model.TypePackage:        func(p *ElementPayload) model.Element { return &model.Package{ElementBase: p.base()} },
		model.TypeClass:          class,
		model.TypeAbstractClass:  class,
		model.TypeInterface:      class,
		model.TypeEnumeration:    class,
		model.TypeClassAttribute: attribute,
		model.TypeClassMethod:    method,
	},
	relationships: kinds(classRelationship,
		model.TypeClassBidirectional,
		model.TypeClassUnidirectional,
		model.TypeClassInheritance,
		model.TypeClassRealization,
		model.TypeClassDependency,
		model.TypeClassAggregation,
		model.TypeClassComposition,
	),
}

func class(p *ElementPayload) model.Element {
	return &model.Class{ElementBase: p.base()}
}

func classRelationship(p *RelationshipPayload, c model.Connection) model.Relationship {
	return &model.ClassRelationship{
		ElementBase:        p.base(),
		Connection:         c,
		SourceRole:         p.Source.Role,
		TargetRole:         p.Target.Role,
		SourceMultiplicity: p.Source.Multiplicity,
		TargetMultiplicity: p.Target.Multiplicity,
	}
}

var activityDiagram = &notation{
	kind: model.ActivityDiagram,
	elements: merge(
		map[model.ElementType]elementFactory{
			model.TypeActivity: func(p *ElementPayload) model.Element { return &model.Activity{ElementBase: p.base()} },
		},
		nodes(func(p *ElementPayload) model.Element { return &model.ActivityNode{ElementBase: p.base()} },
			model.TypeActivityInitialNode,
			model.TypeActivityFinalNode,
			model.TypeActivityActionNode,
			model.TypeActivityObjectNode,
			model.TypeActivityMergeNode,
			model.TypeActivityForkNode,
			model.TypeActivityForkNodeHorizontal,
			model.TypeActivityDecisionNode,
		),
	),
	relationships: kinds(func(p *RelationshipPayload, c model.Connection) model.Relationship {
		return &model.ControlFlow{ElementBase: p.base(), Connection: c}
	}, model.TypeActivityControlFlow),
}

var useCaseDiagram = &notation{
	kind: model.UseCaseDiagram,
	elements: map[model.ElementType]elementFactory{
		model.TypeUseCaseActor:  func(p *ElementPayload) model.Element { return &model.Actor{ElementBase: p.base()} },
		model.TypeUseCase:       func(p *ElementPayload) model.Element { return &model.UseCase{ElementBase: p.base()} },
		model.TypeUseCaseSystem: func(p *ElementPayload) model.Element { return &model.SystemBoundary{ElementBase: p.base()} },
	},
	relationships: kinds(func(p *RelationshipPayload, c model.Connection) model.Relationship {
		return &model.UseCaseRelationship{ElementBase: p.base(), Connection: c}
	},
		model.TypeUseCaseAssociation,
		model.TypeUseCaseGeneralization,
		model.TypeUseCaseInclude,
		model.TypeUseCaseExtend,
	),
}

var objectElements = map[model.ElementType]elementFactory{
	model.TypeObjectName:      func(p *ElementPayload) model.Element { return &model.Object{ElementBase: p.base()} },
	model.TypeObjectAttribute: attribute,
	model.TypeObjectMethod:    method,
}

var objectDiagram = &notation{
	kind:     model.ObjectDiagram,
	elements: objectElements,
	relationships: kinds(func(p *RelationshipPayload, c model.Connection) model.Relationship {
		return &model.ObjectLink{ElementBase: p.base(), Connection: c}
	}, model.TypeObjectLink),
}

var communicationDiagram = &notation{
	kind:     model.CommunicationDiagram,
	elements: objectElements,
	relationships: kinds(func(p *RelationshipPayload, c model.Connection) model.Relationship {
		link := &model.CommunicationLink{ElementBase: p.base(), Connection: c, Messages: make([]model.Message, 0, len(p.Messages))}
		for _, m := range p.Messages {
			dir, ok := model.ParseMessageDirection(m.Direction)
			if !ok {
				logger.Debug("[Parser] Unknown message direction", "id", p.ID, "direction", m.Direction)
			}
			link.Messages = append(link.Messages, model.Message{Name: m.Name, Direction: dir})
		}
		return link
	}, model.TypeCommunicationLink),
}

var componentDiagram = &notation{
	kind: model.ComponentDiagram,
	elements: map[model.ElementType]elementFactory{
		model.TypeComponent:          component,
		model.TypeComponentInterface: componentInterface,
	},
	relationships: kinds(func(p *RelationshipPayload, c model.Connection) model.Relationship {
		return &model.ComponentRelationship{ElementBase: p.base(), Connection: c}
	},
		model.TypeComponentDependency,
		model.TypeComponentInterfaceProvided,
		model.TypeComponentInterfaceRequired,
	),
}

func component(p *ElementPayload) model.Element {
	return &model.Component{ElementBase: p.base()}
}

func componentInterface(p *ElementPayload) model.Element {
	return &model.ComponentInterface{ElementBase: p.base()}
}

var deploymentDiagram = &notation{
	kind: model.DeploymentDiagram,
	elements: map[model.ElementType]elementFactory{
		model.TypeDeploymentNode: func(p *ElementPayload) model.Element {
			return &model.DeploymentNode{ElementBase: p.base(), Stereotype: p.Stereotype}
		},
		model.TypeDeploymentComponent: component,
		model.TypeDeploymentArtifact:  func(p *ElementPayload) model.Element { return &model.Artifact{ElementBase: p.base()} },
		model.TypeDeploymentInterface: componentInterface,
	},
	relationships: kinds(func(p *RelationshipPayload, c model.Connection) model.Relationship {
		return &model.DeploymentRelationship{ElementBase: p.base(), Connection: c}
	},
		model.TypeDeploymentAssociation,
		model.TypeDeploymentDependency,
		model.TypeDeploymentInterfaceProvided,
		model.TypeDeploymentInterfaceRequired,
	),
}

var petriNet = &notation{
	kind: model.PetriNet,
	elements: map[model.ElementType]elementFactory{
		model.TypePetriNetPlace: func(p *ElementPayload) model.Element {
			capacity := model.Unbounded
			if p.Capacity != nil {
				capacity = int(*p.Capacity)
			}
			return &model.Place{ElementBase: p.base(), Tokens: p.AmountOfTokens, Capacity: capacity}
		},
		model.TypePetriNetTransition: func(p *ElementPayload) model.Element { return &model.Transition{ElementBase: p.base()} },
	},
	relationships: kinds(func(p *RelationshipPayload, c model.Connection) model.Relationship {
		multiplicity := p.Multiplicity
		if multiplicity == "" {
			multiplicity = p.Name
		}
		return &model.Arc{ElementBase: p.base(), Connection: c, Multiplicity: multiplicity}
	}, model.TypePetriNetArc),
}

var syntaxTree = &notation{
	kind: model.SyntaxTree,
	elements: nodes(func(p *ElementPayload) model.Element { return &model.SyntaxTreeNode{ElementBase: p.base()} },
		model.TypeSyntaxTreeNonterminal,
		model.TypeSyntaxTreeTerminal,
	),
	relationships: kinds(func(p *RelationshipPayload, c model.Connection) model.Relationship {
		return &model.SyntaxTreeLink{ElementBase: p.base(), Connection: c}
	}, model.TypeSyntaxTreeLink),
}

var flowchart = &notation{
	kind: model.Flowchart,
	elements: nodes(func(p *ElementPayload) model.Element { return &model.FlowchartNode{ElementBase: p.base()} },
		model.TypeFlowchartTerminal,
		model.TypeFlowchartProcess,
		model.TypeFlowchartDecision,
		model.TypeFlowchartInputOutput,
		model.TypeFlowchartFunctionCall,
	),
	relationships: kinds(func(p *RelationshipPayload, c model.Connection) model.Relationship {
		return &model.Flowline{ElementBase: p.base(), Connection: c}
	}, model.TypeFlowchartFlowline),
}

func nodes(f elementFactory, types ...model.ElementType) map[model.ElementType]elementFactory {
	m := make(map[model.ElementType]elementFactory, len(types))
	for _, t := range types {
		m[t] = f
	}
	return m
}

func kinds(f relationshipFactory, types ...model.ElementType) map[model.ElementType]relationshipFactory {
	m := make(map[model.ElementType]relationshipFactory, len(types))
	for _, t := range types {
		m[t] = f
	}
	return m
}

func merge(maps ...map[model.ElementType]elementFactory) map[model.ElementType]elementFactory {
	out := make(map[model.ElementType]elementFactory)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
