package model

// ElementType is the wire discriminator naming the concrete kind of an element
// or relationship (the "type" field of the editor's JSON).
type ElementType string

const (
	// Class diagram
	TypePackage             ElementType = "Package"
	TypeClass               ElementType = "Class"
	TypeAbstractClass       ElementType = "AbstractClass"
	TypeInterface           ElementType = "Interface"
	TypeEnumeration         ElementType = "Enumeration"
	TypeClassAttribute      ElementType = "ClassAttribute"
	TypeClassMethod         ElementType = "ClassMethod"
	TypeClassBidirectional  ElementType = "ClassBidirectional"
	TypeClassUnidirectional ElementType = "ClassUnidirectional"
	TypeClassInheritance    ElementType = "ClassInheritance"
	TypeClassRealization    ElementType = "ClassRealization"
	TypeClassDependency     ElementType = "ClassDependency"
	TypeClassAggregation    ElementType = "ClassAggregation"
	TypeClassComposition    ElementType = "ClassComposition"

	// Activity diagram
	TypeActivity                   ElementType = "Activity"
	TypeActivityInitialNode        ElementType = "ActivityInitialNode"
	TypeActivityFinalNode          ElementType = "ActivityFinalNode"
	TypeActivityActionNode         ElementType = "ActivityActionNode"
	TypeActivityObjectNode         ElementType = "ActivityObjectNode"
	TypeActivityMergeNode          ElementType = "ActivityMergeNode"
	TypeActivityForkNode           ElementType = "ActivityForkNode"
	TypeActivityForkNodeHorizontal ElementType = "ActivityForkNodeHorizontal"
	TypeActivityDecisionNode       ElementType = "ActivityDecisionNode"
	TypeActivityControlFlow        ElementType = "ActivityControlFlow"

	// Use case diagram
	TypeUseCaseActor          ElementType = "UseCaseActor"
	TypeUseCase               ElementType = "UseCase"
	TypeUseCaseSystem         ElementType = "UseCaseSystem"
	TypeUseCaseAssociation    ElementType = "UseCaseAssociation"
	TypeUseCaseGeneralization ElementType = "UseCaseGeneralization"
	TypeUseCaseInclude        ElementType = "UseCaseInclude"
	TypeUseCaseExtend         ElementType = "UseCaseExtend"

	// Communication and object diagrams
	TypeObjectName        ElementType = "ObjectName"
	TypeObjectAttribute   ElementType = "ObjectAttribute"
	TypeObjectMethod      ElementType = "ObjectMethod"
	TypeObjectLink        ElementType = "ObjectLink"
	TypeCommunicationLink ElementType = "CommunicationLink"

	// Component diagram
	TypeComponent                  ElementType = "Component"
	TypeComponentInterface         ElementType = "ComponentInterface"
	TypeComponentDependency        ElementType = "ComponentDependency"
	TypeComponentInterfaceProvided ElementType = "ComponentInterfaceProvided"
	TypeComponentInterfaceRequired ElementType = "ComponentInterfaceRequired"

	// Deployment diagram
	TypeDeploymentNode              ElementType = "DeploymentNode"
	TypeDeploymentComponent         ElementType = "DeploymentComponent"
	TypeDeploymentArtifact          ElementType = "DeploymentArtifact"
	TypeDeploymentInterface         ElementType = "DeploymentInterface"
	TypeDeploymentAssociation       ElementType = "DeploymentAssociation"
	TypeDeploymentDependency        ElementType = "DeploymentDependency"
	TypeDeploymentInterfaceProvided ElementType = "DeploymentInterfaceProvided"
	TypeDeploymentInterfaceRequired ElementType = "DeploymentInterfaceRequired"

	// Petri net
	TypePetriNetPlace      ElementType = "PetriNetPlace"
	TypePetriNetTransition ElementType = "PetriNetTransition"
	TypePetriNetArc        ElementType = "PetriNetArc"

	// Syntax tree
	TypeSyntaxTreeNonterminal ElementType = "SyntaxTreeNonterminal"
	TypeSyntaxTreeTerminal    ElementType = "SyntaxTreeTerminal"
	TypeSyntaxTreeLink        ElementType = "SyntaxTreeLink"

	// Flowchart
	TypeFlowchartTerminal     ElementType = "FlowchartTerminal"
	TypeFlowchartProcess      ElementType = "FlowchartProcess"
	TypeFlowchartDecision     ElementType = "FlowchartDecision"
	TypeFlowchartInputOutput  ElementType = "FlowchartInputOutput"
	TypeFlowchartFunctionCall ElementType = "FlowchartFunctionCall"
	TypeFlowchartFlowline     ElementType = "FlowchartFlowline"

	// BPMN
	TypeBPMNTask              ElementType = "BPMNTask"
	TypeBPMNSubprocess        ElementType = "BPMNSubprocess"
	TypeBPMNTransaction       ElementType = "BPMNTransaction"
	TypeBPMNCallActivity      ElementType = "BPMNCallActivity"
	TypeBPMNStartEvent        ElementType = "BPMNStartEvent"
	TypeBPMNIntermediateEvent ElementType = "BPMNIntermediateEvent"
	TypeBPMNEndEvent          ElementType = "BPMNEndEvent"
	TypeBPMNGateway           ElementType = "BPMNGateway"
	TypeBPMNDataObject        ElementType = "BPMNDataObject"
	TypeBPMNDataStore         ElementType = "BPMNDataStore"
	TypeBPMNPool              ElementType = "BPMNPool"
	TypeBPMNSwimlane          ElementType = "BPMNSwimlane"
	TypeBPMNAnnotation        ElementType = "BPMNAnnotation"
	TypeBPMNGroup             ElementType = "BPMNGroup"
	TypeBPMNFlow              ElementType = "BPMNFlow"
)

// Ref addresses an element inside the arena of the Diagram that owns it.
// The zero value is NoRef, so an element built without a parent has none.
type Ref int32

// NoRef marks an absent reference.
const NoRef Ref = 0

// RefAt returns the reference for the element stored at arena index i.
func RefAt(i int) Ref {
	return Ref(i + 1)
}

// Index returns the arena index addressed by r and whether r is set.
func (r Ref) Index() (int, bool) {
	if r <= NoRef {
		return 0, false
	}
	return int(r) - 1, true
}

// Valid reports whether r addresses an element.
func (r Ref) Valid() bool {
	return r > NoRef
}

// ElementBase holds the fields every diagram construct carries.
//
// ID is the identifier assigned by the authoring tool. It is only used to
// resolve cross references while parsing and never takes part in similarity.
// Parent is a non-owning back reference into the owning Diagram's arena.
type ElementBase struct {
	ID     string
	Name   string
	Type   ElementType
	Parent Ref
}

// Base returns the shared element fields.
func (b *ElementBase) Base() *ElementBase {
	return b
}

// Element is implemented by every concrete diagram construct.
type Element interface {
	Base() *ElementBase
}

// Connection holds the endpoints of a relationship-like element. Both refs
// address elements of the same Diagram.
type Connection struct {
	Source Ref
	Target Ref
}

// Endpoints returns the source and target refs.
func (c *Connection) Endpoints() (Ref, Ref) {
	return c.Source, c.Target
}

// Relationship is an Element connecting two other elements of a Diagram.
type Relationship interface {
	Element
	Endpoints() (source Ref, target Ref)
	// Symmetric reports whether the endpoints are interchangeable.
	Symmetric() bool
}

// Container is an Element that logically contains other elements.
type Container interface {
	Element
	Contents() []Ref
}
