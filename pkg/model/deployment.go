package model

// DeploymentNode is a node of a deployment diagram, e.g. a device or an
// execution environment described by its stereotype.
type DeploymentNode struct {
	ElementBase
	Stereotype string
	Children   []Ref
}

func (n *DeploymentNode) Contents() []Ref { return n.Children }

type Artifact struct {
	ElementBase
}

// DeploymentRelationship is an association, dependency or interface edge.
type DeploymentRelationship struct {
	ElementBase
	Connection
}

func (r *DeploymentRelationship) Symmetric() bool {
	return r.Type == TypeDeploymentAssociation
}
