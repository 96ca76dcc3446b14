package similarity

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrWeightBudget is returned when the feature weights of a construct do not
// sum to 1.
var ErrWeightBudget = errors.New("similarity weights do not sum to 1")

const budgetEpsilon = 1e-9

// Default tuning values.
const (
	DefaultEqualityThreshold = 0.95
	DefaultPartialCredit     = 0.5
)

// ClassWeights weighs a class. The kind is a bonus, not a gate, so an
// abstract class can still match a concrete one by name.
type ClassWeights struct {
	Name float64
	Type float64
}

// MemberWeights weighs a class attribute.
type MemberWeights struct {
	Parent float64
	Name   float64
	Type   float64
}

// RelationshipWeights weighs a class relationship. Endpoint, Role and
// Multiplicity apply to each side.
type RelationshipWeights struct {
	Endpoint     float64
	Role         float64
	Multiplicity float64
	Type         float64
}

// NodeWeights weighs a named node that may sit inside a container.
type NodeWeights struct {
	Name   float64
	Parent float64
}

// EdgeWeights weighs a plain connection. Endpoint applies to each side; Type
// is granted when both edges are of the same kind.
type EdgeWeights struct {
	Endpoint float64
	Label    float64
	Type     float64
}

// DeploymentNodeWeights weighs a deployment node.
type DeploymentNodeWeights struct {
	Name       float64
	Stereotype float64
	Parent     float64
}

// LinkWeights weighs a communication link.
type LinkWeights struct {
	Endpoint float64
	Messages float64
}

// PlaceWeights weighs a Petri net place.
type PlaceWeights struct {
	Name     float64
	Tokens   float64
	Capacity float64
}

// Config holds every tunable of the comparison engine. Constructs scored on
// their name alone, methods and objects split their budget evenly and are
// not listed here.
type Config struct {
	// EqualityThreshold is the score a parent comparison must exceed to count
	// as the same parent.
	EqualityThreshold float64
	// PartialCredit multiplies a BPMN score when an enum attribute differs, and
	// weighs a communication message whose direction does not match.
	PartialCredit float64

	Class                  ClassWeights
	Attribute              MemberWeights
	Relationship           RelationshipWeights
	ActivityNode           NodeWeights
	ControlFlow            EdgeWeights
	UseCase                NodeWeights
	UseCaseRelationship    EdgeWeights
	ObjectLink             EdgeWeights
	CommunicationLink      LinkWeights
	Component              NodeWeights
	ComponentRelationship  EdgeWeights
	DeploymentNode         DeploymentNodeWeights
	DeploymentRelationship EdgeWeights
	Place                  PlaceWeights
	Arc                    EdgeWeights
	SyntaxTreeLink         EdgeWeights
	Flowline               EdgeWeights
	BPMNFlow               EdgeWeights
}

// DefaultConfig returns the weights the engine ships with.
func DefaultConfig() Config {
	return Config{
		EqualityThreshold: DefaultEqualityThreshold,
		PartialCredit:     DefaultPartialCredit,

		Class:                  ClassWeights{Name: 0.7, Type: 0.3},
		Attribute:              MemberWeights{Parent: 0.2, Name: 0.5, Type: 0.3},
		Relationship:           RelationshipWeights{Endpoint: 0.25, Role: 0.05, Multiplicity: 0.05, Type: 0.3},
		ActivityNode:           NodeWeights{Name: 0.8, Parent: 0.2},
		ControlFlow:            EdgeWeights{Endpoint: 0.35, Label: 0.3},
		UseCase:                NodeWeights{Name: 0.8, Parent: 0.2},
		UseCaseRelationship:    EdgeWeights{Endpoint: 0.3, Label: 0.1, Type: 0.3},
		ObjectLink:             EdgeWeights{Endpoint: 0.4, Label: 0.2},
		CommunicationLink:      LinkWeights{Endpoint: 0.25, Messages: 0.5},
		Component:              NodeWeights{Name: 0.8, Parent: 0.2},
		ComponentRelationship:  EdgeWeights{Endpoint: 0.35, Type: 0.3},
		DeploymentNode:         DeploymentNodeWeights{Name: 0.6, Stereotype: 0.2, Parent: 0.2},
		DeploymentRelationship: EdgeWeights{Endpoint: 0.35, Type: 0.3},
		Place:                  PlaceWeights{Name: 0.6, Tokens: 0.2, Capacity: 0.2},
		Arc:                    EdgeWeights{Endpoint: 0.35, Label: 0.3},
		SyntaxTreeLink:         EdgeWeights{Endpoint: 0.5},
		Flowline:               EdgeWeights{Endpoint: 0.35, Label: 0.3},
		BPMNFlow:               EdgeWeights{Endpoint: 0.3, Label: 0.1, Type: 0.3},
	}
}

func (w EdgeWeights) total() float64 {
	return 2*w.Endpoint + w.Label + w.Type
}

// Budgets returns the summed feature weights of every weighted construct.
func (c Config) Budgets() map[string]float64 {
	return map[string]float64{
		"Class":                  c.Class.Name + c.Class.Type,
		"Attribute":              c.Attribute.Parent + c.Attribute.Name + c.Attribute.Type,
		"Relationship":           2*(c.Relationship.Endpoint+c.Relationship.Role+c.Relationship.Multiplicity) + c.Relationship.Type,
		"ActivityNode":           c.ActivityNode.Name + c.ActivityNode.Parent,
		"ControlFlow":            c.ControlFlow.total(),
		"UseCase":                c.UseCase.Name + c.UseCase.Parent,
		"UseCaseRelationship":    c.UseCaseRelationship.total(),
		"ObjectLink":             c.ObjectLink.total(),
		"CommunicationLink":      2*c.CommunicationLink.Endpoint + c.CommunicationLink.Messages,
		"Component":              c.Component.Name + c.Component.Parent,
		"ComponentRelationship":  c.ComponentRelationship.total(),
		"DeploymentNode":         c.DeploymentNode.Name + c.DeploymentNode.Stereotype + c.DeploymentNode.Parent,
		"DeploymentRelationship": c.DeploymentRelationship.total(),
		"Place":                  c.Place.Name + c.Place.Tokens + c.Place.Capacity,
		"Arc":                    c.Arc.total(),
		"SyntaxTreeLink":         c.SyntaxTreeLink.total(),
		"Flowline":               c.Flowline.total(),
		"BPMNFlow":               c.BPMNFlow.total(),
	}
}

// Validate checks the thresholds and that every weight budget sums to 1.
func (c Config) Validate() error {
	if c.EqualityThreshold <= 0 || c.EqualityThreshold > 1 {
		return fmt.Errorf("equality threshold %v must be in (0,1]", c.EqualityThreshold)
	}
	if c.PartialCredit < 0 || c.PartialCredit > 1 {
		return fmt.Errorf("partial credit %v must be in [0,1]", c.PartialCredit)
	}

	budgets := c.Budgets()
	names := make([]string, 0, len(budgets))
	for name := range budgets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if sum := budgets[name]; math.Abs(sum-1) > budgetEpsilon {
			return fmt.Errorf("%w: %s sums to %v", ErrWeightBudget, name, sum)
		}
	}
	return nil
}
