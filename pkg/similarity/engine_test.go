package similarity

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/OFFIS-RIT/compass/pkg/model"
)

func base(id, name string, typ model.ElementType, parent model.Ref) model.ElementBase {
	return model.ElementBase{ID: id, Name: name, Type: typ, Parent: parent}
}

type classOpts struct {
	submission int64
	className  string
	relType    model.ElementType
	reversed   bool
	params     []string
}

// shopDiagram builds package shop { class <className> { name: String; order(params): void }; class Order }
// with one relationship between the two classes.
func shopDiagram(o classOpts) *model.Diagram {
	if o.className == "" {
		o.className = "Customer"
	}
	if o.relType == "" {
		o.relType = model.TypeClassBidirectional
	}
	if o.params == nil {
		o.params = []string{"Order", "int"}
	}

	pkg := &model.Package{ElementBase: base("p", "shop", model.TypePackage, model.NoRef), Children: []model.Ref{model.RefAt(1), model.RefAt(2)}}
	customer := &model.Class{
		ElementBase: base("c", o.className, model.TypeClass, model.RefAt(0)),
		Attributes:  []model.Ref{model.RefAt(3)},
		Methods:     []model.Ref{model.RefAt(4)},
	}
	order := &model.Class{ElementBase: base("o", "Order", model.TypeClass, model.RefAt(0))}
	attr := &model.Attribute{ElementBase: base("a", "name", model.TypeClassAttribute, model.RefAt(1)), AttributeType: "String"}
	method := &model.Method{ElementBase: base("m", "order", model.TypeClassMethod, model.RefAt(1)), ReturnType: "void", Parameters: o.params}

	rel := &model.ClassRelationship{
		ElementBase:        base("r", "", o.relType, model.NoRef),
		Connection:         model.Connection{Source: model.RefAt(1), Target: model.RefAt(2)},
		SourceRole:         "buyer",
		SourceMultiplicity: "1",
		TargetMultiplicity: "*",
	}
	if o.reversed {
		rel.Connection = model.Connection{Source: model.RefAt(2), Target: model.RefAt(1)}
		rel.SourceRole, rel.TargetRole = "", "buyer"
		rel.SourceMultiplicity, rel.TargetMultiplicity = "*", "1"
	}

	return model.NewDiagram(model.ClassDiagram, o.submission,
		[]model.Element{pkg, customer, order, attr, method},
		[]model.Relationship{rel},
	)
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(DefaultConfig())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return engine
}

func mustLookup(t *testing.T, d *model.Diagram, id string) model.Element {
	t.Helper()
	e, ok := d.Lookup(id)
	if !ok {
		t.Fatalf("element %q not found", id)
	}
	return e
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestElementsReflexive(t *testing.T) {
	engine := newTestEngine(t)
	d := shopDiagram(classOpts{submission: 1})
	cmp := engine.Between(d, d, Classifications{})

	for _, e := range constructs(d) {
		if got := cmp.Elements(e, e); got != 1 {
			t.Fatalf("Elements(%s, %s) = %v, want 1", e.Base().ID, e.Base().ID, got)
		}
	}
}

func TestElementsRange(t *testing.T) {
	engine := newTestEngine(t)
	left := shopDiagram(classOpts{submission: 1})
	right := shopDiagram(classOpts{submission: 2, className: "Client", relType: model.TypeClassComposition, reversed: true, params: []string{"x"}})
	cmp := engine.Between(left, right, Classifications{})

	for _, a := range constructs(left) {
		for _, b := range constructs(right) {
			got := cmp.Elements(a, b)
			if got < 0 || got > 1 || math.IsNaN(got) {
				t.Fatalf("Elements(%s, %s) = %v, out of range", a.Base().ID, b.Base().ID, got)
			}
		}
	}
}

func TestElementsTypeGate(t *testing.T) {
	engine := newTestEngine(t)
	d := shopDiagram(classOpts{submission: 1})
	cmp := engine.Between(d, d, Classifications{})

	decision := &model.ActivityNode{ElementBase: base("d", "check", model.TypeActivityDecisionNode, model.NoRef)}
	action := &model.ActivityNode{ElementBase: base("x", "check", model.TypeActivityActionNode, model.NoRef)}
	objAttr := &model.Attribute{ElementBase: base("oa", "name", model.TypeObjectAttribute, model.NoRef), AttributeType: "String"}

	tests := []struct {
		name string
		a, b model.Element
	}{
		{"ClassVsPackage", mustLookup(t, d, "c"), mustLookup(t, d, "p")},
		{"AttributeVsMethod", mustLookup(t, d, "a"), mustLookup(t, d, "m")},
		{"ClassVsRelationship", mustLookup(t, d, "c"), mustLookup(t, d, "r")},
		{"DecisionVsAction", decision, action},
		{"ClassAttributeVsObjectAttribute", mustLookup(t, d, "a"), objAttr},
		{"Nil", mustLookup(t, d, "c"), nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := cmp.Elements(tc.a, tc.b); got != 0 {
				t.Fatalf("Elements() = %v, want 0", got)
			}
		})
	}
}

func TestClassKindIsBonus(t *testing.T) {
	engine := newTestEngine(t)
	d := shopDiagram(classOpts{submission: 1})
	cmp := engine.Between(d, d, Classifications{})

	concrete := &model.Class{ElementBase: base("x", "Shape", model.TypeClass, model.NoRef)}
	abstract := &model.Class{ElementBase: base("y", "Shape", model.TypeAbstractClass, model.NoRef)}
	if got := cmp.Elements(concrete, abstract); !approx(got, 0.7) {
		t.Fatalf("Elements(class, abstract class) = %v, want 0.7", got)
	}
}

func TestSymmetricRelationship(t *testing.T) {
	engine := newTestEngine(t)
	left := shopDiagram(classOpts{submission: 1})
	right := shopDiagram(classOpts{submission: 2, reversed: true})
	cmp := engine.Between(left, right, Classifications{})

	if got := cmp.Elements(mustLookup(t, left, "r"), mustLookup(t, right, "r")); got != 1 {
		t.Fatalf("reversed bidirectional association = %v, want 1", got)
	}

	left = shopDiagram(classOpts{submission: 1, relType: model.TypeClassUnidirectional})
	right = shopDiagram(classOpts{submission: 2, relType: model.TypeClassUnidirectional, reversed: true})
	cmp = engine.Between(left, right, Classifications{})

	if got := cmp.Elements(mustLookup(t, left, "r"), mustLookup(t, right, "r")); got >= 1 {
		t.Fatalf("reversed unidirectional association = %v, want < 1", got)
	}
}

func TestParentThreshold(t *testing.T) {
	engine := newTestEngine(t)
	left := shopDiagram(classOpts{submission: 1, className: "Customer"})
	right := shopDiagram(classOpts{submission: 2, className: "Customers"})

	a := mustLookup(t, left, "a")
	b := mustLookup(t, right, "a")

	// Customer vs Customers scores 0.7*(8/9)+0.3, below the threshold.
	cmp := engine.Between(left, right, Classifications{})
	if got := cmp.Elements(a, b); !approx(got, 0.8) {
		t.Fatalf("attribute in near-identical class = %v, want 0.8", got)
	}

	table := NewClassificationTable()
	if err := table.Stamp(7, ElementKey{SubmissionID: 1, ElementID: "c"}, ElementKey{SubmissionID: 2, ElementID: "c"}); err != nil {
		t.Fatalf("Stamp() error = %v", err)
	}
	cmp = engine.Between(left, right, table.Snapshot())
	if got := cmp.Elements(a, b); got != 1 {
		t.Fatalf("attribute in classified parent = %v, want 1", got)
	}
}

func TestParentPresence(t *testing.T) {
	engine := newTestEngine(t)
	d := shopDiagram(classOpts{submission: 1})
	cmp := engine.Between(d, d, Classifications{})

	orphan := &model.Attribute{ElementBase: base("z", "name", model.TypeClassAttribute, model.NoRef), AttributeType: "String"}
	if got := cmp.Elements(mustLookup(t, d, "a"), orphan); !approx(got, 0.8) {
		t.Fatalf("attribute vs orphan = %v, want 0.8", got)
	}
	if got := cmp.Elements(orphan, orphan); got != 1 {
		t.Fatalf("orphan vs orphan = %v, want 1", got)
	}
}

func TestMethodParametersUnordered(t *testing.T) {
	engine := newTestEngine(t)
	left := shopDiagram(classOpts{submission: 1, params: []string{"Order", "int"}})
	right := shopDiagram(classOpts{submission: 2, params: []string{"int", "Order"}})
	cmp := engine.Between(left, right, Classifications{})

	if got := cmp.Elements(mustLookup(t, left, "m"), mustLookup(t, right, "m")); got != 1 {
		t.Fatalf("reordered parameters = %v, want 1", got)
	}

	right = shopDiagram(classOpts{submission: 2, params: []string{"int", "int", "Order"}})
	cmp = engine.Between(left, right, Classifications{})
	// One share of six is missing.
	if got := cmp.Elements(mustLookup(t, left, "m"), mustLookup(t, right, "m")); !approx(got, 5.0/6) {
		t.Fatalf("extra parameter = %v, want %v", got, 5.0/6)
	}
}

func TestBPMNEnumPartialCredit(t *testing.T) {
	engine := newTestEngine(t)
	d := model.NewDiagram(model.BPMN, 1, nil, nil)
	cmp := engine.Between(d, d, Classifications{})

	task := func(tt model.TaskType, m model.Marker) *model.BPMNTask {
		return &model.BPMNTask{ElementBase: base("t", "Ship", model.TypeBPMNTask, model.NoRef), TaskType: tt, Marker: m}
	}

	tests := []struct {
		name string
		a, b model.Element
		want float64
	}{
		{"Equal", task(model.TaskTypeUser, model.MarkerNone), task(model.TaskTypeUser, model.MarkerNone), 1},
		{"TaskTypeDiffers", task(model.TaskTypeUser, model.MarkerNone), task(model.TaskTypeScript, model.MarkerNone), 0.5},
		{"BothDiffer", task(model.TaskTypeUser, model.MarkerLoop), task(model.TaskTypeScript, model.MarkerNone), 0.25},
		{"BothUnknown", task("", model.MarkerNone), task("", model.MarkerNone), 1},
		{"UnknownVsKnown", task("", model.MarkerNone), task(model.TaskTypeUser, model.MarkerNone), 0.5},
		{
			"GatewayDiffers",
			&model.BPMNGateway{ElementBase: base("g", "ok?", model.TypeBPMNGateway, model.NoRef), GatewayType: model.GatewayExclusive},
			&model.BPMNGateway{ElementBase: base("g", "ok?", model.TypeBPMNGateway, model.NoRef), GatewayType: model.GatewayParallel},
			0.5,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := cmp.Elements(tc.a, tc.b); !approx(got, tc.want) {
				t.Fatalf("Elements() = %v, want %v", got, tc.want)
			}
		})
	}
}

func commDiagram(submission int64, reversed bool, dir model.MessageDirection) *model.Diagram {
	alice := &model.Object{ElementBase: base("o1", "alice", model.TypeObjectName, model.NoRef)}
	bob := &model.Object{ElementBase: base("o2", "bob", model.TypeObjectName, model.NoRef)}
	link := &model.CommunicationLink{
		ElementBase: base("l", "", model.TypeCommunicationLink, model.NoRef),
		Connection:  model.Connection{Source: model.RefAt(0), Target: model.RefAt(1)},
		Messages:    []model.Message{{Name: "call", Direction: dir}},
	}
	if reversed {
		link.Connection = model.Connection{Source: model.RefAt(1), Target: model.RefAt(0)}
	}
	return model.NewDiagram(model.CommunicationDiagram, submission, []model.Element{alice, bob}, []model.Relationship{link})
}

func TestCommunicationLinkDirections(t *testing.T) {
	engine := newTestEngine(t)
	left := commDiagram(1, false, model.DirectionTarget)

	right := commDiagram(2, true, model.DirectionSource)
	cmp := engine.Between(left, right, Classifications{})
	if got := cmp.Elements(mustLookup(t, left, "l"), mustLookup(t, right, "l")); got != 1 {
		t.Fatalf("reversed link with flipped message = %v, want 1", got)
	}

	right = commDiagram(2, true, model.DirectionTarget)
	cmp = engine.Between(left, right, Classifications{})
	if got := cmp.Elements(mustLookup(t, left, "l"), mustLookup(t, right, "l")); !approx(got, 0.75) {
		t.Fatalf("reversed link with unflipped message = %v, want 0.75", got)
	}
}

func TestPlaceCapacity(t *testing.T) {
	engine := newTestEngine(t)
	d := model.NewDiagram(model.PetriNet, 1, nil, nil)
	cmp := engine.Between(d, d, Classifications{})

	a := &model.Place{ElementBase: base("p", "buffer", model.TypePetriNetPlace, model.NoRef), Tokens: 2, Capacity: model.Unbounded}
	b := &model.Place{ElementBase: base("p", "buffer", model.TypePetriNetPlace, model.NoRef), Tokens: 2, Capacity: 3}
	if got := cmp.Elements(a, b); !approx(got, 0.8) {
		t.Fatalf("place with different capacity = %v, want 0.8", got)
	}
}

func TestDiagrams(t *testing.T) {
	engine := newTestEngine(t)
	left := shopDiagram(classOpts{submission: 1})

	if got := engine.Between(left, left, Classifications{}).Diagrams(); got != 1 {
		t.Fatalf("Diagrams() on identical diagrams = %v, want 1", got)
	}

	other := model.NewDiagram(model.ActivityDiagram, 2, nil, nil)
	if got := engine.Between(left, other, Classifications{}).Diagrams(); got != 0 {
		t.Fatalf("Diagrams() across notations = %v, want 0", got)
	}

	empty := model.NewDiagram(model.ClassDiagram, 3, nil, nil)
	if got := engine.Between(empty, empty, Classifications{}).Diagrams(); got != 1 {
		t.Fatalf("Diagrams() on empty diagrams = %v, want 1", got)
	}
	if got := engine.Between(left, empty, Classifications{}).Diagrams(); got != 0 {
		t.Fatalf("Diagrams() against empty diagram = %v, want 0", got)
	}

	right := shopDiagram(classOpts{submission: 2, className: "Client"})
	got := engine.Between(left, right, Classifications{}).Diagrams()
	if got <= 0 || got >= 1 {
		t.Fatalf("Diagrams() on similar diagrams = %v, want in (0,1)", got)
	}
}

func TestBestMatch(t *testing.T) {
	engine := newTestEngine(t)
	left := shopDiagram(classOpts{submission: 1})
	right := shopDiagram(classOpts{submission: 2})

	match, score := engine.Between(left, right, Classifications{}).BestMatch(mustLookup(t, left, "o"))
	if match == nil || match.Base().ID != "o" || score != 1 {
		t.Fatalf("BestMatch() = %v, %v", match, score)
	}
}

func TestReverse(t *testing.T) {
	engine := newTestEngine(t)
	left := shopDiagram(classOpts{submission: 1})
	right := shopDiagram(classOpts{submission: 2})

	rev := engine.Between(left, right, Classifications{}).Reverse()
	if rev.Left() != right || rev.Right() != left {
		t.Fatalf("Reverse() did not swap diagrams")
	}
	if got := rev.Elements(mustLookup(t, right, "o"), mustLookup(t, left, "o")); got != 1 {
		t.Fatalf("Elements() on reversed comparison = %v, want 1", got)
	}
}

func TestCompareBatch(t *testing.T) {
	engine := newTestEngine(t)
	a := shopDiagram(classOpts{submission: 1})
	b := shopDiagram(classOpts{submission: 2, className: "Client"})
	c := model.NewDiagram(model.PetriNet, 3, nil, nil)

	pairs := []Pair{{a, a}, {a, b}, {a, c}}
	scores, err := CompareBatch(context.Background(), engine, pairs, Classifications{}, 2)
	if err != nil {
		t.Fatalf("CompareBatch() error = %v", err)
	}
	if len(scores) != 3 || scores[0] != 1 || scores[2] != 0 {
		t.Fatalf("CompareBatch() = %v", scores)
	}
	if want := engine.Between(a, b, Classifications{}).Diagrams(); scores[1] != want {
		t.Fatalf("CompareBatch()[1] = %v, want %v", scores[1], want)
	}

	if _, err := CompareBatch(context.Background(), engine, []Pair{{a, nil}}, Classifications{}, 1); err == nil {
		t.Fatalf("CompareBatch() with missing diagram = nil error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := CompareBatch(ctx, engine, pairs, Classifications{}, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("CompareBatch() on cancelled context = %v, want context.Canceled", err)
	}
}
