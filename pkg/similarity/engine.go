package similarity

import (
	"math"

	"github.com/OFFIS-RIT/compass/pkg/logger"
	"github.com/OFFIS-RIT/compass/pkg/model"
)

// maxDepth bounds parent and endpoint recursion. Ownership chains of valid
// diagrams are far shallower; only cyclic payloads reach it.
const maxDepth = 64

// Engine scores diagram elements against each other. It is stateless apart
// from its configuration and safe for concurrent use.
type Engine struct {
	cfg Config
}

// NewEngine validates cfg and returns an Engine using it.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("[Similarity] Engine configured",
		"equality_threshold", cfg.EqualityThreshold,
		"partial_credit", cfg.PartialCredit,
	)
	return &Engine{cfg: cfg}, nil
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config {
	return e.cfg
}

// Between prepares a comparison of elements of left with elements of right.
// Parent and endpoint references of the compared elements are resolved
// against their own diagram.
func (e *Engine) Between(left, right *model.Diagram, snapshot Classifications) *Comparison {
	return &Comparison{
		cfg:      &e.cfg,
		left:     left,
		right:    right,
		snapshot: snapshot,
	}
}

// Comparison holds everything needed to score elements of two diagrams. It
// is immutable and may be shared across goroutines.
type Comparison struct {
	cfg      *Config
	left     *model.Diagram
	right    *model.Diagram
	snapshot Classifications
}

// Elements scores a, an element of the left diagram, against b, an element of
// the right diagram. The result is always in [0,1]; elements of different
// kinds score 0.
func (c *Comparison) Elements(a, b model.Element) float64 {
	return ensureRange(c.compare(a, b, 0))
}

// Left returns the diagram whose elements are passed first.
func (c *Comparison) Left() *model.Diagram {
	return c.left
}

// Right returns the diagram whose elements are passed second.
func (c *Comparison) Right() *model.Diagram {
	return c.right
}

// Reverse returns the comparison with both diagrams swapped.
func (c *Comparison) Reverse() *Comparison {
	return &Comparison{cfg: c.cfg, left: c.right, right: c.left, snapshot: c.snapshot}
}

// parentsMatch reports whether a and b sit in the same logical container.
// Elements without a container match each other.
func (c *Comparison) parentsMatch(a, b model.Element, depth int) bool {
	pa := c.left.Parent(a)
	pb := c.right.Parent(b)
	if pa == nil && pb == nil {
		return true
	}
	if pa == nil || pb == nil {
		return false
	}

	if ida, ok := c.snapshot.Lookup(c.left.SubmissionID(), pa.Base().ID); ok {
		if idb, ok := c.snapshot.Lookup(c.right.SubmissionID(), pb.Base().ID); ok && ida == idb {
			return true
		}
	}
	return c.compare(pa, pb, depth+1) > c.cfg.EqualityThreshold
}

func (c *Comparison) parentScore(a, b model.Element, depth int) float64 {
	if c.parentsMatch(a, b, depth) {
		return 1
	}
	return 0
}

// endpoints scores the sources and targets of two relationships. With swap
// set, the source of a is paired with the target of b and vice versa.
func (c *Comparison) endpoints(a, b model.Relationship, swap bool, depth int) (float64, float64) {
	as, at := c.left.Endpoints(a)
	bs, bt := c.right.Endpoints(b)
	if swap {
		bs, bt = bt, bs
	}
	return c.compare(as, bs, depth+1), c.compare(at, bt, depth+1)
}

// edge scores a connection without per-end attributes. Symmetric kinds take
// the better of both pairings.
func (c *Comparison) edge(a, b model.Relationship, w EdgeWeights, label float64, sameKind bool, depth int) float64 {
	s, t := c.endpoints(a, b, false, depth)
	ends := s + t
	if a.Symmetric() {
		s, t = c.endpoints(a, b, true, depth)
		ends = max(ends, s+t)
	}

	score := ends*w.Endpoint + label*w.Label
	if sameKind {
		score += w.Type
	}
	return score
}

func sameType(a, b model.Element) bool {
	return a.Base().Type == b.Base().Type
}

// ensureRange clamps v to [0,1]. Floating point drift within budgetEpsilon of
// a bound snaps to it; anything further out is logged.
func ensureRange(v float64) float64 {
	switch {
	case math.IsNaN(v):
		logger.Warn("[Similarity] NaN score clamped to 0")
		return 0
	case v >= 1-budgetEpsilon:
		if v > 1+budgetEpsilon {
			logger.Debug("[Similarity] Score clamped", "score", v)
		}
		return 1
	case v <= budgetEpsilon:
		if v < -budgetEpsilon {
			logger.Debug("[Similarity] Score clamped", "score", v)
		}
		return 0
	}
	return v
}
