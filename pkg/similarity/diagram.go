package similarity

import "github.com/OFFIS-RIT/compass/pkg/model"

// Diagrams scores the whole left diagram against the right one. Every
// element of the left diagram contributes its best match, weighted by the
// size of the larger diagram. Diagrams of different notations score 0; two
// empty diagrams are identical.
func (c *Comparison) Diagrams() float64 {
	if c.left.Type() != c.right.Type() {
		return 0
	}

	a := constructs(c.left)
	b := constructs(c.right)
	n := max(len(a), len(b))
	if n == 0 {
		return 1
	}

	weight := 1 / float64(n)
	score := 0.0
	for _, x := range a {
		best := 0.0
		for _, y := range b {
			best = max(best, c.Elements(x, y))
			if best == 1 {
				break
			}
		}
		score += best * weight
	}
	return ensureRange(score)
}

// BestMatch returns the element of the right diagram most similar to a, and
// its score. It returns nil when nothing scores above 0.
func (c *Comparison) BestMatch(a model.Element) (model.Element, float64) {
	var match model.Element
	best := 0.0
	for _, y := range constructs(c.right) {
		if s := c.Elements(a, y); s > best {
			match, best = y, s
		}
	}
	return match, best
}

func constructs(d *model.Diagram) []model.Element {
	out := d.Elements()
	for _, r := range d.Relationships() {
		out = append(out, r)
	}
	return out
}
