package similarity

import "github.com/OFFIS-RIT/compass/pkg/model"

// object splits its budget over the name and every attribute slot of the
// object with more attributes.
func (c *Comparison) object(a, b *model.Object) float64 {
	an := memberNames(c.left, a.Attributes)
	bn := memberNames(c.right, b.Attributes)
	share := 1 / float64(1+max(len(an), len(bn)))

	return NameSimilarity(a.Name, b.Name)*share + float64(containedCount(an, bn))*share
}

func memberNames(d *model.Diagram, refs []model.Ref) []string {
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		if e := d.Resolve(ref); e != nil {
			names = append(names, e.Base().Name)
		}
	}
	return names
}

func (c *Comparison) communicationLink(a, b *model.CommunicationLink, depth int) float64 {
	w := c.cfg.CommunicationLink

	s, t := c.endpoints(a, b, false, depth)
	score := (s+t)*w.Endpoint + c.messages(a.Messages, b.Messages, false)*w.Messages
	if a.Symmetric() {
		s, t = c.endpoints(a, b, true, depth)
		score = max(score, (s+t)*w.Endpoint+c.messages(a.Messages, b.Messages, true)*w.Messages)
	}
	return score
}

// messages scores two message lists. A message with the same name and
// direction earns a full share, one whose direction differs earns partial
// credit. flip reads the directions of b as seen from the swapped link.
func (c *Comparison) messages(a, b []model.Message, flip bool) float64 {
	n := max(len(a), len(b))
	if n == 0 {
		return 1
	}

	used := make([]bool, len(a))
	matched := make([]bool, len(b))
	score := 0.0

	for j, m := range b {
		dir := m.Direction
		if flip {
			dir = dir.Flip()
		}
		for i, o := range a {
			if !used[i] && normalizeName(o.Name) == normalizeName(m.Name) && o.Direction == dir {
				used[i], matched[j] = true, true
				score++
				break
			}
		}
	}
	for j, m := range b {
		if matched[j] {
			continue
		}
		for i, o := range a {
			if !used[i] && normalizeName(o.Name) == normalizeName(m.Name) {
				used[i] = true
				score += c.cfg.PartialCredit
				break
			}
		}
	}
	return score / float64(n)
}

func (c *Comparison) deploymentNode(a, b *model.DeploymentNode, depth int) float64 {
	w := c.cfg.DeploymentNode
	return NameSimilarity(a.Name, b.Name)*w.Name +
		EqualsSimilarity(a.Stereotype, b.Stereotype)*w.Stereotype +
		c.parentScore(a, b, depth)*w.Parent
}

func (c *Comparison) place(a, b *model.Place) float64 {
	w := c.cfg.Place
	score := NameSimilarity(a.Name, b.Name) * w.Name
	if a.Tokens == b.Tokens {
		score += w.Tokens
	}
	if a.Capacity == b.Capacity {
		score += w.Capacity
	}
	return score
}
