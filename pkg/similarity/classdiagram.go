package similarity

import "github.com/OFFIS-RIT/compass/pkg/model"

func (c *Comparison) class(a, b *model.Class) float64 {
	w := c.cfg.Class
	score := NameSimilarity(a.Name, b.Name) * w.Name
	if sameType(a, b) {
		score += w.Type
	}
	return score
}

func (c *Comparison) attribute(a, b *model.Attribute, depth int) float64 {
	w := c.cfg.Attribute
	return c.parentScore(a, b, depth)*w.Parent +
		NameSimilarity(a.Name, b.Name)*w.Name +
		EqualsSimilarity(a.AttributeType, b.AttributeType)*w.Type
}

// method splits its budget evenly over parent, name, return type and every
// parameter slot of the longer parameter list. Parameters match regardless
// of position.
func (c *Comparison) method(a, b *model.Method, depth int) float64 {
	share := 1 / float64(3+max(len(a.Parameters), len(b.Parameters)))

	score := c.parentScore(a, b, depth)*share +
		NameSimilarity(a.Name, b.Name)*share +
		EqualsSimilarity(a.ReturnType, b.ReturnType)*share
	return score + float64(containedCount(a.Parameters, b.Parameters))*share
}

func (c *Comparison) classRelationship(a, b *model.ClassRelationship, depth int) float64 {
	score := c.classRelationshipPairing(a, b, false, depth)
	if a.Symmetric() {
		score = max(score, c.classRelationshipPairing(a, b, true, depth))
	}
	if sameType(a, b) {
		score += c.cfg.Relationship.Type
	}
	return score
}

func (c *Comparison) classRelationshipPairing(a, b *model.ClassRelationship, swap bool, depth int) float64 {
	w := c.cfg.Relationship
	s, t := c.endpoints(a, b, swap, depth)

	srcRole, tgtRole := b.SourceRole, b.TargetRole
	srcMult, tgtMult := b.SourceMultiplicity, b.TargetMultiplicity
	if swap {
		srcRole, tgtRole = tgtRole, srcRole
		srcMult, tgtMult = tgtMult, srcMult
	}

	return (s+t)*w.Endpoint +
		(EqualsSimilarity(a.SourceRole, srcRole)+EqualsSimilarity(a.TargetRole, tgtRole))*w.Role +
		(EqualsSimilarity(a.SourceMultiplicity, srcMult)+EqualsSimilarity(a.TargetMultiplicity, tgtMult))*w.Multiplicity
}

// containedCount counts the values of b found in a, each value of a being
// usable once.
func containedCount(a, b []string) int {
	pool := make(map[string]int, len(a))
	for _, v := range a {
		pool[normalizeName(v)]++
	}

	n := 0
	for _, v := range b {
		k := normalizeName(v)
		if pool[k] > 0 {
			pool[k]--
			n++
		}
	}
	return n
}
