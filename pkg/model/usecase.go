package model

type Actor struct {
	ElementBase
}

type UseCase struct {
	ElementBase
}

// SystemBoundary encloses the use cases of one system.
type SystemBoundary struct {
	ElementBase
	Children []Ref
}

func (s *SystemBoundary) Contents() []Ref { return s.Children }

// UseCaseRelationship is an association, generalization, include or extend.
type UseCaseRelationship struct {
	ElementBase
	Connection
}

func (r *UseCaseRelationship) Symmetric() bool {
	return r.Type == TypeUseCaseAssociation
}
