package parser

import (
	"errors"
	"fmt"

	"github.com/OFFIS-RIT/compass/pkg/model"
)

var (
	ErrMalformedPayload       = errors.New("malformed diagram payload")
	ErrMissingDiagramType     = errors.New("diagram type missing")
	ErrUnknownDiagramType     = errors.New("unknown diagram type")
	ErrUnsupportedDiagramType = errors.New("diagram type unsupported in this schema version")
	ErrUnresolvedReference    = errors.New("unresolved element reference")
)

// IsParseFailure reports whether err stems from the payload itself rather
// than from loading it. Such errors do not go away on retry.
func IsParseFailure(err error) bool {
	for _, target := range []error{
		ErrMalformedPayload,
		ErrMissingDiagramType,
		ErrUnknownDiagramType,
		ErrUnsupportedDiagramType,
		ErrUnresolvedReference,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// ParseError reports a relationship whose endpoint does not name an element
// of the same payload.
type ParseError struct {
	Notation       model.DiagramType
	RelationshipID string
	// Endpoint is "source" or "target".
	Endpoint  string
	ElementID string
	Err       error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: relationship %q: %s %q: %v", e.Notation, e.RelationshipID, e.Endpoint, e.ElementID, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
