package routes

import (
	"net/http"

	"github.com/OFFIS-RIT/compass/pkg/model"

	"github.com/labstack/echo/v4"
)

// ParseDiagramHandler parses an inline payload and returns its structure.
func ParseDiagramHandler(c echo.Context) error {
	type elementSummary struct {
		ID     string            `json:"id"`
		Name   string            `json:"name"`
		Type   model.ElementType `json:"type"`
		Parent string            `json:"parent,omitempty"`
	}

	type relationshipSummary struct {
		ID     string            `json:"id"`
		Name   string            `json:"name,omitempty"`
		Type   model.ElementType `json:"type"`
		Source string            `json:"source"`
		Target string            `json:"target"`
	}

	type parseResponse struct {
		Message       string                `json:"message"`
		Type          model.DiagramType     `json:"type,omitempty"`
		Elements      []elementSummary      `json:"elements,omitempty"`
		Relationships []relationshipSummary `json:"relationships,omitempty"`
	}

	data := new(submissionBody)
	if !bind(c, data) {
		return badRequest(c)
	}

	d, status, err := decode(*data)
	if err != nil {
		return decodeFailure(c, status, err)
	}

	res := parseResponse{Message: "Diagram parsed", Type: d.Type()}
	for _, e := range d.Elements() {
		b := e.Base()
		s := elementSummary{ID: b.ID, Name: b.Name, Type: b.Type}
		if p := d.Parent(e); p != nil {
			s.Parent = p.Base().ID
		}
		res.Elements = append(res.Elements, s)
	}
	for _, r := range d.Relationships() {
		b := r.Base()
		src, tgt := d.Endpoints(r)
		res.Relationships = append(res.Relationships, relationshipSummary{
			ID:     b.ID,
			Name:   b.Name,
			Type:   b.Type,
			Source: src.Base().ID,
			Target: tgt.Base().ID,
		})
	}

	return c.JSON(http.StatusOK, res)
}
