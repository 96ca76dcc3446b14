package routes

import (
	"net/http"

	"github.com/OFFIS-RIT/compass/pkg/logger"
	"github.com/OFFIS-RIT/compass/pkg/similarity"

	"github.com/labstack/echo/v4"
)

type similarityResponse struct {
	Message    string   `json:"message"`
	Similarity *float64 `json:"similarity,omitempty"`
}

type diagramPairBody struct {
	ExerciseID int64          `json:"exercise_id"`
	Left       submissionBody `json:"left" validate:"required"`
	Right      submissionBody `json:"right" validate:"required"`
}

// DiagramSimilarityHandler scores two inline diagrams.
func DiagramSimilarityHandler(c echo.Context) error {
	data := new(diagramPairBody)
	if !bind(c, data) {
		return badRequest(c)
	}

	cmp, err := comparison(c, data)
	if cmp == nil {
		return err
	}

	score := cmp.Diagrams()
	return c.JSON(http.StatusOK, similarityResponse{Message: "Diagrams compared", Similarity: &score})
}

// ElementSimilarityHandler scores one element of the left diagram against
// one element of the right diagram.
func ElementSimilarityHandler(c echo.Context) error {
	type elementPairBody struct {
		diagramPairBody
		LeftElement  string `json:"left_element" validate:"required"`
		RightElement string `json:"right_element" validate:"required"`
	}

	data := new(elementPairBody)
	if !bind(c, data) {
		return badRequest(c)
	}

	cmp, err := comparison(c, &data.diagramPairBody)
	if cmp == nil {
		return err
	}

	left, ok := cmp.Left().Lookup(data.LeftElement)
	if !ok {
		return c.JSON(http.StatusNotFound, similarityResponse{Message: "Left element not found"})
	}
	right, ok := cmp.Right().Lookup(data.RightElement)
	if !ok {
		return c.JSON(http.StatusNotFound, similarityResponse{Message: "Right element not found"})
	}

	score := cmp.Elements(left, right)
	return c.JSON(http.StatusOK, similarityResponse{Message: "Elements compared", Similarity: &score})
}

// comparison decodes both diagrams and loads the exercise classifications.
// It writes the error response itself when it returns a nil Comparison.
func comparison(c echo.Context, data *diagramPairBody) (*similarity.Comparison, error) {
	left, status, err := decode(data.Left)
	if err != nil {
		return nil, decodeFailure(c, status, err)
	}
	right, status, err := decode(data.Right)
	if err != nil {
		return nil, decodeFailure(c, status, err)
	}

	a := app(c)
	snap, err := snapshot(c.Request().Context(), a, data.ExerciseID)
	if err != nil {
		logger.Error("[Server] Failed to load classifications", "exercise_id", data.ExerciseID, "err", err)
		return nil, internalError(c)
	}

	return a.Engine.Between(left, right, snap), nil
}
