package routes

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/OFFIS-RIT/compass/internal/server/middleware"
	"github.com/OFFIS-RIT/compass/pkg/loader"
	"github.com/OFFIS-RIT/compass/pkg/logger"
	"github.com/OFFIS-RIT/compass/pkg/model"
	"github.com/OFFIS-RIT/compass/pkg/parser"
	"github.com/OFFIS-RIT/compass/pkg/similarity"

	"github.com/labstack/echo/v4"
)

type messageResponse struct {
	Message string `json:"message"`
}

// submissionBody carries an inline diagram payload.
type submissionBody struct {
	SubmissionID int64           `json:"submission_id"`
	Model        json.RawMessage `json:"model" validate:"required"`
}

func app(c echo.Context) *middleware.App {
	return c.(*middleware.AppContext).App
}

func badRequest(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid request body"})
}

func internalError(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, messageResponse{Message: "Internal server error"})
}

func bind(c echo.Context, data any) bool {
	if err := c.Bind(data); err != nil {
		return false
	}
	return c.Validate(data) == nil
}

// decode parses body.Model and maps a failure to its HTTP status.
func decode(body submissionBody) (*model.Diagram, int, error) {
	d, err := loader.Decode(body.Model, body.SubmissionID)
	if err == nil {
		return d, http.StatusOK, nil
	}
	if parser.IsParseFailure(err) {
		return nil, http.StatusUnprocessableEntity, err
	}
	return nil, http.StatusInternalServerError, err
}

func decodeFailure(c echo.Context, status int, err error) error {
	if status == http.StatusUnprocessableEntity {
		logger.Debug("[Server] Rejected submission", "err", err)
		return c.JSON(status, messageResponse{Message: err.Error()})
	}
	logger.Error("[Server] Failed to decode submission", "err", err)
	return internalError(c)
}

// snapshot returns the classifications of an exercise, or an empty view
// when no exercise is given.
func snapshot(ctx context.Context, a *middleware.App, exerciseID int64) (similarity.Classifications, error) {
	if exerciseID <= 0 || a.Store == nil {
		return similarity.Classifications{}, nil
	}
	table, err := a.Store.Load(ctx, exerciseID)
	if err != nil {
		return similarity.Classifications{}, err
	}
	return table.Snapshot(), nil
}
