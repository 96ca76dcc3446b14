package routes

import (
	"io"
	"net/http"
	"strconv"

	"github.com/OFFIS-RIT/compass/internal/storage"
	"github.com/OFFIS-RIT/compass/pkg/logger"
	"github.com/OFFIS-RIT/compass/pkg/model"

	"github.com/labstack/echo/v4"
)

// PutSubmissionHandler validates a raw diagram payload and stores it in
// object storage for later comparison jobs.
func PutSubmissionHandler(c echo.Context) error {
	type submissionResponse struct {
		Message string            `json:"message"`
		Key     string            `json:"key,omitempty"`
		Type    model.DiagramType `json:"type,omitempty"`
	}

	exerciseID, err := strconv.ParseInt(c.Param("exercise_id"), 10, 64)
	if err != nil {
		return badRequest(c)
	}
	submissionID, err := strconv.ParseInt(c.Param("submission_id"), 10, 64)
	if err != nil {
		return badRequest(c)
	}

	payload, err := io.ReadAll(c.Request().Body)
	if err != nil || len(payload) == 0 {
		return badRequest(c)
	}

	d, status, err := decode(submissionBody{SubmissionID: submissionID, Model: payload})
	if err != nil {
		return decodeFailure(c, status, err)
	}

	key, err := storage.PutSubmission(c.Request().Context(), app(c).S3, exerciseID, submissionID, payload)
	if err != nil {
		logger.Error("[Server] Failed to store submission", "submission_id", submissionID, "err", err)
		return internalError(c)
	}

	return c.JSON(http.StatusCreated, submissionResponse{Message: "Submission stored", Key: key, Type: d.Type()})
}
