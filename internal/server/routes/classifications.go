package routes

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/OFFIS-RIT/compass/pkg/leaselock"
	"github.com/OFFIS-RIT/compass/pkg/logger"
	"github.com/OFFIS-RIT/compass/pkg/similarity"
	"github.com/OFFIS-RIT/compass/pkg/store"

	"github.com/labstack/echo/v4"
)

var classificationLease = leaselock.Options{
	TTL:          30 * time.Second,
	Wait:         true,
	WaitInterval: 100 * time.Millisecond,
	WaitJitter:   50 * time.Millisecond,
	TokenPrefix:  "server-",
}

type elementKeyBody struct {
	SubmissionID int64  `json:"submission_id" validate:"required"`
	ElementID    string `json:"element_id" validate:"required"`
}

// writeLocked runs fn while holding the exercise's classification lease.
// When it reports false the error response has been written.
func writeLocked(c echo.Context, exerciseID int64, fn func(ctx context.Context) error) (bool, error) {
	a := app(c)
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	err := a.Locks.WithLease(ctx, leaselock.ExerciseKey(exerciseID), classificationLease, fn)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, leaselock.ErrBusy), errors.Is(err, context.DeadlineExceeded):
		return false, c.JSON(http.StatusConflict, messageResponse{Message: "Classifications are being updated"})
	default:
		logger.Error("[Server] Classification write failed", "exercise_id", exerciseID, "err", err)
		return false, internalError(c)
	}
}

// ClassifyElementsHandler stamps elements with a classification id.
func ClassifyElementsHandler(c echo.Context) error {
	type classifyBody struct {
		ExerciseID       int64            `json:"exercise_id" validate:"required"`
		ClassificationID *int             `json:"classification_id" validate:"required"`
		Elements         []elementKeyBody `json:"elements" validate:"required,min=1,dive"`
	}

	data := new(classifyBody)
	if !bind(c, data) || !store.ValidClassificationID(*data.ClassificationID) {
		return badRequest(c)
	}

	keys := make([]similarity.ElementKey, len(data.Elements))
	for i, e := range data.Elements {
		keys[i] = similarity.ElementKey{SubmissionID: e.SubmissionID, ElementID: e.ElementID}
	}

	ok, err := writeLocked(c, data.ExerciseID, func(ctx context.Context) error {
		return app(c).Store.Save(ctx, data.ExerciseID, *data.ClassificationID, keys)
	})
	if !ok {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Elements classified"})
}

// GetClassificationHandler returns the classification of one element.
func GetClassificationHandler(c echo.Context) error {
	type classificationResponse struct {
		Message          string `json:"message"`
		ClassificationID *int   `json:"classification_id,omitempty"`
	}

	exerciseID, err := strconv.ParseInt(c.Param("exercise_id"), 10, 64)
	if err != nil {
		return badRequest(c)
	}
	submissionID, err := strconv.ParseInt(c.Param("submission_id"), 10, 64)
	if err != nil {
		return badRequest(c)
	}
	key := similarity.ElementKey{SubmissionID: submissionID, ElementID: c.Param("element_id")}

	id, err := app(c).Store.Classification(c.Request().Context(), exerciseID, key)
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, classificationResponse{Message: "Element not classified"})
	}
	if err != nil {
		logger.Error("[Server] Failed to read classification", "exercise_id", exerciseID, "err", err)
		return internalError(c)
	}

	return c.JSON(http.StatusOK, classificationResponse{Message: "Element classified", ClassificationID: &id})
}

// ForgetSubmissionHandler drops every classification of a submission.
func ForgetSubmissionHandler(c echo.Context) error {
	exerciseID, err := strconv.ParseInt(c.Param("exercise_id"), 10, 64)
	if err != nil {
		return badRequest(c)
	}
	submissionID, err := strconv.ParseInt(c.Param("submission_id"), 10, 64)
	if err != nil {
		return badRequest(c)
	}

	ok, err := writeLocked(c, exerciseID, func(ctx context.Context) error {
		return app(c).Store.ForgetSubmission(ctx, exerciseID, submissionID)
	})
	if !ok {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Classifications removed"})
}
