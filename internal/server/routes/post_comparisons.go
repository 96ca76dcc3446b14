package routes

import (
	"encoding/json"
	"net/http"

	"github.com/OFFIS-RIT/compass/internal/queue"
	"github.com/OFFIS-RIT/compass/internal/util"
	"github.com/OFFIS-RIT/compass/pkg/logger"

	"github.com/labstack/echo/v4"
)

// EnqueueComparisonHandler queues a batch of stored submission pairs for the
// worker.
func EnqueueComparisonHandler(c echo.Context) error {
	type comparisonBody struct {
		ExerciseID int64                  `json:"exercise_id" validate:"required"`
		Pairs      []queue.ComparisonPair `json:"pairs" validate:"required,min=1,dive"`
	}

	type comparisonResponse struct {
		Message string `json:"message"`
		JobID   string `json:"job_id,omitempty"`
	}

	data := new(comparisonBody)
	if !bind(c, data) {
		return badRequest(c)
	}

	jobID, err := util.NewID()
	if err != nil {
		return internalError(c)
	}

	body, err := json.Marshal(queue.ComparisonJob{
		JobID:      jobID,
		ExerciseID: data.ExerciseID,
		Pairs:      data.Pairs,
	})
	if err != nil {
		return internalError(c)
	}

	if err := queue.PublishFIFO(app(c).Queue, queue.ComparisonQueue, body); err != nil {
		logger.Error("[Server] Failed to enqueue comparison", "job_id", jobID, "err", err)
		return internalError(c)
	}

	logger.Info("[Server] Comparison enqueued", "job_id", jobID, "pairs", len(data.Pairs))
	return c.JSON(http.StatusAccepted, comparisonResponse{Message: "Comparison queued", JobID: jobID})
}
