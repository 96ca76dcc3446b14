package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/OFFIS-RIT/compass/internal/util"
	"github.com/OFFIS-RIT/compass/pkg/loader"
	"github.com/OFFIS-RIT/compass/pkg/logger"
	"github.com/OFFIS-RIT/compass/pkg/model"
	"github.com/OFFIS-RIT/compass/pkg/similarity"
	"github.com/OFFIS-RIT/compass/pkg/store"

	"golang.org/x/sync/errgroup"
)

// SubmissionRef locates a stored submission payload.
type SubmissionRef struct {
	SubmissionID int64  `json:"submission_id" validate:"required"`
	Key          string `json:"key" validate:"required"`
}

type ComparisonPair struct {
	Left  SubmissionRef `json:"left" validate:"required"`
	Right SubmissionRef `json:"right" validate:"required"`
}

// ComparisonJob is the body of a comparison_queue message.
type ComparisonJob struct {
	JobID      string           `json:"job_id"`
	ExerciseID int64            `json:"exercise_id"`
	Pairs      []ComparisonPair `json:"pairs"`
}

type PairResult struct {
	LeftSubmissionID  int64   `json:"left_submission_id"`
	RightSubmissionID int64   `json:"right_submission_id"`
	Similarity        float64 `json:"similarity"`
}

// ComparisonResult is published on ComparisonCompletedTopic.
type ComparisonResult struct {
	JobID      string       `json:"job_id"`
	ExerciseID int64        `json:"exercise_id"`
	Results    []PairResult `json:"results"`
}

// ComparisonWorker holds what a comparison job needs.
type ComparisonWorker struct {
	Loader      loader.SubmissionLoader
	Store       store.ClassificationStore
	Engine      *similarity.Engine
	Channel     Channel
	Parallelism int
	MaxRetries  int
}

// ProcessComparisonMessage loads and parses every submission of the job
// once, scores all pairs against the exercise's classifications and
// publishes the result.
func (w *ComparisonWorker) ProcessComparisonMessage(ctx context.Context, body string) error {
	var job ComparisonJob
	if err := json.Unmarshal([]byte(body), &job); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedJob, err)
	}
	if job.JobID == "" {
		id, err := util.NewID()
		if err != nil {
			return err
		}
		job.JobID = id
	} else if !util.IsNanoid(job.JobID) {
		logger.Debug("[Queue] Comparison job with foreign id", "job_id", job.JobID)
	}
	if len(job.Pairs) == 0 {
		logger.Warn("[Queue] Comparison job without pairs", "job_id", job.JobID)
		return nil
	}

	start := time.Now()
	logger.Info("[Queue] Processing comparison job", "job_id", job.JobID, "exercise_id", job.ExerciseID, "pairs", len(job.Pairs))

	diagrams, err := w.loadDiagrams(ctx, job.Pairs)
	if err != nil {
		return err
	}

	table, err := w.Store.Load(ctx, job.ExerciseID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("failed to load classifications: %w", err)
	}
	snapshot := similarity.Classifications{}
	if table != nil {
		snapshot = table.Snapshot()
	}

	pairs := make([]similarity.Pair, len(job.Pairs))
	for i, p := range job.Pairs {
		pairs[i] = similarity.Pair{
			Left:  diagrams[p.Left.Key],
			Right: diagrams[p.Right.Key],
		}
	}

	scores, err := similarity.CompareBatch(ctx, w.Engine, pairs, snapshot, w.Parallelism)
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	result := ComparisonResult{
		JobID:      job.JobID,
		ExerciseID: job.ExerciseID,
		Results:    make([]PairResult, len(scores)),
	}
	for i, s := range scores {
		result.Results[i] = PairResult{
			LeftSubmissionID:  job.Pairs[i].Left.SubmissionID,
			RightSubmissionID: job.Pairs[i].Right.SubmissionID,
			Similarity:        s,
		}
	}

	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	if err := PublishTopic(w.Channel, ComparisonCompletedTopic, data); err != nil {
		return fmt.Errorf("failed to publish comparison result: %w", err)
	}

	logger.Info("[Queue] Comparison job completed", "job_id", job.JobID, "duration", time.Since(start))
	return nil
}

// loadDiagrams parses each distinct submission key once.
func (w *ComparisonWorker) loadDiagrams(ctx context.Context, pairs []ComparisonPair) (map[string]*model.Diagram, error) {
	refs := make(map[string]SubmissionRef)
	for _, p := range pairs {
		refs[p.Left.Key] = p.Left
		refs[p.Right.Key] = p.Right
	}

	type loaded struct {
		key string
		d   *model.Diagram
	}
	out := make(chan loaded, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	if w.Parallelism > 0 {
		g.SetLimit(w.Parallelism)
	}
	for key, ref := range refs {
		g.Go(func() error {
			sub := loader.Submission{ID: ref.SubmissionID, Key: key, Loader: w.Loader}
			data, err := util.RetryWithContext(gctx, w.MaxRetries, 200*time.Millisecond, sub.Payload)
			if err != nil {
				return fmt.Errorf("load submission %d: %w", ref.SubmissionID, err)
			}
			d, err := loader.Decode(data, ref.SubmissionID)
			if err != nil {
				return err
			}
			out <- loaded{key: key, d: d}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	close(out)

	diagrams := make(map[string]*model.Diagram, len(refs))
	for l := range out {
		diagrams[l.key] = l.d
	}
	return diagrams, nil
}
