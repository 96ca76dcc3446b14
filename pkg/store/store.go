package store

import (
	"context"
	"errors"
	"math"

	"github.com/OFFIS-RIT/compass/pkg/similarity"
)

var (
	ErrNotFound                = errors.New("not found")
	ErrInvalidClassificationID = errors.New("invalid classification id")
)

// MaxClassificationID is the largest id the classification column holds.
const MaxClassificationID = math.MaxInt32

// ValidClassificationID reports whether id can be stored without loss.
func ValidClassificationID(id int) bool {
	return id >= 0 && id <= MaxClassificationID
}

// ClassificationStore persists the classification side-table of an exercise.
// Each exercise owns an independent set of (submission, element) stamps.
type ClassificationStore interface {
	// Load returns every stamp recorded for the exercise.
	Load(ctx context.Context, exerciseID int64) (*similarity.ClassificationTable, error)
	// Save records id for every key, replacing earlier stamps of the same keys.
	Save(ctx context.Context, exerciseID int64, id int, keys []similarity.ElementKey) error
	// Classification returns the stamp of a single element or ErrNotFound.
	Classification(ctx context.Context, exerciseID int64, key similarity.ElementKey) (int, error)
	// ForgetSubmission drops every stamp of a submission.
	ForgetSubmission(ctx context.Context, exerciseID, submissionID int64) error
}

// ChunkRange calls fn for consecutive [start, end) windows of at most
// chunkSize items. A non-positive chunkSize means a single window.
func ChunkRange(total, chunkSize int, fn func(start, end int) error) error {
	if total <= 0 {
		return nil
	}
	if chunkSize <= 0 {
		chunkSize = total
	}
	for start := 0; start < total; start += chunkSize {
		end := min(start+chunkSize, total)
		if err := fn(start, end); err != nil {
			return err
		}
	}
	return nil
}
