package pgx

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/OFFIS-RIT/compass/pkg/logger"
	"github.com/OFFIS-RIT/compass/pkg/similarity"
	"github.com/OFFIS-RIT/compass/pkg/store"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
	Begin(ctx context.Context) (pgxv5.Tx, error)
}

const saveChunkSize = 1000

// ClassificationDBStorage implements store.ClassificationStore on PostgreSQL.
type ClassificationDBStorage struct {
	conn pgxIConn
}

var _ store.ClassificationStore = (*ClassificationDBStorage)(nil)

// NewClassificationDBStorage wraps an existing pool or connection.
func NewClassificationDBStorage(conn pgxIConn) *ClassificationDBStorage {
	return &ClassificationDBStorage{conn: conn}
}

func (s *ClassificationDBStorage) Load(ctx context.Context, exerciseID int64) (*similarity.ClassificationTable, error) {
	rows, err := s.conn.Query(ctx, loadSQL, exerciseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query classifications: %w", err)
	}
	defer rows.Close()

	table := similarity.NewClassificationTable()
	for rows.Next() {
		var (
			key similarity.ElementKey
			id  int32
		)
		if err := rows.Scan(&key.SubmissionID, &key.ElementID, &id); err != nil {
			return nil, fmt.Errorf("failed to scan classification: %w", err)
		}
		if err := table.Stamp(int(id), key); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read classifications: %w", err)
	}

	logger.Debug("[Store] Loaded classifications", "exercise", exerciseID, "entries", table.Len())
	return table, nil
}

func (s *ClassificationDBStorage) Save(ctx context.Context, exerciseID int64, id int, keys []similarity.ElementKey) error {
	if !store.ValidClassificationID(id) {
		return fmt.Errorf("%w: %d", store.ErrInvalidClassificationID, id)
	}
	keys = dedupeKeys(keys)
	if len(keys) == 0 {
		return nil
	}

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = store.ChunkRange(len(keys), saveChunkSize, func(start, end int) error {
		submissions, elements := columns(keys[start:end])
		_, err := tx.Exec(ctx, upsertSQL, exerciseID, submissions, elements, int32(id))
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to save classifications: %w", err)
	}

	logger.Debug("[Store] Saved classifications", "exercise", exerciseID, "classification", id, "elements", len(keys))
	return tx.Commit(ctx)
}

func (s *ClassificationDBStorage) Classification(ctx context.Context, exerciseID int64, key similarity.ElementKey) (int, error) {
	var id int32
	err := s.conn.QueryRow(ctx, lookupSQL, exerciseID, key.SubmissionID, sanitizeText(key.ElementID)).Scan(&id)
	if err != nil {
		if errors.Is(err, pgxv5.ErrNoRows) {
			return similarity.Unclassified, store.ErrNotFound
		}
		return similarity.Unclassified, err
	}
	return int(id), nil
}

func (s *ClassificationDBStorage) ForgetSubmission(ctx context.Context, exerciseID, submissionID int64) error {
	tag, err := s.conn.Exec(ctx, forgetSQL, exerciseID, submissionID)
	if err != nil {
		return fmt.Errorf("failed to delete classifications: %w", err)
	}
	logger.Debug("[Store] Forgot submission", "exercise", exerciseID, "submission", submissionID, "rows", tag.RowsAffected())
	return nil
}

// A single upsert statement must not touch the same row twice.
func dedupeKeys(keys []similarity.ElementKey) []similarity.ElementKey {
	seen := make(map[similarity.ElementKey]struct{}, len(keys))
	out := make([]similarity.ElementKey, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// columns splits keys into the parallel arrays consumed by unnest.
func columns(keys []similarity.ElementKey) ([]int64, []string) {
	submissions := make([]int64, 0, len(keys))
	elements := make([]string, 0, len(keys))
	for _, k := range keys {
		submissions = append(submissions, k.SubmissionID)
		elements = append(elements, sanitizeText(k.ElementID))
	}
	return submissions, elements
}

// Postgres text rejects NUL bytes and invalid UTF-8.
func sanitizeText(value string) string {
	if value == "" {
		return value
	}
	sanitized := strings.ToValidUTF8(value, "")
	return strings.ReplaceAll(sanitized, "\x00", "")
}

const loadSQL = `
SELECT submission_id, element_id, classification_id
FROM element_classifications
WHERE exercise_id = $1;
`

const upsertSQL = `
INSERT INTO element_classifications (exercise_id, submission_id, element_id, classification_id)
SELECT $1, s, e, $4
FROM unnest($2::bigint[], $3::text[]) AS t(s, e)
ON CONFLICT (exercise_id, submission_id, element_id) DO UPDATE
SET classification_id = EXCLUDED.classification_id,
    updated_at        = now();
`

const lookupSQL = `
SELECT classification_id
FROM element_classifications
WHERE exercise_id = $1 AND submission_id = $2 AND element_id = $3;
`

const forgetSQL = `
DELETE FROM element_classifications
WHERE exercise_id = $1 AND submission_id = $2;
`
