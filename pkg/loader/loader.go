package loader

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/OFFIS-RIT/compass/pkg/logger"
	"github.com/OFFIS-RIT/compass/pkg/model"
	"github.com/OFFIS-RIT/compass/pkg/parser"
)

// ErrInvalidKey is returned for keys that do not name a submission the
// loader may read.
var ErrInvalidKey = errors.New("invalid submission key")

// SubmissionLoader fetches the raw JSON payload stored under key.
// Implementations may load from disk, object storage, or other sources.
type SubmissionLoader interface {
	Load(ctx context.Context, key string) ([]byte, error)
}

// Submission points at one stored diagram payload.
type Submission struct {
	ID     int64
	Key    string
	Loader SubmissionLoader
}

// Payload loads the raw submission.
func (s *Submission) Payload(ctx context.Context) ([]byte, error) {
	if s.Loader == nil {
		return nil, fmt.Errorf("submission %d has no loader", s.ID)
	}
	return s.Loader.Load(ctx, s.Key)
}

// Diagram loads and parses the submission.
func (s *Submission) Diagram(ctx context.Context) (*model.Diagram, error) {
	data, err := s.Payload(ctx)
	if err != nil {
		return nil, fmt.Errorf("load submission %d: %w", s.ID, err)
	}
	return Decode(data, s.ID)
}

// Decode parses a raw payload. BPMN payloads, which the dispatcher rejects,
// are routed to the legacy BPMN parser.
func Decode(data []byte, submissionID int64) (*model.Diagram, error) {
	d, err := parser.Parse(data, submissionID)
	if errors.Is(err, parser.ErrUnsupportedDiagramType) {
		logger.Debug("[Loader] Using legacy BPMN parser", "submission_id", submissionID)
		d, err = parser.ParseBPMN(data, submissionID)
	}
	if err != nil {
		return nil, fmt.Errorf("parse submission %d: %w", submissionID, err)
	}
	return d, nil
}

// Cache deduplicates concurrent loads of the same key and keeps the result.
// Failed loads are not cached.
type Cache struct {
	mu    sync.RWMutex
	data  map[string][]byte
	group singleflight.Group
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{data: make(map[string][]byte)}
}

// Do returns the cached bytes for key or calls fetch once for all
// concurrent callers.
func (c *Cache) Do(key string, fetch func() ([]byte, error)) ([]byte, error) {
	if b, ok := c.get(key); ok {
		return b, nil
	}

	result, err, _ := c.group.Do(key, func() (any, error) {
		if b, ok := c.get(key); ok {
			return b, nil
		}
		b, err := fetch()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.data[key] = b
		c.mu.Unlock()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

// Forget drops key from the cache.
func (c *Cache) Forget(key string) {
	c.mu.Lock()
	delete(c.data, key)
	c.mu.Unlock()
}

func (c *Cache) get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.data[key]
	return b, ok
}
