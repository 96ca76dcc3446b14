package similarity

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/OFFIS-RIT/compass/pkg/model"
)

// Pair is one comparison of a batch.
type Pair struct {
	Left  *model.Diagram
	Right *model.Diagram
}

// CompareBatch scores every pair with Comparison.Diagrams using at most limit
// goroutines. Results are returned in input order.
func CompareBatch(ctx context.Context, engine *Engine, pairs []Pair, snapshot Classifications, limit int) ([]float64, error) {
	scores := make([]float64, len(pairs))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, p := range pairs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if p.Left == nil || p.Right == nil {
				return fmt.Errorf("pair %d: missing diagram", i)
			}
			scores[i] = engine.Between(p.Left, p.Right, snapshot).Diagrams()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}
