package loader

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/OFFIS-RIT/compass/pkg/model"
	"github.com/OFFIS-RIT/compass/pkg/parser"
)

type mapLoader map[string]string

func (m mapLoader) Load(_ context.Context, key string) ([]byte, error) {
	s, ok := m[key]
	if !ok {
		return nil, errors.New("not found")
	}
	return []byte(s), nil
}

func TestSubmissionDiagram(t *testing.T) {
	store := mapLoader{
		"petri.json": `{"type":"PetriNet","elements":[{"id":"p","type":"PetriNetPlace","name":"in"}]}`,
		"bpmn.json":  `{"type":"BPMN","elements":[{"id":"t","type":"BPMNTask","name":"ship"}]}`,
		"bad.json":   `{"type":"PetriNet","elements":[],"relationships":[{"id":"a","type":"PetriNetArc","source":"x","target":"y"}]}`,
	}

	tests := []struct {
		key     string
		want    model.DiagramType
		wantErr error
	}{
		{"petri.json", model.PetriNet, nil},
		{"bpmn.json", model.BPMN, nil},
		{"bad.json", "", parser.ErrUnresolvedReference},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			s := Submission{ID: 9, Key: tc.key, Loader: store}
			d, err := s.Diagram(context.Background())
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("Diagram() error = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Diagram() error = %v", err)
			}
			if d.Type() != tc.want || d.SubmissionID() != 9 {
				t.Fatalf("Diagram() = %s/%d", d.Type(), d.SubmissionID())
			}
		})
	}

	if _, err := (&Submission{ID: 1, Key: "missing.json", Loader: store}).Diagram(context.Background()); err == nil {
		t.Fatalf("Diagram() on missing key = nil error")
	}
	if _, err := (&Submission{ID: 1}).Payload(context.Background()); err == nil {
		t.Fatalf("Payload() without loader = nil error")
	}
}

func TestCacheDeduplicates(t *testing.T) {
	c := NewCache()
	var calls atomic.Int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, err := c.Do("k", func() ([]byte, error) {
				calls.Add(1)
				<-release
				return []byte("v"), nil
			})
			if err != nil || string(b) != "v" {
				t.Errorf("Do() = %q, %v", b, err)
			}
		}()
	}
	close(release)
	wg.Wait()

	if _, err := c.Do("k", func() ([]byte, error) {
		calls.Add(1)
		return nil, nil
	}); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	// Goroutines arriving after the first flight finished hit the cache.
	if n := calls.Load(); n < 1 || n > 8 {
		t.Fatalf("fetch called %d times", n)
	}
}

func TestCacheSkipsFailures(t *testing.T) {
	c := NewCache()
	if _, err := c.Do("k", func() ([]byte, error) { return nil, errors.New("boom") }); err == nil {
		t.Fatalf("Do() = nil error")
	}
	b, err := c.Do("k", func() ([]byte, error) { return []byte("ok"), nil })
	if err != nil || string(b) != "ok" {
		t.Fatalf("Do() after failure = %q, %v", b, err)
	}

	c.Forget("k")
	b, _ = c.Do("k", func() ([]byte, error) { return []byte("fresh"), nil })
	if string(b) != "fresh" {
		t.Fatalf("Do() after Forget = %q", b)
	}
}
