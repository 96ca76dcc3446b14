package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/OFFIS-RIT/compass/internal/util"
	"github.com/OFFIS-RIT/compass/pkg/loader"
	"github.com/OFFIS-RIT/compass/pkg/parser"
	"github.com/OFFIS-RIT/compass/pkg/similarity"

	"github.com/rabbitmq/amqp091-go"
)

type published struct {
	exchange string
	key      string
	msg      amqp091.Publishing
}

type fakeChannel struct {
	mu        sync.Mutex
	queues    map[string]amqp091.Table
	exchanges []string
	published []published
	err       error
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{queues: make(map[string]amqp091.Table)}
}

func (c *fakeChannel) ExchangeDeclare(name, _ string, _, _, _, _ bool, _ amqp091.Table) error {
	c.exchanges = append(c.exchanges, name)
	return nil
}

func (c *fakeChannel) QueueDeclare(name string, _, _, _, _ bool, args amqp091.Table) (amqp091.Queue, error) {
	c.queues[name] = args
	return amqp091.Queue{Name: name}, nil
}

func (c *fakeChannel) Publish(exchange, key string, _, _ bool, msg amqp091.Publishing) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.published = append(c.published, published{exchange: exchange, key: key, msg: msg})
	return nil
}

type ackRecorder struct {
	acked, nacked int
}

func (a *ackRecorder) Ack(uint64, bool) error {
	a.acked++
	return nil
}

func (a *ackRecorder) Nack(uint64, bool, bool) error {
	a.nacked++
	return nil
}

func (a *ackRecorder) Reject(uint64, bool) error { return nil }

func TestSetupQueues(t *testing.T) {
	ch := newFakeChannel()
	if err := SetupQueues(ch, []string{ComparisonQueue}); err != nil {
		t.Fatalf("SetupQueues() error = %v", err)
	}
	for _, name := range []string{ComparisonQueue, ComparisonQueue + "_dlq", ComparisonQueue + "_retry"} {
		if _, ok := ch.queues[name]; !ok {
			t.Fatalf("SetupQueues() did not declare %s", name)
		}
	}
	retry := ch.queues[ComparisonQueue+"_retry"]
	if retry["x-dead-letter-routing-key"] != ComparisonQueue {
		t.Fatalf("retry queue dead-letters to %v", retry["x-dead-letter-routing-key"])
	}
}

func TestConnURL(t *testing.T) {
	t.Setenv("RABBITMQ_USER", "u")
	t.Setenv("RABBITMQ_PASSWORD", "p")
	t.Setenv("RABBITMQ_HOST", "mq")
	t.Setenv("RABBITMQ_PORT", "1234")
	if got := connURL(); got != "amqp://u:p@mq:1234/" {
		t.Fatalf("connURL() = %q", got)
	}
}

var errLoad = errors.New("load failed")

func TestHandleProcessingError(t *testing.T) {
	tests := []struct {
		name    string
		headers amqp091.Table
		cause   error
		wantKey string
		wantN   any
	}{
		{name: "first failure", headers: nil, cause: errLoad, wantKey: "q_retry", wantN: int32(1)},
		{name: "int64 header", headers: amqp091.Table{"x-retries": int64(4)}, cause: errLoad, wantKey: "q_retry", wantN: int32(5)},
		{name: "exhausted", headers: amqp091.Table{"x-retries": int32(MaxDeliveries)}, cause: errLoad, wantKey: "q_dlq", wantN: int32(MaxDeliveries)},
		{name: "unresolved reference", headers: nil, cause: fmt.Errorf("parse: %w", parser.ErrUnresolvedReference), wantKey: "q_dlq", wantN: nil},
		{name: "malformed payload", headers: amqp091.Table{"x-retries": int32(2)}, cause: parser.ErrMalformedPayload, wantKey: "q_dlq", wantN: int32(2)},
		{name: "malformed job", headers: nil, cause: fmt.Errorf("%w: eof", ErrMalformedJob), wantKey: "q_dlq", wantN: nil},
		{name: "invalid key", headers: nil, cause: fmt.Errorf("load: %w", loader.ErrInvalidKey), wantKey: "q_dlq", wantN: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := newFakeChannel()
			ack := &ackRecorder{}
			msg := amqp091.Delivery{Acknowledger: ack, DeliveryTag: 1, Headers: tt.headers, Body: []byte("{}")}

			HandleProcessingError(ch, msg, "q", tt.cause)

			if len(ch.published) != 1 || ch.published[0].key != tt.wantKey {
				t.Fatalf("published = %+v, want one message on %s", ch.published, tt.wantKey)
			}
			if got := ch.published[0].msg.Headers["x-retries"]; got != tt.wantN {
				t.Fatalf("x-retries = %v (%T), want %v", got, got, tt.wantN)
			}
			if ack.acked != 1 || ack.nacked != 0 {
				t.Fatalf("acked %d nacked %d, want 1/0", ack.acked, ack.nacked)
			}
		})
	}
}

func TestHandleProcessingErrorRequeuesOnPublishFailure(t *testing.T) {
	ch := newFakeChannel()
	ch.err = errors.New("closed")
	ack := &ackRecorder{}

	HandleProcessingError(ch, amqp091.Delivery{Acknowledger: ack, DeliveryTag: 1}, "q", errLoad)
	if ack.nacked != 1 || ack.acked != 0 {
		t.Fatalf("acked %d nacked %d, want 0/1", ack.acked, ack.nacked)
	}
}

type mapLoader struct {
	mu    sync.Mutex
	data  map[string]string
	calls map[string]int
}

func (m *mapLoader) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[key]++
	s, ok := m.data[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return []byte(s), nil
}

type memoryStore struct {
	table *similarity.ClassificationTable
}

func (s *memoryStore) Load(context.Context, int64) (*similarity.ClassificationTable, error) {
	return s.table, nil
}

func (s *memoryStore) Save(_ context.Context, _ int64, id int, keys []similarity.ElementKey) error {
	return s.table.Stamp(id, keys...)
}

func (s *memoryStore) Classification(_ context.Context, _ int64, key similarity.ElementKey) (int, error) {
	id, _ := s.table.Lookup(key)
	return id, nil
}

func (s *memoryStore) ForgetSubmission(_ context.Context, _ int64, submissionID int64) error {
	s.table.Forget(submissionID)
	return nil
}

func newWorker(t *testing.T, ch Channel, data map[string]string) (*ComparisonWorker, *mapLoader) {
	t.Helper()
	engine, err := similarity.NewEngine(similarity.DefaultConfig())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	l := &mapLoader{data: data, calls: make(map[string]int)}
	return &ComparisonWorker{
		Loader:      l,
		Store:       &memoryStore{table: similarity.NewClassificationTable()},
		Engine:      engine,
		Channel:     ch,
		Parallelism: 2,
		MaxRetries:  1,
	}, l
}

func TestProcessComparisonMessage(t *testing.T) {
	ch := newFakeChannel()
	w, l := newWorker(t, ch, map[string]string{
		"a.json": `{"type":"PetriNet","elements":[{"id":"p","type":"PetriNetPlace","name":"in"}]}`,
		"b.json": `{"type":"Flowchart","elements":[{"id":"f","type":"FlowchartProcess","name":"in"}]}`,
	})

	job := ComparisonJob{
		JobID:      "job",
		ExerciseID: 3,
		Pairs: []ComparisonPair{
			{Left: SubmissionRef{SubmissionID: 1, Key: "a.json"}, Right: SubmissionRef{SubmissionID: 1, Key: "a.json"}},
			{Left: SubmissionRef{SubmissionID: 1, Key: "a.json"}, Right: SubmissionRef{SubmissionID: 2, Key: "b.json"}},
		},
	}
	body, _ := json.Marshal(job)

	if err := w.ProcessComparisonMessage(context.Background(), string(body)); err != nil {
		t.Fatalf("ProcessComparisonMessage() error = %v", err)
	}
	if l.calls["a.json"] != 1 || l.calls["b.json"] != 1 {
		t.Fatalf("loader calls = %v, want each key once", l.calls)
	}
	if len(ch.published) != 1 || ch.published[0].key != ComparisonCompletedTopic {
		t.Fatalf("published = %+v", ch.published)
	}

	var result ComparisonResult
	if err := json.Unmarshal(ch.published[0].msg.Body, &result); err != nil {
		t.Fatalf("result decode error = %v", err)
	}
	if result.JobID != "job" || len(result.Results) != 2 {
		t.Fatalf("result = %+v", result)
	}
	if result.Results[0].Similarity != 1 || result.Results[1].Similarity != 0 {
		t.Fatalf("similarities = %v, %v, want 1, 0", result.Results[0].Similarity, result.Results[1].Similarity)
	}
	if result.Results[1].RightSubmissionID != 2 {
		t.Fatalf("right submission = %d, want 2", result.Results[1].RightSubmissionID)
	}
}

func TestProcessComparisonMessageAssignsJobID(t *testing.T) {
	ch := newFakeChannel()
	w, _ := newWorker(t, ch, map[string]string{
		"a.json": `{"type":"PetriNet","elements":[{"id":"p","type":"PetriNetPlace","name":"in"}]}`,
	})

	body := `{"exercise_id":1,"pairs":[{"left":{"submission_id":1,"key":"a.json"},"right":{"submission_id":2,"key":"a.json"}}]}`
	if err := w.ProcessComparisonMessage(context.Background(), body); err != nil {
		t.Fatalf("ProcessComparisonMessage() error = %v", err)
	}

	var result ComparisonResult
	if err := json.Unmarshal(ch.published[0].msg.Body, &result); err != nil {
		t.Fatalf("result decode error = %v", err)
	}
	if !util.IsNanoid(result.JobID) {
		t.Fatalf("job id = %q, want generated id", result.JobID)
	}
}

func TestProcessComparisonMessageFailures(t *testing.T) {
	ch := newFakeChannel()
	w, _ := newWorker(t, ch, map[string]string{
		"bad.json": `{"type":"PetriNet","elements":[],"relationships":[{"id":"a","type":"PetriNetArc","source":"x","target":"y"}]}`,
	})

	if err := w.ProcessComparisonMessage(context.Background(), "not json"); !Permanent(err) {
		t.Fatalf("ProcessComparisonMessage() error = %v, want permanent", err)
	}

	pair := `{"job_id":"j","exercise_id":1,"pairs":[{"left":{"submission_id":1,"key":"bad.json"},"right":{"submission_id":2,"key":"bad.json"}}]}`
	if err := w.ProcessComparisonMessage(context.Background(), pair); !errors.Is(err, parser.ErrUnresolvedReference) {
		t.Fatalf("ProcessComparisonMessage() error = %v, want unresolved reference", err)
	}

	missing := `{"job_id":"j","exercise_id":1,"pairs":[{"left":{"submission_id":1,"key":"nope"},"right":{"submission_id":2,"key":"nope"}}]}`
	if err := w.ProcessComparisonMessage(context.Background(), missing); err == nil || Permanent(err) {
		t.Fatalf("ProcessComparisonMessage() error = %v, want retryable", err)
	}
	if len(ch.published) != 0 {
		t.Fatalf("failed jobs published %d results", len(ch.published))
	}

	if err := w.ProcessComparisonMessage(context.Background(), `{"job_id":"empty"}`); err != nil {
		t.Fatalf("empty job error = %v", err)
	}
}
