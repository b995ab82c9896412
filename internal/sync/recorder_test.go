package syncx_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/mind-engage/quizdesk/internal/db"
	syncx "github.com/mind-engage/quizdesk/internal/sync"
)

type fakePublisher struct {
	queue string
	msgs  [][]byte
	err   error
}

func (f *fakePublisher) Publish(_ context.Context, queue string, body []byte) error {
	f.queue = queue
	f.msgs = append(f.msgs, body)
	return f.err
}

func TestRecorderAppendsAndPublishes(t *testing.T) {
	ctx := context.Background()
	dbh, err := db.Open(ctx, db.DriverSQLite, "file::memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer dbh.Close()

	pub := &fakePublisher{}
	rec := &syncx.Recorder{Log: syncx.NewEventRepo(dbh), Pub: pub, Queue: "quiz.events"}
	e, _ := syncx.NewEvent(syncx.TypeContactMessage, "msg-1", map[string]string{"name": "Ada"})
	if err := rec.Record(ctx, e); err != nil {
		t.Fatalf("record: %v", err)
	}

	if pub.queue != "quiz.events" || len(pub.msgs) != 1 {
		t.Fatalf("publish not called as expected: queue=%q n=%d", pub.queue, len(pub.msgs))
	}
	var got syncx.Event
	if err := json.Unmarshal(pub.msgs[0], &got); err != nil {
		t.Fatalf("decode published: %v", err)
	}
	if got.Type != syncx.TypeContactMessage || got.Key != "msg-1" {
		t.Fatalf("unexpected published event: %+v", got)
	}

	stored, err := rec.Log.ByKey(ctx, "msg-1")
	if err != nil || len(stored) != 1 {
		t.Fatalf("stored events = %v, %v", stored, err)
	}
}

func TestRecorderSwallowsBrokerErrors(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	rec := &syncx.Recorder{Pub: pub, Queue: "q", Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	e, _ := syncx.NewEvent(syncx.TypeQuizPublished, "quiz-1", nil)
	if err := rec.Record(context.Background(), e); err != nil {
		t.Fatalf("broker failure should not surface: %v", err)
	}
}
