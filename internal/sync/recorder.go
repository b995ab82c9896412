package syncx

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Publisher fans events out to a broker queue.
type Publisher interface {
	Publish(ctx context.Context, queue string, body []byte) error
}

// Recorder appends events to the local log and, when a Publisher is set,
// forwards them to Queue. The log is authoritative: broker failures are
// logged and swallowed.
type Recorder struct {
	Log    *EventRepo
	Pub    Publisher
	Queue  string
	Logger *slog.Logger
}

func (r *Recorder) Record(ctx context.Context, e Event) error {
	if r.Log != nil {
		if err := r.Log.Append(ctx, e); err != nil {
			return err
		}
	}
	if r.Pub == nil {
		return nil
	}
	body, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if err := r.Pub.Publish(ctx, r.Queue, body); err != nil && r.Logger != nil {
		r.Logger.Warn("event publish failed", "type", e.Type, "key", e.Key, "err", err)
	}
	return nil
}
