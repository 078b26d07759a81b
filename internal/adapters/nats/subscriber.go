package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// Subscriber replays and follows the frames of a view.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewSubscriber wraps an existing connection.
func NewSubscriber(conn *nats.Conn) (*Subscriber, error) {
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	return &Subscriber{conn: conn, js: js}, nil
}

// FollowView delivers the latest stored frame of each kind, then live
// frames, until the returned subscription is unsubscribed. handler receives
// the raw JSON alongside the decoded frame; frames that fail to decode are
// skipped.
func (s *Subscriber) FollowView(viewID string, handler func(f Frame, raw []byte)) (*nats.Subscription, error) {
	sub, err := s.js.Subscribe(ViewSubjects(viewID), func(msg *nats.Msg) {
		var f Frame
		if err := json.Unmarshal(msg.Data, &f); err != nil {
			return
		}
		handler(f, msg.Data)
	},
		nats.OrderedConsumer(),
		nats.DeliverLastPerSubject(),
	)
	if err != nil {
		return nil, fmt.Errorf("follow view %s: %w", viewID, err)
	}
	return sub, nil
}

// Latest collects the stored frames of a view, at most one per kind.
func (s *Subscriber) Latest(ctx context.Context, viewID string) (map[string]Frame, error) {
	sub, err := s.js.SubscribeSync(ViewSubjects(viewID),
		nats.OrderedConsumer(),
		nats.DeliverLastPerSubject(),
	)
	if err != nil {
		return nil, fmt.Errorf("read view %s: %w", viewID, err)
	}
	defer sub.Unsubscribe()

	frames := make(map[string]Frame)
	for {
		msg, err := sub.NextMsgWithContext(ctx)
		if err != nil {
			if len(frames) > 0 {
				return frames, nil
			}
			return nil, fmt.Errorf("read view %s: %w", viewID, err)
		}

		var f Frame
		if err := json.Unmarshal(msg.Data, &f); err == nil {
			frames[f.Kind] = f
		}

		if meta, err := msg.Metadata(); err == nil && meta.NumPending == 0 {
			return frames, nil
		}
	}
}
