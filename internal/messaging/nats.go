// Package messaging publishes matching lifecycle events over NATS so that
// downstream consumers (push senders, analytics) can react without the core
// knowing about them. Publishing is best-effort: the matching flow never
// fails because an event could not be delivered.
package messaging

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	SubjectMatchFound    = "trinity.match.found"    // + .<user_id>
	SubjectTrioCompleted = "trinity.trio.completed" // + .<user_id>
)

// MatchEvent is the payload published on match lifecycle subjects.
type MatchEvent struct {
	UserID     string    `json:"user_id"`
	TrioID     string    `json:"trio_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher struct {
	conn *nats.Conn
}

// NewPublisher connects to NATS. An empty URL disables publishing: the
// returned nil Publisher is safe to pass around, its methods are no-ops.
func NewPublisher(url, name string) (*Publisher, error) {
	if url == "" {
		return nil, nil
	}

	opts := []nats.Option{
		nats.Name(name),
		nats.ReconnectWait(2 * time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Printf("[nats] disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("[nats] reconnected to %s", nc.ConnectedUrl())
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	log.Printf("[nats] connected to %s", nc.ConnectedUrl())
	return &Publisher{conn: nc}, nil
}

func (p *Publisher) PublishMatchFound(userID, trioID string) error {
	return p.publish(SubjectMatchFound, userID, trioID)
}

func (p *Publisher) PublishTrioCompleted(userID, trioID string) error {
	return p.publish(SubjectTrioCompleted, userID, trioID)
}

func (p *Publisher) publish(subject, userID, trioID string) error {
	if p == nil || p.conn == nil {
		return nil
	}
	data, err := json.Marshal(MatchEvent{
		UserID:     userID,
		TrioID:     trioID,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return p.conn.Publish(subject+"."+userID, data)
}

func (p *Publisher) Close() {
	if p != nil && p.conn != nil {
		p.conn.Close()
	}
}
