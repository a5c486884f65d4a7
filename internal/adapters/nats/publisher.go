package natsadapter

import (
	"context"
	"encoding/json"

	nats "github.com/nats-io/nats.go"

	"github.com/kaylkveip512/Viktorov-bookstore/internal/usecase"
)

// ActivityPublisher fans audit activity out to interested services. Publishes
// are fire-and-forget; the durable record is the database row.
type ActivityPublisher struct {
	conn    *nats.Conn
	subject string
}

func NewActivityPublisher(conn *nats.Conn, subject string) *ActivityPublisher {
	return &ActivityPublisher{conn: conn, subject: subject}
}

func (p *ActivityPublisher) PublishActivity(_ context.Context, event usecase.ActivityEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.conn.Publish(p.subject, data)
}
