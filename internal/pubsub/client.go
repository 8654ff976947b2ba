package pubsub

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// New connects to Pub/Sub for projectID.
func New(ctx context.Context, projectID string) (PubSubClient, error) {
	c, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}
	return &client{client: c}, nil
}

// SendMessage publishes data MessagePack-encoded and waits for the server ack.
func (c *client) SendMessage(ctx context.Context, topic EventType, data any) error {
	msg, err := newMessage(topic, data)
	if err != nil {
		log.Error("MessagePack marshal error", "error", err)
		return err
	}
	result := c.client.Topic(string(topic)).Publish(ctx, msg)
	serverID, err := result.Get(ctx)
	if err != nil {
		log.Error("Failed to publish message", "error", err, "topic", topic)
		return err
	}
	log.Info("SendMessage", "serverID", serverID, "topic", topic)
	return nil
}

func (c *client) Close() error {
	return c.client.Close()
}

// newMessage encodes data as MessagePack and tags it with the event name.
func newMessage(topic EventType, data any) (*pubsub.Message, error) {
	payload, err := msgpack.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &pubsub.Message{
		Data:       payload,
		Attributes: map[string]string{"event": string(topic)},
	}, nil
}
