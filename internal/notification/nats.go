package notification

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"FlowScope/internal/config"
	"FlowScope/internal/model"
)

// alertMessage is the JSON payload published for each finding.
type alertMessage struct {
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
}

// NATSNotifier implements the Notifier interface by publishing findings to a
// NATS subject, for consumers that want to react to detections in real time.
type NATSNotifier struct {
	nc      *nats.Conn
	subject string
}

// NewNATSNotifier connects to the configured NATS server.
func NewNATSNotifier(cfg config.NATSConfig) (model.Notifier, error) {
	nc, err := nats.Connect(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	log.Printf("Connected to NATS server at %s", cfg.URL)
	return &NATSNotifier{nc: nc, subject: cfg.Subject}, nil
}

// Send serializes the finding to JSON and publishes it.
func (n *NATSNotifier) Send(subject, body string) error {
	data, err := json.Marshal(alertMessage{
		Subject:   subject,
		Body:      body,
		Timestamp: time.Now(),
	})
	if err != nil {
		return err
	}
	return n.nc.Publish(n.subject, data)
}

// Close drains and closes the NATS connection.
func (n *NATSNotifier) Close() {
	if n.nc != nil {
		n.nc.Drain()
		log.Println("NATS connection drained and closed.")
	}
}
