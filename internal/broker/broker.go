package broker

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/ukydev/fleet-compliance/internal/compliance"
)

// MQTT topics dashboard consumers subscribe to.
const (
	TopicWorklist  = "fleet/compliance/worklist"
	TopicAnomalies = "fleet/compliance/anomalies"
)

// Publisher pushes evaluated worklists and anomaly reports to an MQTT
// broker. Publication is an output transport for presentation layers;
// the engine itself never depends on it.
type Publisher struct {
	client mqtt.Client
}

// Connect establishes the broker session.
func Connect(brokerURL, clientID string) (*Publisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetConnectTimeout(10 * time.Second).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("mqtt connect to %s timed out", brokerURL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect to %s: %w", brokerURL, err)
	}
	return &Publisher{client: client}, nil
}

// PublishWorklist publishes one evaluated worklist.
func (p *Publisher) PublishWorklist(wl compliance.Worklist) error {
	return p.publish(TopicWorklist, wl)
}

// PublishAnomalies publishes the anomaly side-channel of one evaluation.
func (p *Publisher) PublishAnomalies(anomalies []compliance.Anomaly) error {
	if len(anomalies) == 0 {
		return nil
	}
	return p.publish(TopicAnomalies, anomalies)
}

func (p *Publisher) publish(topic string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", topic, err)
	}
	token := p.client.Publish(topic, 0, false, data)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish to %s timed out", topic)
	}
	return token.Error()
}

// Disconnect closes the broker session.
func (p *Publisher) Disconnect() {
	p.client.Disconnect(250)
}
