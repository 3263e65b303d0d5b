package ports

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/care/orion-scheduler/internal/task"
)

// MQTTDetailsSink publishes TaskProfile vectors to an MQTT broker, one
// message per published Details snapshot, wire-encoded with
// task.TaskProfile.EncodeBinary. It implements DetailsSink.
type MQTTDetailsSink struct {
	client mqtt.Client
	topic  string
	qos    byte

	mu        sync.RWMutex
	last      []task.TaskProfile
	connected bool
	errors    uint64
}

// NewMQTTDetailsSink builds a sink that publishes to topic on the given
// broker ("tcp://host:port"), identifying itself to the broker as
// clientID. Connect must be called before PublishDetails.
func NewMQTTDetailsSink(broker, clientID, topic string, qos byte) *MQTTDetailsSink {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetMaxReconnectInterval(30 * time.Second)

	s := &MQTTDetailsSink{topic: topic, qos: qos}

	opts.OnConnect = func(mqtt.Client) {
		s.mu.Lock()
		s.connected = true
		s.mu.Unlock()
		slog.Info("scheduler: mqtt connection established", "broker", broker, "client_id", clientID)
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		s.mu.Lock()
		s.connected = false
		s.mu.Unlock()
		slog.Warn("scheduler: mqtt connection lost, will auto-reconnect", "error", err, "broker", broker)
	}

	s.client = mqtt.NewClient(opts)
	return s
}

// Connect opens the MQTT connection, waiting up to 5 seconds for it to
// complete.
func (s *MQTTDetailsSink) Connect() error {
	token := s.client.Connect()
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("mqtt connection timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connection failed: %w", err)
	}
	return nil
}

// Disconnect closes the MQTT connection with a short grace period.
func (s *MQTTDetailsSink) Disconnect() {
	if s.client != nil && s.client.IsConnected() {
		s.client.Disconnect(250)
	}
}

// PublishDetails wire-encodes each profile and publishes the batch as a
// single MQTT message: a 2-byte count followed by each profile's
// fixed-width encoding.
func (s *MQTTDetailsSink) PublishDetails(profiles []task.TaskProfile) {
	s.mu.Lock()
	s.last = profiles
	s.mu.Unlock()

	if !s.client.IsConnected() {
		s.mu.Lock()
		s.errors++
		s.mu.Unlock()
		return
	}

	payload := make([]byte, 0, 2+len(profiles)*49)
	payload = append(payload, byte(len(profiles)>>8), byte(len(profiles)))
	for _, p := range profiles {
		payload = append(payload, p.EncodeBinary()...)
	}

	token := s.client.Publish(s.topic, s.qos, false, payload)
	if !token.WaitTimeout(2 * time.Second) {
		s.mu.Lock()
		s.errors++
		s.mu.Unlock()
		slog.Warn("scheduler: mqtt publish timeout", "topic", s.topic)
		return
	}
	if err := token.Error(); err != nil {
		s.mu.Lock()
		s.errors++
		s.mu.Unlock()
		slog.Warn("scheduler: mqtt publish failed", "topic", s.topic, "error", err)
	}
}

// Last returns the last profile vector handed to PublishDetails, whether
// or not it was successfully delivered.
func (s *MQTTDetailsSink) Last() []task.TaskProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}
