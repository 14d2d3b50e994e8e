package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/attendance"
)

const handleTimeout = 10 * time.Second

// locationMessage is the wire payload published by tracking devices.
// Coordinates stay untyped here; the attendance layer parses whatever the
// device firmware sends.
type locationMessage struct {
	EmployeeID string `json:"employee_id"`
	Latitude   any    `json:"latitude"`
	Longitude  any    `json:"longitude"`
}

// Ingestor bridges broker-published device positions into the attendance
// service, as if each message were a location report from the employee app.
type Ingestor struct {
	client  mqtt.Client
	topic   string
	service attendance.AttendanceService
}

func NewIngestor(brokerURL, clientID, topic string, service attendance.AttendanceService) (*Ingestor, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to mqtt broker: %w", token.Error())
	}

	return &Ingestor{
		client:  client,
		topic:   topic,
		service: service,
	}, nil
}

// Start subscribes to the location topic.
func (i *Ingestor) Start() error {
	token := i.client.Subscribe(i.topic, 1, i.handleMessage)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", i.topic, err)
	}
	slog.Info("MQTT location ingest started", "topic", i.topic)
	return nil
}

// Stop unsubscribes and drops the broker connection.
func (i *Ingestor) Stop() {
	i.client.Unsubscribe(i.topic)
	i.client.Disconnect(250)
	slog.Info("MQTT location ingest stopped")
}

func (i *Ingestor) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	var payload locationMessage
	if err := json.Unmarshal(msg.Payload(), &payload); err != nil {
		slog.Warn("Dropping malformed location message", "topic", msg.Topic(), "error", err)
		return
	}
	if payload.EmployeeID == "" {
		slog.Warn("Dropping location message without employee_id", "topic", msg.Topic())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	_, err := i.service.ReportLocation(ctx, attendance.ReportLocationRequest{
		EmployeeID: payload.EmployeeID,
		Latitude:   payload.Latitude,
		Longitude:  payload.Longitude,
	})
	if err != nil {
		slog.Warn("Failed to ingest location message",
			"employee_id", payload.EmployeeID,
			"error", err)
	}
}
