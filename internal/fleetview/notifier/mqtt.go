package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/autopeer-io/fleetview/internal/fleetview/core"
	"github.com/autopeer-io/fleetview/internal/fleetview/core/model"
	"github.com/autopeer-io/fleetview/pkg/log"
	pkgmqtt "github.com/autopeer-io/fleetview/pkg/mqtt"
	"github.com/autopeer-io/fleetview/pkg/mqtt/topic"
	"github.com/autopeer-io/fleetview/pkg/options"
)

var _ core.FleetNotifier = (*MQTTNotifier)(nil)

// MQTTNotifier publishes fleet events as JSON on {root}/fleet/vehicle/{id}.
type MQTTNotifier struct {
	client pkgmqtt.Client
	topics *topic.Builder
	qos    int
}

// NewMQTTNotifier creates and starts a dedicated publishing client.
func NewMQTTNotifier(ctx context.Context, opts *options.MqttOptions) (*MQTTNotifier, error) {
	cfg := opts.ToClientConfig()
	if cfg.ClientID == "" {
		hostname, _ := os.Hostname()
		cfg.ClientID = fmt.Sprintf("fleetview-%s-%d", hostname, os.Getpid())
	}

	client, err := pkgmqtt.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	if err := client.Start(ctx); err != nil {
		return nil, err
	}

	awaitCtx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
	defer cancel()
	if err := client.AwaitConnection(awaitCtx); err != nil {
		log.Warn("MQTT broker not reachable yet, fleet events are dropped until it is", "broker", opts.Broker, "error", err)
	}

	n := NewMQTTNotifierWithClient(client, opts.TopicRoot, opts.QoS)
	log.Info("Publishing fleet events", "broker", opts.Broker, "topics", n.topics.VehicleWildcard())
	return n, nil
}

// NewMQTTNotifierWithClient publishes through an already started client.
func NewMQTTNotifierWithClient(client pkgmqtt.Client, topicRoot string, qos int) *MQTTNotifier {
	return &MQTTNotifier{
		client: client,
		topics: topic.NewBuilder(topicRoot),
		qos:    qos,
	}
}

func (n *MQTTNotifier) Notify(ctx context.Context, event *model.FleetEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode fleet event: %w", err)
	}

	return n.client.Publish(ctx, n.topics.Vehicle(event.Vehicle.ID), n.qos, false, payload)
}

// Close disconnects the underlying client.
func (n *MQTTNotifier) Close(ctx context.Context) {
	n.client.Disconnect(ctx)
}

// Connected reports whether events can currently reach the broker.
func (n *MQTTNotifier) Connected() bool {
	return n.client.IsConnected()
}
