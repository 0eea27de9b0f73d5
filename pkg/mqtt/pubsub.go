package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	connTimeout    = 10
	reconnTimeout  = 1
	disconnTimeout = 250

	topicRoot = "gridfl"
)

var (
	errPublishTimeout   = errors.New("failed to publish due to timeout reached")
	errSubscribeTimeout = errors.New("failed to subscribe due to timeout reached")
	errEmptyTopic       = errors.New("empty topic")
	errEmptyID          = errors.New("empty ID")

	lwtPayloadTemplate = `{"status":"offline","client_id":"%s"}`
)

// Config holds the broker connection settings. An empty Address disables
// event publishing.
type Config struct {
	Address  string        `env:"MQTT_ADDRESS"`
	QoS      uint8         `env:"MQTT_QOS"      envDefault:"1"`
	Username string        `env:"MQTT_USERNAME"`
	Password string        `env:"MQTT_PASSWORD"`
	Timeout  time.Duration `env:"MQTT_TIMEOUT"  envDefault:"30s"`
}

type pubsub struct {
	client  mqtt.Client
	qos     byte
	timeout time.Duration
	logger  *slog.Logger
}

type Handler func(topic string, msg map[string]any) error

type PubSub interface {
	Publish(ctx context.Context, topic string, msg any) error
	Subscribe(ctx context.Context, topic string, handler Handler) error
	Disconnect(ctx context.Context) error
}

// Topic joins parts under the task's topic namespace.
func Topic(task string, parts ...string) string {
	return strings.Join(append([]string{topicRoot, task}, parts...), "/")
}

// NewPubSub connects to the broker. When statusTopic is set the broker
// publishes an offline notice there if the client drops.
func NewPubSub(cfg Config, id, statusTopic string, logger *slog.Logger) (PubSub, error) {
	if id == "" {
		return nil, errEmptyID
	}

	client, err := newClient(cfg, id, statusTopic, logger)
	if err != nil {
		return nil, err
	}

	return &pubsub{
		client:  client,
		qos:     cfg.QoS,
		timeout: cfg.Timeout,
		logger:  logger,
	}, nil
}

func (ps *pubsub) Publish(_ context.Context, topic string, msg any) error {
	if topic == "" {
		return errEmptyTopic
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	token := ps.client.Publish(topic, ps.qos, false, data)
	if token.Error() != nil {
		return token.Error()
	}

	if ok := token.WaitTimeout(ps.timeout); !ok {
		return errPublishTimeout
	}

	return nil
}

func (ps *pubsub) Subscribe(_ context.Context, topic string, handler Handler) error {
	if topic == "" {
		return errEmptyTopic
	}

	token := ps.client.Subscribe(topic, ps.qos, ps.mqttHandler(handler))
	if token.Error() != nil {
		return token.Error()
	}
	if ok := token.WaitTimeout(ps.timeout); !ok {
		return errSubscribeTimeout
	}

	return nil
}

func (ps *pubsub) Disconnect(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		ps.client.Disconnect(disconnTimeout)

		return nil
	}
}

func newClient(cfg Config, id, statusTopic string, logger *slog.Logger) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Address).
		SetClientID(id).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetConnectTimeout(connTimeout * time.Second).
		SetMaxReconnectInterval(reconnTimeout * time.Minute)

	if statusTopic != "" {
		opts.SetWill(statusTopic, fmt.Sprintf(lwtPayloadTemplate, id), 0, false)
	}

	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		logger.Info("MQTT connection established", slog.String("broker", cfg.Address))
	})

	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		args := []any{}
		if err != nil {
			args = append(args, slog.Any("error", err))
		}

		logger.Warn("MQTT connection lost", args...)
	})

	client := mqtt.NewClient(opts)

	token := client.Connect()
	if token.Error() != nil {
		return nil, errors.Join(errors.New("failed to connect to MQTT broker"), token.Error())
	}

	if ok := token.WaitTimeout(cfg.Timeout); !ok {
		return nil, errors.New("timeout reached while connecting to MQTT broker")
	}

	return client, nil
}

func (ps *pubsub) mqttHandler(h Handler) mqtt.MessageHandler {
	return func(_ mqtt.Client, m mqtt.Message) {
		var msg map[string]any
		if err := json.Unmarshal(m.Payload(), &msg); err != nil {
			ps.logger.Warn("Failed to unmarshal received message", slog.String("topic", m.Topic()), slog.Any("error", err))

			return
		}

		if err := h(m.Topic(), msg); err != nil {
			ps.logger.Warn("Failed to handle MQTT message", slog.String("topic", m.Topic()), slog.Any("error", err))
		}

		m.Ack()
	}
}
