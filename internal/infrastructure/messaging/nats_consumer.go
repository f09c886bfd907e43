package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mongolog-report-bot/internal/domain/entity"
	"mongolog-report-bot/internal/infrastructure/config"
	"mongolog-report-bot/internal/infrastructure/logger"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// NATSConsumer ingests activity-log events published by the tracked
// automation processes and feeds them to the persistence loop.
type NATSConsumer struct {
	conn      *nats.Conn
	js        nats.JetStreamContext
	sub       *nats.Subscription
	config    *config.NATSConfig
	logger    *logger.Logger
	msgChan   chan *entity.LogEntry
	isRunning bool
}

// NewNATSConsumer creates a new NATS consumer
func NewNATSConsumer(cfg *config.NATSConfig, logger *logger.Logger) *NATSConsumer {
	return &NATSConsumer{
		config:  cfg,
		logger:  logger.WithComponent("nats-consumer"),
		msgChan: make(chan *entity.LogEntry, cfg.MaxPendingMessages),
	}
}

// Connect connects to NATS server and sets up the subscription
func (n *NATSConsumer) Connect(ctx context.Context) error {
	if !n.config.Enabled {
		n.logger.Info("NATS is disabled, skipping connection")
		return nil
	}

	n.logger.Info("Connecting to NATS server", zap.String("url", n.config.URL))

	opts := []nats.Option{
		nats.Name("mongolog-report-bot"),
		nats.Timeout(n.config.ConnectTimeout),
		nats.ReconnectWait(n.config.ReconnectDelay),
		nats.MaxReconnects(n.config.ReconnectAttempts),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			n.logger.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			n.logger.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			n.logger.Info("NATS connection closed")
		}),
	}

	conn, err := nats.Connect(n.config.URL, opts...)
	if err != nil {
		n.logger.Error("Failed to connect to NATS", zap.Error(err))
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}

	n.conn = conn

	// Try JetStream first, if not available fall back to core NATS
	js, err := conn.JetStream()
	if err != nil {
		n.logger.Warn("JetStream not available, using core NATS", zap.Error(err))
		return n.setupCoreNATSSubscription()
	}

	n.js = js
	return n.setupJetStreamSubscription()
}

// setupJetStreamSubscription sets up a durable pull subscription
func (n *NATSConsumer) setupJetStreamSubscription() error {
	subject := fmt.Sprintf("%s.events", n.config.SubjectPrefix)

	n.logger.Info("Setting up JetStream subscription",
		zap.String("subject", subject),
		zap.String("durable", n.config.DurableName),
		zap.String("stream", n.config.StreamName))

	sub, err := n.js.PullSubscribe(subject, n.config.DurableName,
		nats.Bind(n.config.StreamName, n.config.DurableName))
	if err != nil {
		n.logger.Warn("Failed to bind to durable consumer, falling back to core NATS", zap.Error(err))
		return n.setupCoreNATSSubscription()
	}

	n.sub = sub
	n.isRunning = true

	go n.processJetStreamMessages()

	n.logger.Info("Successfully connected to NATS JetStream",
		zap.String("subject", subject),
		zap.String("durable", n.config.DurableName))

	return nil
}

// processJetStreamMessages processes messages from the pull subscription
func (n *NATSConsumer) processJetStreamMessages() {
	n.logger.Info("Starting JetStream message processing")

	for n.isRunning {
		msgs, err := n.sub.Fetch(10, nats.MaxWait(5*time.Second))
		if err != nil {
			if err == nats.ErrTimeout {
				continue
			}
			n.logger.Error("Failed to fetch messages", zap.Error(err))
			continue
		}

		for _, msg := range msgs {
			n.handleMessage(msg)
		}
	}

	n.logger.Info("Stopped JetStream message processing")
}

// setupCoreNATSSubscription sets up core NATS subscription
func (n *NATSConsumer) setupCoreNATSSubscription() error {
	subject := fmt.Sprintf("%s.events", n.config.SubjectPrefix)
	queueGroup := n.config.ConsumerGroup

	sub, err := n.conn.QueueSubscribe(subject, queueGroup, func(msg *nats.Msg) {
		n.handleMessage(msg)
	})
	if err != nil {
		n.logger.Error("Failed to subscribe to subject", zap.Error(err))
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	n.sub = sub
	n.isRunning = true

	n.logger.Info("Successfully connected to core NATS",
		zap.String("subject", subject),
		zap.String("queue_group", queueGroup))

	return nil
}

// handleMessage decodes an incoming log event and queues it for persistence
func (n *NATSConsumer) handleMessage(msg *nats.Msg) {
	var logEntry entity.LogEntry
	if err := json.Unmarshal(msg.Data, &logEntry); err != nil {
		n.logger.Error("Failed to unmarshal log event", zap.Error(err))
		if msg.Reply != "" {
			msg.Respond([]byte("ERROR: Failed to unmarshal"))
		}
		return
	}
	if logEntry.Date.IsZero() {
		logEntry.Date = time.Now().UTC()
	}

	select {
	case n.msgChan <- &logEntry:
		if msg.Reply != "" {
			msg.Ack()
		}
	default:
		// Channel is full
		n.logger.Warn("Message channel is full, dropping log event",
			zap.String("project", logEntry.ProjectName),
			zap.String("action", logEntry.Action))
		if msg.Reply != "" {
			msg.Nak()
		}
	}
}

// Disconnect disconnects from NATS server
func (n *NATSConsumer) Disconnect() error {
	n.isRunning = false

	if n.sub != nil {
		n.sub.Unsubscribe()
		n.sub = nil
	}
	if n.conn != nil {
		n.conn.Close()
		n.conn = nil
	}
	close(n.msgChan)
	n.logger.Info("Disconnected from NATS")
	return nil
}

// IsConnected checks if connected to NATS
func (n *NATSConsumer) IsConnected() bool {
	return n.isRunning && n.conn != nil && n.conn.IsConnected()
}

// GetMessageChannel returns the log-event channel
func (n *NATSConsumer) GetMessageChannel() <-chan *entity.LogEntry {
	return n.msgChan
}
