package database

import (
	"context"
	"fmt"

	"mongolog-report-bot/internal/infrastructure/config"
	"mongolog-report-bot/internal/infrastructure/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Collection names used by the reporting store.
const (
	WalletsCollection  = "wallets"
	LogsCollection     = "logs"
	ProjectsCollection = "projects"
)

// MongoClient handles MongoDB connections and index bootstrap.
type MongoClient struct {
	client *mongo.Client
	config *config.MongoConfig
	logger *logger.Logger
}

// NewMongoClient creates a new MongoDB client
func NewMongoClient(cfg *config.MongoConfig, logger *logger.Logger) *MongoClient {
	return &MongoClient{
		config: cfg,
		logger: logger.WithComponent("mongo-client"),
	}
}

// Connect connects to MongoDB and verifies connectivity
func (m *MongoClient) Connect(ctx context.Context) error {
	m.logger.Info("Connecting to MongoDB", zap.String("uri", m.config.URI))

	connectCtx, cancel := context.WithTimeout(ctx, m.config.ConnectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(m.config.URI).
		SetMaxPoolSize(m.config.MaxPoolSize)

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		m.logger.Error("Failed to create MongoDB client", zap.Error(err))
		return fmt.Errorf("failed to create MongoDB client: %w", err)
	}

	// Verify connectivity
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		m.logger.Error("Failed to ping MongoDB", zap.Error(err))
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	m.client = client
	m.logger.Info("Successfully connected to MongoDB")

	if err := m.ensureIndexes(ctx); err != nil {
		return fmt.Errorf("failed to ensure indexes: %w", err)
	}

	return nil
}

// Close closes the MongoDB connection
func (m *MongoClient) Close(ctx context.Context) error {
	if m.client != nil {
		m.logger.Info("Closing MongoDB connection")
		return m.client.Disconnect(ctx)
	}
	return nil
}

// Collection returns a handle to a named collection in the configured database
func (m *MongoClient) Collection(name string) *mongo.Collection {
	return m.client.Database(m.config.Database).Collection(name)
}

// IsConnected checks if connected to MongoDB
func (m *MongoClient) IsConnected(ctx context.Context) bool {
	if m.client == nil {
		return false
	}
	return m.client.Ping(ctx, readpref.Primary()) == nil
}

// ensureIndexes creates the query indexes the reporting paths rely on.
// Creation is idempotent; failures are logged and skipped like the rest of
// the schema bootstrap.
func (m *MongoClient) ensureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		WalletsCollection: {
			{Keys: bson.D{{Key: "address", Value: 1}}},
			{Keys: bson.D{{Key: "addressLowCase", Value: 1}}},
			{Keys: bson.D{{Key: "projects.project_name", Value: 1}}},
		},
		LogsCollection: {
			{Keys: bson.D{{Key: "project_name", Value: 1}}},
			{Keys: bson.D{{Key: "wallet", Value: 1}}},
			{Keys: bson.D{{Key: "level", Value: 1}}},
			{Keys: bson.D{{Key: "date", Value: 1}}},
		},
		ProjectsCollection: {
			{Keys: bson.D{{Key: "name", Value: 1}}},
		},
	}

	for collection, models := range indexes {
		if _, err := m.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			m.logger.Warn("Failed to create indexes",
				zap.String("collection", collection),
				zap.Error(err))
		}
	}

	m.logger.Info("Index bootstrap completed")
	return nil
}
