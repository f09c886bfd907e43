package database

import (
	"context"
	"fmt"

	"mongolog-report-bot/internal/domain/entity"
	"mongolog-report-bot/internal/domain/repository"
	"mongolog-report-bot/internal/infrastructure/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoLogRepository implements LogRepository interface
type MongoLogRepository struct {
	client *MongoClient
	logger *logger.Logger
}

// NewMongoLogRepository creates a new Mongo log repository
func NewMongoLogRepository(client *MongoClient, logger *logger.Logger) repository.LogRepository {
	return &MongoLogRepository{
		client: client,
		logger: logger.WithComponent("mongo-log-repo"),
	}
}

// Find retrieves log entries matching the filter, newest first. Absent filter
// fields are left out of the query, so an empty filter scans everything.
func (r *MongoLogRepository) Find(ctx context.Context, filter *entity.LogFilter) ([]*entity.LogEntry, error) {
	query := bson.M{}
	if filter.ProjectName != "" {
		query["project_name"] = filter.ProjectName
	}

	dateRange := bson.M{}
	if filter.StartDate != nil {
		dateRange["$gte"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		dateRange["$lte"] = *filter.EndDate
	}
	if len(dateRange) > 0 {
		query["date"] = dateRange
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.client.Collection(LogsCollection).Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query logs: %w", err)
	}
	defer cursor.Close(ctx)

	var logs []*entity.LogEntry
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, fmt.Errorf("failed to decode logs: %w", err)
	}
	return logs, nil
}

// InsertMany persists a batch of ingested log entries
func (r *MongoLogRepository) InsertMany(ctx context.Context, entries []*entity.LogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	docs := make([]interface{}, len(entries))
	for i, e := range entries {
		docs[i] = e
	}

	if _, err := r.client.Collection(LogsCollection).InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert log entries: %w", err)
	}

	r.logger.Debug("Inserted log entries", zap.Int("count", len(entries)))
	return nil
}
