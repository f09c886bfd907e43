package database

import (
	"context"
	"errors"
	"fmt"

	"mongolog-report-bot/internal/domain/entity"
	"mongolog-report-bot/internal/domain/repository"
	"mongolog-report-bot/internal/infrastructure/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoProjectRepository implements ProjectRepository interface
type MongoProjectRepository struct {
	client *MongoClient
	logger *logger.Logger
}

// NewMongoProjectRepository creates a new Mongo project repository
func NewMongoProjectRepository(client *MongoClient, logger *logger.Logger) repository.ProjectRepository {
	return &MongoProjectRepository{
		client: client,
		logger: logger.WithComponent("mongo-project-repo"),
	}
}

// ListNames returns all project names sorted alphabetically
func (r *MongoProjectRepository) ListNames(ctx context.Context) ([]string, error) {
	opts := options.Find().
		SetProjection(bson.M{"name": 1}).
		SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.client.Collection(ProjectsCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer cursor.Close(ctx)

	var projects []*entity.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %w", err)
	}

	names := make([]string, 0, len(projects))
	for _, p := range projects {
		names = append(names, p.Name)
	}
	return names, nil
}

// FindByName resolves a project by its unique name
func (r *MongoProjectRepository) FindByName(ctx context.Context, name string) (*entity.Project, error) {
	var project entity.Project
	err := r.client.Collection(ProjectsCollection).FindOne(ctx, bson.M{"name": name}).Decode(&project)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("project %q: %w", name, entity.ErrProjectNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query project %q: %w", name, err)
	}
	return &project, nil
}
