package database

import (
	"context"
	"fmt"

	"mongolog-report-bot/internal/domain/entity"
	"mongolog-report-bot/internal/domain/repository"
	"mongolog-report-bot/internal/infrastructure/logger"

	"go.mongodb.org/mongo-driver/bson"
)

// MongoWalletRepository implements WalletRepository interface
type MongoWalletRepository struct {
	client *MongoClient
	logger *logger.Logger
}

// NewMongoWalletRepository creates a new Mongo wallet repository
func NewMongoWalletRepository(client *MongoClient, logger *logger.Logger) repository.WalletRepository {
	return &MongoWalletRepository{
		client: client,
		logger: logger.WithComponent("mongo-wallet-repo"),
	}
}

// FindByAddresses retrieves wallets matching the lower-cased addresses
func (r *MongoWalletRepository) FindByAddresses(ctx context.Context, lowercased []string) ([]*entity.Wallet, error) {
	return r.find(ctx, bson.M{"addressLowCase": bson.M{"$in": lowercased}})
}

// FindByProjectID retrieves wallets with a membership referencing the project id
func (r *MongoWalletRepository) FindByProjectID(ctx context.Context, projectID string) ([]*entity.Wallet, error) {
	return r.find(ctx, bson.M{"projects.project_id": projectID})
}

// FindByProjectName retrieves wallets with a membership in the named project
func (r *MongoWalletRepository) FindByProjectName(ctx context.Context, projectName string) ([]*entity.Wallet, error) {
	return r.find(ctx, bson.M{"projects.project_name": projectName})
}

func (r *MongoWalletRepository) find(ctx context.Context, filter bson.M) ([]*entity.Wallet, error) {
	cursor, err := r.client.Collection(WalletsCollection).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query wallets: %w", err)
	}
	defer cursor.Close(ctx)

	var wallets []*entity.Wallet
	if err := cursor.All(ctx, &wallets); err != nil {
		return nil, fmt.Errorf("failed to decode wallets: %w", err)
	}
	return wallets, nil
}
