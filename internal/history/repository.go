// Package history persists release outcome records so operators can see what
// the agent did to the room's calendar and why.
package history

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"roomrelease/pkg/config"
	"roomrelease/pkg/model"
)

const CollectionName = "ReleaseRecords"

type Repository interface {
	Insert(ctx context.Context, record *model.ReleaseRecord) error
	FindRecent(ctx context.Context, limit int) ([]*model.ReleaseRecord, error)
}

type mongoRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoRepository(cfg *config.Config, client *mongo.Client) Repository {
	db := client.Database(cfg.MongoDatabaseName)
	return &mongoRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoRepository) Insert(ctx context.Context, record *model.ReleaseRecord) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.MongoConnTimeout)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("insert release record: %w", err)
	}
	return nil
}

func (r *mongoRepository) FindRecent(ctx context.Context, limit int) ([]*model.ReleaseRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.MongoConnTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "occurred_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find release records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*model.ReleaseRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode release records: %w", err)
	}
	return records, nil
}

// Connect opens and verifies the Mongo connection for the history store.
func Connect(cfg *config.Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}
	return client, nil
}
