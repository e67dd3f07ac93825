package repository

import (
	"context"
	"errors"
	"fmt"

	"learning-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type ProgressRepository struct {
	collection *mongo.Collection
}

func NewProgressRepository(database *mongo.Database, collection string) *ProgressRepository {
	return &ProgressRepository{
		collection: database.Collection(collection),
	}
}

// InitializeIndexes makes (user, course, level) a unique key.
func (r *ProgressRepository) InitializeIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "course_id", Value: 1},
				{Key: "level_id", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "level_id", Value: 1},
			},
		},
	}

	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create progress indexes: %w", err)
	}
	return nil
}

func (r *ProgressRepository) Create(ctx context.Context, progress *models.UserProgress) error {
	if progress.ID.IsZero() {
		progress.ID = bson.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, progress); err != nil {
		return writeError(err, "create progress", "Progress already exists for this level")
	}
	return nil
}

// Find returns the user's record for a level, or nil when none exists.
func (r *ProgressRepository) Find(ctx context.Context, userID, levelID bson.ObjectID) (*models.UserProgress, error) {
	var progress models.UserProgress
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID, "level_id": levelID}).Decode(&progress)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}
	return &progress, nil
}

func (r *ProgressRepository) ListByCourse(ctx context.Context, userID, courseID bson.ObjectID) ([]*models.UserProgress, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID, "course_id": courseID})
	if err != nil {
		return nil, fmt.Errorf("failed to find course progress: %w", err)
	}
	defer cursor.Close(ctx)

	records := []*models.UserProgress{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode progress: %w", err)
	}
	return records, nil
}

func (r *ProgressRepository) Save(ctx context.Context, progress *models.UserProgress) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": progress.ID}, progress)
	if err != nil {
		return writeError(err, "save progress", "Progress already exists for this level")
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("failed to save progress: record %s not found", progress.ID.Hex())
	}
	return nil
}
