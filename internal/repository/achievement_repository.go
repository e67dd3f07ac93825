package repository

import (
	"context"
	"fmt"

	"learning-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// AchievementRepository is an append-only log; nothing here updates or
// deletes entries.
type AchievementRepository struct {
	collection *mongo.Collection
}

func NewAchievementRepository(database *mongo.Database, collection string) *AchievementRepository {
	return &AchievementRepository{
		collection: database.Collection(collection),
	}
}

func (r *AchievementRepository) InitializeIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "kind", Value: 1},
				{Key: "description", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "earned_at", Value: -1},
			},
		},
	}

	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create achievement indexes: %w", err)
	}
	return nil
}

func (r *AchievementRepository) HasMilestone(ctx context.Context, userID bson.ObjectID, milestone int) (bool, error) {
	filter := bson.M{
		"user_id": userID,
		"kind":    models.AchievementPointMilestone,
		"points":  milestone,
	}
	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check milestone: %w", err)
	}
	return count > 0, nil
}

func (r *AchievementRepository) Append(ctx context.Context, achievement *models.Achievement) error {
	if achievement.ID.IsZero() {
		achievement.ID = bson.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, achievement); err != nil {
		return writeError(err, "record achievement", "Achievement already awarded")
	}
	return nil
}

// ListByUser returns the user's achievements, newest first.
func (r *AchievementRepository) ListByUser(ctx context.Context, userID bson.ObjectID) ([]models.Achievement, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "earned_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to find achievements: %w", err)
	}
	defer cursor.Close(ctx)

	achievements := []models.Achievement{}
	if err := cursor.All(ctx, &achievements); err != nil {
		return nil, fmt.Errorf("failed to decode achievements: %w", err)
	}
	return achievements, nil
}
