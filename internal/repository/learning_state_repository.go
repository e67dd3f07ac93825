package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"learning-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// LearningStateRepository stores one document per user keyed by user id.
type LearningStateRepository struct {
	collection *mongo.Collection
}

func NewLearningStateRepository(database *mongo.Database, collection string) *LearningStateRepository {
	return &LearningStateRepository{
		collection: database.Collection(collection),
	}
}

func (r *LearningStateRepository) Get(ctx context.Context, userID bson.ObjectID) (*models.LearningState, error) {
	var state models.LearningState
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&state)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get learning state: %w", err)
	}
	state.Normalize()
	return &state, nil
}

// Save replaces the user's state, inserting it on first write.
func (r *LearningStateRepository) Save(ctx context.Context, state *models.LearningState) error {
	state.UpdatedAt = time.Now()

	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": state.UserID}, state, opts); err != nil {
		return fmt.Errorf("failed to save learning state: %w", err)
	}
	return nil
}
