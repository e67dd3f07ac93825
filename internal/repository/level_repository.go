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

type LevelRepository struct {
	collection *mongo.Collection
}

func NewLevelRepository(database *mongo.Database, collection string) *LevelRepository {
	return &LevelRepository{
		collection: database.Collection(collection),
	}
}

// InitializeIndexes enforces unique order and number within a course.
func (r *LevelRepository) InitializeIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "course_id", Value: 1},
				{Key: "order", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "course_id", Value: 1},
				{Key: "number", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	}

	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create level indexes: %w", err)
	}
	return nil
}

func (r *LevelRepository) Create(ctx context.Context, level *models.Level) (*models.Level, error) {
	if err := level.Validate(); err != nil {
		return nil, err
	}
	if level.ID.IsZero() {
		level.ID = bson.NewObjectID()
	}

	if _, err := r.collection.InsertOne(ctx, level); err != nil {
		return nil, writeError(err, "create level", "Level number and order must be unique within a course")
	}
	return level, nil
}

func (r *LevelRepository) GetByID(ctx context.Context, id bson.ObjectID) (*models.Level, error) {
	return r.findOne(ctx, bson.M{"_id": id}, nil)
}

// GetByCourse returns the course's levels sorted by order.
func (r *LevelRepository) GetByCourse(ctx context.Context, courseID bson.ObjectID) ([]*models.Level, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"course_id": courseID}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to find levels: %w", err)
	}
	defer cursor.Close(ctx)

	levels := []*models.Level{}
	if err := cursor.All(ctx, &levels); err != nil {
		return nil, fmt.Errorf("failed to decode levels: %w", err)
	}
	return levels, nil
}

// GetFirstLevel returns the level with the lowest order in the course.
func (r *LevelRepository) GetFirstLevel(ctx context.Context, courseID bson.ObjectID) (*models.Level, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "order", Value: 1}})
	return r.findOne(ctx, bson.M{"course_id": courseID}, opts)
}

// GetNextLevel returns the level at order+1 in the same course.
func (r *LevelRepository) GetNextLevel(ctx context.Context, courseID bson.ObjectID, order int) (*models.Level, error) {
	return r.findOne(ctx, bson.M{"course_id": courseID, "order": order + 1}, nil)
}

func (r *LevelRepository) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptionsBuilder) (*models.Level, error) {
	var level models.Level
	var result *mongo.SingleResult
	if opts != nil {
		result = r.collection.FindOne(ctx, filter, opts)
	} else {
		result = r.collection.FindOne(ctx, filter)
	}
	if err := result.Decode(&level); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get level: %w", err)
	}
	return &level, nil
}
