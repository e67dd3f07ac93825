package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"learning-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type QuestionRepository struct {
	collection *mongo.Collection
}

func NewQuestionRepository(database *mongo.Database, collection string) *QuestionRepository {
	return &QuestionRepository{
		collection: database.Collection(collection),
	}
}

func (r *QuestionRepository) InitializeIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "course_id", Value: 1},
				{Key: "category", Value: 1},
			},
		},
		{
			Keys: bson.D{{Key: "level_id", Value: 1}},
		},
	}

	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create question indexes: %w", err)
	}
	return nil
}

// Create validates and inserts a question, assigning option ids.
func (r *QuestionRepository) Create(ctx context.Context, question *models.Question) (*models.Question, error) {
	if err := question.Validate(); err != nil {
		return nil, err
	}
	if question.ID.IsZero() {
		question.ID = bson.NewObjectID()
	}
	question.EnsureOptionIDs()
	if question.CreatedAt.IsZero() {
		question.CreatedAt = time.Now()
	}

	if _, err := r.collection.InsertOne(ctx, question); err != nil {
		return nil, writeError(err, "create question", "Question already exists")
	}
	return question, nil
}

func (r *QuestionRepository) GetByID(ctx context.Context, id bson.ObjectID) (*models.Question, error) {
	var question models.Question
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&question)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question by ID: %w", err)
	}
	return &question, nil
}

// FindByCourseAndCategory samples up to limit questions of one category.
func (r *QuestionRepository) FindByCourseAndCategory(ctx context.Context, courseID bson.ObjectID, category models.Category, limit int) ([]models.Question, error) {
	if limit <= 0 {
		return []models.Question{}, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"course_id": courseID, "category": category}}},
		{{Key: "$sample", Value: bson.M{"size": limit}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to sample questions: %w", err)
	}
	defer cursor.Close(ctx)

	questions := []models.Question{}
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, fmt.Errorf("failed to decode questions: %w", err)
	}
	return questions, nil
}

func (r *QuestionRepository) CountByLevel(ctx context.Context, levelID bson.ObjectID) (int, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"level_id": levelID})
	if err != nil {
		return 0, fmt.Errorf("failed to count level questions: %w", err)
	}
	return int(count), nil
}
