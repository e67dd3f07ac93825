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

type CourseRepository struct {
	collection *mongo.Collection
}

func NewCourseRepository(database *mongo.Database, collection string) *CourseRepository {
	return &CourseRepository{
		collection: database.Collection(collection),
	}
}

// InitializeIndexes creates MongoDB indexes for courses
func (r *CourseRepository) InitializeIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create course indexes: %w", err)
	}
	return nil
}

func (r *CourseRepository) Create(ctx context.Context, course *models.Course) (*models.Course, error) {
	if err := course.Validate(); err != nil {
		return nil, err
	}
	if course.ID.IsZero() {
		course.ID = bson.NewObjectID()
	}
	if course.CreatedAt.IsZero() {
		course.CreatedAt = time.Now()
	}

	if _, err := r.collection.InsertOne(ctx, course); err != nil {
		return nil, writeError(err, "create course", "A course with this name already exists")
	}
	return course, nil
}

// GetByID returns nil without error when the course does not exist.
func (r *CourseRepository) GetByID(ctx context.Context, id bson.ObjectID) (*models.Course, error) {
	var course models.Course
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&course)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get course by ID: %w", err)
	}
	return &course, nil
}

func (r *CourseRepository) GetByName(ctx context.Context, name string) (*models.Course, error) {
	var course models.Course
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&course)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get course by name: %w", err)
	}
	return &course, nil
}

func (r *CourseRepository) GetAll(ctx context.Context) ([]*models.Course, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to find courses: %w", err)
	}
	defer cursor.Close(ctx)

	courses := []*models.Course{}
	for cursor.Next(ctx) {
		var course models.Course
		if err := cursor.Decode(&course); err != nil {
			return nil, fmt.Errorf("failed to decode course: %w", err)
		}
		courses = append(courses, &course)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate courses: %w", err)
	}
	return courses, nil
}
