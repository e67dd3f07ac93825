package service

import (
	"context"
	"fmt"

	"learning-service/internal/apperror"
	"learning-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func parseID(raw, what string) (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(raw)
	if err != nil {
		return bson.ObjectID{}, apperror.InvalidInput("Invalid %s ID", what)
	}
	return id, nil
}

func requireLevel(ctx context.Context, levels LevelStore, id bson.ObjectID) (*models.Level, error) {
	level, err := levels.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load level: %w", err)
	}
	if level == nil {
		return nil, apperror.NotFound("Level not found")
	}
	return level, nil
}

func requireCourse(ctx context.Context, courses CourseStore, id bson.ObjectID) (*models.Course, error) {
	course, err := courses.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load course: %w", err)
	}
	if course == nil {
		return nil, apperror.NotFound("Course not found")
	}
	return course, nil
}

// loadState returns the user's state, or a fresh zero state when none is
// stored yet. The fresh state is not persisted here.
func loadState(ctx context.Context, states LearningStateStore, userID bson.ObjectID) (*models.LearningState, error) {
	state, err := states.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load learning state: %w", err)
	}
	if state == nil {
		return models.NewLearningState(userID), nil
	}
	state.Normalize()
	return state, nil
}
