package service

import (
	"context"
	"fmt"

	"learning-service/internal/models"
	"learning-service/internal/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Lookups return (nil, nil) when the record does not exist.

type CourseStore interface {
	Create(ctx context.Context, course *models.Course) (*models.Course, error)
	GetByID(ctx context.Context, id bson.ObjectID) (*models.Course, error)
	GetByName(ctx context.Context, name string) (*models.Course, error)
	GetAll(ctx context.Context) ([]*models.Course, error)
}

type LevelStore interface {
	Create(ctx context.Context, level *models.Level) (*models.Level, error)
	GetByID(ctx context.Context, id bson.ObjectID) (*models.Level, error)
	GetByCourse(ctx context.Context, courseID bson.ObjectID) ([]*models.Level, error)
	GetFirstLevel(ctx context.Context, courseID bson.ObjectID) (*models.Level, error)
	GetNextLevel(ctx context.Context, courseID bson.ObjectID, order int) (*models.Level, error)
}

type QuestionStore interface {
	Create(ctx context.Context, question *models.Question) (*models.Question, error)
	GetByID(ctx context.Context, id bson.ObjectID) (*models.Question, error)
	FindByCourseAndCategory(ctx context.Context, courseID bson.ObjectID, category models.Category, limit int) ([]models.Question, error)
	CountByLevel(ctx context.Context, levelID bson.ObjectID) (int, error)
}

type LearningStateStore interface {
	Get(ctx context.Context, userID bson.ObjectID) (*models.LearningState, error)
	Save(ctx context.Context, state *models.LearningState) error
}

type ProgressStore interface {
	Create(ctx context.Context, progress *models.UserProgress) error
	Find(ctx context.Context, userID, levelID bson.ObjectID) (*models.UserProgress, error)
	ListByCourse(ctx context.Context, userID, courseID bson.ObjectID) ([]*models.UserProgress, error)
	Save(ctx context.Context, progress *models.UserProgress) error
}

type AchievementStore interface {
	HasMilestone(ctx context.Context, userID bson.ObjectID, milestone int) (bool, error)
	Append(ctx context.Context, achievement *models.Achievement) error
	ListByUser(ctx context.Context, userID bson.ObjectID) ([]models.Achievement, error)
}

// TxRunner executes fn atomically. Stores must be called with the ctx
// passed to fn.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Repositories struct {
	Courses      CourseStore
	Levels       LevelStore
	Questions    QuestionStore
	States       LearningStateStore
	Progress     ProgressStore
	Achievements AchievementStore
	Tx           TxRunner
}

// NewMemoryRepositories wires every store to one in-memory backend.
func NewMemoryRepositories(store *repository.MemoryStore) *Repositories {
	return &Repositories{
		Courses:      store.Courses(),
		Levels:       store.Levels(),
		Questions:    store.Questions(),
		States:       store.LearningStates(),
		Progress:     store.Progress(),
		Achievements: store.Achievements(),
		Tx:           store,
	}
}

type indexed interface {
	InitializeIndexes(ctx context.Context) error
}

// NewMongoRepositories builds the MongoDB-backed stores and ensures their
// indexes exist.
func NewMongoRepositories(ctx context.Context, client *mongo.Client, database *mongo.Database) (*Repositories, error) {
	courses := repository.NewCourseRepository(database, "courses")
	levels := repository.NewLevelRepository(database, "levels")
	questions := repository.NewQuestionRepository(database, "questions")
	progress := repository.NewProgressRepository(database, "user_progress")
	achievements := repository.NewAchievementRepository(database, "achievements")

	for _, repo := range []indexed{courses, levels, questions, progress, achievements} {
		if err := repo.InitializeIndexes(ctx); err != nil {
			return nil, fmt.Errorf("failed to initialize indexes: %w", err)
		}
	}

	return &Repositories{
		Courses:      courses,
		Levels:       levels,
		Questions:    questions,
		States:       repository.NewLearningStateRepository(database, "learning_states"),
		Progress:     progress,
		Achievements: achievements,
		Tx:           repository.NewMongoTxRunner(client),
	}, nil
}
