package service

import (
	"context"
	"fmt"
	"log"

	"learning-service/internal/achievement"
	"learning-service/internal/apperror"
	"learning-service/internal/event"
	"learning-service/internal/metrics"
	"learning-service/internal/models"
	"learning-service/internal/progression"
	"learning-service/internal/scoring"
	"learning-service/internal/selection"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type BatchConfig struct {
	DefaultSize int
	MaxSize     int
}

// LearningService runs the two learner flows: serving adaptive batches and
// grading answers.
type LearningService struct {
	repos     *Repositories
	selector  *selection.Selector
	scorer    *scoring.Engine
	evaluator *achievement.Evaluator
	progress  *ProgressService
	machine   *progression.Machine
	publisher event.Publisher
	batch     BatchConfig
}

func NewLearningService(
	repos *Repositories,
	selector *selection.Selector,
	scorer *scoring.Engine,
	evaluator *achievement.Evaluator,
	progress *ProgressService,
	machine *progression.Machine,
	publisher event.Publisher,
	batch BatchConfig,
) *LearningService {
	if publisher == nil {
		publisher = event.NewDisabledPublisher()
	}
	if batch.DefaultSize <= 0 {
		batch.DefaultSize = 10
	}
	if batch.MaxSize < batch.DefaultSize {
		batch.MaxSize = batch.DefaultSize
	}
	return &LearningService{
		repos:     repos,
		selector:  selector,
		scorer:    scorer,
		evaluator: evaluator,
		progress:  progress,
		machine:   machine,
		publisher: publisher,
		batch:     batch,
	}
}

// GetQuestionBatch serves an adaptive batch for the course. count <= 0 uses
// the default size and larger requests are capped. A malformed course id
// yields an empty batch.
func (s *LearningService) GetQuestionBatch(ctx context.Context, userID bson.ObjectID, rawCourseID string, count int) (*selection.SelectionResult, error) {
	if count <= 0 {
		count = s.batch.DefaultSize
	}
	if count > s.batch.MaxSize {
		count = s.batch.MaxSize
	}

	if courseID, err := bson.ObjectIDFromHex(rawCourseID); err == nil {
		if _, err := requireCourse(ctx, s.repos.Courses, courseID); err != nil {
			return nil, err
		}
	}

	state, err := loadState(ctx, s.repos.States, userID)
	if err != nil {
		return nil, err
	}

	result, err := s.selector.SelectBatch(ctx, state, rawCourseID, count)
	if err != nil {
		return nil, err
	}
	metrics.ObserveBatch(len(result.Questions))
	return result, nil
}

// SubmitAnswer grades one answer and applies scoring, achievements and level
// progression in a single transaction. Events go out only after commit.
func (s *LearningService) SubmitAnswer(ctx context.Context, userID bson.ObjectID, rawQuestionID, optionID string) (*models.AnswerResult, error) {
	questionID, err := parseID(rawQuestionID, "question")
	if err != nil {
		return nil, err
	}
	question, err := s.repos.Questions.GetByID(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load question: %w", err)
	}
	if question == nil {
		return nil, apperror.NotFound("Question not found")
	}
	level, err := requireLevel(ctx, s.repos.Levels, question.LevelID)
	if err != nil {
		return nil, err
	}

	var (
		state   *models.LearningState
		outcome *scoring.Outcome
		awarded []models.Achievement
		change  *levelChange
	)
	err = s.repos.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		state, err = loadState(ctx, s.repos.States, userID)
		if err != nil {
			return err
		}

		outcome, err = s.scorer.ApplyAnswer(state, question, optionID)
		if err != nil {
			return err
		}

		awarded, err = s.evaluator.Evaluate(ctx, state)
		if err != nil {
			return err
		}

		if err := s.repos.States.Save(ctx, state); err != nil {
			return err
		}

		change, err = s.progress.recordAnswer(ctx, userID, level, question.ID, outcome.IsCorrect)
		return err
	})
	if err != nil {
		if !apperror.Is(err, apperror.KindInvalidInput) {
			log.Printf("Answer submission failed for user %s question %s: %v", userID.Hex(), question.ID.Hex(), err)
		}
		return nil, err
	}

	s.afterCommit(ctx, state, question, outcome, awarded, change)

	return &models.AnswerResult{
		IsCorrect:       outcome.IsCorrect,
		Explanation:     outcome.Explanation,
		UserStats:       models.StatsOf(state),
		NewAchievements: awarded,
		LevelProgress:   s.machine.Snapshot(change.progress, change.totalQuestions),
	}, nil
}

// afterCommit records metrics and publishes events. Failures are logged;
// the submission is already durable.
func (s *LearningService) afterCommit(ctx context.Context, state *models.LearningState, question *models.Question, outcome *scoring.Outcome, awarded []models.Achievement, change *levelChange) {
	metrics.ObserveAnswer(question.Category, outcome.IsCorrect)
	if err := s.publisher.PublishAnswerEvent(ctx, event.NewAnswerEvent(state, question, outcome.IsCorrect)); err != nil {
		log.Printf("Failed to publish answer event: %v", err)
	}

	for i := range awarded {
		metrics.ObserveAchievement(awarded[i].Kind)
		if err := s.publisher.PublishAchievementEvent(ctx, event.NewAchievementEvent(&awarded[i])); err != nil {
			log.Printf("Failed to publish achievement event: %v", err)
		}
	}

	if change.unlocked {
		metrics.ObserveLevelUnlocked()
		if err := s.publisher.PublishLevelEvent(ctx, event.NewLevelEvent(event.EventTypeLevelUnlocked, change.progress)); err != nil {
			log.Printf("Failed to publish level unlock event: %v", err)
		}
	}
	if change.completed {
		metrics.ObserveLevelCompleted()
		if err := s.publisher.PublishLevelEvent(ctx, event.NewLevelEvent(event.EventTypeLevelCompleted, change.progress)); err != nil {
			log.Printf("Failed to publish level completion event: %v", err)
		}
	}
	if change.unlockedNext != nil {
		metrics.ObserveLevelUnlocked()
		if err := s.publisher.PublishLevelEvent(ctx, event.NewLevelEvent(event.EventTypeLevelUnlocked, change.unlockedNext)); err != nil {
			log.Printf("Failed to publish level unlock event: %v", err)
		}
	}
}
