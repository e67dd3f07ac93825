package service

import (
	"context"
	"fmt"

	"learning-service/internal/apperror"
	"learning-service/internal/models"
	"learning-service/internal/progression"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ProgressService owns the per-level progress records and their
// Locked -> Unlocked -> Completed transitions.
type ProgressService struct {
	repos   *Repositories
	machine *progression.Machine
}

func NewProgressService(repos *Repositories, machine *progression.Machine) *ProgressService {
	return &ProgressService{repos: repos, machine: machine}
}

// levelChange describes what one recorded answer did to progression.
type levelChange struct {
	progress       *models.UserProgress
	totalQuestions int
	unlocked       bool // the answered level was locked until this answer
	completed      bool
	unlockedNext   *models.UserProgress
}

// ensureFirstLevel makes sure the course's first level has an unlocked
// record for the user. It returns that record and whether it changed.
func (s *ProgressService) ensureFirstLevel(ctx context.Context, userID, courseID bson.ObjectID) (*models.UserProgress, bool, error) {
	first, err := s.repos.Levels.GetFirstLevel(ctx, courseID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load first level: %w", err)
	}
	if first == nil {
		return nil, false, nil
	}

	progress, err := s.repos.Progress.Find(ctx, userID, first.ID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load progress: %w", err)
	}
	if progress == nil {
		progress = models.NewUserProgress(userID, courseID, first.ID, true)
		if err := s.repos.Progress.Create(ctx, progress); err != nil {
			return nil, false, err
		}
		return progress, true, nil
	}
	if s.machine.Unlock(progress) {
		if err := s.repos.Progress.Save(ctx, progress); err != nil {
			return nil, false, err
		}
		return progress, true, nil
	}
	return progress, false, nil
}

// findOrCreate loads the user's record for level, creating it with the
// given unlock state when absent. Any creation also guarantees the course's
// first level is unlocked.
func (s *ProgressService) findOrCreate(ctx context.Context, userID bson.ObjectID, level *models.Level, unlocked bool) (*models.UserProgress, error) {
	progress, err := s.repos.Progress.Find(ctx, userID, level.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	if progress != nil {
		return progress, nil
	}

	first, _, err := s.ensureFirstLevel(ctx, userID, level.CourseID)
	if err != nil {
		return nil, err
	}
	if first != nil && first.LevelID == level.ID {
		return first, nil
	}

	progress = models.NewUserProgress(userID, level.CourseID, level.ID, unlocked)
	if err := s.repos.Progress.Create(ctx, progress); err != nil {
		return nil, err
	}
	return progress, nil
}

// recordAnswer counts an answer against the question's level and unlocks
// the next level when this answer completes it. Must run inside the
// submission transaction.
func (s *ProgressService) recordAnswer(ctx context.Context, userID bson.ObjectID, level *models.Level, questionID bson.ObjectID, wasCorrect bool) (*levelChange, error) {
	totalQuestions, err := s.repos.Questions.CountByLevel(ctx, level.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count level questions: %w", err)
	}

	// Answering a question implies its level was reachable.
	progress, err := s.findOrCreate(ctx, userID, level, true)
	if err != nil {
		return nil, err
	}

	change := &levelChange{progress: progress, totalQuestions: totalQuestions}
	// A level cannot complete while locked.
	change.unlocked = s.machine.Unlock(progress)
	change.completed = s.machine.RecordAnswer(progress, questionID, wasCorrect, totalQuestions)
	if err := s.repos.Progress.Save(ctx, progress); err != nil {
		return nil, err
	}

	if !change.completed {
		return change, nil
	}

	next, err := s.repos.Levels.GetNextLevel(ctx, level.CourseID, level.Order)
	if err != nil {
		return nil, fmt.Errorf("failed to load next level: %w", err)
	}
	if next == nil {
		return change, nil
	}

	nextProgress, err := s.repos.Progress.Find(ctx, userID, next.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load next level progress: %w", err)
	}
	if nextProgress == nil {
		nextProgress = models.NewUserProgress(userID, next.CourseID, next.ID, true)
		if err := s.repos.Progress.Create(ctx, nextProgress); err != nil {
			return nil, err
		}
		change.unlockedNext = nextProgress
	} else if s.machine.Unlock(nextProgress) {
		if err := s.repos.Progress.Save(ctx, nextProgress); err != nil {
			return nil, err
		}
		change.unlockedNext = nextProgress
	}
	return change, nil
}

// GetLevelProgress returns the caller's record for a level, creating it on
// first access. Only the course's first level starts unlocked.
func (s *ProgressService) GetLevelProgress(ctx context.Context, userID bson.ObjectID, rawLevelID string) (*models.UserProgress, error) {
	levelID, err := parseID(rawLevelID, "level")
	if err != nil {
		return nil, err
	}
	level, err := requireLevel(ctx, s.repos.Levels, levelID)
	if err != nil {
		return nil, err
	}

	var progress *models.UserProgress
	err = s.repos.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		progress, err = s.findOrCreate(ctx, userID, level, false)
		return err
	})
	if err != nil {
		return nil, err
	}
	return progress, nil
}

func (s *ProgressService) GetLevelStatus(ctx context.Context, userID bson.ObjectID, rawLevelID string) (*models.LevelStatus, error) {
	levelID, err := parseID(rawLevelID, "level")
	if err != nil {
		return nil, err
	}
	level, err := requireLevel(ctx, s.repos.Levels, levelID)
	if err != nil {
		return nil, err
	}

	progress, err := s.repos.Progress.Find(ctx, userID, level.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	if progress == nil {
		return nil, apperror.NotFound("Progress not found")
	}

	status := &models.LevelStatus{
		IsUnlocked:         progress.Unlocked,
		IsCompleted:        progress.Completed,
		CorrectAnswers:     progress.CorrectAnswers,
		TotalAnswers:       progress.TotalAnswers,
		QuestionsCompleted: len(progress.QuestionsPassed),
	}

	next, err := s.repos.Levels.GetNextLevel(ctx, level.CourseID, level.Order)
	if err != nil {
		return nil, fmt.Errorf("failed to load next level: %w", err)
	}
	if next != nil {
		nextProgress, err := s.repos.Progress.Find(ctx, userID, next.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load next level progress: %w", err)
		}
		status.NextLevel = &models.NextLevelSummary{
			ID:         next.ID,
			Name:       next.Name,
			IsUnlocked: nextProgress != nil && nextProgress.Unlocked,
		}
	}
	return status, nil
}

// ResetLevelProgress clears the caller's answer history on a level. Unlock
// and completion are kept. A level without progress is left untouched.
func (s *ProgressService) ResetLevelProgress(ctx context.Context, userID bson.ObjectID, rawLevelID string) error {
	levelID, err := parseID(rawLevelID, "level")
	if err != nil {
		return err
	}
	level, err := requireLevel(ctx, s.repos.Levels, levelID)
	if err != nil {
		return err
	}

	progress, err := s.repos.Progress.Find(ctx, userID, level.ID)
	if err != nil {
		return fmt.Errorf("failed to load progress: %w", err)
	}
	if progress == nil {
		return nil
	}

	s.machine.Reset(progress)
	return s.repos.Progress.Save(ctx, progress)
}

// GetLevelsForCourse lists a course's levels with the caller's progress.
// The first level's record is created unlocked if missing.
func (s *ProgressService) GetLevelsForCourse(ctx context.Context, userID bson.ObjectID, rawCourseID string) ([]models.LevelWithProgress, error) {
	courseID, err := parseID(rawCourseID, "course")
	if err != nil {
		return nil, err
	}
	if _, err := requireCourse(ctx, s.repos.Courses, courseID); err != nil {
		return nil, err
	}

	levels, err := s.repos.Levels.GetByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load levels: %w", err)
	}
	if len(levels) > 0 {
		err = s.repos.Tx.WithTransaction(ctx, func(ctx context.Context) error {
			_, _, err := s.ensureFirstLevel(ctx, userID, courseID)
			return err
		})
		if err != nil {
			return nil, err
		}
	}

	records, err := s.repos.Progress.ListByCourse(ctx, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load course progress: %w", err)
	}
	byLevel := make(map[bson.ObjectID]*models.UserProgress, len(records))
	for _, record := range records {
		byLevel[record.LevelID] = record
	}

	result := make([]models.LevelWithProgress, 0, len(levels))
	for _, level := range levels {
		result = append(result, withProgress(level, byLevel[level.ID]))
	}
	return result, nil
}

func (s *ProgressService) GetLevel(ctx context.Context, userID bson.ObjectID, rawLevelID string) (*models.LevelWithProgress, error) {
	levelID, err := parseID(rawLevelID, "level")
	if err != nil {
		return nil, err
	}
	level, err := requireLevel(ctx, s.repos.Levels, levelID)
	if err != nil {
		return nil, err
	}
	progress, err := s.repos.Progress.Find(ctx, userID, level.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	merged := withProgress(level, progress)
	return &merged, nil
}

func withProgress(level *models.Level, progress *models.UserProgress) models.LevelWithProgress {
	merged := models.LevelWithProgress{Level: *level}
	if progress != nil {
		merged.IsUnlocked = progress.Unlocked
		merged.IsCompleted = progress.Completed
		merged.CorrectAnswers = progress.CorrectAnswers
		merged.TotalAnswers = progress.TotalAnswers
	}
	return merged
}
