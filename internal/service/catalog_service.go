package service

import (
	"context"
	"fmt"
	"log"

	"learning-service/internal/apperror"
	"learning-service/internal/models"
)

// CatalogService serves course reads and the authoring path used by the
// seed tool.
type CatalogService struct {
	repos *Repositories
}

func NewCatalogService(repos *Repositories) *CatalogService {
	return &CatalogService{repos: repos}
}

func (s *CatalogService) ListCourses(ctx context.Context) ([]*models.Course, error) {
	courses, err := s.repos.Courses.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

func (s *CatalogService) GetCourse(ctx context.Context, rawID string) (*models.Course, error) {
	id, err := parseID(rawID, "course")
	if err != nil {
		return nil, err
	}
	return requireCourse(ctx, s.repos.Courses, id)
}

// EnsureCourse returns the course with the same name, creating it if needed.
func (s *CatalogService) EnsureCourse(ctx context.Context, course *models.Course) (*models.Course, bool, error) {
	existing, err := s.repos.Courses.GetByName(ctx, course.Name)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up course: %w", err)
	}
	if existing != nil {
		return existing, false, nil
	}
	created, err := s.repos.Courses.Create(ctx, course)
	if err != nil {
		return nil, false, err
	}
	log.Printf("Created course %q (%s)", created.Name, created.ID.Hex())
	return created, true, nil
}

// CreateLevel rejects number or order collisions within the course.
func (s *CatalogService) CreateLevel(ctx context.Context, level *models.Level) (*models.Level, error) {
	if _, err := requireCourse(ctx, s.repos.Courses, level.CourseID); err != nil {
		return nil, err
	}
	existing, err := s.repos.Levels.GetByCourse(ctx, level.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load course levels: %w", err)
	}
	for _, other := range existing {
		if other.Number == level.Number {
			return nil, apperror.Conflict("Level %d already exists for this course", level.Number)
		}
		if other.Order == level.Order {
			return nil, apperror.Conflict("A level with order %d already exists for this course", level.Order)
		}
	}
	return s.repos.Levels.Create(ctx, level)
}

// CreateQuestion checks the question against its level before storing it.
func (s *CatalogService) CreateQuestion(ctx context.Context, question *models.Question) (*models.Question, error) {
	if err := question.Validate(); err != nil {
		return nil, err
	}
	level, err := requireLevel(ctx, s.repos.Levels, question.LevelID)
	if err != nil {
		return nil, err
	}
	if question.CourseID.IsZero() {
		question.CourseID = level.CourseID
	}
	if question.CourseID != level.CourseID {
		return nil, apperror.InvalidInput("Question course does not match its level")
	}
	return s.repos.Questions.Create(ctx, question)
}

// EnsureLevel returns the course level with the same number, creating it if
// needed.
func (s *CatalogService) EnsureLevel(ctx context.Context, level *models.Level) (*models.Level, bool, error) {
	existing, err := s.repos.Levels.GetByCourse(ctx, level.CourseID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load course levels: %w", err)
	}
	for _, other := range existing {
		if other.Number == level.Number {
			return other, false, nil
		}
	}
	created, err := s.CreateLevel(ctx, level)
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}
