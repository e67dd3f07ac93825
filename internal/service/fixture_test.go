package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"learning-service/internal/achievement"
	"learning-service/internal/event"
	"learning-service/internal/models"
	"learning-service/internal/progression"
	"learning-service/internal/repository"
	"learning-service/internal/scoring"
	"learning-service/internal/selection"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type recordingPublisher struct {
	mu    sync.Mutex
	types []string
}

func (p *recordingPublisher) record(eventType string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.types = append(p.types, eventType)
	return nil
}

func (p *recordingPublisher) PublishAnswerEvent(_ context.Context, e *event.AnswerEvent) error {
	return p.record(e.EventType)
}

func (p *recordingPublisher) PublishAchievementEvent(_ context.Context, e *event.AchievementEvent) error {
	return p.record(e.EventType)
}

func (p *recordingPublisher) PublishLevelEvent(_ context.Context, e *event.LevelEvent) error {
	return p.record(e.EventType)
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) count(eventType string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, t := range p.types {
		if t == eventType {
			n++
		}
	}
	return n
}

type fixture struct {
	t         *testing.T
	ctx       context.Context
	store     *repository.MemoryStore
	repos     *Repositories
	catalog   *CatalogService
	progress  *ProgressService
	learning  *LearningService
	users     *UserService
	publisher *recordingPublisher
	userID    bson.ObjectID
	course    *models.Course
	levels    []*models.Level
	questions [][]*models.Question
}

// newFixture builds a course whose levels hold the given number of
// questions, alternating vocabulary and grammar. Option 0 is always correct.
func newFixture(t *testing.T, questionsPerLevel ...int) *fixture {
	t.Helper()
	store := repository.NewMemoryStore()
	repos := NewMemoryRepositories(store)
	return buildFixture(t, store, repos, questionsPerLevel)
}

func buildFixture(t *testing.T, store *repository.MemoryStore, repos *Repositories, questionsPerLevel []int) *fixture {
	t.Helper()
	machine := progression.NewMachine(progression.DefaultCompletionRatio)
	publisher := &recordingPublisher{}
	progress := NewProgressService(repos, machine)

	f := &fixture{
		t:         t,
		ctx:       context.Background(),
		store:     store,
		repos:     repos,
		catalog:   NewCatalogService(repos),
		progress:  progress,
		publisher: publisher,
		users:     NewUserService(repos),
		userID:    bson.NewObjectID(),
	}
	f.learning = NewLearningService(
		repos,
		selection.NewSelector(repos.Questions, rand.NewSource(42)),
		scoring.NewEngine(scoring.DefaultConfig()),
		achievement.NewEvaluator(achievement.DefaultConfig(), repos.Achievements),
		progress,
		machine,
		publisher,
		BatchConfig{DefaultSize: 10, MaxSize: 50},
	)

	course, _, err := f.catalog.EnsureCourse(f.ctx, &models.Course{
		Name:        "General English",
		Description: "Everyday English",
		Level:       models.CourseBeginner,
	})
	if err != nil {
		t.Fatalf("Failed to create course: %v", err)
	}
	f.course = course

	for i, n := range questionsPerLevel {
		level, err := f.catalog.CreateLevel(f.ctx, &models.Level{
			CourseID: course.ID,
			Number:   i + 1,
			Order:    i + 1,
			Name:     fmt.Sprintf("Level %d", i+1),
		})
		if err != nil {
			t.Fatalf("Failed to create level: %v", err)
		}
		f.levels = append(f.levels, level)

		var questions []*models.Question
		for j := 0; j < n; j++ {
			category := models.CategoryVocabulary
			if j%2 == 1 {
				category = models.CategoryGrammar
			}
			q, err := f.catalog.CreateQuestion(f.ctx, &models.Question{
				Text:        fmt.Sprintf("Level %d question %d", i+1, j+1),
				Category:    category,
				Difficulty:  10,
				LevelID:     level.ID,
				Explanation: "Because.",
				Options: []models.Option{
					{Text: "right", IsCorrect: true},
					{Text: "wrong"},
				},
			})
			if err != nil {
				t.Fatalf("Failed to create question: %v", err)
			}
			questions = append(questions, q)
		}
		f.questions = append(f.questions, questions)
	}
	return f
}

func (f *fixture) answer(q *models.Question, correct bool) *models.AnswerResult {
	f.t.Helper()
	option := q.Options[1].ID.Hex()
	if correct {
		option = q.Options[0].ID.Hex()
	}
	result, err := f.learning.SubmitAnswer(f.ctx, f.userID, q.ID.Hex(), option)
	if err != nil {
		f.t.Fatalf("SubmitAnswer failed: %v", err)
	}
	return result
}

func (f *fixture) state() *models.LearningState {
	f.t.Helper()
	state, err := f.repos.States.Get(f.ctx, f.userID)
	if err != nil {
		f.t.Fatalf("Failed to load state: %v", err)
	}
	return state
}

func (f *fixture) progressFor(level *models.Level) *models.UserProgress {
	f.t.Helper()
	progress, err := f.repos.Progress.Find(f.ctx, f.userID, level.ID)
	if err != nil {
		f.t.Fatalf("Failed to load progress: %v", err)
	}
	return progress
}
