package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"learning-service/internal/apperror"
	"learning-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// MemoryStore backs every repository with process memory. It enforces the
// same unique keys as the Mongo indexes and rolls back failed transactions.
// Used by tests and by the seed tool's dry-run mode.
type MemoryStore struct {
	mu           sync.Mutex
	courses      map[bson.ObjectID]*models.Course
	levels       map[bson.ObjectID]*models.Level
	questions    map[bson.ObjectID]*models.Question
	states       map[bson.ObjectID]*models.LearningState
	progress     map[bson.ObjectID]*models.UserProgress
	achievements []models.Achievement
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		courses:   make(map[bson.ObjectID]*models.Course),
		levels:    make(map[bson.ObjectID]*models.Level),
		questions: make(map[bson.ObjectID]*models.Question),
		states:    make(map[bson.ObjectID]*models.LearningState),
		progress:  make(map[bson.ObjectID]*models.UserProgress),
	}
}

func (s *MemoryStore) Courses() *MemoryCourses { return &MemoryCourses{s} }
func (s *MemoryStore) Levels() *MemoryLevels { return &MemoryLevels{s} }
func (s *MemoryStore) Questions() *MemoryQuestions { return &MemoryQuestions{s} }
func (s *MemoryStore) LearningStates() *MemoryStates { return &MemoryStates{s} }
func (s *MemoryStore) Progress() *MemoryProgress { return &MemoryProgress{s} }
func (s *MemoryStore) Achievements() *MemoryAchievements { return &MemoryAchievements{s} }

// WithTransaction snapshots the mutable user collections and restores them
// if fn fails. Catalog collections are not part of the snapshot.
func (s *MemoryStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	states := make(map[bson.ObjectID]*models.LearningState, len(s.states))
	for k, v := range s.states {
		states[k] = v.Clone()
	}
	progress := make(map[bson.ObjectID]*models.UserProgress, len(s.progress))
	for k, v := range s.progress {
		progress[k] = v.Clone()
	}
	achievements := append([]models.Achievement(nil), s.achievements...)
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.states = states
		s.progress = progress
		s.achievements = achievements
		s.mu.Unlock()
		return err
	}
	return nil
}

type MemoryCourses struct{ s *MemoryStore }

func (r *MemoryCourses) Create(_ context.Context, course *models.Course) (*models.Course, error) {
	if err := course.Validate(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.courses {
		if existing.Name == course.Name {
			return nil, apperror.Conflict("A course with this name already exists")
		}
	}
	if course.ID.IsZero() {
		course.ID = bson.NewObjectID()
	}
	if course.CreatedAt.IsZero() {
		course.CreatedAt = time.Now()
	}
	stored := *course
	r.s.courses[course.ID] = &stored
	return course, nil
}

func (r *MemoryCourses) GetByID(_ context.Context, id bson.ObjectID) (*models.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if course, ok := r.s.courses[id]; ok {
		out := *course
		return &out, nil
	}
	return nil, nil
}

func (r *MemoryCourses) GetByName(_ context.Context, name string) (*models.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, course := range r.s.courses {
		if course.Name == name {
			out := *course
			return &out, nil
		}
	}
	return nil, nil
}

func (r *MemoryCourses) GetAll(_ context.Context) ([]*models.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	courses := make([]*models.Course, 0, len(r.s.courses))
	for _, course := range r.s.courses {
		out := *course
		courses = append(courses, &out)
	}
	sort.Slice(courses, func(i, j int) bool {
		return courses[i].CreatedAt.Before(courses[j].CreatedAt)
	})
	return courses, nil
}

type MemoryLevels struct{ s *MemoryStore }

func (r *MemoryLevels) Create(_ context.Context, level *models.Level) (*models.Level, error) {
	if err := level.Validate(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.levels {
		if existing.CourseID != level.CourseID {
			continue
		}
		if existing.Order == level.Order || existing.Number == level.Number {
			return nil, apperror.Conflict("Level number and order must be unique within a course")
		}
	}
	if level.ID.IsZero() {
		level.ID = bson.NewObjectID()
	}
	stored := *level
	r.s.levels[level.ID] = &stored
	return level, nil
}

func (r *MemoryLevels) GetByID(_ context.Context, id bson.ObjectID) (*models.Level, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if level, ok := r.s.levels[id]; ok {
		out := *level
		return &out, nil
	}
	return nil, nil
}

func (r *MemoryLevels) GetByCourse(_ context.Context, courseID bson.ObjectID) ([]*models.Level, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.byCourse(courseID), nil
}

func (r *MemoryLevels) GetFirstLevel(_ context.Context, courseID bson.ObjectID) (*models.Level, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	levels := r.byCourse(courseID)
	if len(levels) == 0 {
		return nil, nil
	}
	return levels[0], nil
}

func (r *MemoryLevels) GetNextLevel(_ context.Context, courseID bson.ObjectID, order int) (*models.Level, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, level := range r.byCourse(courseID) {
		if level.Order == order+1 {
			return level, nil
		}
	}
	return nil, nil
}

// byCourse expects the store lock to be held.
func (r *MemoryLevels) byCourse(courseID bson.ObjectID) []*models.Level {
	levels := []*models.Level{}
	for _, level := range r.s.levels {
		if level.CourseID == courseID {
			out := *level
			levels = append(levels, &out)
		}
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].Order < levels[j].Order })
	return levels
}

type MemoryQuestions struct{ s *MemoryStore }

func (r *MemoryQuestions) Create(_ context.Context, question *models.Question) (*models.Question, error) {
	if err := question.Validate(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if question.ID.IsZero() {
		question.ID = bson.NewObjectID()
	}
	question.EnsureOptionIDs()
	if question.CreatedAt.IsZero() {
		question.CreatedAt = time.Now()
	}
	stored := *question
	stored.Options = append([]models.Option(nil), question.Options...)
	r.s.questions[question.ID] = &stored
	return question, nil
}

func (r *MemoryQuestions) GetByID(_ context.Context, id bson.ObjectID) (*models.Question, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if question, ok := r.s.questions[id]; ok {
		out := *question
		out.Options = append([]models.Option(nil), question.Options...)
		return &out, nil
	}
	return nil, nil
}

// FindByCourseAndCategory returns matches in creation order, capped at limit.
func (r *MemoryQuestions) FindByCourseAndCategory(_ context.Context, courseID bson.ObjectID, category models.Category, limit int) ([]models.Question, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	found := []models.Question{}
	for _, question := range r.s.questions {
		if question.CourseID == courseID && question.Category == category {
			out := *question
			out.Options = append([]models.Option(nil), question.Options...)
			found = append(found, out)
		}
	}
	sort.Slice(found, func(i, j int) bool {
		return found[i].ID.Hex() < found[j].ID.Hex()
	})
	if len(found) > limit {
		found = found[:limit]
	}
	return found, nil
}

func (r *MemoryQuestions) CountByLevel(_ context.Context, levelID bson.ObjectID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	count := 0
	for _, question := range r.s.questions {
		if question.LevelID == levelID {
			count++
		}
	}
	return count, nil
}

type MemoryStates struct{ s *MemoryStore }

func (r *MemoryStates) Get(_ context.Context, userID bson.ObjectID) (*models.LearningState, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if state, ok := r.s.states[userID]; ok {
		return state.Clone(), nil
	}
	return nil, nil
}

func (r *MemoryStates) Save(_ context.Context, state *models.LearningState) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	state.UpdatedAt = time.Now()
	r.s.states[state.UserID] = state.Clone()
	return nil
}

type MemoryProgress struct{ s *MemoryStore }

func (r *MemoryProgress) Create(_ context.Context, progress *models.UserProgress) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.progress {
		if existing.UserID == progress.UserID && existing.CourseID == progress.CourseID && existing.LevelID == progress.LevelID {
			return apperror.Conflict("Progress already exists for this level")
		}
	}
	if progress.ID.IsZero() {
		progress.ID = bson.NewObjectID()
	}
	r.s.progress[progress.ID] = progress.Clone()
	return nil
}

func (r *MemoryProgress) Find(_ context.Context, userID, levelID bson.ObjectID) (*models.UserProgress, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, record := range r.s.progress {
		if record.UserID == userID && record.LevelID == levelID {
			return record.Clone(), nil
		}
	}
	return nil, nil
}

func (r *MemoryProgress) ListByCourse(_ context.Context, userID, courseID bson.ObjectID) ([]*models.UserProgress, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	records := []*models.UserProgress{}
	for _, record := range r.s.progress {
		if record.UserID == userID && record.CourseID == courseID {
			records = append(records, record.Clone())
		}
	}
	return records, nil
}

func (r *MemoryProgress) Save(_ context.Context, progress *models.UserProgress) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.progress[progress.ID]; !ok {
		return apperror.NotFound("Progress not found")
	}
	r.s.progress[progress.ID] = progress.Clone()
	return nil
}

type MemoryAchievements struct{ s *MemoryStore }

func (r *MemoryAchievements) HasMilestone(_ context.Context, userID bson.ObjectID, milestone int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.achievements {
		if a.UserID == userID && a.Kind == models.AchievementPointMilestone && a.Points == milestone {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryAchievements) Append(_ context.Context, achievement *models.Achievement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.achievements {
		if a.UserID == achievement.UserID && a.Kind == achievement.Kind && a.Description == achievement.Description {
			return apperror.Conflict("Achievement already awarded")
		}
	}
	if achievement.ID.IsZero() {
		achievement.ID = bson.NewObjectID()
	}
	r.s.achievements = append(r.s.achievements, *achievement)
	return nil
}

func (r *MemoryAchievements) ListByUser(_ context.Context, userID bson.ObjectID) ([]models.Achievement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Achievement{}
	for i := len(r.s.achievements) - 1; i >= 0; i-- {
		if r.s.achievements[i].UserID == userID {
			out = append(out, r.s.achievements[i])
		}
	}
	return out, nil
}
