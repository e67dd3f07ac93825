package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"learning-service/internal/achievement"
	"learning-service/internal/event"
	"learning-service/internal/middleware"
	"learning-service/internal/models"
	"learning-service/internal/progression"
	"learning-service/internal/repository"
	"learning-service/internal/scoring"
	"learning-service/internal/selection"
	"learning-service/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	router   *gin.Engine
	userID   bson.ObjectID
	course   *models.Course
	levels   []*models.Level
	question *models.Question
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	store := repository.NewMemoryStore()
	repos := service.NewMemoryRepositories(store)
	machine := progression.NewMachine(progression.DefaultCompletionRatio)
	catalog := service.NewCatalogService(repos)
	progress := service.NewProgressService(repos, machine)
	learning := service.NewLearningService(
		repos,
		selection.NewSelector(repos.Questions, rand.NewSource(7)),
		scoring.NewEngine(nil),
		achievement.NewEvaluator(nil, repos.Achievements),
		progress,
		machine,
		event.NewDisabledPublisher(),
		service.BatchConfig{DefaultSize: 10, MaxSize: 50},
	)

	srv := &testServer{userID: bson.NewObjectID()}

	course, _, err := catalog.EnsureCourse(ctx, &models.Course{Name: "Business English", Description: "Work", Level: models.CourseIntermediate})
	if err != nil {
		t.Fatalf("Failed to create course: %v", err)
	}
	srv.course = course
	for i := 1; i <= 2; i++ {
		level, err := catalog.CreateLevel(ctx, &models.Level{CourseID: course.ID, Name: "Level", Number: i, Order: i})
		if err != nil {
			t.Fatalf("Failed to create level: %v", err)
		}
		srv.levels = append(srv.levels, level)
	}
	srv.question, err = catalog.CreateQuestion(ctx, &models.Question{
		Text:        "Pick the correct word",
		Category:    models.CategoryVocabulary,
		Difficulty:  20,
		LevelID:     srv.levels[0].ID,
		Explanation: "Meeting is a noun.",
		Options:     []models.Option{{Text: "meeting", IsCorrect: true}, {Text: "meet"}},
	})
	if err != nil {
		t.Fatalf("Failed to create question: %v", err)
	}

	router := gin.New()
	RegisterRoutes(router, middleware.NewAuthMiddleware("", nil, true), &Handlers{
		Courses:   NewCourseHandler(catalog),
		Questions: NewQuestionHandler(learning),
		Progress:  NewProgressHandler(progress),
		Users:     NewUserHandler(service.NewUserService(repos)),
	})
	srv.router = router
	return srv
}

func (s *testServer) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.UserHeader, s.userID.Hex())
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp apiResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
	return w, resp
}

func TestRoutes_StatusCodes(t *testing.T) {
	srv := newTestServer(t)
	level := srv.levels[0].ID.Hex()
	missing := bson.NewObjectID().Hex()

	testCases := []struct {
		name       string
		method     string
		path       string
		body       any
		wantStatus int
	}{
		{"list courses", http.MethodGet, "/api/courses", nil, http.StatusOK},
		{"get course", http.MethodGet, "/api/courses/" + srv.course.ID.Hex(), nil, http.StatusOK},
		{"unknown course", http.MethodGet, "/api/courses/" + missing, nil, http.StatusNotFound},
		{"malformed course", http.MethodGet, "/api/courses/abc", nil, http.StatusBadRequest},
		{"levels for course", http.MethodGet, "/api/levels/course/" + srv.course.ID.Hex(), nil, http.StatusOK},
		{"get level", http.MethodGet, "/api/levels/" + level, nil, http.StatusOK},
		{"question batch", http.MethodGet, "/api/questions/course/" + srv.course.ID.Hex() + "?count=5", nil, http.StatusOK},
		{"bad count", http.MethodGet, "/api/questions/course/" + srv.course.ID.Hex() + "?count=-1", nil, http.StatusBadRequest},
		{"answer without option", http.MethodPost, "/api/questions/" + srv.question.ID.Hex() + "/answer", map[string]string{}, http.StatusBadRequest},
		{"answer with foreign option", http.MethodPost, "/api/questions/" + srv.question.ID.Hex() + "/answer", map[string]string{"option_id": missing}, http.StatusBadRequest},
		{"answer unknown question", http.MethodPost, "/api/questions/" + missing + "/answer", map[string]string{"option_id": missing}, http.StatusNotFound},
		{"status without progress", http.MethodGet, "/api/progress/level/" + srv.levels[1].ID.Hex() + "/status", nil, http.StatusNotFound},
		{"level progress", http.MethodGet, "/api/progress/level/" + level, nil, http.StatusOK},
		{"reset", http.MethodPost, "/api/progress/level/" + level + "/reset", nil, http.StatusOK},
		{"reset unknown level", http.MethodPost, "/api/progress/level/" + missing + "/reset", nil, http.StatusNotFound},
		{"profile", http.MethodGet, "/api/users/profile", nil, http.StatusOK},
		{"achievements", http.MethodGet, "/api/users/achievements", nil, http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w, resp := srv.do(t, tc.method, tc.path, tc.body)
			if w.Code != tc.wantStatus {
				t.Errorf("Expected status %d, got %d: %s", tc.wantStatus, w.Code, w.Body.String())
			}
			if resp.Success != (tc.wantStatus == http.StatusOK) {
				t.Errorf("Unexpected success flag in %s", w.Body.String())
			}
		})
	}
}

func TestSubmitAnswer_ResponseShape(t *testing.T) {
	srv := newTestServer(t)

	w, resp := srv.do(t, http.MethodPost, "/api/questions/"+srv.question.ID.Hex()+"/answer",
		map[string]string{"option_id": srv.question.Options[0].ID.Hex()})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var result models.AnswerResult
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		t.Fatalf("Failed to decode result: %v", err)
	}
	if !result.IsCorrect || result.Explanation != "Meeting is a noun." {
		t.Errorf("Unexpected result %+v", result)
	}
	if result.UserStats.Points != 1000 {
		t.Errorf("Expected 1000 points, got %d", result.UserStats.Points)
	}
	// One question in the level: the first correct answer completes it.
	if !result.LevelProgress.Completed || result.LevelProgress.TotalQuestions != 1 {
		t.Errorf("Unexpected level progress %+v", result.LevelProgress)
	}

	_, resp = srv.do(t, http.MethodGet, "/api/progress/level/"+srv.levels[0].ID.Hex()+"/status", nil)
	var status models.LevelStatus
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		t.Fatalf("Failed to decode status: %v", err)
	}
	if !status.IsCompleted || status.NextLevel == nil || !status.NextLevel.IsUnlocked {
		t.Errorf("Expected completed level with unlocked next level, got %+v", status)
	}
}

func TestQuestionBatch_IsSanitized(t *testing.T) {
	srv := newTestServer(t)

	w, _ := srv.do(t, http.MethodGet, "/api/questions/course/"+srv.course.ID.Hex(), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if bytes.Contains(w.Body.Bytes(), []byte("is_correct")) {
		t.Errorf("Batch must not expose correctness: %s", w.Body.String())
	}
}

func TestRoutes_RequireIdentity(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/courses", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without identity, got %d", w.Code)
	}
}
