package service

import (
	"context"
	"errors"
	"testing"

	"learning-service/internal/apperror"
	"learning-service/internal/event"
	"learning-service/internal/models"
	"learning-service/internal/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestSubmitAnswer_Correct(t *testing.T) {
	f := newFixture(t, 10)
	q := f.questions[0][0]

	result := f.answer(q, true)

	if !result.IsCorrect || result.Explanation != "Because." {
		t.Errorf("Unexpected result %+v", result)
	}
	if result.UserStats.Points != 1000 || result.UserStats.Streak != 1 {
		t.Errorf("Unexpected stats %+v", result.UserStats)
	}
	if result.UserStats.CorrectByCategory[q.Category] != 1 {
		t.Errorf("Expected 1 correct %s answer, got %d", q.Category, result.UserStats.CorrectByCategory[q.Category])
	}
	if result.UserStats.TotalCorrect != 1 || result.UserStats.TotalWrong != 0 {
		t.Errorf("Unexpected totals %+v", result.UserStats)
	}
	lp := result.LevelProgress
	if lp.CorrectAnswers != 1 || lp.TotalAnswers != 1 || lp.QuestionsPassedCount != 1 || lp.TotalQuestions != 10 || lp.Completed {
		t.Errorf("Unexpected level progress %+v", lp)
	}
	if f.state().Points != 1000 {
		t.Error("Expected state to be persisted")
	}
	if f.publisher.count(event.EventTypeAnswerSubmitted) != 1 {
		t.Error("Expected one answer event")
	}
}

func TestSubmitAnswer_WrongAnswerClampsAtZero(t *testing.T) {
	f := newFixture(t, 10)
	state := models.NewLearningState(f.userID)
	state.Points = 200
	state.Streak = 4
	if err := f.repos.States.Save(f.ctx, state); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	result := f.answer(f.questions[0][1], false)

	if result.IsCorrect {
		t.Error("Expected wrong answer")
	}
	if result.UserStats.Points != 0 {
		t.Errorf("Expected points clamped to 0, got %d", result.UserStats.Points)
	}
	if result.UserStats.Streak != 0 {
		t.Errorf("Expected streak reset, got %d", result.UserStats.Streak)
	}
	if result.UserStats.WrongByCategory[models.CategoryGrammar] != 1 {
		t.Errorf("Expected a wrong grammar tally, got %v", result.UserStats.WrongByCategory)
	}
	if result.UserStats.TotalWrong != 1 {
		t.Errorf("Expected 1 wrong answer in total, got %d", result.UserStats.TotalWrong)
	}
	if result.LevelProgress.TotalAnswers != 1 || result.LevelProgress.CorrectAnswers != 0 {
		t.Errorf("Unexpected level progress %+v", result.LevelProgress)
	}
}

func TestSubmitAnswer_Rejections(t *testing.T) {
	f := newFixture(t, 2)
	q := f.questions[0][0]
	foreign := f.questions[0][1].Options[0].ID.Hex()

	testCases := []struct {
		name       string
		questionID string
		optionID   string
		wantKind   apperror.Kind
	}{
		{"malformed question id", "not-an-id", q.Options[0].ID.Hex(), apperror.KindInvalidInput},
		{"unknown question", bson.NewObjectID().Hex(), q.Options[0].ID.Hex(), apperror.KindNotFound},
		{"malformed option id", q.ID.Hex(), "xyz", apperror.KindInvalidInput},
		{"option from another question", q.ID.Hex(), foreign, apperror.KindInvalidInput},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.learning.SubmitAnswer(f.ctx, f.userID, tc.questionID, tc.optionID)
			if !apperror.Is(err, tc.wantKind) {
				t.Errorf("Expected %s, got %v", tc.wantKind, err)
			}
		})
	}

	if state := f.state(); state != nil {
		t.Errorf("Expected no state to be written, got %+v", state)
	}
	if progress := f.progressFor(f.levels[0]); progress != nil {
		t.Errorf("Expected no progress to be written, got %+v", progress)
	}
}

func TestSubmitAnswer_CompletesLevelAndUnlocksNext(t *testing.T) {
	f := newFixture(t, 10, 5)

	for i := 0; i < 6; i++ {
		result := f.answer(f.questions[0][i], true)
		if result.LevelProgress.Completed {
			t.Fatalf("Level completed after only %d passes", i+1)
		}
	}

	status, err := f.progress.GetLevelStatus(f.ctx, f.userID, f.levels[0].ID.Hex())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if status.NextLevel == nil || status.NextLevel.IsUnlocked {
		t.Fatalf("Expected next level to be locked, got %+v", status.NextLevel)
	}

	result := f.answer(f.questions[0][6], true)
	if !result.LevelProgress.Completed || result.LevelProgress.Threshold != 7 {
		t.Errorf("Expected completion at threshold 7, got %+v", result.LevelProgress)
	}

	next := f.progressFor(f.levels[1])
	if next == nil || !next.Unlocked || next.Completed {
		t.Errorf("Expected next level unlocked and incomplete, got %+v", next)
	}
	if f.publisher.count(event.EventTypeLevelCompleted) != 1 || f.publisher.count(event.EventTypeLevelUnlocked) != 1 {
		t.Errorf("Expected one completion and one unlock event, got %v", f.publisher.types)
	}

	// Further answers keep counting but never re-complete.
	f.answer(f.questions[0][7], false)
	if f.publisher.count(event.EventTypeLevelCompleted) != 1 {
		t.Error("Completion must only be announced once")
	}
	if !f.progressFor(f.levels[0]).Completed {
		t.Error("Completed must never revert")
	}
}

func TestSubmitAnswer_RepeatedQuestionNotDoubleCounted(t *testing.T) {
	f := newFixture(t, 10)
	q := f.questions[0][0]

	f.answer(q, true)
	result := f.answer(q, true)

	if result.LevelProgress.QuestionsPassedCount != 1 || result.LevelProgress.CorrectAnswers != 1 {
		t.Errorf("Expected the repeat to be ignored, got %+v", result.LevelProgress)
	}
	if result.LevelProgress.TotalAnswers != 2 {
		t.Errorf("Expected 2 total answers, got %d", result.LevelProgress.TotalAnswers)
	}
	// Scoring still rewards every correct answer.
	if result.UserStats.Points != 2000 {
		t.Errorf("Expected 2000 points, got %d", result.UserStats.Points)
	}
}

func TestSubmitAnswer_UnlocksFirstLevelOnAnyProgress(t *testing.T) {
	f := newFixture(t, 3, 3)

	f.answer(f.questions[1][0], true)

	first := f.progressFor(f.levels[0])
	if first == nil || !first.Unlocked {
		t.Errorf("Expected first level to be unlocked, got %+v", first)
	}
	if first != nil && first.TotalAnswers != 0 {
		t.Errorf("Expected no answers on the first level, got %d", first.TotalAnswers)
	}
}

func TestSubmitAnswer_LockedLevelUnlocksBeforeCompleting(t *testing.T) {
	f := newFixture(t, 3, 2)

	read, err := f.progress.GetLevelProgress(f.ctx, f.userID, f.levels[1].ID.Hex())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if read.Unlocked {
		t.Fatalf("Expected level 2 to start locked, got %+v", read)
	}

	first := f.answer(f.questions[1][0], true)
	if first.LevelProgress.Completed {
		t.Fatalf("Expected level 2 incomplete after one answer, got %+v", first.LevelProgress)
	}
	progress := f.progressFor(f.levels[1])
	if !progress.Unlocked {
		t.Errorf("Expected an answer to unlock its level, got %+v", progress)
	}

	f.answer(f.questions[1][1], true)
	progress = f.progressFor(f.levels[1])
	if !progress.Completed || !progress.Unlocked {
		t.Errorf("Expected level 2 unlocked and completed, got %+v", progress)
	}
	if f.publisher.count(event.EventTypeLevelUnlocked) != 1 || f.publisher.count(event.EventTypeLevelCompleted) != 1 {
		t.Errorf("Expected one unlock and one completion event, got %v", f.publisher.types)
	}
}

func TestSubmitAnswer_AwardsTrophyAndMilestone(t *testing.T) {
	f := newFixture(t, 12)

	var result *models.AnswerResult
	for i := 0; i < 9; i++ {
		result = f.answer(f.questions[0][i], true)
		if len(result.NewAchievements) != 0 {
			t.Fatalf("Unexpected achievement after %d answers: %+v", i+1, result.NewAchievements)
		}
	}

	result = f.answer(f.questions[0][9], true)

	if result.UserStats.Trophies != 1 {
		t.Errorf("Expected 1 trophy, got %d", result.UserStats.Trophies)
	}
	if len(result.NewAchievements) != 2 {
		t.Fatalf("Expected a trophy and the 10,000 milestone, got %+v", result.NewAchievements)
	}
	if result.NewAchievements[0].Description != "Trophy #1 for answering 10 questions correctly!" {
		t.Errorf("Unexpected trophy %q", result.NewAchievements[0].Description)
	}
	if result.NewAchievements[1].Description != "Reached 10,000 points!" {
		t.Errorf("Unexpected milestone %q", result.NewAchievements[1].Description)
	}

	result = f.answer(f.questions[0][10], true)
	if len(result.NewAchievements) != 0 {
		t.Errorf("Expected no duplicate achievements, got %+v", result.NewAchievements)
	}
	if f.publisher.count(event.EventTypeAchievementAwarded) != 2 {
		t.Errorf("Expected 2 achievement events, got %d", f.publisher.count(event.EventTypeAchievementAwarded))
	}
}

type failingProgress struct {
	ProgressStore
}

func (failingProgress) Save(context.Context, *models.UserProgress) error {
	return errors.New("write conflict")
}

func TestSubmitAnswer_RollsBackOnProgressFailure(t *testing.T) {
	store := repository.NewMemoryStore()
	repos := NewMemoryRepositories(store)
	repos.Progress = failingProgress{store.Progress()}
	f := buildFixture(t, store, repos, []int{3})
	q := f.questions[0][0]

	_, err := f.learning.SubmitAnswer(f.ctx, f.userID, q.ID.Hex(), q.Options[0].ID.Hex())
	if err == nil {
		t.Fatal("Expected submission to fail")
	}

	if state := f.state(); state != nil {
		t.Errorf("Expected scoring to be rolled back, got %+v", state)
	}
	if f.publisher.count(event.EventTypeAnswerSubmitted) != 0 {
		t.Error("Expected no events for a failed submission")
	}
}

func TestGetQuestionBatch(t *testing.T) {
	f := newFixture(t, 20)
	state := models.NewLearningState(f.userID)
	state.WrongByCategory[models.CategoryVocabulary] = 3
	state.WrongByCategory[models.CategoryGrammar] = 1
	if err := f.repos.States.Save(f.ctx, state); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	result, err := f.learning.GetQuestionBatch(f.ctx, f.userID, f.course.ID.Hex(), 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(result.Questions) != 10 {
		t.Fatalf("Expected default batch of 10, got %d", len(result.Questions))
	}
	if result.Mix[models.CategoryVocabulary] != 8 || result.Mix[models.CategoryGrammar] != 2 {
		t.Errorf("Expected 8/2 mix, got %v", result.Mix)
	}
}

func TestGetQuestionBatch_Edges(t *testing.T) {
	f := newFixture(t, 4)

	result, err := f.learning.GetQuestionBatch(f.ctx, f.userID, "bad-id", 10)
	if err != nil || len(result.Questions) != 0 {
		t.Errorf("Expected empty batch for malformed id, got %v, %v", result, err)
	}

	_, err = f.learning.GetQuestionBatch(f.ctx, f.userID, bson.NewObjectID().Hex(), 10)
	if !apperror.Is(err, apperror.KindNotFound) {
		t.Errorf("Expected not found for unknown course, got %v", err)
	}

	result, err = f.learning.GetQuestionBatch(f.ctx, f.userID, f.course.ID.Hex(), 1000)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(result.Questions) != 4 {
		t.Errorf("Expected all 4 questions of a small course, got %d", len(result.Questions))
	}
	if total := result.Mix[models.CategoryVocabulary] + result.Mix[models.CategoryGrammar]; total != 50 {
		t.Errorf("Expected the request to be capped at 50, got %d", total)
	}
}
