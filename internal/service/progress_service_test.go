package service

import (
	"testing"

	"learning-service/internal/apperror"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestGetLevelProgress_CreatesLazily(t *testing.T) {
	f := newFixture(t, 3, 3)

	second, err := f.progress.GetLevelProgress(f.ctx, f.userID, f.levels[1].ID.Hex())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if second.Unlocked {
		t.Error("Expected a later level to start locked")
	}

	first := f.progressFor(f.levels[0])
	if first == nil || !first.Unlocked {
		t.Errorf("Expected first level record to be created unlocked, got %+v", first)
	}

	again, err := f.progress.GetLevelProgress(f.ctx, f.userID, f.levels[0].ID.Hex())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if again.ID != first.ID {
		t.Error("Expected the existing first level record to be returned")
	}
}

func TestGetLevelProgress_Errors(t *testing.T) {
	f := newFixture(t, 1)

	testCases := []struct {
		name     string
		levelID  string
		wantKind apperror.Kind
	}{
		{"malformed", "nope", apperror.KindInvalidInput},
		{"unknown", bson.NewObjectID().Hex(), apperror.KindNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.progress.GetLevelProgress(f.ctx, f.userID, tc.levelID); !apperror.Is(err, tc.wantKind) {
				t.Errorf("Expected %s, got %v", tc.wantKind, err)
			}
			if _, err := f.progress.GetLevelStatus(f.ctx, f.userID, tc.levelID); !apperror.Is(err, tc.wantKind) {
				t.Errorf("Status: expected %s, got %v", tc.wantKind, err)
			}
			if err := f.progress.ResetLevelProgress(f.ctx, f.userID, tc.levelID); !apperror.Is(err, tc.wantKind) {
				t.Errorf("Reset: expected %s, got %v", tc.wantKind, err)
			}
		})
	}
}

func TestGetLevelStatus(t *testing.T) {
	f := newFixture(t, 2, 2)

	if _, err := f.progress.GetLevelStatus(f.ctx, f.userID, f.levels[0].ID.Hex()); !apperror.Is(err, apperror.KindNotFound) {
		t.Errorf("Expected not found before any progress, got %v", err)
	}

	f.answer(f.questions[0][0], true)
	f.answer(f.questions[0][1], false)

	status, err := f.progress.GetLevelStatus(f.ctx, f.userID, f.levels[0].ID.Hex())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !status.IsUnlocked || status.IsCompleted {
		t.Errorf("Unexpected flags %+v", status)
	}
	if status.CorrectAnswers != 1 || status.TotalAnswers != 2 || status.QuestionsCompleted != 1 {
		t.Errorf("Unexpected counters %+v", status)
	}
	if status.NextLevel == nil || status.NextLevel.ID != f.levels[1].ID || status.NextLevel.Name != "Level 2" {
		t.Errorf("Unexpected next level %+v", status.NextLevel)
	}

	last, err := f.progress.GetLevelProgress(f.ctx, f.userID, f.levels[1].ID.Hex())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if last.Unlocked {
		t.Error("Expected second level to remain locked")
	}
	lastStatus, err := f.progress.GetLevelStatus(f.ctx, f.userID, f.levels[1].ID.Hex())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if lastStatus.NextLevel != nil {
		t.Errorf("Expected no next level after the last, got %+v", lastStatus.NextLevel)
	}
}

func TestResetLevelProgress_KeepsCompletion(t *testing.T) {
	f := newFixture(t, 2, 2)
	f.answer(f.questions[0][0], true)
	f.answer(f.questions[0][1], true)

	if !f.progressFor(f.levels[0]).Completed {
		t.Fatal("Expected level to be completed before reset")
	}

	if err := f.progress.ResetLevelProgress(f.ctx, f.userID, f.levels[0].ID.Hex()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	progress := f.progressFor(f.levels[0])
	if progress.CorrectAnswers != 0 || progress.TotalAnswers != 0 || len(progress.QuestionsPassed) != 0 {
		t.Errorf("Expected counters cleared, got %+v", progress)
	}
	if !progress.Completed || !progress.Unlocked {
		t.Errorf("Expected completion and unlock to survive reset, got %+v", progress)
	}
	if !f.progressFor(f.levels[1]).Unlocked {
		t.Error("Expected next level to stay unlocked")
	}

	// Learning state is untouched by a level reset.
	if f.state().Points != 2000 {
		t.Errorf("Expected points to be kept, got %d", f.state().Points)
	}
}

func TestResetLevelProgress_NoRecordIsNoop(t *testing.T) {
	f := newFixture(t, 2)

	if err := f.progress.ResetLevelProgress(f.ctx, f.userID, f.levels[0].ID.Hex()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if f.progressFor(f.levels[0]) != nil {
		t.Error("Expected reset not to create a record")
	}
}

func TestGetLevelsForCourse(t *testing.T) {
	f := newFixture(t, 1, 1, 1)

	levels, err := f.progress.GetLevelsForCourse(f.ctx, f.userID, f.course.ID.Hex())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(levels) != 3 {
		t.Fatalf("Expected 3 levels, got %d", len(levels))
	}
	for i, level := range levels {
		if level.Order != i+1 {
			t.Errorf("Expected levels sorted by order, got %d at %d", level.Order, i)
		}
		if wantUnlocked := i == 0; level.IsUnlocked != wantUnlocked {
			t.Errorf("Level %d: expected unlocked=%v, got %v", i+1, wantUnlocked, level.IsUnlocked)
		}
	}
	if f.progressFor(f.levels[0]) == nil {
		t.Error("Expected first level record to be stored")
	}

	if _, err := f.progress.GetLevelsForCourse(f.ctx, f.userID, bson.NewObjectID().Hex()); !apperror.Is(err, apperror.KindNotFound) {
		t.Errorf("Expected not found for unknown course, got %v", err)
	}
}

func TestGetLevel(t *testing.T) {
	f := newFixture(t, 2)

	level, err := f.progress.GetLevel(f.ctx, f.userID, f.levels[0].ID.Hex())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if level.IsUnlocked || level.TotalAnswers != 0 {
		t.Errorf("Expected empty progress before any interaction, got %+v", level)
	}

	f.answer(f.questions[0][0], true)

	level, err = f.progress.GetLevel(f.ctx, f.userID, f.levels[0].ID.Hex())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !level.IsUnlocked || level.CorrectAnswers != 1 || level.Name != "Level 1" {
		t.Errorf("Unexpected merged level %+v", level)
	}
}
