package progression

import (
	"math"
	"time"

	"learning-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const DefaultCompletionRatio = 0.7

// Machine applies answers to a level's progress record. Unlocked and
// Completed only ever move from false to true.
type Machine struct {
	// ratio in thousandths so thresholds are computed without float drift
	permille int
	now      func() time.Time
}

func NewMachine(completionRatio float64) *Machine {
	if completionRatio <= 0 || completionRatio > 1 {
		completionRatio = DefaultCompletionRatio
	}
	return &Machine{
		permille: int(math.Round(completionRatio * 1000)),
		now:      time.Now,
	}
}

// Threshold is the number of distinct passed questions needed to complete a
// level with totalQuestions questions, rounded up. An empty level has a
// threshold of zero and completes on its first recorded answer.
func (m *Machine) Threshold(totalQuestions int) int {
	if totalQuestions <= 0 {
		return 0
	}
	return (totalQuestions*m.permille + 999) / 1000
}

// RecordAnswer counts one answer against progress and reports whether this
// answer moved the level into the completed state.
func (m *Machine) RecordAnswer(progress *models.UserProgress, questionID bson.ObjectID, wasCorrect bool, totalQuestions int) bool {
	progress.TotalAnswers++
	if wasCorrect && !progress.HasPassed(questionID) {
		progress.QuestionsPassed = append(progress.QuestionsPassed, questionID)
		progress.CorrectAnswers++
	}
	progress.LastAccessed = m.now()

	if progress.Completed {
		return false
	}
	if len(progress.QuestionsPassed) >= m.Threshold(totalQuestions) {
		progress.Completed = true
		return true
	}
	return false
}

// Unlock opens the level and reports whether it was locked before.
func (m *Machine) Unlock(progress *models.UserProgress) bool {
	if progress.Unlocked {
		return false
	}
	progress.Unlocked = true
	progress.LastAccessed = m.now()
	return true
}

// Reset clears the answer history but keeps unlocked and completed.
func (m *Machine) Reset(progress *models.UserProgress) {
	progress.CorrectAnswers = 0
	progress.TotalAnswers = 0
	progress.QuestionsPassed = []bson.ObjectID{}
	progress.LastAccessed = m.now()
}

func (m *Machine) Snapshot(progress *models.UserProgress, totalQuestions int) models.LevelProgressSnapshot {
	return models.LevelProgressSnapshot{
		LevelID:              progress.LevelID,
		Unlocked:             progress.Unlocked,
		Completed:            progress.Completed,
		CorrectAnswers:       progress.CorrectAnswers,
		TotalAnswers:         progress.TotalAnswers,
		QuestionsPassedCount: len(progress.QuestionsPassed),
		TotalQuestions:       totalQuestions,
		Threshold:            m.Threshold(totalQuestions),
	}
}
