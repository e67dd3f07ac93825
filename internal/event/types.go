package event

import (
	"time"

	"learning-service/internal/models"

	"github.com/google/uuid"
)

const (
	EventTypeAnswerSubmitted    = "answer.submitted"
	EventTypeAchievementAwarded = "achievement.awarded"
	EventTypeLevelCompleted     = "level.completed"
	EventTypeLevelUnlocked      = "level.unlocked"
)

// AnswerEvent is emitted once per committed answer submission.
type AnswerEvent struct {
	EventID    string          `json:"eventId"`
	EventType  string          `json:"eventType"`
	UserID     string          `json:"userId"`
	QuestionID string          `json:"questionId"`
	CourseID   string          `json:"courseId"`
	LevelID    string          `json:"levelId"`
	Category   models.Category `json:"category"`
	IsCorrect  bool            `json:"isCorrect"`
	Points     int             `json:"points"`
	Streak     int             `json:"streak"`
	Timestamp  int64           `json:"timestamp"`
}

type AchievementEvent struct {
	EventID       string                 `json:"eventId"`
	EventType     string                 `json:"eventType"`
	UserID        string                 `json:"userId"`
	AchievementID string                 `json:"achievementId"`
	Kind          models.AchievementKind `json:"kind"`
	Description   string                 `json:"description"`
	Points        int                    `json:"points"`
	Timestamp     int64                  `json:"timestamp"`
}

// LevelEvent covers both completion and unlock transitions.
type LevelEvent struct {
	EventID   string `json:"eventId"`
	EventType string `json:"eventType"`
	UserID    string `json:"userId"`
	CourseID  string `json:"courseId"`
	LevelID   string `json:"levelId"`
	Timestamp int64  `json:"timestamp"`
}

func NewAnswerEvent(state *models.LearningState, question *models.Question, isCorrect bool) *AnswerEvent {
	return &AnswerEvent{
		EventID:    uuid.NewString(),
		EventType:  EventTypeAnswerSubmitted,
		UserID:     state.UserID.Hex(),
		QuestionID: question.ID.Hex(),
		CourseID:   question.CourseID.Hex(),
		LevelID:    question.LevelID.Hex(),
		Category:   question.Category,
		IsCorrect:  isCorrect,
		Points:     state.Points,
		Streak:     state.Streak,
		Timestamp:  time.Now().Unix(),
	}
}

func NewAchievementEvent(achievement *models.Achievement) *AchievementEvent {
	return &AchievementEvent{
		EventID:       uuid.NewString(),
		EventType:     EventTypeAchievementAwarded,
		UserID:        achievement.UserID.Hex(),
		AchievementID: achievement.ID.Hex(),
		Kind:          achievement.Kind,
		Description:   achievement.Description,
		Points:        achievement.Points,
		Timestamp:     achievement.EarnedAt.Unix(),
	}
}

func NewLevelEvent(eventType string, progress *models.UserProgress) *LevelEvent {
	return &LevelEvent{
		EventID:   uuid.NewString(),
		EventType: eventType,
		UserID:    progress.UserID.Hex(),
		CourseID:  progress.CourseID.Hex(),
		LevelID:   progress.LevelID.Hex(),
		Timestamp: time.Now().Unix(),
	}
}
