package models

import "go.mongodb.org/mongo-driver/v2/bson"

type UserStats struct {
	Points            int              `json:"points"`
	Streak            int              `json:"streak"`
	Trophies          int              `json:"trophies"`
	CorrectByCategory map[Category]int `json:"correct_by_category"`
	WrongByCategory   map[Category]int `json:"wrong_by_category"`
	TotalCorrect      int              `json:"total_correct"`
	TotalWrong        int              `json:"total_wrong"`
}

func StatsOf(s *LearningState) UserStats {
	return UserStats{
		Points:            s.Points,
		Streak:            s.Streak,
		Trophies:          s.Trophies,
		CorrectByCategory: s.CorrectByCategory,
		WrongByCategory:   s.WrongByCategory,
		TotalCorrect:      s.TotalCorrect(),
		TotalWrong:        s.TotalWrong(),
	}
}

type SubmitAnswerRequest struct {
	OptionID string `json:"option_id" binding:"required"`
}

type AnswerResult struct {
	IsCorrect       bool                  `json:"is_correct"`
	Explanation     string                `json:"explanation"`
	UserStats       UserStats             `json:"user_stats"`
	NewAchievements []Achievement         `json:"new_achievements"`
	LevelProgress   LevelProgressSnapshot `json:"level_progress"`
}

type NextLevelSummary struct {
	ID         bson.ObjectID `json:"id"`
	Name       string        `json:"name"`
	IsUnlocked bool          `json:"is_unlocked"`
}

type LevelStatus struct {
	IsUnlocked         bool              `json:"is_unlocked"`
	IsCompleted        bool              `json:"is_completed"`
	CorrectAnswers     int               `json:"correct_answers"`
	TotalAnswers       int               `json:"total_answers"`
	QuestionsCompleted int               `json:"questions_completed"`
	NextLevel          *NextLevelSummary `json:"next_level"`
}

// LevelWithProgress merges a level with the caller's progress on it.
type LevelWithProgress struct {
	Level
	IsUnlocked     bool `json:"is_unlocked"`
	IsCompleted    bool `json:"is_completed"`
	CorrectAnswers int  `json:"correct_answers"`
	TotalAnswers   int  `json:"total_answers"`
}

type UserProfile struct {
	Stats        UserStats     `json:"stats"`
	Achievements []Achievement `json:"achievements"`
}
