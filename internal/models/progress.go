package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// UserProgress is the per (user, course, level) progression record.
type UserProgress struct {
	ID              bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID          bson.ObjectID   `bson:"user_id" json:"user_id"`
	CourseID        bson.ObjectID   `bson:"course_id" json:"course_id"`
	LevelID         bson.ObjectID   `bson:"level_id" json:"level_id"`
	Unlocked        bool            `bson:"unlocked" json:"unlocked"`
	Completed       bool            `bson:"completed" json:"completed"`
	CorrectAnswers  int             `bson:"correct_answers" json:"correct_answers"`
	TotalAnswers    int             `bson:"total_answers" json:"total_answers"`
	QuestionsPassed []bson.ObjectID `bson:"questions_passed" json:"questions_passed"`
	LastAccessed    time.Time       `bson:"last_accessed" json:"last_accessed"`
}

func NewUserProgress(userID, courseID, levelID bson.ObjectID, unlocked bool) *UserProgress {
	return &UserProgress{
		ID:              bson.NewObjectID(),
		UserID:          userID,
		CourseID:        courseID,
		LevelID:         levelID,
		Unlocked:        unlocked,
		QuestionsPassed: []bson.ObjectID{},
		LastAccessed:    time.Now(),
	}
}

func (p *UserProgress) HasPassed(questionID bson.ObjectID) bool {
	for _, id := range p.QuestionsPassed {
		if id == questionID {
			return true
		}
	}
	return false
}

func (p *UserProgress) Clone() *UserProgress {
	out := *p
	out.QuestionsPassed = append([]bson.ObjectID(nil), p.QuestionsPassed...)
	return &out
}

// LevelProgressSnapshot is the progression summary returned after an answer.
type LevelProgressSnapshot struct {
	LevelID              bson.ObjectID `json:"level_id"`
	Unlocked             bool          `json:"unlocked"`
	Completed            bool          `json:"completed"`
	CorrectAnswers       int           `json:"correct_answers"`
	TotalAnswers         int           `json:"total_answers"`
	QuestionsPassedCount int           `json:"questions_passed_count"`
	TotalQuestions       int           `json:"total_questions"`
	Threshold            int           `json:"threshold"`
}
