package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// LearningState holds a user's score, streak and per-category tallies.
type LearningState struct {
	UserID            bson.ObjectID    `bson:"_id" json:"user_id"`
	Points            int              `bson:"points" json:"points"`
	Streak            int              `bson:"streak" json:"streak"`
	Trophies          int              `bson:"trophies" json:"trophies"`
	CorrectByCategory map[Category]int `bson:"correct_by_category" json:"correct_by_category"`
	WrongByCategory   map[Category]int `bson:"wrong_by_category" json:"wrong_by_category"`
	UpdatedAt         time.Time        `bson:"updated_at" json:"updated_at"`
}

// NewLearningState returns the zero state created at registration.
func NewLearningState(userID bson.ObjectID) *LearningState {
	state := &LearningState{UserID: userID}
	state.Normalize()
	return state
}

// Normalize makes sure every category key is present.
func (s *LearningState) Normalize() {
	if s.CorrectByCategory == nil {
		s.CorrectByCategory = make(map[Category]int, len(Categories))
	}
	if s.WrongByCategory == nil {
		s.WrongByCategory = make(map[Category]int, len(Categories))
	}
	for _, c := range Categories {
		if _, ok := s.CorrectByCategory[c]; !ok {
			s.CorrectByCategory[c] = 0
		}
		if _, ok := s.WrongByCategory[c]; !ok {
			s.WrongByCategory[c] = 0
		}
	}
}

func (s *LearningState) TotalCorrect() int {
	total := 0
	for _, n := range s.CorrectByCategory {
		total += n
	}
	return total
}

func (s *LearningState) TotalWrong() int {
	total := 0
	for _, n := range s.WrongByCategory {
		total += n
	}
	return total
}

// Clone returns a deep copy.
func (s *LearningState) Clone() *LearningState {
	out := *s
	out.CorrectByCategory = make(map[Category]int, len(s.CorrectByCategory))
	for k, v := range s.CorrectByCategory {
		out.CorrectByCategory[k] = v
	}
	out.WrongByCategory = make(map[Category]int, len(s.WrongByCategory))
	for k, v := range s.WrongByCategory {
		out.WrongByCategory[k] = v
	}
	return &out
}
