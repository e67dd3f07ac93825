package scoring

import (
	"learning-service/internal/apperror"
	"learning-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Config holds the point values applied per answer.
type Config struct {
	CorrectReward int `json:"correct_reward"`
	WrongPenalty  int `json:"wrong_penalty"`
}

func DefaultConfig() *Config {
	return &Config{
		CorrectReward: 1000,
		WrongPenalty:  -500,
	}
}

// Outcome is the result of applying one answer.
type Outcome struct {
	IsCorrect   bool            `json:"is_correct"`
	Explanation string          `json:"explanation"`
	Category    models.Category `json:"category"`
	PointsDelta int             `json:"points_delta"`
}

// Engine applies answers to a learning state.
type Engine struct {
	config *Config
}

func NewEngine(config *Config) *Engine {
	if config == nil {
		config = DefaultConfig()
	}
	return &Engine{config: config}
}

// ApplyAnswer grades the chosen option and mutates state in place. An option
// id that does not belong to the question is rejected before any change.
func (e *Engine) ApplyAnswer(state *models.LearningState, question *models.Question, optionID string) (*Outcome, error) {
	oid, err := bson.ObjectIDFromHex(optionID)
	if err != nil {
		return nil, apperror.InvalidInput("Invalid option ID")
	}
	option := question.FindOption(oid)
	if option == nil {
		return nil, apperror.InvalidInput("Invalid option ID")
	}

	state.Normalize()
	before := state.Points

	if option.IsCorrect {
		state.Points += e.config.CorrectReward
		state.CorrectByCategory[question.Category]++
		state.Streak++
	} else {
		state.Points += e.config.WrongPenalty
		state.WrongByCategory[question.Category]++
		state.Streak = 0
	}

	// Points never go negative; there is no ceiling.
	if state.Points < 0 {
		state.Points = 0
	}

	return &Outcome{
		IsCorrect:   option.IsCorrect,
		Explanation: question.Explanation,
		Category:    question.Category,
		PointsDelta: state.Points - before,
	}, nil
}
