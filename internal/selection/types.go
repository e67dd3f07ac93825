package selection

import (
	"context"

	"learning-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// QuestionSource is the read side of the question catalog used for batches.
type QuestionSource interface {
	FindByCourseAndCategory(ctx context.Context, courseID bson.ObjectID, category models.Category, limit int) ([]models.Question, error)
}

// SelectionResult contains the selected questions and the category mix that
// was requested for them.
type SelectionResult struct {
	Questions []models.PublicQuestion     `json:"questions"`
	Mix       map[models.Category]int     `json:"mix"`
	Ratios    map[models.Category]float64 `json:"ratios"`
}

func emptyResult() *SelectionResult {
	return &SelectionResult{
		Questions: []models.PublicQuestion{},
		Mix:       map[models.Category]int{},
		Ratios:    map[models.Category]float64{},
	}
}
