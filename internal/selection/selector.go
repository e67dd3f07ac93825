package selection

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"learning-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Selector draws adaptive question batches. It never mutates state and may
// be shared between requests.
type Selector struct {
	questions QuestionSource

	mu   sync.Mutex
	rand *rand.Rand
}

// NewSelector creates a selector. A nil source seeds from the clock.
func NewSelector(questions QuestionSource, source rand.Source) *Selector {
	if source == nil {
		source = rand.NewSource(time.Now().UnixNano())
	}
	return &Selector{
		questions: questions,
		rand:      rand.New(source),
	}
}

// SelectBatch returns up to batchSize sanitized questions for the course,
// weighted toward the categories the user gets wrong most. A malformed
// course id yields an empty batch rather than an error.
func (s *Selector) SelectBatch(ctx context.Context, state *models.LearningState, courseID string, batchSize int) (*SelectionResult, error) {
	courseOID, err := bson.ObjectIDFromHex(courseID)
	if err != nil {
		log.Printf("Invalid course id %q for question batch: %v", courseID, err)
		return emptyResult(), nil
	}
	if batchSize <= 0 {
		return emptyResult(), nil
	}

	profile := NewErrorProfile(state)
	mix := profile.Allocate(batchSize)

	selected := make([]models.Question, 0, batchSize)
	for _, category := range models.Categories {
		count := mix[category]
		if count == 0 {
			continue
		}
		found, err := s.questions.FindByCourseAndCategory(ctx, courseOID, category, count)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s questions: %w", category, err)
		}
		if len(found) > count {
			found = found[:count]
		}
		selected = append(selected, found...)
	}

	s.shuffle(selected)

	public := make([]models.PublicQuestion, len(selected))
	for i := range selected {
		public[i] = selected[i].Sanitize()
	}

	return &SelectionResult{
		Questions: public,
		Mix:       mix,
		Ratios:    profile.Ratios(),
	}, nil
}

// shuffle is a Fisher-Yates permutation over the selector's source.
func (s *Selector) shuffle(questions []models.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(questions) - 1; i > 0; i-- {
		j := s.rand.Intn(i + 1)
		questions[i], questions[j] = questions[j], questions[i]
	}
}
