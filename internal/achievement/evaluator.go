package achievement

import (
	"context"
	"fmt"
	"sort"
	"time"

	"learning-service/internal/models"

	"github.com/dustin/go-humanize"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Log is the append-only achievement store.
type Log interface {
	HasMilestone(ctx context.Context, userID bson.ObjectID, milestone int) (bool, error)
	Append(ctx context.Context, achievement *models.Achievement) error
}

type Config struct {
	TrophyThreshold int   `json:"trophy_threshold"`
	PointMilestones []int `json:"point_milestones"`
}

func DefaultConfig() *Config {
	return &Config{
		TrophyThreshold: 10,
		PointMilestones: []int{10000, 25000, 50000, 100000},
	}
}

// Evaluator derives trophies and point milestones from cumulative state.
type Evaluator struct {
	threshold  int
	milestones []int
	log        Log
	now        func() time.Time
}

func NewEvaluator(config *Config, log Log) *Evaluator {
	if config == nil {
		config = DefaultConfig()
	}
	threshold := config.TrophyThreshold
	if threshold <= 0 {
		threshold = DefaultConfig().TrophyThreshold
	}
	milestones := append([]int(nil), config.PointMilestones...)
	sort.Ints(milestones)
	return &Evaluator{
		threshold:  threshold,
		milestones: milestones,
		log:        log,
		now:        time.Now,
	}
}

func TrophyDescription(number, threshold int) string {
	return fmt.Sprintf("Trophy #%d for answering %d questions correctly!", number, number*threshold)
}

func MilestoneDescription(milestone int) string {
	return fmt.Sprintf("Reached %s points!", humanize.Comma(int64(milestone)))
}

// Evaluate records any achievement the state now qualifies for and returns
// only the ones created by this call. state.Trophies is advanced in place;
// re-running on unchanged state creates nothing.
func (e *Evaluator) Evaluate(ctx context.Context, state *models.LearningState) ([]models.Achievement, error) {
	awarded := []models.Achievement{}

	eligible := state.TotalCorrect() / e.threshold
	for n := state.Trophies + 1; n <= eligible; n++ {
		trophy := &models.Achievement{
			ID:          bson.NewObjectID(),
			UserID:      state.UserID,
			Kind:        models.AchievementTrophy,
			Description: TrophyDescription(n, e.threshold),
			Points:      0,
			EarnedAt:    e.now(),
		}
		if err := e.log.Append(ctx, trophy); err != nil {
			return nil, fmt.Errorf("failed to record trophy #%d: %w", n, err)
		}
		awarded = append(awarded, *trophy)
	}
	if eligible > state.Trophies {
		state.Trophies = eligible
	}

	for _, milestone := range e.milestones {
		if state.Points < milestone {
			// Ascending list: nothing further can qualify.
			break
		}
		exists, err := e.log.HasMilestone(ctx, state.UserID, milestone)
		if err != nil {
			return nil, fmt.Errorf("failed to check milestone %d: %w", milestone, err)
		}
		if exists {
			continue
		}
		badge := &models.Achievement{
			ID:          bson.NewObjectID(),
			UserID:      state.UserID,
			Kind:        models.AchievementPointMilestone,
			Description: MilestoneDescription(milestone),
			Points:      milestone,
			EarnedAt:    e.now(),
		}
		if err := e.log.Append(ctx, badge); err != nil {
			return nil, fmt.Errorf("failed to record milestone %d: %w", milestone, err)
		}
		awarded = append(awarded, *badge)
	}

	return awarded, nil
}
