package service

import (
	"context"
	"fmt"

	"learning-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type UserService struct {
	repos *Repositories
}

func NewUserService(repos *Repositories) *UserService {
	return &UserService{repos: repos}
}

// GetProfile returns the caller's stats and achievement log. A user who has
// not answered anything yet gets zeroed stats.
func (s *UserService) GetProfile(ctx context.Context, userID bson.ObjectID) (*models.UserProfile, error) {
	state, err := loadState(ctx, s.repos.States, userID)
	if err != nil {
		return nil, err
	}
	achievements, err := s.GetAchievements(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.UserProfile{
		Stats:        models.StatsOf(state),
		Achievements: achievements,
	}, nil
}

func (s *UserService) GetAchievements(ctx context.Context, userID bson.ObjectID) ([]models.Achievement, error) {
	achievements, err := s.repos.Achievements.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load achievements: %w", err)
	}
	return achievements, nil
}
