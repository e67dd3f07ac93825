package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type AchievementKind string

const (
	AchievementTrophy         AchievementKind = "trophy"
	AchievementPointMilestone AchievementKind = "point_milestone"
)

// Achievement is an append-only log entry. Points holds the milestone value
// for point milestones and zero for trophies.
type Achievement struct {
	ID          bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID      bson.ObjectID   `bson:"user_id" json:"user_id"`
	Kind        AchievementKind `bson:"kind" json:"kind"`
	Description string          `bson:"description" json:"description"`
	Points      int             `bson:"points" json:"points"`
	EarnedAt    time.Time       `bson:"earned_at" json:"earned_at"`
}
