package models

import (
	"strings"
	"time"

	"learning-service/internal/apperror"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type CourseLevel string

const (
	CourseBeginner     CourseLevel = "Beginner"
	CourseIntermediate CourseLevel = "Intermediate"
	CourseAdvanced     CourseLevel = "Advanced"
)

func (l CourseLevel) Valid() bool {
	switch l {
	case CourseBeginner, CourseIntermediate, CourseAdvanced:
		return true
	}
	return false
}

type Course struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string        `bson:"name" json:"name"`
	Description string        `bson:"description" json:"description"`
	Level       CourseLevel   `bson:"level" json:"level"`
	CreatedAt   time.Time     `bson:"created_at" json:"created_at"`
}

type UnlockRequirements struct {
	PreviousLevelID        *bson.ObjectID `bson:"previous_level_id,omitempty" json:"previous_level_id,omitempty"`
	RequiredCorrectAnswers int            `bson:"required_correct_answers" json:"required_correct_answers"`
}

// Level is a step of a course. Order is the sequence position used for
// progression; Number is the label shown to learners. Both are unique per course.
type Level struct {
	ID                 bson.ObjectID      `bson:"_id,omitempty" json:"id"`
	CourseID           bson.ObjectID      `bson:"course_id" json:"course_id"`
	Number             int                `bson:"number" json:"number"`
	Name               string             `bson:"name" json:"name"`
	Description        string             `bson:"description" json:"description"`
	RequiredPoints     int                `bson:"required_points" json:"required_points"`
	UnlockRequirements UnlockRequirements `bson:"unlock_requirements" json:"unlock_requirements"`
	Order              int                `bson:"order" json:"order"`
}

func (c *Course) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return apperror.InvalidInput("Please provide course name")
	}
	if strings.TrimSpace(c.Description) == "" {
		return apperror.InvalidInput("Please provide course description")
	}
	if !c.Level.Valid() {
		return apperror.InvalidInput("Course level must be Beginner, Intermediate or Advanced")
	}
	return nil
}

func (l *Level) Validate() error {
	if l.CourseID.IsZero() {
		return apperror.InvalidInput("Level course is required")
	}
	if strings.TrimSpace(l.Name) == "" {
		return apperror.InvalidInput("Level name is required")
	}
	if l.Number < 1 {
		return apperror.InvalidInput("Level number must be at least 1")
	}
	if l.Order < 1 {
		return apperror.InvalidInput("Level order must be at least 1")
	}
	if l.RequiredPoints < 0 || l.UnlockRequirements.RequiredCorrectAnswers < 0 {
		return apperror.InvalidInput("Level requirements cannot be negative")
	}
	return nil
}
