package models

import (
	"strings"
	"time"

	"learning-service/internal/apperror"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Category is the subject classification of a question.
type Category string

const (
	CategoryVocabulary Category = "vocabulary"
	CategoryGrammar    Category = "grammar"
)

// Categories is the fixed category set in allocation order. Ties in the
// adaptive mix go to the earlier entry.
var Categories = []Category{CategoryVocabulary, CategoryGrammar}

const (
	MinDifficulty = 1
	MaxDifficulty = 100
)

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Option struct {
	ID        bson.ObjectID `bson:"_id" json:"id"`
	Text      string        `bson:"text" json:"text"`
	IsCorrect bool          `bson:"is_correct" json:"is_correct"`
}

type Question struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Text        string        `bson:"text" json:"text"`
	Category    Category      `bson:"category" json:"category"`
	Difficulty  int           `bson:"difficulty" json:"difficulty"`
	CourseID    bson.ObjectID `bson:"course_id" json:"course_id"`
	LevelID     bson.ObjectID `bson:"level_id" json:"level_id"`
	Options     []Option      `bson:"options" json:"options"`
	Explanation string        `bson:"explanation" json:"explanation"`
	CreatedAt   time.Time     `bson:"created_at" json:"created_at"`
}

// PublicOption is an option as served to learners, without the correct flag.
type PublicOption struct {
	ID   bson.ObjectID `json:"id"`
	Text string        `json:"text"`
}

// PublicQuestion is the sanitized view of a question.
type PublicQuestion struct {
	ID       bson.ObjectID  `json:"id"`
	Text     string         `json:"text"`
	Category Category       `json:"category"`
	LevelID  bson.ObjectID  `json:"level_id"`
	Options  []PublicOption `json:"options"`
}

// Validate checks the authoring invariants of a question.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return apperror.InvalidInput("question text is required")
	}
	if !q.Category.Valid() {
		return apperror.InvalidInput("question category must be one of %s", joinCategories())
	}
	if q.Difficulty < MinDifficulty || q.Difficulty > MaxDifficulty {
		return apperror.InvalidInput("question difficulty must be between %d and %d", MinDifficulty, MaxDifficulty)
	}
	if len(q.Options) < 2 {
		return apperror.InvalidInput("questions must have at least 2 options")
	}
	correct := 0
	for _, opt := range q.Options {
		if opt.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return apperror.InvalidInput("questions must have exactly one correct option")
	}
	if strings.TrimSpace(q.Explanation) == "" {
		return apperror.InvalidInput("question explanation is required")
	}
	return nil
}

// EnsureOptionIDs assigns ids to options authored without one.
func (q *Question) EnsureOptionIDs() {
	for i := range q.Options {
		if q.Options[i].ID.IsZero() {
			q.Options[i].ID = bson.NewObjectID()
		}
	}
}

// FindOption returns the option with the given id, or nil.
func (q *Question) FindOption(id bson.ObjectID) *Option {
	for i := range q.Options {
		if q.Options[i].ID == id {
			return &q.Options[i]
		}
	}
	return nil
}

func (q *Question) Sanitize() PublicQuestion {
	options := make([]PublicOption, len(q.Options))
	for i, opt := range q.Options {
		options[i] = PublicOption{ID: opt.ID, Text: opt.Text}
	}
	return PublicQuestion{
		ID:       q.ID,
		Text:     q.Text,
		Category: q.Category,
		LevelID:  q.LevelID,
		Options:  options,
	}
}

func joinCategories() string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
