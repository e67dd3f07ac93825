package importer

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"learning-service/internal/models"

	"github.com/xuri/excelize/v2"
)

// Catalog is the authoring surface rows are written through.
type Catalog interface {
	EnsureCourse(ctx context.Context, course *models.Course) (*models.Course, bool, error)
	EnsureLevel(ctx context.Context, level *models.Level) (*models.Level, bool, error)
	CreateQuestion(ctx context.Context, question *models.Question) (*models.Question, error)
}

// ImportConfig names the sheet and the column holding each field.
type ImportConfig struct {
	SheetName         string
	CourseColumn      string
	DescriptionColumn string
	CourseLevelColumn string
	LevelNumberColumn string
	LevelNameColumn   string
	CategoryColumn    string
	DifficultyColumn  string
	QuestionColumn    string
	OptionsColumn     string // options separated by OptionSeparator
	CorrectColumn     string // 1-based position of the correct option
	ExplanationColumn string
	OptionSeparator   string
	StartRow          int // 1-based
}

func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		SheetName:         "Questions",
		CourseColumn:      "A",
		DescriptionColumn: "B",
		CourseLevelColumn: "C",
		LevelNumberColumn: "D",
		LevelNameColumn:   "E",
		CategoryColumn:    "F",
		DifficultyColumn:  "G",
		QuestionColumn:    "H",
		OptionsColumn:     "I",
		CorrectColumn:     "J",
		ExplanationColumn: "K",
		OptionSeparator:   "|",
		StartRow:          2,
	}
}

// Header is the title row matching DefaultImportConfig.
var Header = []string{
	"Course", "Description", "Course Level", "Level", "Level Name",
	"Category", "Difficulty", "Question", "Options", "Correct", "Explanation",
}

type ImportResult struct {
	TotalProcessed int
	CoursesCreated int
	LevelsCreated  int
	Created        int
	Skipped        int
	Errors         []string
}

type Importer struct {
	catalog Catalog
	config  ImportConfig
}

func NewImporter(catalog Catalog, config ImportConfig) *Importer {
	return &Importer{catalog: catalog, config: config}
}

func (im *Importer) ImportFile(ctx context.Context, path string) (*ImportResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()
	return im.importWorkbook(ctx, f)
}

func (im *Importer) ImportReader(ctx context.Context, r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel data: %v", err)
	}
	defer f.Close()
	return im.importWorkbook(ctx, f)
}

type levelKey struct {
	course string
	number int
}

type levelEntry struct {
	level   *models.Level
	created bool
}

// importWorkbook writes one question per row. Levels that existed before
// the import are left untouched so re-running a seed does not duplicate
// questions.
func (im *Importer) importWorkbook(ctx context.Context, f *excelize.File) (*ImportResult, error) {
	rows, err := f.GetRows(im.config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}

	result := &ImportResult{Errors: make([]string, 0)}
	courses := make(map[string]*models.Course)
	levels := make(map[levelKey]levelEntry)

	for i, row := range rows {
		rowNum := i + 1
		if rowNum < im.config.StartRow || isBlank(row) {
			continue
		}
		result.TotalProcessed++

		if err := im.processRow(ctx, row, courses, levels, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		}
	}

	return result, nil
}

func (im *Importer) processRow(ctx context.Context, row []string, courses map[string]*models.Course, levels map[levelKey]levelEntry, result *ImportResult) error {
	cell := func(column string) string {
		return cellValue(row, column)
	}

	courseName := cell(im.config.CourseColumn)
	if courseName == "" {
		return fmt.Errorf("course name is empty")
	}

	course, ok := courses[courseName]
	if !ok {
		ensured, created, err := im.catalog.EnsureCourse(ctx, &models.Course{
			Name:        courseName,
			Description: cell(im.config.DescriptionColumn),
			Level:       models.CourseLevel(cell(im.config.CourseLevelColumn)),
		})
		if err != nil {
			return err
		}
		if created {
			result.CoursesCreated++
		}
		courses[courseName] = ensured
		course = ensured
	}

	number, err := strconv.Atoi(cell(im.config.LevelNumberColumn))
	if err != nil {
		return fmt.Errorf("invalid level number %q", cell(im.config.LevelNumberColumn))
	}

	key := levelKey{course: course.ID.Hex(), number: number}
	entry, ok := levels[key]
	if !ok {
		name := cell(im.config.LevelNameColumn)
		if name == "" {
			name = fmt.Sprintf("Level %d", number)
		}
		level, created, err := im.catalog.EnsureLevel(ctx, &models.Level{
			CourseID: course.ID,
			Number:   number,
			Order:    number,
			Name:     name,
		})
		if err != nil {
			return err
		}
		if created {
			result.LevelsCreated++
		}
		entry = levelEntry{level: level, created: created}
		levels[key] = entry
	}
	if !entry.created {
		result.Skipped++
		return nil
	}

	question, err := im.buildQuestion(cell)
	if err != nil {
		return err
	}
	question.CourseID = course.ID
	question.LevelID = entry.level.ID

	if _, err := im.catalog.CreateQuestion(ctx, question); err != nil {
		return err
	}
	result.Created++
	return nil
}

func (im *Importer) buildQuestion(cell func(string) string) (*models.Question, error) {
	difficulty, err := strconv.Atoi(cell(im.config.DifficultyColumn))
	if err != nil {
		return nil, fmt.Errorf("invalid difficulty %q", cell(im.config.DifficultyColumn))
	}

	var options []models.Option
	for _, text := range strings.Split(cell(im.config.OptionsColumn), im.config.OptionSeparator) {
		if text = strings.TrimSpace(text); text != "" {
			options = append(options, models.Option{Text: text})
		}
	}

	correct, err := strconv.Atoi(cell(im.config.CorrectColumn))
	if err != nil || correct < 1 || correct > len(options) {
		return nil, fmt.Errorf("correct option %q is not between 1 and %d", cell(im.config.CorrectColumn), len(options))
	}
	options[correct-1].IsCorrect = true

	return &models.Question{
		Text:        cell(im.config.QuestionColumn),
		Category:    models.Category(strings.ToLower(cell(im.config.CategoryColumn))),
		Difficulty:  difficulty,
		Options:     options,
		Explanation: cell(im.config.ExplanationColumn),
	}, nil
}

func cellValue(row []string, column string) string {
	index, err := excelize.ColumnNameToNumber(column)
	if err != nil || index > len(row) {
		return ""
	}
	return strings.TrimSpace(row[index-1])
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
