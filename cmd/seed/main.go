package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"learning-service/internal/config"
	"learning-service/internal/database/minio"
	"learning-service/internal/database/mongo"
	"learning-service/internal/importer"
	"learning-service/internal/models"
	"learning-service/internal/repository"
	"learning-service/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	filePath := flag.String("file", "", "Excel workbook to import instead of the built-in courses")
	objectKey := flag.String("object", "", "workbook key in the MinIO import bucket to import instead of the built-in courses")
	templatePath := flag.String("template", "", "write the built-in courses as an importable workbook and exit")
	dryRun := flag.Bool("dry-run", false, "validate against an in-memory store without touching MongoDB")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}

	if *templatePath != "" {
		if err := writeTemplate(*templatePath); err != nil {
			log.Fatalf("Failed to write template: %v", err)
		}
		log.Printf("Template written to %s", *templatePath)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cfg := config.Load()

	var repos *service.Repositories
	if *dryRun {
		log.Println("Dry run: using in-memory store")
		repos = service.NewMemoryRepositories(repository.NewMemoryStore())
	} else {
		client, database, err := mongo.Connect(cfg.MongoDB)
		if err != nil {
			log.Fatalf("Failed to initialize MongoDB: %v", err)
		}
		defer mongo.Disconnect(client)

		repos, err = service.NewMongoRepositories(ctx, client, database)
		if err != nil {
			log.Fatalf("Failed to initialize repositories: %v", err)
		}
	}

	catalog := service.NewCatalogService(repos)

	var (
		result *importer.ImportResult
		err    error
	)
	im := importer.NewImporter(catalog, importer.DefaultImportConfig())
	switch {
	case *filePath != "":
		result, err = im.ImportFile(ctx, *filePath)
	case *objectKey != "":
		result, err = importObject(ctx, im, cfg.MinIO, *objectKey)
	default:
		result, err = seedDefaults(ctx, catalog)
	}
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seed finished: %d courses, %d levels, %d questions created, %d skipped",
		result.CoursesCreated, result.LevelsCreated, result.Created, result.Skipped)
	for _, msg := range result.Errors {
		log.Printf("Seed error: %s", msg)
	}
	if len(result.Errors) > 0 {
		os.Exit(1)
	}
}

// seedDefaults stores the built-in courses. Levels that already exist keep
// their questions.
func seedDefaults(ctx context.Context, catalog *service.CatalogService) (*importer.ImportResult, error) {
	result := &importer.ImportResult{Errors: make([]string, 0)}

	for _, sc := range defaultCourses {
		course, created, err := catalog.EnsureCourse(ctx, &models.Course{
			Name:        sc.name,
			Description: sc.description,
			Level:       sc.level,
		})
		if err != nil {
			return nil, fmt.Errorf("course %q: %w", sc.name, err)
		}
		if created {
			result.CoursesCreated++
		}

		var previous *models.Level
		for _, sl := range sc.levels {
			level := &models.Level{
				CourseID:       course.ID,
				Number:         sl.number,
				Order:          sl.number,
				Name:           sl.name,
				Description:    sl.description,
				RequiredPoints: sl.requiredPoints,
			}
			if previous != nil {
				previousID := previous.ID
				level.UnlockRequirements = models.UnlockRequirements{
					PreviousLevelID:        &previousID,
					RequiredCorrectAnswers: requiredCorrectAnswers,
				}
			}

			stored, created, err := catalog.EnsureLevel(ctx, level)
			if err != nil {
				return nil, fmt.Errorf("level %d of %q: %w", sl.number, sc.name, err)
			}
			previous = stored
			if !created {
				result.Skipped += len(sl.questions)
				continue
			}
			result.LevelsCreated++

			for _, sq := range sl.questions {
				result.TotalProcessed++
				if _, err := catalog.CreateQuestion(ctx, sq.toQuestion(stored)); err != nil {
					result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", sq.text, err))
					continue
				}
				result.Created++
			}
		}
	}

	return result, nil
}

func (sq seedQuestion) toQuestion(level *models.Level) *models.Question {
	options := make([]models.Option, len(sq.options))
	for i, text := range sq.options {
		options[i] = models.Option{Text: text, IsCorrect: i == sq.correct}
	}
	return &models.Question{
		Text:        sq.text,
		Category:    sq.category,
		Difficulty:  sq.difficulty,
		CourseID:    level.CourseID,
		LevelID:     level.ID,
		Options:     options,
		Explanation: sq.explanation,
	}
}

// templateRows flattens the built-in courses into importer rows.
func templateRows() [][]string {
	separator := importer.DefaultImportConfig().OptionSeparator
	var rows [][]string
	for _, sc := range defaultCourses {
		for _, sl := range sc.levels {
			for _, sq := range sl.questions {
				rows = append(rows, []string{
					sc.name,
					sc.description,
					string(sc.level),
					strconv.Itoa(sl.number),
					sl.name,
					string(sq.category),
					strconv.Itoa(sq.difficulty),
					sq.text,
					strings.Join(sq.options, separator),
					strconv.Itoa(sq.correct + 1),
					sq.explanation,
				})
			}
		}
	}
	return rows
}

func importObject(ctx context.Context, im *importer.Importer, cfg config.MinIOConfig, key string) (*importer.ImportResult, error) {
	client, err := minio.Connect(cfg)
	if err != nil {
		return nil, err
	}
	object, err := minio.OpenObject(ctx, client, cfg.ImportBucket, key)
	if err != nil {
		return nil, err
	}
	defer object.Close()
	return im.ImportReader(ctx, object)
}

func writeTemplate(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return importer.WriteWorkbook(file, templateRows())
}
