package repository

import (
	"fmt"

	"learning-service/internal/apperror"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// writeError maps a unique-index violation to a Conflict and wraps anything
// else with the failed operation.
func writeError(err error, op string, conflict string) error {
	if mongo.IsDuplicateKeyError(err) {
		return apperror.Conflict("%s", conflict)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
