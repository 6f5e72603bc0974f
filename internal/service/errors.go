package service

import (
	"errors"

	"quiz-learn/internal/domain"
)

// persistenceError passes domain and validation errors through untouched and
// wraps anything else, such as a failed commit, as a persistence error.
func persistenceError(message string, err error) error {
	if err == nil {
		return nil
	}
	var de *domain.DomainError
	if errors.As(err, &de) {
		return err
	}
	var ve domain.ValidationErrors
	if errors.As(err, &ve) {
		return err
	}
	return domain.NewPersistenceError(message, err)
}
