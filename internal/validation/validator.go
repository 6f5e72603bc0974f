package validation

import (
	"strconv"
	"strings"

	"quiz-learn/internal/domain"
	"quiz-learn/internal/dto"
	"quiz-learn/internal/util"
)

const (
	MaxResultsLimit    = 50
	MaxImportQuestions = 500
)

// Validator checks request shape before a request reaches the services.
// Business rules live on the domain types.
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateID checks that an entity id is a ULID.
func (v *Validator) ValidateID(field, id string) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if strings.TrimSpace(id) == "" {
		errors = append(errors, domain.NewMissingFieldError(field))
	} else if !util.IsULID(id) {
		errors = append(errors, domain.NewInvalidFormatError(field, id))
	}
	return errors
}

func (v *Validator) ValidateLoginRequest(req dto.LoginRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if strings.TrimSpace(req.Username) == "" {
		errors = append(errors, domain.NewMissingFieldError("username"))
	}
	if req.Password == "" {
		errors = append(errors, domain.NewMissingFieldError("password"))
	}
	return errors
}

func (v *Validator) ValidateImportRequest(req dto.ImportQuestionsRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if len(req.Questions) == 0 {
		errors = append(errors, domain.NewMissingFieldError("questions"))
	} else if len(req.Questions) > MaxImportQuestions {
		errors = append(errors, domain.NewOutOfRangeError("questions", len(req.Questions), 1, MaxImportQuestions))
	}
	return errors
}

// ParseLimit reads an optional positive limit, falling back to def when raw is empty.
func (v *Validator) ParseLimit(raw string, def int) (int, domain.ValidationErrors) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ValidationErrors{domain.NewInvalidFormatError("limit", raw)}
	}
	if n < 1 || n > MaxResultsLimit {
		return 0, domain.ValidationErrors{domain.NewOutOfRangeError("limit", n, 1, MaxResultsLimit)}
	}
	return n, nil
}
