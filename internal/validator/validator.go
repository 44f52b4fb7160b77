package validator

import (
	"reflect"
	"strings"

	apperrors "github.com/certsim/quiz-service/internal/errors"
	"github.com/certsim/quiz-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator is the main validator instance that combines struct-tag and
// question-level validation.
type Validator struct {
	structValidator   *validator.Validate
	questionValidator *QuestionValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	// Register all custom validators once
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:   structValidator,
		questionValidator: NewQuestionValidator(),
	}
}

// ValidateStruct validates struct tags and reports failures as field-level
// validation errors.
func (v *Validator) ValidateStruct(s interface{}) error {
	err := v.structValidator.Struct(s)
	if err == nil {
		return nil
	}
	if converted := apperrors.ToValidationErrors(err); len(converted) > 0 {
		return converted
	}
	return err
}

// Question returns the question validator
func (v *Validator) Question() *QuestionValidator {
	return v.questionValidator
}

// GetQuestionValidator returns the question validator (compatibility method)
func (v *Validator) GetQuestionValidator() *QuestionValidator {
	return v.questionValidator
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("answer_kind", validateAnswerKind)
	validate.RegisterValidation("difficulty_level", validateDifficultyLevel)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateAnswerKind(fl validator.FieldLevel) bool {
	validKinds := []models.AnswerKind{
		models.AnswerSingle,
		models.AnswerMultiple,
	}

	value := fl.Field().String()
	for _, validKind := range validKinds {
		if string(validKind) == value {
			return true
		}
	}
	return false
}

func validateDifficultyLevel(fl validator.FieldLevel) bool {
	validLevels := []models.DifficultyLevel{
		models.DifficultyEasy,
		models.DifficultyMedium,
		models.DifficultyHard,
	}

	value := fl.Field().String()
	for _, validLevel := range validLevels {
		if string(validLevel) == value {
			return true
		}
	}
	return false
}
