package errors

import (
	"testing"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("prompt", "is required", "")

	if err.Field != "prompt" {
		t.Errorf("Expected field to be 'prompt', got '%s'", err.Field)
	}

	if err.Message != "is required" {
		t.Errorf("Expected message to be 'is required', got '%s'", err.Message)
	}

	expected := "validation error on field 'prompt': is required"
	if err.Error() != expected {
		t.Errorf("Expected error message to be '%s', got '%s'", expected, err.Error())
	}
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	if errs.Error() != "validation failed" {
		t.Errorf("Expected 'validation failed' for empty errors, got '%s'", errs.Error())
	}

	errs = append(errs, *NewValidationError("options", "must be at least 2", nil))
	expected := "validation failed: options must be at least 2"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for single error, got '%s'", expected, errs.Error())
	}

	errs = append(errs, *NewValidationError("kind", "must be a valid answer kind (single, multiple)", nil))
	expected = "validation failed: 2 field errors"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for multiple errors, got '%s'", expected, errs.Error())
	}
}

func TestNewValidationErrorWithRule(t *testing.T) {
	err := NewValidationErrorWithRule("kind", "must be a valid answer kind (single, multiple)", "answer_kind", "radio")

	if err.Rule != "answer_kind" {
		t.Errorf("Expected rule to be 'answer_kind', got '%s'", err.Rule)
	}

	if err.Field != "kind" {
		t.Errorf("Expected field to be 'kind', got '%s'", err.Field)
	}
}
