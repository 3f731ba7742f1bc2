package errors

import (
	"testing"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("event_type", "is required", "")

	if err.Field != "event_type" {
		t.Errorf("Expected field to be 'event_type', got '%s'", err.Field)
	}

	if err.Message != "is required" {
		t.Errorf("Expected message to be 'is required', got '%s'", err.Message)
	}

	expected := "validation error on field 'event_type': is required"
	if err.Error() != expected {
		t.Errorf("Expected error message to be '%s', got '%s'", expected, err.Error())
	}
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	if errs.Error() != "validation failed" {
		t.Errorf("Expected 'validation failed' for empty errors, got '%s'", errs.Error())
	}

	errs = append(errs, *NewValidationError("field1", "message1", nil))
	expected := "validation failed: field1 message1"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for single error, got '%s'", expected, errs.Error())
	}

	errs = append(errs, *NewValidationError("field2", "message2", nil))
	expected = "validation failed: 2 field errors"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for multiple errors, got '%s'", expected, errs.Error())
	}
}

func TestNewValidationErrorWithRule(t *testing.T) {
	err := NewValidationErrorWithRule("events", "must be at most 100", "max", nil)

	if err.Rule != "max" {
		t.Errorf("Expected rule to be 'max', got '%s'", err.Rule)
	}

	if err.Field != "events" {
		t.Errorf("Expected field to be 'events', got '%s'", err.Field)
	}
}
