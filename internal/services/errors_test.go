package services

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestServiceError_Error(t *testing.T) {
	err := &ServiceError{
		Code:    CodeInvalidArgument,
		Message: "Arrays must have same length",
	}

	if err.Error() != "Arrays must have same length" {
		t.Errorf("Expected 'Arrays must have same length', got '%s'", err.Error())
	}
}

func TestNewServiceError(t *testing.T) {
	err := NewServiceError(CodeInsufficientData, "need 7, have 3")

	if err.Code != CodeInsufficientData {
		t.Errorf("Expected code '%s', got '%s'", CodeInsufficientData, err.Code)
	}
	if err.Message != "need 7, have 3" {
		t.Errorf("Expected message 'need 7, have 3', got '%s'", err.Message)
	}
	if err.Details != nil {
		t.Errorf("Expected nil details, got %v", err.Details)
	}
}

func TestNewServiceErrorWithDetails(t *testing.T) {
	details := map[string]interface{}{
		"x_length": 3,
		"y_length": 4,
	}

	err := NewServiceErrorWithDetails(CodeInvalidArgument, MismatchedLengthsMessage, details)

	if err.Details["x_length"] != 3 || err.Details["y_length"] != 4 {
		t.Errorf("Unexpected details: %v", err.Details)
	}
}

func TestServiceError_ErrorsAs(t *testing.T) {
	var wrapped error = NewServiceError(CodeInvalidArgument, "bad")

	var svcErr *ServiceError
	if !errors.As(wrapped, &svcErr) {
		t.Fatal("Expected errors.As to find *ServiceError")
	}
	if svcErr.Code != CodeInvalidArgument {
		t.Errorf("Expected code %s, got %s", CodeInvalidArgument, svcErr.Code)
	}
}

func TestServiceError_JSONSerialization(t *testing.T) {
	err := NewServiceError(CodeInvalidArgument, "bad percentile")

	b, marshalErr := json.Marshal(err)
	if marshalErr != nil {
		t.Fatalf("Failed to marshal: %v", marshalErr)
	}

	want := `{"code":"INVALID_ARGUMENT","message":"bad percentile"}`
	if string(b) != want {
		t.Errorf("Expected %s, got %s", want, string(b))
	}
}
