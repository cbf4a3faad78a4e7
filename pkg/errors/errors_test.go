package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("backend unavailable")
	err := Wrap(ErrCodeEphemeris, cause, "position of Mars")

	if err.Code != ErrCodeEphemeris {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeEphemeris)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeInvalidInput, "x"), ErrCodeInvalidInput, true},
		{"non-matching code", New(ErrCodeInvalidInput, "x"), ErrCodeEphemeris, false},
		{"wrapped error", Wrap(ErrCodeEphemeris, New(ErrCodeInvalidInput, "inner"), "outer"), ErrCodeEphemeris, true},
		{"non-Error type", errors.New("plain"), ErrCodeInvalidInput, false},
		{"nil error", nil, ErrCodeInvalidInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{New(ErrCodeInvalidCoordinates, "x"), KindInput},
		{New(ErrCodeDateOutOfRange, "x"), KindInput},
		{Wrap(ErrCodeEphemeris, errors.New("boom"), "x"), KindEphemeris},
		{New(ErrCodeMissingPlanet, "x"), KindInvariant},
		{New(ErrCodeUnknownChart, "x"), KindInvariant},
		{New(ErrCodeJobNotFound, "x"), KindNotFound},
		{errors.New("plain"), KindUnknown},
	}
	for _, tt := range tests {
		if got := KindOf(tt.err); got != tt.want {
			t.Errorf("KindOf(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidTimezone, "unknown timezone %q", "Mars/Olympus")); got != `unknown timezone "Mars/Olympus"` {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage() = %q", got)
	}
}
