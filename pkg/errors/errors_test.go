package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidModel, "unknown model: %s", "panmixia")

	if err.Code != ErrCodeInvalidModel {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidModel)
	}
	if err.Message != "unknown model: panmixia" {
		t.Errorf("Message = %v, want %v", err.Message, "unknown model: panmixia")
	}

	expected := "INVALID_MODEL: unknown model: panmixia"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("dot syntax error")
	err := Wrap(ErrCodeRender, cause, "render arg")

	if err.Code != ErrCodeRender {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeRender)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if want := "RENDER_FAILED: render arg: dot syntax error"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeCanary, "x"), ErrCodeCanary, true},
		{"non-matching code", New(ErrCodeCanary, "x"), ErrCodeRender, false},
		{"outer code wins", Wrap(ErrCodeRender, New(ErrCodeInvalidInput, "inner"), "outer"), ErrCodeRender, true},
		{"fmt wrapped", fmt.Errorf("figure threed: %w", New(ErrCodeCanary, "x")), ErrCodeCanary, true},
		{"plain error", errors.New("plain"), ErrCodeInvalidInput, false},
		{"nil", nil, ErrCodeInvalidInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeUnsupported, "x")); got != ErrCodeUnsupported {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeUnsupported)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode() = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidConfig, "bad ttl")); got != "bad ttl" {
		t.Errorf("UserMessage() = %q, want %q", got, "bad ttl")
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage() = %q, want %q", got, "plain")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain", errors.New("boom"), 1},
		{"config", New(ErrCodeInvalidConfig, "x"), 2},
		{"model", New(ErrCodeInvalidModel, "x"), 2},
		{"canary", New(ErrCodeCanary, "x"), 1},
		{"render", fmt.Errorf("wrap: %w", New(ErrCodeRender, "x")), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
