package output

import (
	"errors"
	"fmt"
	"testing"
)

func TestExitCodeConstants(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		expected int
	}{
		{"ExitSuccess", ExitSuccess, 0},
		{"ExitUserError", ExitUserError, 1},
		{"ExitSystemError", ExitSystemError, 2},
		{"ExitConflict", ExitConflict, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.code != tt.expected {
				t.Errorf("%s = %d, want %d", tt.name, tt.code, tt.expected)
			}
		})
	}
}

func TestExitErrorConstructors(t *testing.T) {
	cause := errors.New("exit status 128")
	tests := []struct {
		name     string
		err      *ExitError
		wantCode int
		wantMsg  string
	}{
		{"user", NewUserError("invalid repository URL"), ExitUserError, "invalid repository URL"},
		{"user with cause", NewUserErrorWithCause("config missing", cause), ExitUserError, "config missing"},
		{"system", NewSystemError("model returned no content"), ExitSystemError, "model returned no content"},
		{"system with cause", NewSystemErrorWithCause("git clone failed", cause), ExitSystemError, "git clone failed"},
		{"conflict", NewConflictError("slug collision"), ExitConflict, "slug collision"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %d, want %d", tt.err.Code, tt.wantCode)
			}
			if tt.err.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", tt.err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestExitError_Unwrap(t *testing.T) {
	cause := errors.New("permission denied")
	err := NewSystemErrorWithCause("writing page", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"user", NewUserError("x"), ExitUserError},
		{"system", NewSystemError("x"), ExitSystemError},
		{"conflict", NewConflictError("x"), ExitConflict},
		{"wrapped system", fmt.Errorf("planning: %w", NewSystemError("x")), ExitSystemError},
		{"plain", errors.New("x"), ExitUserError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.want {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
