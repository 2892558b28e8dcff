package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: 0},
		{name: "precondition", err: &PreconditionError{Key: "token"}, want: ExitPrecondition},
		{name: "config", err: &ConfigError{Remote: "origin", Reason: "not configured"}, want: ExitConfig},
		{name: "ref not found", err: &RefNotFoundError{Ref: "alice/nope"}, want: ExitRef},
		{name: "same ref", err: &SameRefError{Owner: "bob", Branch: "main"}, want: ExitRef},
		{name: "request", err: &RequestError{Method: "POST", URL: "u", Message: "Validation Failed"}, want: ExitRequest},
		{name: "wrapped config", err: fmt.Errorf("resolve base: %w", &ConfigError{Reason: "x"}), want: ExitConfig},
		{name: "other", err: errors.New("boom"), want: ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestConfigErrorMessage(t *testing.T) {
	tests := []struct {
		err  *ConfigError
		want string
	}{
		{&ConfigError{Remote: "origin", Reason: "remote is not configured"}, `remote "origin": remote is not configured`},
		{&ConfigError{Remote: "origin", URL: "nope", Reason: "missing host"}, `remote "origin" (nope): missing host`},
		{&ConfigError{URL: "nope", Reason: "missing host"}, `remote URL "nope": missing host`},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestRequestErrorUnwrap(t *testing.T) {
	inner := errors.New("api error")
	err := fmt.Errorf("create: %w", &RequestError{Method: "POST", URL: "u", Message: "m", Err: inner})

	if !errors.Is(err, ErrRequest) {
		t.Error("expected errors.Is(err, ErrRequest)")
	}
	if !errors.Is(err, inner) {
		t.Error("expected wrapped API error to be reachable")
	}

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatal("expected errors.As to find *RequestError")
	}
	if reqErr.Message != "m" {
		t.Errorf("Message = %q, want %q", reqErr.Message, "m")
	}
}
