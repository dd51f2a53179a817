package errors

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{New(ErrCodeInvalidGraph, "edge %s -> %s skips a layer", "a", "c"), "INVALID_GRAPH: edge a -> c skips a layer"},
		{Wrap(ErrCodeInvalidFormat, io.ErrUnexpectedEOF, "decode graph"), "INVALID_FORMAT: decode graph: unexpected EOF"},
		{Invariant("port %s not found on %s", "p1", "n1"), "INVARIANT_VIOLATION: port p1 not found on n1"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestWrapUnwraps(t *testing.T) {
	err := Wrap(ErrCodeFileNotFound, io.EOF, "read layout.json")
	if !errors.Is(err, io.EOF) {
		t.Error("cause not reachable through errors.Is")
	}
	if errors.Unwrap(err) != io.EOF {
		t.Errorf("Unwrap() = %v", errors.Unwrap(err))
	}
}

func TestIsAndGetCode(t *testing.T) {
	inner := New(ErrCodeUnknownOption, "no option spacing.node")
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"coded", inner, ErrCodeUnknownOption},
		{"outermost wins", Wrap(ErrCodeInvalidInput, inner, "configure"), ErrCodeInvalidInput},
		{"fmt wrapped", fmt.Errorf("load: %w", inner), ErrCodeUnknownOption},
		{"plain", errors.New("plain"), ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %q, want %q", got, tt.want)
			}
			if tt.want != "" && !Is(tt.err, tt.want) {
				t.Errorf("Is(%q) = false", tt.want)
			}
			if Is(tt.err, ErrCodeInternal) {
				t.Error("Is(INTERNAL_ERROR) = true")
			}
		})
	}
	if Is(errors.New("x"), "") {
		t.Error("uncoded error matched the empty code")
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"coded", New(ErrCodeNotFound, "no element named %q", "n9"), `no element named "n9"`},
		{"wrapped plain", Wrap(ErrCodeInvalidFormat, io.ErrUnexpectedEOF, "decode graph"), "decode graph: unexpected EOF"},
		{"wrapped coded", Wrap(ErrCodeInvalidInput, New(ErrCodeInvalidOption, "bad strategy"), "configure @graph"), "configure @graph: bad strategy"},
		{"plain", errors.New("plain error"), "plain error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAsInvariant(t *testing.T) {
	inv := Invariant("neither port of %s found", "n1")
	tests := []struct {
		name string
		r    any
		want bool
	}{
		{"invariant", inv, true},
		{"wrapped invariant", fmt.Errorf("sort layer 2: %w", inv), true},
		{"other code", New(ErrCodeInvalidGraph, "x"), false},
		{"plain error", errors.New("x"), false},
		{"string", "boom", false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := AsInvariant(tt.r)
			if ok != tt.want {
				t.Fatalf("AsInvariant() ok = %v, want %v", ok, tt.want)
			}
			if ok && e != inv {
				t.Errorf("AsInvariant() = %v, want %v", e, inv)
			}
		})
	}
}
