package errors

import (
	"errors"
	"strings"
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
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeMetadataIO, cause, "failed to read")

	if err.Code != ErrCodeMetadataIO {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeMetadataIO)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestWrapItem(t *testing.T) {
	cause := errors.New("permission denied")
	err := WrapItem(ErrCodeLocatorIO, cause, "com/acme/a/1.0/a-1.0.pom", "stat metadata file")

	got := err.Error()
	want := "LOCATOR_IO: stat metadata file [com/acme/a/1.0/a-1.0.pom]: permission denied"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if GetItem(err) != "com/acme/a/1.0/a-1.0.pom" {
		t.Errorf("GetItem() = %q", GetItem(err))
	}
	if GetItem(errors.New("plain")) != "" {
		t.Error("GetItem on plain error should be empty")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodePrecondition, "test"),
			code:     ErrCodePrecondition,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodePrecondition, "test"),
			code:     ErrCodePackagingIO,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodePackagingIO, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodePackagingIO,
			expected: true,
		},
		{
			name:     "fmt wrapped",
			err:      errorf(New(ErrCodeUnsupportedStorage, "proxy")),
			code:     ErrCodeUnsupportedStorage,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
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
	if got := GetCode(New(ErrCodeManifestFormat, "bad")); got != ErrCodeManifestFormat {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeManifestFormat)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode() = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidInput, "bad input")); got != "bad input" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage() = %q", got)
	}
	err := WrapItem(ErrCodePackagingIO, New(ErrCodeInvalidPath, "bad path"), "g:a:1.0:pom", "write gem")
	if got := UserMessage(err); got != "write gem [g:a:1.0:pom]: bad path" {
		t.Errorf("UserMessage() = %q", got)
	}
}

func TestIsIO(t *testing.T) {
	for _, code := range []Code{ErrCodeLocatorIO, ErrCodeMetadataIO, ErrCodePackagingIO} {
		if !IsIO(New(code, "x")) {
			t.Errorf("IsIO(%s) = false", code)
		}
	}
	if IsIO(New(ErrCodePrecondition, "x")) {
		t.Error("IsIO(PRECONDITION_VIOLATION) = true")
	}
}

func errorf(err error) error {
	return &wrapped{msg: "context: " + strings.ToLower(err.Error()), err: err}
}

type wrapped struct {
	msg string
	err error
}

func (w *wrapped) Error() string { return w.msg }
func (w *wrapped) Unwrap() error { return w.err }
