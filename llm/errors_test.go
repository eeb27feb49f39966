package llm

import (
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestLLMErrorText(t *testing.T) {
	err := &LLMError{
		Type:     ErrorTypeRateLimit,
		Message:  "Rate limit exceeded",
		Provider: ProviderOpenAI,
	}
	if got := err.Error(); got != "openai: Rate limit exceeded" {
		t.Errorf("error text = %q", got)
	}

	err.Code = "rate_limit_error"
	err.Provider = ProviderAnthropic
	if got := err.Error(); got != "anthropic [rate_limit_error]: Rate limit exceeded" {
		t.Errorf("error text with code = %q", got)
	}
}

func TestNewLLMErrorSetsRetryable(t *testing.T) {
	retryable := []ErrorType{
		ErrorTypeRateLimit, ErrorTypeServerError, ErrorTypeTimeout, ErrorTypeConnectionError,
	}
	for _, typ := range retryable {
		if !NewLLMError(ProviderOpenAI, typ, "x").IsRetryable() {
			t.Errorf("%s should be retryable", typ)
		}
	}

	terminal := []ErrorType{
		ErrorTypeInvalidRequest, ErrorTypeAuthentication, ErrorTypePermission,
		ErrorTypeNotFound, ErrorTypeInsufficientQuota, ErrorTypeInvalidModel,
		ErrorTypeContextLength, ErrorTypeContentFilter, ErrorTypeValidationError,
		ErrorTypeJSONParsingError, ErrorTypeUnknown,
	}
	for _, typ := range terminal {
		if NewLLMError(ProviderOpenAI, typ, "x").IsRetryable() {
			t.Errorf("%s should not be retryable", typ)
		}
	}
}

func TestLLMErrorUnwrap(t *testing.T) {
	cause := errors.New("network timeout")
	err := NewLLMErrorWithCause(ProviderAnthropic, ErrorTypeConnectionError, "connect failed", cause)

	if !errors.Is(err, cause) {
		t.Error("cause not reachable through Unwrap")
	}
}

func TestParseHTTPErrorStatusMapping(t *testing.T) {
	cases := []struct {
		status    int
		wantType  ErrorType
		retryable bool
	}{
		{http.StatusBadRequest, ErrorTypeInvalidRequest, false},
		{http.StatusUnauthorized, ErrorTypeAuthentication, false},
		{http.StatusForbidden, ErrorTypePermission, false},
		{http.StatusNotFound, ErrorTypeNotFound, false},
		{http.StatusTooManyRequests, ErrorTypeRateLimit, true},
		{http.StatusInternalServerError, ErrorTypeServerError, true},
		{http.StatusServiceUnavailable, ErrorTypeServerError, true},
		{http.StatusTeapot, ErrorTypeUnknown, false},
	}
	for _, c := range cases {
		err := ParseHTTPError(ProviderOpenAI, c.status, "")
		if err.Type != c.wantType {
			t.Errorf("status %d: type = %s, want %s", c.status, err.Type, c.wantType)
		}
		if err.Retryable != c.retryable {
			t.Errorf("status %d: retryable = %v, want %v", c.status, err.Retryable, c.retryable)
		}
		if err.HTTPStatus != c.status {
			t.Errorf("status %d not recorded on error", c.status)
		}
	}
}

func TestParseHTTPErrorBodyOverridesStatus(t *testing.T) {
	err := ParseHTTPError(ProviderOpenAI, http.StatusBadRequest, `{"error": "request exceeds context length limit"}`)
	if err.Type != ErrorTypeContextLength {
		t.Fatalf("type = %s, want %s", err.Type, ErrorTypeContextLength)
	}
	if err.HTTPStatus != http.StatusBadRequest {
		t.Error("status lost when body matched a specific error")
	}
}

func TestExtractSpecificError(t *testing.T) {
	cases := []struct {
		body string
		want ErrorType
	}{
		{"Error: rate limit exceeded, retry later", ErrorTypeRateLimit},
		{"insufficient quota remaining on this key", ErrorTypeInsufficientQuota},
		{"request exceeds context length limit", ErrorTypeContextLength},
		{"content filtered by safety system", ErrorTypeContentFilter},
		{"the model 'gpt-9' does not exist or is invalid", ErrorTypeInvalidModel},
	}
	for _, c := range cases {
		err := extractSpecificError(ProviderOpenAI, c.body)
		if err == nil || err.Type != c.want {
			t.Errorf("body %q: got %v, want type %s", c.body, err, c.want)
		}
	}

	if err := extractSpecificError(ProviderOpenAI, "some unrecognized failure"); err != nil {
		t.Errorf("unrecognized body should yield nil, got %v", err)
	}
}

func TestTruncateBody(t *testing.T) {
	if got := truncateBody("short", 10); got != "short" {
		t.Errorf("short body changed: %q", got)
	}
	long := strings.Repeat("x", 300)
	got := truncateBody(long, 200)
	if len(got) != 203 || !strings.HasSuffix(got, "...") {
		t.Errorf("truncation wrong: len=%d suffix=%q", len(got), got[len(got)-3:])
	}
}

func TestErrorCheckers(t *testing.T) {
	if !IsRateLimitError(&LLMError{Type: ErrorTypeRateLimit}) {
		t.Error("IsRateLimitError missed a rate limit error")
	}
	if !IsContextLengthError(&LLMError{Type: ErrorTypeContextLength}) {
		t.Error("IsContextLengthError missed a context length error")
	}
	if !IsAuthenticationError(&LLMError{Type: ErrorTypeAuthentication}) {
		t.Error("IsAuthenticationError missed an auth error")
	}
	if !IsRetryableError(&LLMError{Type: ErrorTypeServerError}) {
		t.Error("IsRetryableError missed a server error")
	}

	plain := errors.New("plain failure")
	for name, check := range map[string]func(error) bool{
		"IsRateLimitError":      IsRateLimitError,
		"IsContextLengthError":  IsContextLengthError,
		"IsAuthenticationError": IsAuthenticationError,
		"IsRetryableError":      IsRetryableError,
	} {
		if check(plain) {
			t.Errorf("%s matched a non-LLM error", name)
		}
	}

	if got, ok := IsLLMError(plain); ok || got != nil {
		t.Error("IsLLMError matched a plain error")
	}
}

func TestRetryableComputedFromType(t *testing.T) {
	// The Retryable field can be stale when the struct is built by hand.
	// IsRetryableError derives the answer from the type instead.
	err := &LLMError{Type: ErrorTypeRateLimit, Retryable: false}
	if !IsRetryableError(err) {
		t.Error("rate limit should be retryable regardless of the stored flag")
	}
}

func TestValidationErrorText(t *testing.T) {
	err := &ValidationError{
		Field:   "confidence",
		Value:   1.7,
		Message: "must be between 0 and 1",
	}
	if got := err.Error(); got != "validation error on field 'confidence': must be between 0 and 1" {
		t.Errorf("field error text = %q", got)
	}

	err = &ValidationError{Message: "invalid format"}
	if got := err.Error(); got != "validation error: invalid format" {
		t.Errorf("general error text = %q", got)
	}
}

func TestMultiValidationError(t *testing.T) {
	multi := &MultiValidationError{}
	if multi.HasErrors() || multi.ErrorOrNil() != nil {
		t.Fatal("empty multi error should be nil")
	}

	multi.Add("category", "spam", "unknown category")
	if got := multi.Error(); !strings.Contains(got, "unknown category") {
		t.Errorf("single error text = %q", got)
	}

	multi.Add("confidence", -1, "negative")
	if multi.ErrorOrNil() == nil {
		t.Fatal("expected error after adding")
	}
	if got := multi.Error(); !strings.Contains(got, "2 validation errors") {
		t.Errorf("multi error text = %q", got)
	}
}
