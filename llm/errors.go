package llm

import (
	"fmt"
	"net/http"
	"strings"
)

// ErrorType classifies provider failures. The retrier keys off this, not
// off provider-specific codes.
type ErrorType string

const (
	ErrorTypeUnknown           ErrorType = "unknown"
	ErrorTypeInvalidRequest    ErrorType = "invalid_request"
	ErrorTypeAuthentication    ErrorType = "authentication_error"
	ErrorTypePermission        ErrorType = "permission_error"
	ErrorTypeNotFound          ErrorType = "not_found"
	ErrorTypeRateLimit         ErrorType = "rate_limit_exceeded"
	ErrorTypeInsufficientQuota ErrorType = "insufficient_quota"
	ErrorTypeInvalidModel      ErrorType = "invalid_model"
	ErrorTypeContextLength     ErrorType = "context_length_exceeded"
	ErrorTypeContentFilter     ErrorType = "content_filter"
	ErrorTypeServerError       ErrorType = "server_error"
	ErrorTypeTimeout           ErrorType = "timeout"
	ErrorTypeConnectionError   ErrorType = "connection_error"
	ErrorTypeValidationError   ErrorType = "validation_error"
	ErrorTypeJSONParsingError  ErrorType = "json_parsing_error"
)

// LLMError is the normalized error shape every provider adapter returns.
type LLMError struct {
	Type       ErrorType         `json:"type"`
	Message    string            `json:"message"`
	Code       string            `json:"code,omitempty"`
	Provider   Provider          `json:"provider"`
	Model      string            `json:"model,omitempty"`
	HTTPStatus int               `json:"http_status,omitempty"`
	Retryable  bool              `json:"retryable"`
	RetryAfter int               `json:"retry_after,omitempty"` // seconds
	Details    map[string]string `json:"details,omitempty"`
	Cause      error             `json:"-"`
}

func (e *LLMError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s [%s]: %s", e.Provider, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *LLMError) Unwrap() error {
	return e.Cause
}

func (e *LLMError) IsRetryable() bool {
	return e.Retryable
}

// NewLLMError builds an error with retryability derived from the type.
func NewLLMError(provider Provider, errorType ErrorType, message string) *LLMError {
	return &LLMError{
		Type:      errorType,
		Message:   message,
		Provider:  provider,
		Retryable: isRetryableError(errorType),
	}
}

// NewLLMErrorWithCause is NewLLMError with a wrapped underlying error.
func NewLLMErrorWithCause(provider Provider, errorType ErrorType, message string, cause error) *LLMError {
	err := NewLLMError(provider, errorType, message)
	err.Cause = cause
	return err
}

// Only transient failures are worth retrying; everything else will fail
// the same way on the next attempt.
func isRetryableError(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeRateLimit, ErrorTypeServerError, ErrorTypeTimeout, ErrorTypeConnectionError:
		return true
	}
	return false
}

type statusMapping struct {
	typ       ErrorType
	message   string
	retryable bool
}

var statusMappings = map[int]statusMapping{
	http.StatusBadRequest:          {ErrorTypeInvalidRequest, "Invalid request parameters", false},
	http.StatusUnauthorized:        {ErrorTypeAuthentication, "Invalid API key or authentication failed", false},
	http.StatusForbidden:           {ErrorTypePermission, "Permission denied", false},
	http.StatusNotFound:            {ErrorTypeNotFound, "Resource not found", false},
	http.StatusTooManyRequests:     {ErrorTypeRateLimit, "Rate limit exceeded", true},
	http.StatusInternalServerError: {ErrorTypeServerError, "Server error occurred", true},
	http.StatusBadGateway:          {ErrorTypeServerError, "Server error occurred", true},
	http.StatusServiceUnavailable:  {ErrorTypeServerError, "Server error occurred", true},
	http.StatusGatewayTimeout:      {ErrorTypeServerError, "Server error occurred", true},
}

// ParseHTTPError turns an HTTP status plus response body into an LLMError.
// A recognizable error pattern in the body wins over the bare status code,
// since providers routinely return 400 for things like context overflow.
func ParseHTTPError(provider Provider, statusCode int, body string) *LLMError {
	mapping, ok := statusMappings[statusCode]
	if !ok {
		mapping = statusMapping{ErrorTypeUnknown, fmt.Sprintf("HTTP %d error", statusCode), false}
	}

	message := mapping.message
	if body != "" {
		if specific := extractSpecificError(provider, body); specific != nil {
			specific.HTTPStatus = statusCode
			return specific
		}
		message = fmt.Sprintf("%s: %s", message, truncateBody(body, 200))
	}

	return &LLMError{
		Type:       mapping.typ,
		Message:    message,
		Provider:   provider,
		HTTPStatus: statusCode,
		Retryable:  mapping.retryable,
	}
}

type bodyPattern struct {
	match     func(body string) bool
	typ       ErrorType
	message   string
	retryable bool
}

func anyOf(needles ...string) func(string) bool {
	return func(body string) bool {
		for _, n := range needles {
			if strings.Contains(body, n) {
				return true
			}
		}
		return false
	}
}

var bodyPatterns = []bodyPattern{
	{anyOf("rate limit", "too many requests"), ErrorTypeRateLimit, "Rate limit exceeded", true},
	{anyOf("insufficient quota", "quota exceeded"), ErrorTypeInsufficientQuota, "Insufficient quota or credits", false},
	{anyOf("context length", "token limit"), ErrorTypeContextLength, "Context length exceeded", false},
	{anyOf("content filter", "safety"), ErrorTypeContentFilter, "Content filtered by safety system", false},
	{
		func(body string) bool {
			return strings.Contains(body, "model") && anyOf("not found", "invalid")(body)
		},
		ErrorTypeInvalidModel, "Invalid or unavailable model", false,
	},
}

// extractSpecificError scans the body for error phrasings the providers
// share. Returns nil when nothing matches.
func extractSpecificError(provider Provider, body string) *LLMError {
	lower := strings.ToLower(body)
	for _, p := range bodyPatterns {
		if p.match(lower) {
			return &LLMError{
				Type:      p.typ,
				Message:   p.message,
				Provider:  provider,
				Retryable: p.retryable,
			}
		}
	}
	return nil
}

func truncateBody(body string, maxLength int) string {
	if len(body) <= maxLength {
		return body
	}
	return body[:maxLength] + "..."
}

// IsLLMError reports whether err is an LLMError and returns it if so.
func IsLLMError(err error) (*LLMError, bool) {
	if llmErr, ok := err.(*LLMError); ok {
		return llmErr, true
	}
	return nil, false
}

// IsRetryableError derives retryability from the error type rather than the
// stored flag, so hand-built LLMError values still classify correctly.
func IsRetryableError(err error) bool {
	if llmErr, ok := IsLLMError(err); ok {
		return isRetryableError(llmErr.Type)
	}
	return false
}

func IsRateLimitError(err error) bool {
	llmErr, ok := IsLLMError(err)
	return ok && llmErr.Type == ErrorTypeRateLimit
}

func IsContextLengthError(err error) bool {
	llmErr, ok := IsLLMError(err)
	return ok && llmErr.Type == ErrorTypeContextLength
}

func IsAuthenticationError(err error) bool {
	llmErr, ok := IsLLMError(err)
	return ok && llmErr.Type == ErrorTypeAuthentication
}

// ValidationError reports a single field failing structured-output checks.
type ValidationError struct {
	Field   string      `json:"field"`
	Value   interface{} `json:"value"`
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
}

func (v *ValidationError) Error() string {
	if v.Field != "" {
		return fmt.Sprintf("validation error on field '%s': %s", v.Field, v.Message)
	}
	return fmt.Sprintf("validation error: %s", v.Message)
}

// MultiValidationError collects field errors so a caller sees every problem
// with a structured response at once.
type MultiValidationError struct {
	Errors []ValidationError `json:"errors"`
}

func (m *MultiValidationError) Error() string {
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}
	return fmt.Sprintf("%d validation errors occurred", len(m.Errors))
}

func (m *MultiValidationError) Add(field string, value interface{}, message string) {
	m.Errors = append(m.Errors, ValidationError{Field: field, Value: value, Message: message})
}

func (m *MultiValidationError) HasErrors() bool {
	return len(m.Errors) > 0
}

func (m *MultiValidationError) ErrorOrNil() error {
	if m.HasErrors() {
		return m
	}
	return nil
}
