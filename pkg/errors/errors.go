package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	CodeAppError   = "APP_ERROR"
	CodeAPIError   = "API_ERROR"
	CodeValidation = "VALIDATION_ERROR"
	CodeInput      = "INPUT_ERROR"
	CodeCredential = "CREDENTIAL_ERROR"
	CodeUpstream   = "UPSTREAM_ERROR"
	CodeCache      = "CACHE_ERROR"
)

type AppError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func NewAppError(message, code string, statusCode int, context map[string]any) *AppError {
	return &AppError{
		Message:    message,
		Code:       code,
		StatusCode: statusCode,
		Context:    context,
	}
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

type APIError struct {
	*AppError
}

func NewAPIError(message string, statusCode int, context map[string]any) *APIError {
	return &APIError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeAPIError,
			StatusCode: statusCode,
			Context:    context,
		},
	}
}

type ValidationError struct {
	*AppError
	Field string
	Value interface{}
}

func NewValidationError(message, field string, value interface{}) *ValidationError {
	return &ValidationError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeValidation,
			StatusCode: 400,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

// InputError reports a target URL that does not contain a video identifier.
type InputError struct {
	*AppError
	Input string
}

func NewInputError(message, input string) *InputError {
	return &InputError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeInput,
			StatusCode: 400,
			Context: map[string]any{
				"input": input,
			},
		},
		Input: input,
	}
}

// CredentialError reports that neither the caller nor the configuration supplied
// a usable API credential.
type CredentialError struct {
	*AppError
}

func NewCredentialError(message string) *CredentialError {
	return &CredentialError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeCredential,
			StatusCode: 401,
		},
	}
}

// UpstreamKind classifies why a metadata service call produced no entity.
type UpstreamKind string

const (
	KindNotFound          UpstreamKind = "not_found"
	KindAuthRejected      UpstreamKind = "auth_rejected"
	KindNetworkFailure    UpstreamKind = "network_failure"
	KindMalformedResponse UpstreamKind = "malformed_response"
)

func (k UpstreamKind) String() string {
	return string(k)
}

func (k UpstreamKind) statusCode() int {
	switch k {
	case KindNotFound:
		return 404
	case KindAuthRejected:
		return 401
	default:
		return 502
	}
}

type UpstreamError struct {
	*AppError
	Kind      UpstreamKind
	Service   string
	Operation string
}

func NewUpstreamError(kind UpstreamKind, service, operation string, cause error) *UpstreamError {
	return &UpstreamError{
		AppError: &AppError{
			Message:    fmt.Sprintf("%s %s failed (%s)", service, operation, kind),
			Code:       CodeUpstream,
			StatusCode: kind.statusCode(),
			Context: map[string]any{
				"service":   service,
				"operation": operation,
				"kind":      kind.String(),
			},
			Cause: cause,
		},
		Kind:      kind,
		Service:   service,
		Operation: operation,
	}
}

type CacheError struct {
	*AppError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeCache,
			StatusCode: 500,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

// As and Is forward to the standard library.
func As(err error, target any) bool { return stderrors.As(err, target) }

func Is(err, target error) bool { return stderrors.Is(err, target) }

// KindOf returns the upstream kind carried by err, if any.
func KindOf(err error) (UpstreamKind, bool) {
	var upstream *UpstreamError
	if stderrors.As(err, &upstream) {
		return upstream.Kind, true
	}
	return "", false
}

// IsKind reports whether err is an UpstreamError of the given kind.
func IsKind(err error, kind UpstreamKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// StatusCode maps any error of this package to its HTTP status; unknown errors are 500.
func StatusCode(err error) int {
	var (
		input      *InputError
		credential *CredentialError
		upstream   *UpstreamError
		validation *ValidationError
		api        *APIError
		app        *AppError
	)
	switch {
	case err == nil:
		return 200
	case stderrors.As(err, &input):
		return input.StatusCode
	case stderrors.As(err, &credential):
		return credential.StatusCode
	case stderrors.As(err, &upstream):
		return upstream.StatusCode
	case stderrors.As(err, &validation):
		return validation.StatusCode
	case stderrors.As(err, &api):
		return api.StatusCode
	case stderrors.As(err, &app):
		return app.StatusCode
	default:
		return 500
	}
}
