package schema

import (
	"errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

// ErrorKind classifies analytics failures. None of them are fatal.
type ErrorKind string

// All error kinds produced by the engine.
const (
	KindEmptyInput          ErrorKind = "EMPTY_INPUT"
	KindUndefinedGrowth     ErrorKind = "UNDEFINED_GROWTH"
	KindInsufficientData    ErrorKind = "INSUFFICIENT_DATA"
	KindInsufficientHistory ErrorKind = "INSUFFICIENT_HISTORY"
	KindForecastUnavailable ErrorKind = "FORECAST_UNAVAILABLE"
	KindInvalidInput        ErrorKind = "INVALID_INPUT"
	KindSourceUnavailable   ErrorKind = "SOURCE_UNAVAILABLE"
)

// AnalyticsError carries a kind, a message, the wrapped cause and the stack at creation.
type AnalyticsError struct {
	Kind    ErrorKind
	Message string
	Err     error
	Stack   []byte
}

func (e *AnalyticsError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the cause.
func (e *AnalyticsError) Unwrap() error {
	return e.Err
}

// Is matches any AnalyticsError with the same kind, so sentinels work with errors.Is.
func (e *AnalyticsError) Is(target error) bool {
	var other *AnalyticsError
	if !errors.As(target, &other) {
		return false
	}
	return other.Kind == e.Kind
}

// StackTrace returns the captured stack.
func (e *AnalyticsError) StackTrace() []byte {
	return e.Stack
}

// NewAnalyticsError builds an error of the given kind, capturing the stack of the cause when it has one.
func NewAnalyticsError(kind ErrorKind, message string, err error) *AnalyticsError {
	var stack []byte
	if err != nil {
		var stackErr *goerrors.Error
		if errors.As(err, &stackErr) {
			stack = stackErr.Stack()
		} else {
			stack = goerrors.Wrap(err, 2).Stack()
		}
	} else {
		stack = goerrors.New(message).Stack()
	}
	return &AnalyticsError{Kind: kind, Message: message, Err: err, Stack: stack}
}

// Sentinels for errors.Is comparisons.
var (
	ErrEmptyInput          = &AnalyticsError{Kind: KindEmptyInput, Message: "empty input"}
	ErrUndefinedGrowth     = &AnalyticsError{Kind: KindUndefinedGrowth, Message: "growth is undefined"}
	ErrInsufficientData    = &AnalyticsError{Kind: KindInsufficientData, Message: "insufficient data"}
	ErrInsufficientHistory = &AnalyticsError{Kind: KindInsufficientHistory, Message: "insufficient history"}
	ErrForecastUnavailable = &AnalyticsError{Kind: KindForecastUnavailable, Message: "forecast unavailable"}
	ErrInvalidInput        = &AnalyticsError{Kind: KindInvalidInput, Message: "invalid input"}
	ErrSourceUnavailable   = &AnalyticsError{Kind: KindSourceUnavailable, Message: "source unavailable"}
)

// InvalidInput is a shorthand for parameter validation failures.
func InvalidInput(format string, args ...any) *AnalyticsError {
	return NewAnalyticsError(KindInvalidInput, fmt.Sprintf(format, args...), nil)
}

// InsufficientHistory reports a series that is too short to forecast.
func InsufficientHistory(have, want int) *AnalyticsError {
	return NewAnalyticsError(KindInsufficientHistory, fmt.Sprintf("need at least %d history points, have %d", want, have), nil)
}

// ForecastUnavailable wraps any failure of the external forecasting routine.
func ForecastUnavailable(err error) *AnalyticsError {
	return NewAnalyticsError(KindForecastUnavailable, "external forecaster failed", err)
}

// SourceUnavailable wraps a data source read failure.
func SourceUnavailable(err error) *AnalyticsError {
	return NewAnalyticsError(KindSourceUnavailable, "data source read failed", err)
}
