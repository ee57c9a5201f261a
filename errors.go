package hilt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/danpasecinic/hilt/internal/container"
	"github.com/danpasecinic/hilt/internal/graph"
	"github.com/danpasecinic/hilt/internal/key"
)

type ErrorCode uint16

const (
	ErrCodeUnknown ErrorCode = iota
	ErrCodeServiceNotFound
	ErrCodeCircularDependency
	ErrCodeCycleInPlan
	ErrCodeProviderFailed
	ErrCodeTypeMismatch
	ErrCodeInvalidQualifier
	ErrCodeInvalidConstructor
	ErrCodeNoRecording
	ErrCodeHealthCheckFailed
	ErrCodeModuleApplyFailed
)

var codeNames = map[ErrorCode]string{
	ErrCodeUnknown:            "UNKNOWN",
	ErrCodeServiceNotFound:    "SERVICE_NOT_FOUND",
	ErrCodeCircularDependency: "CIRCULAR_DEPENDENCY",
	ErrCodeCycleInPlan:        "CYCLE_IN_PLAN",
	ErrCodeProviderFailed:     "PROVIDER_FAILED",
	ErrCodeTypeMismatch:       "TYPE_MISMATCH",
	ErrCodeInvalidQualifier:   "INVALID_QUALIFIER",
	ErrCodeInvalidConstructor: "INVALID_CONSTRUCTOR",
	ErrCodeNoRecording:        "NO_RECORDING",
	ErrCodeHealthCheckFailed:  "HEALTH_CHECK_FAILED",
	ErrCodeModuleApplyFailed:  "MODULE_APPLY_FAILED",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", c)
}

// Error is the structured error returned by every public operation.
type Error struct {
	Code    ErrorCode
	Message string
	Service string
	Key     Key
	Cause   error
	Stack   []string

	origin error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s]", e.Code))

	if e.Service != "" {
		b.WriteString(fmt.Sprintf(" service=%q:", e.Service))
	}

	b.WriteString(" ")
	b.WriteString(e.Message)

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return e.origin
}

func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

func (e *Error) WithService(service string) *Error {
	e.Service = service
	return e
}

func (e *Error) WithStack(stack []string) *Error {
	e.Stack = stack
	return e
}

func (e *Error) withKey(k Key) *Error {
	e.Key = k
	e.Service = k.String()
	return e
}

func newError(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func errServiceNotFound(k Key, origin error) *Error {
	e := newError(ErrCodeServiceNotFound, "no provider registered for "+k.String(), nil).withKey(k)
	e.origin = origin
	return e
}

func errCircularDependency(path []Key, origin error) *Error {
	chain := make([]string, len(path))
	for i, k := range path {
		chain[i] = k.String()
	}
	e := newError(
		ErrCodeCircularDependency,
		"circular dependency detected: "+strings.Join(chain, " -> "),
		nil,
	).WithStack(chain)
	if len(path) > 0 {
		e.withKey(path[0])
	}
	e.origin = origin
	return e
}

func errCycleInPlan(cause error) *Error {
	return newError(ErrCodeCycleInPlan, "recorded graph is not acyclic", cause)
}

func errProviderFailed(k Key, cause error) *Error {
	return newError(ErrCodeProviderFailed, "provider for "+k.String()+" returned error", cause).withKey(k)
}

func errTypeMismatch(k Key, got any) *Error {
	return newError(
		ErrCodeTypeMismatch,
		fmt.Sprintf("provider for %s produced %T", k.String(), got),
		nil,
	).withKey(k)
}

func errInvalidQualifier(cause error) *Error {
	return newError(ErrCodeInvalidQualifier, "qualifier must be comparable", cause)
}

func errInvalidConstructor(typeName string, cause error) *Error {
	return newError(ErrCodeInvalidConstructor, "invalid constructor", cause).WithService(typeName)
}

func errNoRecording() *Error {
	return newError(ErrCodeNoRecording, "recording was never started", nil)
}

func errHealthCheckFailed(serviceName string, cause error) *Error {
	return newError(ErrCodeHealthCheckFailed, "health check failed", cause).WithService(serviceName)
}

func errModuleApplyFailed(moduleName string, cause error) *Error {
	return newError(ErrCodeModuleApplyFailed, fmt.Sprintf("failed to apply module %q", moduleName), cause)
}

// translate converts an engine error into an *Error. Errors that already are
// *Error pass through unchanged.
func translate(err error) error {
	if err == nil {
		return nil
	}

	var invalid *key.ErrInvalidQualifier
	switch e := err.(type) {
	case *Error:
		return e
	case *container.NotFoundError:
		return errServiceNotFound(e.Key, e)
	case *container.CycleError:
		return errCircularDependency(e.Path, e)
	case *container.ProviderError:
		return errProviderFailed(e.Key, e.Err)
	}

	switch {
	case errors.As(err, &invalid):
		return errInvalidQualifier(err)
	case errors.Is(err, graph.ErrCycleDetected):
		return errCycleInPlan(err)
	}
	return newError(ErrCodeUnknown, "unexpected error", err)
}

func codeOf(err error) ErrorCode {
	switch e := err.(type) {
	case *Error:
		return e.Code
	case *container.NotFoundError:
		return ErrCodeServiceNotFound
	case *container.CycleError:
		return ErrCodeCircularDependency
	case *container.ProviderError:
		return ErrCodeProviderFailed
	case *key.ErrInvalidQualifier:
		return ErrCodeInvalidQualifier
	}
	if err == graph.ErrCycleDetected { //nolint:errorlint // sentinel identity
		return ErrCodeCycleInPlan
	}
	return ErrCodeUnknown
}

// hasCode reports whether any error in err's tree carries code.
func hasCode(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}
	if codeOf(err) == code {
		return true
	}
	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		for _, inner := range u.Unwrap() {
			if hasCode(inner, code) {
				return true
			}
		}
	case interface{ Unwrap() error }:
		return hasCode(u.Unwrap(), code)
	}
	return false
}

// isNotFoundFor reports whether err itself, not a nested cause, says k is missing.
func isNotFoundFor(err error, k Key) bool {
	switch e := err.(type) {
	case *container.NotFoundError:
		return e.Key == k
	case *Error:
		return e.Code == ErrCodeServiceNotFound && e.Key == k
	}
	return false
}

func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeServiceNotFound)
}

func IsCircularDependency(err error) bool {
	return hasCode(err, ErrCodeCircularDependency)
}

func IsCycleInPlan(err error) bool {
	return hasCode(err, ErrCodeCycleInPlan)
}

func IsProviderFailed(err error) bool {
	return hasCode(err, ErrCodeProviderFailed)
}

func IsTypeMismatch(err error) bool {
	return hasCode(err, ErrCodeTypeMismatch)
}

func IsInvalidQualifier(err error) bool {
	return hasCode(err, ErrCodeInvalidQualifier)
}

func IsInvalidConstructor(err error) bool {
	return hasCode(err, ErrCodeInvalidConstructor)
}

func IsNoRecording(err error) bool {
	return hasCode(err, ErrCodeNoRecording)
}

func IsHealthCheckFailed(err error) bool {
	return hasCode(err, ErrCodeHealthCheckFailed)
}
