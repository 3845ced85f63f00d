// Package errors defines the structured error types used across the islet
// renderer-dispatch core.
//
// Errors are classified by type and carry a stable machine-readable code so
// callers can distinguish startup-time registration failures (fatal) from
// render-time resolution failures (fatal to one component) and per-renderer
// probe failures (captured, never fatal on their own).
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeResolution   ErrorType = "resolution"
	ErrorTypeProbe        ErrorType = "probe"
	ErrorTypeRegistration ErrorType = "registration"
	ErrorTypeRender       ErrorType = "render"
	ErrorTypeConfig       ErrorType = "config"
	ErrorTypeInternal     ErrorType = "internal"
)

// Common error codes.
const (
	ErrCodeNoMatchingRenderer = "ERR_NO_MATCHING_RENDERER"
	ErrCodeCheckFailed        = "ERR_CHECK_FAILED"
	ErrCodeRegistration       = "ERR_REGISTRATION"
	ErrCodeRendererNotFound   = "ERR_RENDERER_NOT_FOUND"
	ErrCodeRenderFailed       = "ERR_RENDER_FAILED"
	ErrCodeConfigInvalid      = "ERR_CONFIG_INVALID"
	ErrCodeInternal           = "ERR_INTERNAL"
)

// IsletError is a structured error type with dispatch context.
type IsletError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Renderer    string
	Component   string
	Candidates  []string
	Recoverable bool
}

// Error implements the error interface.
func (e *IsletError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}
	if e.Renderer != "" {
		parts = append(parts, "renderer:"+e.Renderer)
	}
	if e.Component != "" {
		parts = append(parts, "component:"+e.Component)
	}

	parts = append(parts, e.Message)
	result := strings.Join(parts, " ")

	if len(e.Candidates) > 0 {
		result += fmt.Sprintf(" (likely candidates: %s)", strings.Join(e.Candidates, ", "))
	}
	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *IsletError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison by type and code.
func (e *IsletError) Is(target error) bool {
	var t *IsletError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithRenderer adds renderer context to the error.
func (e *IsletError) WithRenderer(name string) *IsletError {
	e.Renderer = name

	return e
}

// WithComponent adds component context to the error.
func (e *IsletError) WithComponent(component string) *IsletError {
	e.Component = component

	return e
}

// Error creation functions

// NewNoMatchingRenderer creates the resolution failure returned when no
// registered renderer claimed a component. candidates is a best-effort list
// of renderer names derived from the component's file extension, used only
// for diagnostics. firstProbeErr is the first error captured from a probe
// during the failed resolution, if any.
func NewNoMatchingRenderer(component string, candidates []string, firstProbeErr error) *IsletError {
	return &IsletError{
		Type:        ErrorTypeResolution,
		Code:        ErrCodeNoMatchingRenderer,
		Message:     "no renderer claimed the component",
		Cause:       firstProbeErr,
		Component:   component,
		Candidates:  candidates,
		Recoverable: false,
	}
}

// NewCheckFailed creates the captured, non-fatal error recording that a
// renderer's probe threw instead of returning false.
func NewCheckFailed(renderer string, cause error) *IsletError {
	return &IsletError{
		Type:        ErrorTypeProbe,
		Code:        ErrCodeCheckFailed,
		Message:     "renderer check failed",
		Cause:       cause,
		Renderer:    renderer,
		Recoverable: true,
	}
}

// NewRegistrationError creates a startup-time registration error. These are
// never recovered; they abort setup.
func NewRegistrationError(message string) *IsletError {
	return &IsletError{
		Type:        ErrorTypeRegistration,
		Code:        ErrCodeRegistration,
		Message:     message,
		Recoverable: false,
	}
}

// NewRendererNotFound creates the error returned when an explicit directive
// names a renderer that is not registered.
func NewRendererNotFound(name string) *IsletError {
	return &IsletError{
		Type:        ErrorTypeResolution,
		Code:        ErrCodeRendererNotFound,
		Message:     "renderer not registered",
		Renderer:    name,
		Recoverable: false,
	}
}

// NewRenderError creates a render-time failure from a selected renderer.
func NewRenderError(renderer string, cause error) *IsletError {
	return &IsletError{
		Type:        ErrorTypeRender,
		Code:        ErrCodeRenderFailed,
		Message:     "render failed",
		Cause:       cause,
		Renderer:    renderer,
		Recoverable: false,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(message string) *IsletError {
	return &IsletError{
		Type:        ErrorTypeConfig,
		Code:        ErrCodeConfigInvalid,
		Message:     message,
		Recoverable: false,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(message string, cause error) *IsletError {
	return &IsletError{
		Type:        ErrorTypeInternal,
		Code:        ErrCodeInternal,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// Classification helpers

// IsNoMatchingRenderer reports whether err is a resolution failure.
func IsNoMatchingRenderer(err error) bool {
	var ie *IsletError
	if errors.As(err, &ie) {
		return ie.Code == ErrCodeNoMatchingRenderer
	}

	return false
}

// IsCheckFailed reports whether err is a captured probe failure.
func IsCheckFailed(err error) bool {
	var ie *IsletError
	if errors.As(err, &ie) {
		return ie.Code == ErrCodeCheckFailed
	}

	return false
}

// IsRegistration reports whether err is a registration failure.
func IsRegistration(err error) bool {
	var ie *IsletError
	if errors.As(err, &ie) {
		return ie.Type == ErrorTypeRegistration
	}

	return false
}

// IsRecoverable checks if an error is recoverable.
func IsRecoverable(err error) bool {
	var ie *IsletError
	if errors.As(err, &ie) {
		return ie.Recoverable
	}

	return false
}
