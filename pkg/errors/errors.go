package errors

import (
	"fmt"
)

// ParseError represents a YAML parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures playbook or inventory validation issues.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// MissingParamError reports a required module parameter absent from a task.
type MissingParamError struct {
	Module string
	Param  string
}

// NewMissingParamError constructs a MissingParamError.
func NewMissingParamError(module, param string) error {
	return &MissingParamError{Module: module, Param: param}
}

func (e *MissingParamError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("module %q requires parameter %q", e.Module, e.Param)
}

// ConnectionError reports a failure to open a session to a host.
type ConnectionError struct {
	Host string
	Err  error
}

// NewConnectionError constructs a ConnectionError for the given host.
func NewConnectionError(host string, err error) error {
	return &ConnectionError{Host: host, Err: err}
}

func (e *ConnectionError) Error() string {
	if e == nil {
		return ""
	}
	if e.Host != "" {
		return fmt.Sprintf("connection failed: %s: %v", e.Host, e.Err)
	}
	return fmt.Sprintf("connection failed: %v", e.Err)
}

// Unwrap exposes the underlying error.
func (e *ConnectionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ExecutionError represents a runtime failure while executing a task.
type ExecutionError struct {
	Module string
	Err    error
}

// NewExecutionError constructs an ExecutionError.
func NewExecutionError(module string, err error) error {
	return &ExecutionError{Module: module, Err: err}
}

func (e *ExecutionError) Error() string {
	if e == nil {
		return ""
	}
	if e.Module != "" {
		return fmt.Sprintf("execution error in module %s: %v", e.Module, e.Err)
	}
	return fmt.Sprintf("execution error: %v", e.Err)
}

// Unwrap exposes the root error.
func (e *ExecutionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ModuleError indicates issues within module registration or lookup.
type ModuleError struct {
	Module  string
	Message string
	Err     error
}

// NewModuleError constructs a ModuleError for the given module name.
func NewModuleError(module string, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ModuleError{Module: module, Message: message, Err: err}
}

func (e *ModuleError) Error() string {
	if e == nil {
		return ""
	}
	if e.Module != "" {
		return fmt.Sprintf("module error [%s]: %s", e.Module, e.Message)
	}
	return fmt.Sprintf("module error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ModuleError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
