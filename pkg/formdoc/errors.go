// Package formdoc provides custom error types so callers can tell configuration
// problems from data problems.
package formdoc

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels matched by errors.Is against the typed errors below.
var (
	ErrTemplateNotFound    = errors.New("template not found")
	ErrMalformedPackage    = errors.New("malformed package")
	ErrSerialization       = errors.New("serialization failure")
	ErrIdentifierCollision = errors.New("identifier collision")
	ErrUnsupportedImage    = errors.New("unsupported image")
)

// TemplateNotFoundError is returned when the template resource is absent.
type TemplateNotFoundError struct {
	Path  string
	Cause error
}

func (e *TemplateNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template not found at '%s': %v", e.Path, e.Cause)
	}
	return fmt.Sprintf("template not found at '%s'", e.Path)
}

func (e *TemplateNotFoundError) Unwrap() error {
	return e.Cause
}

func (e *TemplateNotFoundError) Is(target error) bool {
	return target == ErrTemplateNotFound
}

// MalformedPackageError is returned when a package lacks an expected part or cannot
// be read as a package at all. Package is the position of the offending input in a
// merge, or -1 outside of a merge.
type MalformedPackageError struct {
	Package int
	Part    string
	Cause   error
}

func (e *MalformedPackageError) Error() string {
	var sb strings.Builder
	sb.WriteString("malformed package")
	if e.Package >= 0 {
		fmt.Fprintf(&sb, " #%d", e.Package)
	}
	if e.Part != "" {
		fmt.Fprintf(&sb, " (part '%s')", e.Part)
	}
	if e.Cause != nil {
		fmt.Fprintf(&sb, ": %v", e.Cause)
	}
	return sb.String()
}

func (e *MalformedPackageError) Unwrap() error {
	return e.Cause
}

func (e *MalformedPackageError) Is(target error) bool {
	return target == ErrMalformedPackage
}

// NewMalformedPackageError creates a new malformed package error
func NewMalformedPackageError(pkg int, part string, cause error) error {
	return &MalformedPackageError{
		Package: pkg,
		Part:    part,
		Cause:   cause,
	}
}

// SerializationError is returned when the final package cannot be produced.
type SerializationError struct {
	Part  string
	Cause error
}

func (e *SerializationError) Error() string {
	if e.Part != "" {
		return fmt.Sprintf("serialization failure writing '%s': %v", e.Part, e.Cause)
	}
	return fmt.Sprintf("serialization failure: %v", e.Cause)
}

func (e *SerializationError) Unwrap() error {
	return e.Cause
}

func (e *SerializationError) Is(target error) bool {
	return target == ErrSerialization
}

// NewSerializationError creates a new serialization error
func NewSerializationError(part string, cause error) error {
	return &SerializationError{
		Part:  part,
		Cause: cause,
	}
}

// IdentifierCollisionError is returned when no free relationship id can be
// allocated or an id is already taken.
type IdentifierCollisionError struct {
	ID    string
	Cause error
}

func (e *IdentifierCollisionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("identifier collision on '%s': %v", e.ID, e.Cause)
	}
	return fmt.Sprintf("identifier collision on '%s'", e.ID)
}

func (e *IdentifierCollisionError) Unwrap() error {
	return e.Cause
}

func (e *IdentifierCollisionError) Is(target error) bool {
	return target == ErrIdentifierCollision
}

// ImageError is returned when image bytes are not in a format any registered
// decoder recognizes. Index is the image's position in its request.
type ImageError struct {
	Index int
	Cause error
}

func (e *ImageError) Error() string {
	return fmt.Sprintf("image %d: %v", e.Index+1, e.Cause)
}

func (e *ImageError) Unwrap() error {
	return e.Cause
}

func (e *ImageError) Is(target error) bool {
	return target == ErrUnsupportedImage
}

// ValidationIssue represents a single validation problem
type ValidationIssue struct {
	Field   string
	Message string
}

// ValidationError represents multiple validation issues
type ValidationError struct {
	Issues []ValidationIssue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "validation error"
	}

	if len(e.Issues) == 1 {
		return fmt.Sprintf("validation error: %s - %s", e.Issues[0].Field, e.Issues[0].Message)
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("%d validation issues:", len(e.Issues)))
	for _, issue := range e.Issues {
		parts = append(parts, fmt.Sprintf("  %s: %s", issue.Field, issue.Message))
	}
	return strings.Join(parts, "\n")
}

// ContextError adds context to an existing error
type ContextError struct {
	Operation string
	Context   map[string]interface{}
	Cause     error
}

func (e *ContextError) Error() string {
	var contextParts []string
	for k, v := range e.Context {
		contextParts = append(contextParts, fmt.Sprintf("%s=%v", k, v))
	}

	if len(contextParts) > 0 {
		return fmt.Sprintf("%s [%s]: %v", e.Operation, strings.Join(contextParts, ", "), e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Operation, e.Cause)
}

func (e *ContextError) Unwrap() error {
	return e.Cause
}

// WithContext wraps an error with additional context
func WithContext(err error, operation string, context map[string]interface{}) error {
	if err == nil {
		return nil
	}
	return &ContextError{
		Operation: operation,
		Context:   context,
		Cause:     err,
	}
}

// IsTemplateNotFound checks if an error is, or wraps, a template-not-found error
func IsTemplateNotFound(err error) bool {
	return errors.Is(err, ErrTemplateNotFound)
}

// IsMalformedPackage checks if an error is, or wraps, a malformed package error
func IsMalformedPackage(err error) bool {
	return errors.Is(err, ErrMalformedPackage)
}

// IsSerializationError checks if an error is, or wraps, a serialization error
func IsSerializationError(err error) bool {
	return errors.Is(err, ErrSerialization)
}

// IsIdentifierCollision checks if an error is, or wraps, an identifier collision
func IsIdentifierCollision(err error) bool {
	return errors.Is(err, ErrIdentifierCollision)
}
