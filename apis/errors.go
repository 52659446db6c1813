/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package apis

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Every typed error below matches ErrRegistry and its own
// sentinel through errors.Is, so callers can catch broadly or narrowly.
var (
	// ErrRegistry is the root of the error taxonomy.
	ErrRegistry = errors.New("modelreg: registry error")
	// ErrConfiguration indicates a malformed Configuration.
	ErrConfiguration = errors.New("modelreg: invalid configuration")
	// ErrFieldValidation indicates a field reference that does not exist.
	ErrFieldValidation = errors.New("modelreg: field validation failed")
	// ErrFieldResolution indicates a relation path that breaks part-way.
	ErrFieldResolution = errors.New("modelreg: field resolution failed")
	// ErrDuplicateRegistration indicates a second Configuration for one entity.
	ErrDuplicateRegistration = errors.New("modelreg: duplicate registration")
	// ErrComponentGeneration indicates a factory failure.
	ErrComponentGeneration = errors.New("modelreg: component generation failed")
	// ErrIdentifierFormat indicates a malformed "namespace.TypeName" string.
	ErrIdentifierFormat = errors.New("modelreg: malformed identifier")
	// ErrNotFound indicates an identifier that names no known type.
	ErrNotFound = errors.New("modelreg: entity type not found")
	// ErrNotRegistered indicates a known type without a Configuration.
	ErrNotRegistered = errors.New("modelreg: entity type not registered")
	// ErrComponentWarning marks non-fatal generation issues.
	ErrComponentWarning = errors.New("modelreg: component warning")
)

// ConfigurationError reports a malformed Configuration.
type ConfigurationError struct {
	Entity  Identity // Entity the configuration targets (may be zero)
	Option  string   // Offending option or attribute
	Message string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString("modelreg: invalid configuration")
	if !e.Entity.IsZero() {
		b.WriteString(" for ")
		b.WriteString(e.Entity.String())
	}
	if e.Option != "" {
		fmt.Fprintf(&b, " (%s)", e.Option)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether target is ErrConfiguration or ErrRegistry.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration || target == ErrRegistry
}

// NewConfigurationError creates a new ConfigurationError.
func NewConfigurationError(entity Identity, option, message string) *ConfigurationError {
	return &ConfigurationError{Entity: entity, Option: option, Message: message}
}

// FieldValidationError reports a field name that does not exist on an entity.
type FieldValidationError struct {
	Field      string   // Reference as requested
	Entity     Identity // Entity the reference was checked against
	Suggestion string   // Closest valid name, empty if none is close enough
	Reason     string   // Optional detail; defaults to "unknown field"
}

// Error implements the error interface.
func (e *FieldValidationError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "unknown field"
	}
	msg := fmt.Sprintf("modelreg: %s %q on %s", reason, e.Field, e.Entity)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

// Is reports whether target is ErrFieldValidation or ErrRegistry.
func (e *FieldValidationError) Is(target error) bool {
	return target == ErrFieldValidation || target == ErrRegistry
}

// FieldResolutionError reports a relation path that resolves partially and
// then fails at Segment.
type FieldResolutionError struct {
	Path       string   // Full path as requested
	Segment    string   // Segment at which resolution failed
	Entity     Identity // Entity the path starts from
	Reason     string
	Suggestion string
}

// Error implements the error interface.
func (e *FieldResolutionError) Error() string {
	msg := fmt.Sprintf("modelreg: cannot resolve %q on %s at segment %q", e.Path, e.Entity, e.Segment)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

// Is reports whether target is ErrFieldResolution or ErrRegistry.
func (e *FieldResolutionError) Is(target error) bool {
	return target == ErrFieldResolution || target == ErrRegistry
}

// DuplicateRegistrationError reports a second registration for one entity.
type DuplicateRegistrationError struct {
	Entity        Identity
	OriginalSite  string // "file:line" of the first registration
	AttemptedSite string // "file:line" of the rejected registration
}

// Error implements the error interface.
func (e *DuplicateRegistrationError) Error() string {
	return fmt.Sprintf("modelreg: %s is already registered (first at %s, again at %s)",
		e.Entity, siteOrUnknown(e.OriginalSite), siteOrUnknown(e.AttemptedSite))
}

// Is reports whether target is ErrDuplicateRegistration or ErrRegistry.
func (e *DuplicateRegistrationError) Is(target error) bool {
	return target == ErrDuplicateRegistration || target == ErrRegistry
}

// ComponentGenerationError wraps a failure raised while a factory built an artifact.
type ComponentGenerationError struct {
	Surface Surface
	Entity  Identity
	Cause   error
}

// Error implements the error interface.
func (e *ComponentGenerationError) Error() string {
	return fmt.Sprintf("modelreg: generating %s for %s: %v", e.Surface, e.Entity, e.Cause)
}

// Unwrap returns the underlying error.
func (e *ComponentGenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrComponentGeneration or ErrRegistry.
func (e *ComponentGenerationError) Is(target error) bool {
	return target == ErrComponentGeneration || target == ErrRegistry
}

// IdentifierFormatError reports a string identifier that is not of the form
// "namespace.TypeName".
type IdentifierFormatError struct {
	Input  string
	Reason string
}

// Error implements the error interface.
func (e *IdentifierFormatError) Error() string {
	return fmt.Sprintf("modelreg: malformed identifier %q: %s (want \"namespace.TypeName\")", e.Input, e.Reason)
}

// Is reports whether target is ErrIdentifierFormat or ErrRegistry.
func (e *IdentifierFormatError) Is(target error) bool {
	return target == ErrIdentifierFormat || target == ErrRegistry
}

// NotFoundError reports an identifier that names no type in the universe.
type NotFoundError struct {
	Identifier string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("modelreg: entity type %q not found", e.Identifier)
}

// Is reports whether target is ErrNotFound or ErrRegistry.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound || target == ErrRegistry
}

// NotRegisteredError reports a known entity type without a Configuration.
type NotRegisteredError struct {
	Entity Identity
}

// Error implements the error interface.
func (e *NotRegisteredError) Error() string {
	return fmt.Sprintf("modelreg: %s is not registered", e.Entity)
}

// Is reports whether target is ErrNotRegistered or ErrRegistry.
func (e *NotRegisteredError) Is(target error) bool {
	return target == ErrNotRegistered || target == ErrRegistry
}

// ComponentWarning is a non-fatal issue found while building an artifact:
// the field cannot be represented on the surface and was left out.
type ComponentWarning struct {
	Surface Surface
	Entity  Identity
	Field   string
	Kind    Kind
	Reason  string
}

// Error implements the error interface.
func (e *ComponentWarning) Error() string {
	msg := fmt.Sprintf("modelreg: %s of %s omits %q (%s)", e.Surface, e.Entity, e.Field, e.Kind)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// Is reports whether target is ErrComponentWarning or ErrRegistry.
func (e *ComponentWarning) Is(target error) bool {
	return target == ErrComponentWarning || target == ErrRegistry
}

// AggregateError collects several errors, e.g. from a registry-wide check.
type AggregateError struct {
	Errors []error
}

// Error returns the error string.
func (e *AggregateError) Error() string {
	if len(e.Errors) == 0 {
		return "modelreg: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("modelreg: multiple errors:")
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "\n  [%d] %v", i+1, err)
	}
	return sb.String()
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// NewAggregateError returns an AggregateError if there are errors,
// otherwise returns nil. A single error is returned unwrapped.
func NewAggregateError(errs ...error) error {
	var filtered []error
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	switch len(filtered) {
	case 0:
		return nil
	case 1:
		return filtered[0]
	}
	return &AggregateError{Errors: filtered}
}

// IsConfigurationError reports whether err is or wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var e *ConfigurationError
	return errors.As(err, &e)
}

// IsFieldValidationError reports whether err is or wraps a FieldValidationError.
func IsFieldValidationError(err error) bool {
	var e *FieldValidationError
	return errors.As(err, &e)
}

// IsFieldResolutionError reports whether err is or wraps a FieldResolutionError.
func IsFieldResolutionError(err error) bool {
	var e *FieldResolutionError
	return errors.As(err, &e)
}

// IsDuplicateRegistration reports whether err is or wraps a DuplicateRegistrationError.
func IsDuplicateRegistration(err error) bool {
	var e *DuplicateRegistrationError
	return errors.As(err, &e)
}

// IsComponentGenerationError reports whether err is or wraps a ComponentGenerationError.
func IsComponentGenerationError(err error) bool {
	var e *ComponentGenerationError
	return errors.As(err, &e)
}

func siteOrUnknown(s string) string {
	if s == "" {
		return "<unknown>"
	}
	return s
}
