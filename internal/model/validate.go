package model

import (
	"strings"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

func (e *ValidationError) add(field, msg string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: msg})
}

// ValidateAgent checks an agent create request before it is posted.
func ValidateAgent(r *CreateAgentRequest) error {
	var ve ValidationError
	if strings.TrimSpace(r.Name) == "" {
		ve.add("name", "is required")
	}
	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidateScript checks a script create request before it is posted.
func ValidateScript(r *CreateScriptRequest) error {
	var ve ValidationError
	if strings.TrimSpace(r.Name) == "" {
		ve.add("name", "is required")
	}
	if strings.TrimSpace(r.Path) == "" {
		ve.add("path", "is required")
	}
	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidateJob checks a job create request before it is posted. Both fields
// are optional; script_id must be positive when present.
func ValidateJob(r *CreateJobRequest) error {
	var ve ValidationError
	if r.ScriptID != nil && *r.ScriptID <= 0 {
		ve.add("script_id", "must be a positive number")
	}
	if ve.HasErrors() {
		return &ve
	}
	return nil
}
