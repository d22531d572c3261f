// Package validation validates audit-scope documents before they reach
// the scope cache or the model builder.
//
// Validation is strict where the wire format is strict: unknown
// top-level keys are rejected at validation time, not silently
// accepted. It uses:
//   - encoding/json strict decoding for structural checks
//   - go-playground/validator for struct-level constraints
//
// # Usage Example
//
//	validator := validation.New()
//	result, err := validator.ValidateScope(jsonData)
//	if err != nil {
//	    // Handle error
//	}
//	if !result.Valid {
//	    for _, verr := range result.Errors {
//	        fmt.Printf("%s: %s\n", verr.Field, verr.Message)
//	    }
//	}
package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/cartograph-io/cartograph/models"
)

// Validator validates scope documents.
type Validator struct {
	// structValidator validates Go struct constraints and tags
	structValidator *validator.Validate
}

// ValidationError represents a single validation error with
// field-level details.
type ValidationError struct {
	// Field is the name of the field that failed validation
	Field string `json:"field"`

	// Message describes why the validation failed
	Message string `json:"message"`

	// Value is the invalid value that caused the error (optional)
	Value interface{} `json:"value,omitempty"`
}

// ValidationResult represents the complete result of a validation
// operation.
type ValidationResult struct {
	// Valid is true if validation passed, false otherwise
	Valid bool `json:"valid"`

	// Errors contains all validation errors found (empty if Valid is true)
	Errors []ValidationError `json:"errors,omitempty"`

	// Scope is the decoded spec, set only when Valid is true
	Scope *models.ScopeSpec `json:"-"`
}

// New creates a ready-to-use Validator.
func New() *Validator {
	return &Validator{
		structValidator: validator.New(),
	}
}

// ValidateScope validates a scope document. Unknown top-level keys and
// malformed selectors fail validation; a structurally empty document
// is valid and means "no restriction".
func (v *Validator) ValidateScope(data []byte) (*ValidationResult, error) {
	var spec models.ScopeSpec

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&spec); err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{
				{
					Field:   "document",
					Message: decodeMessage(err),
				},
			},
		}, nil
	}

	scopeErrors := v.validateScopeFields(&spec)

	result := &ValidationResult{
		Valid:  len(scopeErrors) == 0,
		Errors: scopeErrors,
	}
	if result.Valid {
		result.Scope = &spec
	}
	return result, nil
}

// validateScopeFields validates selector-level business rules.
func (v *Validator) validateScopeFields(spec *models.ScopeSpec) []ValidationError {
	var errors []ValidationError

	for i, ref := range spec.HostAggregates {
		errors = append(errors, validateAggregateRef(fmt.Sprintf("host_aggregates[%d]", i), ref)...)
	}
	for i, zone := range spec.AvailabilityZones {
		if zone.Name == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("availability_zones[%d].name", i),
				Message: "Zone name is required",
			})
		}
	}

	if spec.Exclude != nil {
		for i, ref := range spec.Exclude.HostAggregates {
			errors = append(errors, validateAggregateRef(fmt.Sprintf("exclude.host_aggregates[%d]", i), ref)...)
		}
		for i, inst := range spec.Exclude.Instances {
			if inst.UUID == "" {
				errors = append(errors, ValidationError{
					Field:   fmt.Sprintf("exclude.instances[%d].uuid", i),
					Message: "Instance uuid is required",
				})
			}
		}
		for i, host := range spec.Exclude.Hosts {
			if host.Name == "" {
				errors = append(errors, ValidationError{
					Field:   fmt.Sprintf("exclude.hosts[%d].name", i),
					Message: "Host name is required",
				})
			}
		}
		for i, project := range spec.Exclude.Projects {
			if project.UUID == "" && project.Name == "" {
				errors = append(errors, ValidationError{
					Field:   fmt.Sprintf("exclude.projects[%d]", i),
					Message: "Project selector needs a uuid or a name",
				})
			}
		}
		for i, selector := range spec.Exclude.InstanceMetadata {
			if len(selector) == 0 {
				errors = append(errors, ValidationError{
					Field:   fmt.Sprintf("exclude.instance_metadata[%d]", i),
					Message: "Metadata selector must not be empty",
				})
			}
		}
	}

	if err := v.structValidator.Struct(spec); err != nil {
		if fieldErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrors {
				errors = append(errors, ValidationError{
					Field:   fe.Field(),
					Message: fmt.Sprintf("Failed %s constraint", fe.Tag()),
					Value:   fe.Value(),
				})
			}
		}
	}

	return errors
}

func validateAggregateRef(field string, ref models.AggregateRef) []ValidationError {
	var errors []ValidationError
	if ref.ID == "" && ref.Name == "" {
		errors = append(errors, ValidationError{
			Field:   field,
			Message: "Aggregate selector needs an id or a name",
		})
	}
	if ref.ID != "" && ref.Name != "" {
		errors = append(errors, ValidationError{
			Field:   field,
			Message: "Aggregate selector takes either an id or a name, not both",
		})
	}
	return errors
}

// decodeMessage turns a strict-decoding error into a field-level
// message.
func decodeMessage(err error) string {
	msg := err.Error()
	if idx := strings.Index(msg, "unknown field"); idx >= 0 {
		return fmt.Sprintf("Unknown key in scope document: %s", msg[idx+len("unknown field "):])
	}
	return fmt.Sprintf("Invalid JSON: %v", err)
}
