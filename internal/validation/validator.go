// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/tomtom215/fashintel/internal/models"
	"github.com/tomtom215/fashintel/internal/recommend"
)

// CodeValidation is the API error code for rejected request bodies.
const CodeValidation = "VALIDATION_ERROR"

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is one failed rule. Field is the JSON name when the struct
// field has a json tag, so messages match what the client sent.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Value   interface{}
	Message string
}

func (e FieldError) Error() string { return e.Message }

// RequestValidationError collects every failed rule of one request.
type RequestValidationError struct {
	errs []FieldError
}

// Errors returns the failed rules in struct field order.
func (ve *RequestValidationError) Errors() []FieldError {
	return ve.errs
}

func (ve *RequestValidationError) Error() string {
	if len(ve.errs) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(ve.errs))
	for i, e := range ve.errs {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// ToAPIError shapes the failure as a VALIDATION_ERROR body. One failure is
// reported with its field and tag; several are listed under "fields".
func (ve *RequestValidationError) ToAPIError() *models.APIError {
	switch len(ve.errs) {
	case 0:
		return &models.APIError{Code: CodeValidation, Message: "Validation failed"}
	case 1:
		e := ve.errs[0]
		return &models.APIError{
			Code:    CodeValidation,
			Message: e.Message,
			Details: map[string]interface{}{"field": e.Field, "tag": e.Tag, "value": e.Value},
		}
	}

	fields := make([]map[string]interface{}, len(ve.errs))
	msgs := make([]string, len(ve.errs))
	for i, e := range ve.errs {
		fields[i] = map[string]interface{}{"field": e.Field, "tag": e.Tag, "message": e.Message}
		msgs[i] = e.Field + ": " + e.Message
	}
	return &models.APIError{
		Code:    CodeValidation,
		Message: strings.Join(msgs, "; "),
		Details: map[string]interface{}{"fields": fields},
	}
}

// GetValidator returns the shared validator with the catalog tags
// registered.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonFieldName)
		// Registration only fails for an empty tag or a nil func.
		_ = v.RegisterValidation("interaction_type", validInteractionType)
		_ = v.RegisterValidation("product_id", validProductID)
		validate = v
	})
	return validate
}

// ValidateStruct returns nil when s passes every rule.
func ValidateStruct(s interface{}) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// InvalidValidationError: s was nil or not a struct.
		return &RequestValidationError{errs: []FieldError{{Field: "body", Tag: "struct", Message: err.Error()}}}
	}

	out := make([]FieldError, len(fieldErrs))
	for i, fe := range fieldErrs {
		out[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Value:   fe.Value(),
			Message: message(fe),
		}
	}
	return &RequestValidationError{errs: out}
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

func message(fe validator.FieldError) string {
	field, param := fe.Field(), fe.Param()
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "interaction_type":
		return field + " must be one of: " + interactionTypeList()
	case "product_id":
		return field + " must be a valid product id"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

func validInteractionType(fl validator.FieldLevel) bool {
	return recommend.InteractionType(fl.Field().String()).Valid()
}

// validProductID accepts dataset ids: non-blank, no control characters,
// no path separators.
func validProductID(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	if strings.TrimSpace(id) == "" {
		return false
	}
	return !strings.ContainsFunc(id, func(r rune) bool {
		return r < 0x20 || r == 0x7f || r == '/' || r == '\\'
	})
}

func interactionTypeList() string {
	names := make([]string, len(recommend.InteractionTypes))
	for i, t := range recommend.InteractionTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
