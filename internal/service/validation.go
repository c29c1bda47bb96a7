package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/noah-isme/centerkech-api/pkg/errors"
)

// NewValidator returns a validator reporting fields by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// fieldMessages overrides the message for a failed rule, keyed by "field.tag".
type fieldMessages map[string]string

// validationError turns validator output into an InvalidArgument error. Missing fields
// share requiredMsg; other failures describe the first offending field.
func validationError(err error, requiredMsg string) *appErrors.Error {
	return validationErrorWith(err, requiredMsg, nil)
}

func validationErrorWith(err error, requiredMsg string, messages fieldMessages) *appErrors.Error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return appErrors.Wrap(err, appErrors.ErrInvalidArgument.Code, appErrors.ErrInvalidArgument.Status, requiredMsg)
	}
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			return appErrors.Wrap(err, appErrors.ErrInvalidArgument.Code, appErrors.ErrInvalidArgument.Status, requiredMsg)
		}
	}
	first := fieldErrs[0]
	if msg, ok := messages[first.Field()+"."+first.Tag()]; ok {
		return appErrors.Wrap(err, appErrors.ErrInvalidArgument.Code, appErrors.ErrInvalidArgument.Status, msg)
	}
	return appErrors.Wrap(err, appErrors.ErrInvalidArgument.Code, appErrors.ErrInvalidArgument.Status, describeField(first))
}

func describeField(fe validator.FieldError) string {
	switch fe.Tag() {
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

func invalidArgument(message string) *appErrors.Error {
	return appErrors.Clone(appErrors.ErrInvalidArgument, message)
}

func notFound(message string) *appErrors.Error {
	return appErrors.Clone(appErrors.ErrNotFound, message)
}
