// Package web defines common components for a web application.
package web

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// JSONError provides type for explicit json encoded error response.
type JSONError struct {
	Error string `json:"error"`
}

// Error wraps a given err into json friendly struct.
func Error(err error) JSONError {
	return JSONError{Error: err.Error()}
}

// Response holds the common success response type for all APIs.
type Response struct {
	Data any `json:"data,omitempty"`
}

// BindError converts a request binding error into a short message that names the offending field.
//
// Decoder errors are replaced by a generic message so no parser internals leak to the client.
func BindError(err error) JSONError {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return JSONError{Error: fieldMessage(ve[0])}
	}

	return JSONError{Error: "invalid input"}
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("missing field: %s", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
	case "amount":
		return fmt.Sprintf("%s must be a non-negative amount with at most two decimal places", field)
	case "numeric", "len", "len=11|len=14":
		return fmt.Sprintf("%s has an invalid format", field)
	}

	return fmt.Sprintf("invalid field: %s", field)
}

// JSONTagName reports the json name of a struct field so validation messages match the request body.
func JSONTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}

	if name == "" {
		return fld.Name
	}

	return name
}
