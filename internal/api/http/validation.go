package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"appliance-rental-backend/internal/domain"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their json names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeJSON reads the request body into dst and runs its validate tags.
// An empty body is accepted for requests whose fields are all optional.
func decodeJSON(r *http.Request, dst interface{}) error {
	if r.Body != nil && r.ContentLength != 0 {
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: invalid request body: %v", domain.ErrInvalidInput, err)
		}
	}
	return validateRequest(dst)
}

func validateRequest(dto interface{}) error {
	err := validate.Struct(dto)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	var messages []string
	for _, e := range validationErrors {
		switch e.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("field %s is required", e.Field()))
		case "oneof":
			messages = append(messages, fmt.Sprintf("field %s must be one of: %s", e.Field(), e.Param()))
		case "email":
			messages = append(messages, fmt.Sprintf("field %s must be a valid email", e.Field()))
		case "datetime":
			messages = append(messages, fmt.Sprintf("field %s must be a date in format %s", e.Field(), e.Param()))
		case "max":
			messages = append(messages, fmt.Sprintf("field %s must be at most %s", e.Field(), e.Param()))
		default:
			messages = append(messages, fmt.Sprintf("field %s failed %s", e.Field(), e.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(messages, "; "))
}
