package goSession

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// newValidate builds the shared payload validator. Field names reported in
// errors follow the json tag, so client-side failures bind to the same keys
// the server envelope uses.
func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// validatePayload runs pre-flight validation and converts failures into the
// envelope's field-error shape. A nil return means the payload may go to the
// network.
func (c *Client) validatePayload(payload interface{}) FieldErrors {
	err := c.validate.Struct(payload)
	if err == nil {
		return nil
	}

	invalid, ok := err.(validator.ValidationErrors)
	if !ok {
		return FieldErrors{NonFieldErrors: []string{"Invalid input."}}
	}

	out := make(FieldErrors, len(invalid))
	for _, fe := range invalid {
		out.Add(fe.Field(), validationMessage(fe))
	}

	c.metricInc(MetricValidationRejected)
	return out
}

// validationMessage mirrors the server's serializer wording so a client-side
// rejection reads the same as a round-tripped one.
func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "eqfield":
		return "Passwords do not match."
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	default:
		return "Invalid value."
	}
}
