package entity

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Publisher describes a data feed source offered to Citygram subscribers.
// Identity is the store-assigned ID; no other field is unique, so two
// publishers may share a title.
type Publisher struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title" validate:"notblank"`
	Endpoint    string    `json:"endpoint"`
	Active      bool      `json:"active"`
	Visible     bool      `json:"visible"`
	City        string    `json:"city" validate:"notblank"`
	State       string    `json:"state" validate:"len=2,alpha"`
	Icon        string    `json:"icon,omitempty"`
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		panic(fmt.Sprintf("entity: register notblank validation: %v", err))
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the required fields and their shapes.
// It returns a *ValidationError for the first field that fails.
func (p *Publisher) Validate() error {
	if err := validate.Struct(p); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return toValidationError(fieldErrs[0])
		}
		return fmt.Errorf("validate publisher: %w", err)
	}
	if err := ValidateURL("endpoint", p.Endpoint); err != nil {
		return err
	}
	for i, tag := range p.Tags {
		if strings.TrimSpace(tag) == "" {
			return &ValidationError{Field: fmt.Sprintf("tags[%d]", i), Message: "must not be blank"}
		}
	}
	return nil
}

func toValidationError(fe validator.FieldError) *ValidationError {
	var msg string
	switch fe.Tag() {
	case "notblank", "required":
		msg = "is required"
	case "len":
		if fe.Value() == "" {
			msg = "is required"
		} else {
			msg = fmt.Sprintf("must be exactly %s characters", fe.Param())
		}
	case "alpha":
		msg = "must contain only letters"
	default:
		msg = fmt.Sprintf("failed %q check", fe.Tag())
	}
	return &ValidationError{Field: fe.Field(), Message: msg}
}
