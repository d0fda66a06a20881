package utils

import (
	"fmt"
	"sync"

	"freight-dispatch/internal/models"

	"github.com/go-playground/validator/v10"
)

// RequestValidator wraps a single validator instance shared by all handlers.
type RequestValidator struct {
	validate *validator.Validate
}

var (
	validatorOnce sync.Once
	requestValidator *RequestValidator
)

// GetValidator returns the process-wide request validator.
func GetValidator() *RequestValidator {
	validatorOnce.Do(func() {
		requestValidator = &RequestValidator{validate: validator.New()}
	})
	return requestValidator
}

// Validate checks struct tags and maps failures onto the validation error
// class so callers surface them as 400s.
func (v *RequestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return fmt.Errorf("%w: %s", models.ErrValidation, err.Error())
	}
	return nil
}
