package ripple

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/zoobzio/capitan"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Validate checks each successful value against its `validate` struct tags.
// Values that fail become failures and emit ValidateFailed; upstream
// failures pass through unchanged. T must be a struct or pointer to struct.
//
// Example:
//
//	type Config struct {
//	    Port int `yaml:"port" validate:"min=1,max=65535"`
//	}
//
//	configs := ripple.Validate(ripple.Decode[Config](raw, ripple.YAMLCodec{}))
func Validate[T any](o Observable[Result[T]]) Observable[Result[T]] {
	return Map(o, func(r Result[T]) Result[T] {
		v, err := r.Get()
		if err != nil {
			return r
		}
		if err := structValidator().Struct(v); err != nil {
			capitan.Emit(context.Background(), ValidateFailed,
				KeyError.Field(err.Error()),
			)
			return Failure[T](fmt.Errorf("validation failed: %w", err))
		}
		return r
	})
}
