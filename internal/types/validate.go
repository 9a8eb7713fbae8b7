package types

import (
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateResponse checks a decoded response against its `validate` tags.
// Struct pointers are validated directly and slices element by element;
// anything else passes. Violations are reported as ErrMalformedResponse.
func ValidateResponse(v interface{}) error {
	if v == nil {
		return nil
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Struct:
		return checkStruct(rv)
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			elem := rv.Index(i)
			for elem.Kind() == reflect.Ptr || elem.Kind() == reflect.Interface {
				if elem.IsNil() {
					return malformed(errors.Errorf("element %d is null", i))
				}
				elem = elem.Elem()
			}
			if elem.Kind() != reflect.Struct {
				continue
			}
			if err := checkStruct(elem); err != nil {
				return errors.Wrapf(err, "element %d", i)
			}
		}
	}

	return nil
}

func checkStruct(rv reflect.Value) error {
	// validator needs an addressable value for pointer-receiver types
	ptr := reflect.New(rv.Type())
	ptr.Elem().Set(rv)
	if err := validatorInstance().Struct(ptr.Interface()); err != nil {
		return malformed(err)
	}
	return nil
}

func malformed(cause error) error {
	return &Error{
		Code:    "MALFORMED_RESPONSE",
		Message: "malformed response: " + cause.Error(),
		Err:     ErrMalformedResponse,
	}
}
