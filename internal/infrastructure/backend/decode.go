package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"

	"github.com/learnscope/examprep-web/internal/core/domain"
)

var validate = validator.New()

// Decode parses body as T and validates it against T's schema tags. Arrays
// are validated element by element. Every failure wraps
// domain.ErrInvalidUpstreamResponse.
func Decode[T any](body []byte) (T, error) {
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("%w: %w", domain.ErrInvalidUpstreamResponse, err)
	}
	if err := check(reflect.ValueOf(out)); err != nil {
		return out, fmt.Errorf("%w: %w", domain.ErrInvalidUpstreamResponse, err)
	}
	return out, nil
}

func check(v reflect.Value) error {
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return errors.New("null body")
		}
		return check(v.Elem())
	case reflect.Struct:
		return validate.Struct(v.Interface())
	case reflect.Slice:
		if v.IsNil() {
			return errors.New("expected an array")
		}
		for i := 0; i < v.Len(); i++ {
			if err := check(v.Index(i)); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
		}
	}
	return nil
}
