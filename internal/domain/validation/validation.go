package validation

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/yungbote/academy-backend/internal/pkg/errors"
)

var (
	once sync.Once
	v    *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
	})
	return v
}

// Struct checks the `validate` tags of s. Failures wrap ErrInvalidArgument.
func Struct(s any) error {
	if err := instance().Struct(s); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err)
	}
	return nil
}
