package handler

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goevery/ordercast/internal/ierr"
)

var chefIdRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

type ChefIdValidator struct {
	chefIdRegex *regexp.Regexp
}

func NewChefIdValidator() *ChefIdValidator {
	return &ChefIdValidator{
		chefIdRegex: chefIdRegex,
	}
}

func (v *ChefIdValidator) Validate(chefId string) error {
	valid := v.chefIdRegex.MatchString(chefId)
	if !valid {
		return ierr.New(ierr.ErrorCodeInvalidArgument, errors.New("invalid chefId"))
	}

	return nil
}

// NewPayloadValidator returns a validator that also understands the
// "chefid" tag.
func NewPayloadValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())

	_ = validate.RegisterValidation("chefid", func(fl validator.FieldLevel) bool {
		return chefIdRegex.MatchString(fl.Field().String())
	})

	return validate
}

func validationError(prefix string, err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return ierr.New(ierr.ErrorCodeInvalidArgument, fmt.Errorf("%s: %w", prefix, err))
	}

	fields := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		fields = append(fields, fieldErr.Namespace()+" "+fieldErr.Tag())
	}

	return ierr.New(ierr.ErrorCodeInvalidArgument,
		fmt.Errorf("%s: %s", prefix, strings.Join(fields, ", ")))
}
