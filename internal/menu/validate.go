package menu

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks a snapshot before a chef shares it. The server stores any
// JSON object, so this is the only place the menu shape is enforced.
func (s Snapshot) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	fields := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		fields = append(fields, fieldErr.Namespace()+" "+fieldErr.Tag())
	}

	return fmt.Errorf("invalid menu: %s", strings.Join(fields, ", "))
}
