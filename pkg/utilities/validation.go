package utilities

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

// NotBlank rejects strings made only of whitespace. Empty strings are left
// to validation.Required.
var NotBlank = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if s != "" && strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
})

// ValidationFields flattens ozzo field errors into field -> message.
func ValidationFields(err error) (map[string]string, bool) {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return nil, false
	}
	out := make(map[string]string, len(errs))
	for field, e := range errs {
		out[field] = e.Error()
	}
	return out, true
}
