package services

import (
	"fmt"
	"unicode/utf8"

	"github.com/dmitrijs2005/gotodo/internal/common"
)

// field is one user-supplied value with its column limit in characters.
type field struct {
	name  string
	value string
	max   int
}

// checkFields rejects the first blank or over-long field with ErrorValidation.
func checkFields(fields ...field) error {
	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("%w: %s is required", common.ErrorValidation, f.name)
		}
		if utf8.RuneCountInString(f.value) > f.max {
			return fmt.Errorf("%w: %s must be at most %d characters", common.ErrorValidation, f.name, f.max)
		}
	}
	return nil
}
