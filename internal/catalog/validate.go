package catalog

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"profitdash/internal/profit"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func lineValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Validate checks struct constraints and the cost table invariants of line.
func Validate(line profit.ProductLine) error {
	if err := lineValidator().Struct(line); err != nil {
		return fmt.Errorf("invalid product line %q: %w", line.Name, err)
	}
	return line.Check()
}
