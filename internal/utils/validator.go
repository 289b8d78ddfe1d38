package utils

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hr-training/quiz-service/internal/models"
)

// Validator wraps struct-tag validation plus the business rules that tags
// cannot express.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()
	registerCustomValidators(v)
	return &Validator{validate: v}
}

// Validate checks struct tags only.
func (v *Validator) Validate(s interface{}) error {
	return v.validate.Struct(s)
}

// ValidateQuestion runs struct-tag validation and then the question business
// rules: options must be case-insensitively unique and the correct index must
// address an existing option.
func (v *Validator) ValidateQuestion(q *models.Question) error {
	if err := v.validate.Struct(q); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(q.Options))
	for _, opt := range q.Options {
		key := strings.ToLower(strings.TrimSpace(opt))
		if key == "" {
			return fmt.Errorf("answer options must not be blank")
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("answer options must be unique: %q appears more than once", opt)
		}
		seen[key] = struct{}{}
	}

	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return fmt.Errorf("correct index %d out of range for %d options", q.CorrectIndex, len(q.Options))
	}
	return nil
}

func registerCustomValidators(v *validator.Validate) {
	v.RegisterValidation("question_category", func(fl validator.FieldLevel) bool {
		return models.Category(fl.Field().String()).IsValid()
	})
	v.RegisterValidation("category_filter", func(fl validator.FieldLevel) bool {
		return models.CategoryFilter(fl.Field().String()).IsValid()
	})

	// Report field names as their json tags for readable error messages.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}
