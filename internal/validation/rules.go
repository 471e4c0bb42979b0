// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gabsakura/Projeto-siteProfissional/internal/apperr"
	"github.com/gabsakura/Projeto-siteProfissional/internal/models"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validator collects field errors through chained checks
type Validator struct {
	errors []ValidationError
}

func NewValidator() *Validator {
	return &Validator{
		errors: make([]ValidationError, 0),
	}
}

func (v *Validator) add(field, message string) *Validator {
	v.errors = append(v.errors, ValidationError{Field: field, Message: message})
	return v
}

// Required validates that a field is not blank
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "is required")
	}
	return v
}

// MinLength counts runes of the trimmed value
func (v *Validator) MinLength(field, value string, min int) *Validator {
	if utf8.RuneCountInString(strings.TrimSpace(value)) < min {
		v.add(field, fmt.Sprintf("must be at least %d characters", min))
	}
	return v
}

func (v *Validator) MaxLength(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("must be no more than %d characters", max))
	}
	return v
}

func (v *Validator) Email(field, value string) *Validator {
	if !emailPattern.MatchString(value) {
		v.add(field, "must be a valid email address")
	}
	return v
}

func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	return v.add(field, "must be one of "+strings.Join(allowed, ", "))
}

func (v *Validator) NonNegativeInt(field string, value int) *Validator {
	if value < 0 {
		v.add(field, "must not be negative")
	}
	return v
}

func (v *Validator) NonNegative(field string, value float64) *Validator {
	if value < 0 {
		v.add(field, "must not be negative")
	}
	return v
}

func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

func (v *Validator) Errors() []ValidationError {
	return v.errors
}

func (v *Validator) ErrorMessages() []string {
	messages := make([]string, len(v.errors))
	for i, err := range v.errors {
		messages[i] = err.Error()
	}
	return messages
}

// FirstError returns the first error message or empty string if no errors
func (v *Validator) FirstError() string {
	if len(v.errors) > 0 {
		return v.errors[0].Error()
	}
	return ""
}

// Err returns an apperr invalid-input error carrying every message, or nil.
func (v *Validator) Err(message string) error {
	if !v.HasErrors() {
		return nil
	}
	return apperr.Invalid(message, v.ErrorMessages()...)
}

// UserInput is the validated shape of user create/update payloads. On
// update, nil fields are left untouched.
type UserInput struct {
	Nome     *string
	Email    *string
	Password *string
	Tipo     *string
}

// ValidateUser applies the account rules. Password is mandatory on create.
func ValidateUser(in UserInput, creating bool) *Validator {
	v := NewValidator()

	if creating || in.Nome != nil {
		v.MinLength("nome", deref(in.Nome), 3).MaxLength("nome", deref(in.Nome), 120)
	}
	if creating || in.Email != nil {
		v.Email("email", deref(in.Email))
	}
	if creating || in.Password != nil {
		v.MinLength("password", deref(in.Password), 6).MaxLength("password", deref(in.Password), 72)
	}
	if creating || in.Tipo != nil {
		v.OneOf("tipo", deref(in.Tipo), models.RoleAdmin, models.RoleUser)
	}
	return v
}

// InventoryInput mirrors UserInput for inventory rows.
type InventoryInput struct {
	Item     *string
	Quantity *int
	Preco    *float64
}

func ValidateInventory(in InventoryInput, creating bool) *Validator {
	v := NewValidator()

	if creating || in.Item != nil {
		v.Required("item", deref(in.Item)).MaxLength("item", deref(in.Item), 255)
	}
	if creating && in.Quantity == nil {
		v.add("quantity", "is required")
	}
	if in.Quantity != nil {
		v.NonNegativeInt("quantity", *in.Quantity)
	}
	if in.Preco != nil {
		v.NonNegative("preco", *in.Preco)
	}
	return v
}

type CardInput struct {
	Title    *string
	Priority *string
}

func ValidateCard(in CardInput, creating bool) *Validator {
	v := NewValidator()

	if creating || in.Title != nil {
		v.Required("title", deref(in.Title)).MaxLength("title", deref(in.Title), 255)
	}
	if in.Priority != nil {
		v.OneOf("priority", *in.Priority, models.PriorityLow, models.PriorityMedium, models.PriorityHigh)
	}
	return v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
