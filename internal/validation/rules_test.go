package validation

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/gabsakura/Projeto-siteProfissional/internal/apperr"
)

func ptr[T any](v T) *T { return &v }

func TestValidationError(t *testing.T) {
	c := qt.New(t)

	err := ValidationError{Field: "email", Message: "is required"}
	c.Assert(err.Error(), qt.Equals, "email: is required")
}

func TestValidatorRequired(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		hasError bool
	}{
		{"non-empty", "Widget", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"tab and newline", "\t\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			v := NewValidator().Required("item", tt.value)
			c.Assert(v.HasErrors(), qt.Equals, tt.hasError)
		})
	}
}

func TestValidatorEmail(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"ana@empresa.com", true},
		{"a.b+c@sub.domain.org", true},
		{"sem-arroba.com", false},
		{"ana@semponto", false},
		{"ana @empresa.com", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			c := qt.New(t)
			v := NewValidator().Email("email", tt.value)
			c.Assert(v.HasErrors(), qt.Equals, !tt.valid)
		})
	}
}

func TestMinLengthCountsRunes(t *testing.T) {
	c := qt.New(t)

	c.Assert(NewValidator().MinLength("nome", "Zé", 3).HasErrors(), qt.IsTrue)
	c.Assert(NewValidator().MinLength("nome", "Joã", 3).HasErrors(), qt.IsFalse)
	c.Assert(NewValidator().MinLength("nome", "  Jo  ", 3).HasErrors(), qt.IsTrue)
}

func TestValidateUserCreate(t *testing.T) {
	c := qt.New(t)

	v := ValidateUser(UserInput{
		Nome:     ptr("Maria"),
		Email:    ptr("maria@empresa.com"),
		Password: ptr("segredo"),
		Tipo:     ptr("user"),
	}, true)
	c.Assert(v.HasErrors(), qt.IsFalse)

	v = ValidateUser(UserInput{
		Nome:     ptr("Jo"),
		Email:    ptr("invalido"),
		Password: ptr("123"),
		Tipo:     ptr("root"),
	}, true)
	c.Assert(v.Errors(), qt.HasLen, 4)

	v = ValidateUser(UserInput{}, true)
	c.Assert(v.HasErrors(), qt.IsTrue)
}

func TestValidateUserUpdateOnlyChecksProvidedFields(t *testing.T) {
	c := qt.New(t)

	c.Assert(ValidateUser(UserInput{Tipo: ptr("admin")}, false).HasErrors(), qt.IsFalse)
	c.Assert(ValidateUser(UserInput{Password: ptr("12345")}, false).FirstError(), qt.Equals, "password: must be at least 6 characters")
}

func TestValidateInventory(t *testing.T) {
	c := qt.New(t)

	c.Assert(ValidateInventory(InventoryInput{Item: ptr("Widget"), Quantity: ptr(10), Preco: ptr(2.5)}, true).HasErrors(), qt.IsFalse)
	c.Assert(ValidateInventory(InventoryInput{Item: ptr(""), Quantity: ptr(1)}, true).FirstError(), qt.Equals, "item: is required")
	c.Assert(ValidateInventory(InventoryInput{Item: ptr("Widget")}, true).FirstError(), qt.Equals, "quantity: is required")
	c.Assert(ValidateInventory(InventoryInput{Quantity: ptr(-1)}, false).FirstError(), qt.Equals, "quantity: must not be negative")
	c.Assert(ValidateInventory(InventoryInput{Preco: ptr(-0.01)}, false).HasErrors(), qt.IsTrue)
	c.Assert(ValidateInventory(InventoryInput{Quantity: ptr(5)}, false).HasErrors(), qt.IsFalse)
}

func TestValidateCard(t *testing.T) {
	c := qt.New(t)

	c.Assert(ValidateCard(CardInput{Title: ptr("Ligar para fornecedor"), Priority: ptr("high")}, true).HasErrors(), qt.IsFalse)
	c.Assert(ValidateCard(CardInput{Priority: ptr("urgent")}, false).HasErrors(), qt.IsTrue)
	c.Assert(ValidateCard(CardInput{}, true).HasErrors(), qt.IsTrue)
}

func TestErrWrapsInvalidInput(t *testing.T) {
	c := qt.New(t)

	c.Assert(NewValidator().Err("x"), qt.IsNil)

	err := NewValidator().Required("item", "").Err("invalid inventory item")
	c.Assert(errors.Is(err, apperr.ErrInvalidInput), qt.IsTrue)
	c.Assert(apperr.Details(err), qt.DeepEquals, []string{"item: is required"})
}
