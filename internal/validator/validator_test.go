package validator

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestRegister(t *testing.T) {
	assert.NoError(t, Register("Taro", "Yamada", "taro@example.com", "secret"))

	err := Register("Ta", "Yamada", "bad-email", "12345")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	var fes Errors
	require.True(t, errors.As(err, &fes))
	fields := []string{}
	for _, fe := range fes {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"firstName", "email", "password"}, fields)
}

func TestLogin(t *testing.T) {
	assert.NoError(t, Login("a@b.co", "x"))
	assert.ErrorIs(t, Login("a@b", "x"), ErrInvalidInput)
	assert.ErrorIs(t, Login("a@b.co", ""), ErrInvalidInput)
}

func TestIsPrice(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"10", true},
		{"10.5", true},
		{"10.55", true},
		{"10.555", false},
		{"0", false},
		{"-1.00", false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, IsPrice(decimal.RequireFromString(tc.in)))
		})
	}
}

func TestProductCreate(t *testing.T) {
	ok := ProductFields{
		SKU:        ptr("SKU-1"),
		Name:       ptr("Mouse"),
		Price:      ptr(decimal.RequireFromString("9.99")),
		StockLevel: ptr(int64(0)),
		CategoryID: ptr(int64(1)),
	}
	assert.NoError(t, ProductCreate(ok))

	missing := ok
	missing.CategoryID = nil
	assert.ErrorIs(t, ProductCreate(missing), ErrInvalidInput)

	negative := ok
	negative.StockLevel = ptr(int64(-1))
	assert.ErrorIs(t, ProductCreate(negative), ErrInvalidInput)

	shortSKU := ok
	shortSKU.SKU = ptr("ab")
	assert.ErrorIs(t, ProductCreate(shortSKU), ErrInvalidInput)
}

func TestProductUpdate(t *testing.T) {
	assert.ErrorIs(t, ProductUpdate(ProductFields{}), ErrInvalidInput)
	assert.NoError(t, ProductUpdate(ProductFields{StockLevel: ptr(int64(3))}))
	assert.ErrorIs(t, ProductUpdate(ProductFields{Price: ptr(decimal.RequireFromString("1.001"))}), ErrInvalidInput)
}

func TestCartItem(t *testing.T) {
	assert.NoError(t, CartItem(1, 1))
	assert.ErrorIs(t, CartItem(0, 1), ErrInvalidInput)
	assert.ErrorIs(t, CartItem(1, 0), ErrInvalidInput)
	assert.ErrorIs(t, CartItem(1, -2), ErrInvalidInput)
}

func TestPage(t *testing.T) {
	assert.NoError(t, Page(1, 10))
	assert.ErrorIs(t, Page(0, 10), ErrInvalidInput)
	assert.ErrorIs(t, Page(1, 101), ErrInvalidInput)
}
