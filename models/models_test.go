package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	cases := map[string]string{
		"$89.99":   "89.99",
		"159.50":   "159.5",
		" $1,299 ": "1299",
		"0":        "0",
	}
	for in, want := range cases {
		got, err := ParsePrice(in)
		require.NoError(t, err, in)
		assert.True(t, decimal.RequireFromString(want).Equal(got), "%s -> %s", in, got)
	}

	_, err := ParsePrice("free")
	assert.Error(t, err)
	_, err = ParsePrice("-3")
	assert.Error(t, err)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$65.00", FormatPrice(decimal.NewFromInt(65)))
	assert.Equal(t, "$0.30", FormatPrice(decimal.RequireFromString("0.1").Add(decimal.RequireFromString("0.2"))))
}

func TestCartLineSubtotal(t *testing.T) {
	line := CartLine{
		Product:  Product{ID: 1, Price: decimal.RequireFromString("25.99")},
		Quantity: 3,
	}
	assert.True(t, decimal.RequireFromString("77.97").Equal(line.Subtotal()))
}

func TestUserProfileOmitsHash(t *testing.T) {
	u := User{Username: "amira", PasswordHash: "secret-hash", Role: RoleUser, DisplayName: "Amira"}
	p := u.Profile()
	assert.Equal(t, "amira", p.Username)
	assert.Equal(t, "Amira", p.DisplayName)
}
