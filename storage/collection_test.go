package storage

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"spicymarket/models"
)

func TestDecodeProducts_MigratesDisplayPrices(t *testing.T) {
	c, err := newCollection(ProductsKey, "product.json", migrateProduct)
	require.NoError(t, err)

	raw := []byte(`[
		{"id": 1, "name": "Wireless Bluetooth Headphones", "price": "$89.99", "rating": 4.5, "reviewCount": 188, "imageUrl": "x"},
		{"id": 2, "name": "Camera", "price": "$1,299.00"},
		{"id": 3, "name": "Lamp", "price": 45}
	]`)
	products := decode[models.Product](c, raw, true, zap.NewNop())
	require.Len(t, products, 3)
	assert.True(t, decimal.RequireFromString("89.99").Equal(products[0].Price))
	assert.True(t, decimal.RequireFromString("1299").Equal(products[1].Price))
	assert.True(t, decimal.NewFromInt(45).Equal(products[2].Price))
	assert.Equal(t, 188, products[0].ReviewCount)
}

func TestDecode_DropsInvalidRecords(t *testing.T) {
	c, err := newCollection(ProductsKey, "product.json", migrateProduct)
	require.NoError(t, err)
	core, logs := observer.New(zap.WarnLevel)

	raw := []byte(`[
		{"id": 1, "name": "ok", "price": "1.00"},
		{"id": 2, "name": "", "price": "1.00"},
		{"id": 3, "name": "free", "price": "free"},
		{"name": "no id", "price": 1},
		"not an object",
		{"id": 4, "name": "negative", "price": -2}
	]`)
	products := decode[models.Product](c, raw, true, zap.New(core))
	require.Len(t, products, 1)
	assert.EqualValues(t, 1, products[0].ID)
	assert.Equal(t, 5, logs.FilterMessage("dropping invalid record").Len())
}

func TestDecode_MissingOrEmpty(t *testing.T) {
	c, err := newCollection(UsersKey, "user.json", nil)
	require.NoError(t, err)

	assert.Empty(t, decode[models.User](c, nil, false, zap.NewNop()))
	assert.Empty(t, decode[models.User](c, []byte("  "), true, zap.NewNop()))
	assert.Empty(t, decode[models.User](c, []byte(`{"username":"x"}`), true, zap.NewNop()))
}

func TestDecodeUsers_RequiresHash(t *testing.T) {
	c, err := newCollection(UsersKey, "user.json", nil)
	require.NoError(t, err)

	// plaintext records from older data carry no hash and are not trusted
	raw := []byte(`[
		{"username": "1", "password": "1", "timestamp": "2024-05-01T10:00:00.000Z"},
		{"username": "amira", "passwordHash": "$2a$10$abc", "role": "user", "timestamp": "2024-05-01T10:00:00.000Z"}
	]`)
	users := decode[models.User](c, raw, true, zap.NewNop())
	require.Len(t, users, 1)
	assert.Equal(t, "amira", users[0].Username)
	assert.Equal(t, 2024, users[0].CreatedAt.Year())
}

func TestDecodeOrders_MigratesNestedPrices(t *testing.T) {
	c, err := newCollection(OrdersKey, "order.json", migrateOrder)
	require.NoError(t, err)

	raw := []byte(`[{
		"orderId": 1717000000000,
		"items": [{"product": {"id": 1, "name": "Headphones", "price": "$89.99"}, "quantity": 2}],
		"total": 179.98,
		"date": "2024-05-29T16:26:40.000Z",
		"username": "1",
		"paymentStatus": "Unpaid",
		"paymentMethod": null,
		"transactionId": null
	}]`)
	orders := decode[models.Order](c, raw, true, zap.NewNop())
	require.Len(t, orders, 1)
	o := orders[0]
	assert.EqualValues(t, 1717000000000, o.ID)
	assert.True(t, decimal.RequireFromString("179.98").Equal(o.Total))
	assert.True(t, decimal.RequireFromString("89.99").Equal(o.Items[0].Product.Price))
	assert.Nil(t, o.PaymentMethod)
	assert.Equal(t, models.PaymentUnpaid, o.PaymentStatus)
}

func TestEncode_NilIsEmptyArray(t *testing.T) {
	b, err := encode[models.Product](nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))
}

func TestOrderNumbers(t *testing.T) {
	assert.Empty(t, orderNumbers(nil))
	assert.Equal(t, []string{"1", "2"}, orderNumbers([]byte("1\n \n2\n")))
}
