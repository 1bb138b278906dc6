package storage

import (
	"context"
	"errors"
)

// Collection keys. Each holds one JSON array, except OrderNumbersKey which
// is a newline-delimited log of order ids.
const (
	UsersKey          = "user_database"
	AdminsKey         = "admin_database"
	ProductsKey       = "product_database"
	OrdersKey         = "orders_database"
	OrderNumbersKey   = "order_number_database"
	PaymentMethodsKey = "payment_methods_database"
)

var ErrClosed = errors.New("storage closed")

// KV is a durable string-keyed blob store. Get reports ok=false for a key
// that was never written.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}
